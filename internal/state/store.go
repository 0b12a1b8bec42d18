// Package state owns the in-memory world model (component D, §4.D):
// snakes, food, prey, sectors, leaderboard, minimap, and the session
// constants, plus the transactional mutators the parse package drives.
// On multi-threaded runtimes a single mutex serializes all access, per
// spec.md §5 — contention is low because every mutator is short and
// every read happens from the same ingress/render loop pairing.
package state

import "sync"

// Store is the single source of truth read by the external renderer.
type Store struct {
	mu sync.Mutex

	snakes map[SnakeID]*Snake
	food   map[FoodKey]Food
	prey   map[PreyID]*Prey
	sectors map[Sector]struct{}

	leaderboard Leaderboard
	minimap     Minimap
	consts      SessionConstants

	ownSnakeID   SnakeID
	ownSnakeSet  bool
	ownSnakeDead bool

	totalKillsRaw        uint32
	lastKillerSnakeID    SnakeID
	globalHighscoreCount int
}

// NewStore creates an empty world model.
func NewStore() *Store {
	return &Store{
		snakes:  make(map[SnakeID]*Snake),
		food:    make(map[FoodKey]Food),
		prey:    make(map[PreyID]*Prey),
		sectors: make(map[Sector]struct{}),
	}
}

// ---------------------------------------------------------------------
// Snakes
// ---------------------------------------------------------------------

// AddOrUpdateSnake inserts or replaces the full descriptor for id.
// Own-snake adoption is a separate step: the caller (parse.
// snakeFullDescriptor) consults a parse.OwnSnakeDetector and then
// calls AdoptOwnSnake explicitly, so the first-snake heuristic of §9
// stays swappable without touching the store.
func (s *Store) AddOrUpdateSnake(snake *Snake) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snakes[snake.ID] = snake
}

// AdoptOwnSnake freezes id as the own-snake id if one hasn't been set
// yet. It is a no-op once set, matching the invariant that own_snake_id
// is never rewritten during a life.
func (s *Store) AdoptOwnSnake(id SnakeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ownSnakeSet {
		s.ownSnakeID = id
		s.ownSnakeSet = true
		s.ownSnakeDead = false
	}
}

// OwnSnakeID returns the frozen own-snake id, if any has been captured.
func (s *Store) OwnSnakeID() (SnakeID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownSnakeID, s.ownSnakeSet
}

// ResetOwnSnake clears the own-snake id, for use when a new life begins
// after death (outside the scope of a single life's invariant).
func (s *Store) ResetOwnSnake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ownSnakeSet = false
	s.ownSnakeDead = false
}

// RemoveSnake deletes a snake by id (leave-range or death status 0/1).
func (s *Store) RemoveSnake(id SnakeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snakes, id)
	if s.ownSnakeSet && id == s.ownSnakeID {
		s.ownSnakeDead = true
	}
}

// Snake returns a copy of the pointer to the live snake, if present.
func (s *Store) Snake(id SnakeID) (*Snake, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, ok := s.snakes[id]
	return sn, ok
}

// OwnSnakeDead reports whether the frozen own-snake id has received a
// death/leave-range notification.
func (s *Store) OwnSnakeDead() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ownSnakeDead
}

// AppendHead appends a new head segment to an existing snake's body.
// Returns false (InvariantViolation, dropped by the caller) if the
// snake is unknown.
func (s *Store) AppendHead(id SnakeID, v Vec2) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, ok := s.snakes[id]
	if !ok {
		return false
	}
	sn.Body.AppendHead(v)
	return true
}

// PopTail removes the oldest body segment from an existing snake.
// Returns false if the snake is unknown or has no body.
func (s *Store) PopTail(id SnakeID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, ok := s.snakes[id]
	if !ok {
		return false
	}
	_, ok = sn.Body.PopTail()
	return ok
}

// HeadOf returns the current head position of a snake, if known.
func (s *Store) HeadOf(id SnakeID) (Vec2, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, ok := s.snakes[id]
	if !ok {
		return Vec2{}, false
	}
	return sn.Body.Head()
}

// SetFam updates a snake's fullness. Returns false if unknown.
func (s *Store) SetFam(id SnakeID, fam float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, ok := s.snakes[id]
	if !ok {
		return false
	}
	sn.Fam = clamp01(fam)
	return true
}

// RotationUpdate carries the optional fields a rotation opcode may set
// (§4.E); nil fields retain their prior value.
type RotationUpdate struct {
	Ang  *float64
	WAng *float64
	Sp   *float64
}

// SetRotation applies a partial rotation update. Returns false if the
// snake is unknown.
func (s *Store) SetRotation(id SnakeID, u RotationUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sn, ok := s.snakes[id]
	if !ok {
		return false
	}
	if u.Ang != nil {
		sn.Ang = *u.Ang
	}
	if u.WAng != nil {
		sn.WAng = *u.WAng
	}
	if u.Sp != nil {
		sn.Speed = *u.Sp
	}
	return true
}

// ---------------------------------------------------------------------
// Food
// ---------------------------------------------------------------------

// AddFoodBatch inserts a batch of food items, overwriting any existing
// entries at the same key.
func (s *Store) AddFoodBatch(items []Food) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range items {
		s.food[FoodKey{X: f.X, Y: f.Y}] = f
	}
}

// RemoveFood deletes the food at (x, y). It is a no-op (not an error)
// if the key is unknown, per §3's invariant on eat-food.
func (s *Store) RemoveFood(x, y uint16) (Food, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := FoodKey{X: x, Y: y}
	f, ok := s.food[k]
	if ok {
		delete(s.food, k)
	}
	return f, ok
}

// FoodCount reports the number of food items currently tracked.
func (s *Store) FoodCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.food)
}

// Foods returns a snapshot copy of all tracked food, for the renderer.
func (s *Store) Foods() []Food {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Food, 0, len(s.food))
	for _, f := range s.food {
		out = append(out, f)
	}
	return out
}

// ---------------------------------------------------------------------
// Prey
// ---------------------------------------------------------------------

// UpsertPrey inserts or replaces a prey entity.
func (s *Store) UpsertPrey(p *Prey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prey[p.ID] = p
}

// UpdatePreyDelta applies a relative position update to an existing
// prey, per the 'j' opcode. Returns false if unknown.
func (s *Store) UpdatePreyDelta(id PreyID, dx, dy float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prey[id]
	if !ok {
		return false
	}
	p.X += dx
	p.Y += dy
	return true
}

// RemovePrey deletes a prey by id (left-range or eaten).
func (s *Store) RemovePrey(id PreyID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.prey, id)
}

// ---------------------------------------------------------------------
// Sectors
// ---------------------------------------------------------------------

// AddSector marks a sector as in-range.
func (s *Store) AddSector(sec Sector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sectors[sec] = struct{}{}
}

// RemoveSector drops a sector from the in-range set.
func (s *Store) RemoveSector(sec Sector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sectors, sec)
}

// ---------------------------------------------------------------------
// Leaderboard / minimap / session constants
// ---------------------------------------------------------------------

// SetLeaderboard replaces the leaderboard snapshot. Entries beyond 10
// are truncated to preserve the §3 invariant.
func (s *Store) SetLeaderboard(lb Leaderboard) {
	if len(lb.Entries) > 10 {
		lb.Entries = lb.Entries[:10]
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaderboard = lb
}

// Leaderboard returns a copy of the current leaderboard snapshot.
func (s *Store) Leaderboard() Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.leaderboard
}

// SetMinimapBit sets minimap bit i (row-major) to v.
func (s *Store) SetMinimapBit(i int, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.minimap.Set(i, v)
}

// MinimapAt reads minimap bit (x, y).
func (s *Store) MinimapAt(x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minimap.At(x, y)
}

// SetSessionConstants records the session tuning parameters from the
// initial-setup opcode.
func (s *Store) SetSessionConstants(c SessionConstants) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consts = c
}

// SessionConstants returns a copy of the session tuning parameters.
func (s *Store) SessionConstants() SessionConstants {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consts
}

// ---------------------------------------------------------------------
// Observational counters (kill / global highscore)
// ---------------------------------------------------------------------

// RecordKill stores the killer id and the raw (unscaled) total-kills
// field from a kill opcode. No normalized (/16777215) form is stored,
// and the store has no accessor for either recorded value.
func (s *Store) RecordKill(killer SnakeID, totalKillsRaw uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastKillerSnakeID = killer
	s.totalKillsRaw = totalKillsRaw
}

// RecordGlobalHighscore increments the observational global-highscore
// event counter.
func (s *Store) RecordGlobalHighscore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.globalHighscoreCount++
}

// GlobalHighscoreCount reports how many 'm' events have been observed.
func (s *Store) GlobalHighscoreCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.globalHighscoreCount
}

// ---------------------------------------------------------------------
// Renderer helpers
// ---------------------------------------------------------------------

// SmoothedHead applies the original client's exponential camera filter
// (original_source/main.py update_camera) to the own snake's head,
// given the previous smoothed position. alpha is the filter's weight
// on the new sample (0.1 in the original).
func SmoothedHead(prev Vec2, head Vec2, alpha float64) Vec2 {
	return Vec2{
		X: prev.X*(1-alpha) + head.X*alpha,
		Y: prev.Y*(1-alpha) + head.Y*alpha,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
