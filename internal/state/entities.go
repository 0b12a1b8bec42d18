package state

// SnakeID identifies a snake for the lifetime it is known to the store.
type SnakeID uint16

// Snake is the local replica of one server-side snake (§3).
type Snake struct {
	ID   SnakeID
	Name string // ≤ 24 bytes UTF-8, may contain U+FFFD replacement characters
	Skin byte
	CustomSkin []byte

	Body RingBody

	Ang   float64 // current heading, radians in [0, 2π)
	WAng  float64 // wanted heading
	EHAng float64 // encoded heading (24-bit fixed point origin)
	Speed float64
	Dir   int // byte-48, typically 0/1/2

	Fam float64 // fullness in [0, 1]

	Alive bool
}

// ColorIndex derives the display palette slot for this snake.
func (s *Snake) ColorIndex(paletteSize int) int {
	if paletteSize <= 0 {
		return 0
	}
	return int(s.Skin) % paletteSize
}

// FoodKey identifies a food item by its exact world-unit position.
// Positions arrive as plain (unscaled) 16-bit integers in the food
// opcodes, so the key is exact and collision-free per snake presence.
type FoodKey struct{ X, Y uint16 }

// Food is one item on the food grid (§3).
type Food struct {
	X, Y       uint16
	ColorIndex byte
	Size       float64 // rawbyte / 5
}

// ID reproduces the original client's synthetic per-food id
// (y*gameRadius*3 + x), used only for log correlation — the food map
// itself is keyed by (x, y). Grounded in original_source/main.py
// handle_add_food.
func (f Food) ID(gameRadius uint32) int64 {
	return int64(f.Y)*int64(gameRadius)*3 + int64(f.X)
}

// PreyID identifies a prey entity.
type PreyID uint16

// Prey is one prey entity (§3).
type Prey struct {
	ID       PreyID
	X, Y     float64
	Size     float64
	Color    byte
	Dir      int
	WAng     float64
	CurAng   float64
	Speed    float64
}

// LeaderboardEntry is one row of the top-10 leaderboard (§3).
type LeaderboardEntry struct {
	Username     string
	SnakeLength  uint16
	Fam          float64
	ColorIndex   byte
}

// Score computes the derived leaderboard score:
// floor(15*(length/10 + fam/4 - 1) - 5).
func (e LeaderboardEntry) Score() int {
	v := 15*(float64(e.SnakeLength)/10+e.Fam/4-1) - 5
	return int(floorFloat(v))
}

func floorFloat(v float64) float64 {
	i := float64(int64(v))
	if v < 0 && i != v {
		return i - 1
	}
	return i
}

// Leaderboard is the top-10 snapshot plus the local player's rank.
type Leaderboard struct {
	Entries     []LeaderboardEntry
	PlayerRank  byte
	PlayerCount uint16
}

// Minimap is an 80x80 bit grid, RLE-decoded per §4.E.
type Minimap struct {
	bits [80 * 80]bool
}

const minimapSide = 80
const minimapBits = minimapSide * minimapSide

// Set sets the bit at flattened index i (row-major, 0-based) to v. Out
// of range indices are ignored.
func (m *Minimap) Set(i int, v bool) {
	if i < 0 || i >= minimapBits {
		return
	}
	m.bits[i] = v
}

// At reports the bit at (x, y), 0 <= x,y < 80.
func (m *Minimap) At(x, y int) bool {
	if x < 0 || x >= minimapSide || y < 0 || y >= minimapSide {
		return false
	}
	return m.bits[y*minimapSide+x]
}

// SessionConstants are the tuning parameters sent in the initial-setup
// opcode ('a'), §3.
type SessionConstants struct {
	GameRadius           uint32
	MaxSnakeParts        uint16 // mscps
	SectorSize           uint16
	SectorCountAlongEdge uint16
	Spangdv              byte
	NSP1, NSP2, NSP3     uint16
	Mamu                 uint16
	Manu2                uint16
	Cst                  uint16
	ProtocolVersion      byte
}

// Sector identifies a server-side world grid cell (§4.E 'W'/'w').
type Sector struct{ X, Y byte }
