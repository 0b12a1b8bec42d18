package parse

import (
	"math"
	"testing"

	"github.com/Hiiva/slither/internal/state"
	"github.com/Hiiva/slither/internal/wire"
)

func newTestContext() (*Context, *state.Store) {
	s := state.NewStore()
	return &Context{Store: s, Detector: alwaysAdopt{}, Hooks: NopHooks{}}, s
}

type alwaysAdopt struct{}

func (alwaysAdopt) ShouldAdopt(*state.Snake) bool { return true }

type neverAdopt struct{}

func (neverAdopt) ShouldAdopt(*state.Snake) bool { return false }

func TestSnakePresenceMinimalRemoves(t *testing.T) {
	ctx, s := newTestContext()
	s.AddOrUpdateSnake(&state.Snake{ID: 0x0010})
	payload := []byte{0x00, 0x10, 0x01} // id=16, status=1 (death)
	if err := SnakePresence(ctx, payload); err != nil {
		t.Fatalf("SnakePresence: %v", err)
	}
	if _, ok := s.Snake(16); ok {
		t.Fatalf("expected snake 16 removed")
	}
}

func TestSnakePresenceFullDescriptorAdoptsOwnSnake(t *testing.T) {
	ctx, s := newTestContext()
	payload := buildFullSnakePayload(t, 7, "Hi")
	if err := SnakePresence(ctx, payload); err != nil {
		t.Fatalf("SnakePresence: %v", err)
	}
	sn, ok := s.Snake(7)
	if !ok {
		t.Fatalf("expected snake 7 present")
	}
	if sn.Name != "Hi" {
		t.Fatalf("unexpected name %q", sn.Name)
	}
	if id, ok := s.OwnSnakeID(); !ok || id != 7 {
		t.Fatalf("expected own snake id 7, got %v %v", id, ok)
	}
}

func TestSnakePresenceDetectorDeclines(t *testing.T) {
	s := state.NewStore()
	ctx := &Context{Store: s, Detector: neverAdopt{}, Hooks: NopHooks{}}
	payload := buildFullSnakePayload(t, 7, "Hi")
	if err := SnakePresence(ctx, payload); err != nil {
		t.Fatalf("SnakePresence: %v", err)
	}
	if _, ok := s.OwnSnakeID(); ok {
		t.Fatalf("expected no own snake id adopted")
	}
}

func buildFullSnakePayload(t *testing.T, id uint16, name string) []byte {
	t.Helper()
	buf := make([]byte, 0, 31+len(name)+2)
	buf = append(buf, byte(id>>8), byte(id))
	buf = append(buf, 0, 0, 0) // ehang
	buf = append(buf, 48)      // dir byte -> dir 0
	buf = append(buf, 0, 0, 0) // wang
	buf = append(buf, 0, 0)    // speed
	buf = append(buf, 0, 0, 0) // fam
	buf = append(buf, 3)       // skin
	buf = append(buf, 0, 0, 50) // x raw = 50 -> /5 = 10
	buf = append(buf, 0, 0, 25) // y raw = 25 -> /5 = 5
	buf = append(buf, byte(len(name)))
	buf = append(buf, []byte(name)...)
	buf = append(buf, 0) // no custom skin
	// Three zero-offset body segments bring the payload up to the 31-byte
	// minimum SnakePresence requires for a full descriptor.
	buf = append(buf, 127, 127, 127, 127, 127, 127)
	return buf
}

func TestSnakeFullDescriptorDecodesTrailingBodySegments(t *testing.T) {
	ctx, s := newTestContext()

	buf := make([]byte, 0, 40)
	buf = append(buf, 0x00, 0x07) // id
	buf = append(buf, 0, 0, 0)    // ehang
	buf = append(buf, 48)         // dir byte -> dir 0
	buf = append(buf, 0, 0, 0)    // wang
	buf = append(buf, 0, 0)       // speed
	buf = append(buf, 0, 0, 0)    // fam
	buf = append(buf, 3)          // skin
	buf = append(buf, 0, 0, 50)   // x raw = 50 -> /5 = 10
	buf = append(buf, 0, 0, 25)   // y raw = 25 -> /5 = 5
	buf = append(buf, 4)          // name_len = 4
	buf = append(buf, "test"...)  // name
	buf = append(buf, 0)          // cs_len = 0
	// Two trailing segment pairs, server-as-sent order.
	buf = append(buf, 127, 127) // offset (0, 0) relative to head
	buf = append(buf, 125, 129) // offset (-1, 1) relative to head

	if err := SnakePresence(ctx, buf); err != nil {
		t.Fatalf("SnakePresence: %v", err)
	}
	sn, ok := s.Snake(7)
	if !ok {
		t.Fatalf("expected snake 7 present")
	}
	segs := sn.Body.Segments()
	if len(segs) != 3 {
		t.Fatalf("expected 3 body segments (2 trailing + head), got %d", len(segs))
	}
	if segs[0] != (state.Vec2{X: 10, Y: 5}) {
		t.Fatalf("expected first segment at head+offset (10,5), got %+v", segs[0])
	}
	if segs[1] != (state.Vec2{X: 9, Y: 6}) {
		t.Fatalf("expected second segment at head+offset (9,6), got %+v", segs[1])
	}
	if segs[2] != (state.Vec2{X: 10, Y: 5}) {
		t.Fatalf("expected the head itself last, got %+v", segs[2])
	}
	if head, ok := sn.Body.Head(); !ok || head != (state.Vec2{X: 10, Y: 5}) {
		t.Fatalf("expected Head() to be the descriptor's (x,y), got %+v %v", head, ok)
	}
}

func TestGrowRelativeNoBodyDropped(t *testing.T) {
	ctx, s := newTestContext()
	s.AddOrUpdateSnake(&state.Snake{ID: 1})
	payload := []byte{0x00, 0x01, 0x80, 0x80, 0, 0, 0}
	err := Grow(ctx, payload, true)
	if err == nil {
		t.Fatalf("expected error for relative grow with no body")
	}
	sn, _ := s.Snake(1)
	if sn.Body.Len() != 0 {
		t.Fatalf("expected body to remain empty")
	}
}

func TestMoveWithNoBodyDropped(t *testing.T) {
	ctx, s := newTestContext()
	s.AddOrUpdateSnake(&state.Snake{ID: 2})
	// 'G' relative move (id, dx, dy, fam) on a snake with no body -> "no body" error
	payload := []byte{0x00, 0x02, 0x80, 0x80, 0, 0, 0}
	if err := Move(ctx, payload, true); err == nil {
		t.Fatalf("expected error for relative move with no body")
	}
	sn, _ := s.Snake(2)
	if sn.Body.Len() != 0 {
		t.Fatalf("snake should remain with empty body")
	}
}

func TestGrowAbsoluteThenHead(t *testing.T) {
	ctx, s := newTestContext()
	s.AddOrUpdateSnake(&state.Snake{ID: 3})
	payload := []byte{0x00, 0x03, 0x00, 0x05, 0x00, 0x07, 0, 0, 0}
	if err := Grow(ctx, payload, false); err != nil {
		t.Fatalf("Grow: %v", err)
	}
	head, ok := s.HeadOf(3)
	if !ok || head.X != 5 || head.Y != 7 {
		t.Fatalf("unexpected head: %+v", head)
	}
}

func TestRotationTableInverse(t *testing.T) {
	ctx, s := newTestContext()
	s.AddOrUpdateSnake(&state.Snake{ID: 9})

	// 'e' with 3-byte tail: ang, wang, sp all present.
	payload := []byte{0x00, 0x09, 10, 20, 36} // sp=36/18=2
	if err := RotationOp(ctx, wire.OpRotationE, payload); err != nil {
		t.Fatalf("RotationOp: %v", err)
	}
	sn, _ := s.Snake(9)
	wantAng := float64(10) * math.Pi * 2 / 256
	wantWAng := float64(20) * math.Pi * 2 / 256
	if math.Abs(sn.Ang-wantAng) > 1e-9 || math.Abs(sn.WAng-wantWAng) > 1e-9 || sn.Speed != 2 {
		t.Fatalf("unexpected rotation decode: ang=%v wang=%v sp=%v", sn.Ang, sn.WAng, sn.Speed)
	}
}

func TestRotationMissingFieldsRetainPrior(t *testing.T) {
	ctx, s := newTestContext()
	s.AddOrUpdateSnake(&state.Snake{ID: 9, WAng: 1.5})
	payload := []byte{0x00, 0x09, 18} // 'e' 1-byte tail -> ang only
	if err := RotationOp(ctx, wire.OpRotationE, payload); err != nil {
		t.Fatalf("RotationOp: %v", err)
	}
	sn, _ := s.Snake(9)
	if sn.WAng != 1.5 {
		t.Fatalf("expected wang to retain prior value, got %v", sn.WAng)
	}
}

func TestAddFoodBatchFixture(t *testing.T) {
	ctx, s := newTestContext()
	payload := []byte{0x01, 0x00, 0x05, 0x00, 0x07, 0x0A, 0x02, 0x00, 0x09, 0x00, 0x0B, 0x14}
	if err := AddFood(ctx, payload); err != nil {
		t.Fatalf("AddFood: %v", err)
	}
	if s.FoodCount() != 2 {
		t.Fatalf("expected 2 food entries, got %d", s.FoodCount())
	}
	f, ok := s.RemoveFood(5, 7)
	if !ok || f.Size != 2.0 || f.ColorIndex != 1 {
		t.Fatalf("unexpected food: %+v", f)
	}
	f2, ok := s.RemoveFood(9, 11)
	if !ok || f2.Size != 4.0 || f2.ColorIndex != 2 {
		t.Fatalf("unexpected food: %+v", f2)
	}
}

func TestLeaderboardFixture(t *testing.T) {
	ctx, _ := newTestContext()
	payload := []byte{3, 0, 0, 0x00, 0x14}
	payload = append(payload, 0x00, 0x64) // length 100
	payload = append(payload, 0x80, 0x00, 0x00) // fam 0x800000
	payload = append(payload, 2)                // color
	payload = append(payload, 4)                // name len
	payload = append(payload, []byte("Test")...)

	if err := Leaderboard(ctx, payload); err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	lb := ctx.Store.Leaderboard()
	if lb.PlayerRank != 3 || lb.PlayerCount != 20 {
		t.Fatalf("unexpected rank/count: %+v", lb)
	}
	if len(lb.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(lb.Entries))
	}
	if got := lb.Entries[0].Score(); got != 131 {
		t.Fatalf("score = %d, want 131", got)
	}
}

func TestMinimapFixture(t *testing.T) {
	ctx, s := newTestContext()
	// 0x83 -> 3 zero-bits; 0x60 (< 128) -> literal bits 0,1,1,0,0,0,0,0.
	if err := Minimap(ctx, []byte{0x83, 0x60}); err != nil {
		t.Fatalf("Minimap: %v", err)
	}
	want := []bool{false, false, false, false, true, true, false, false, false, false, false}
	for i, w := range want {
		x, y := i%80, i/80
		if got := s.MinimapAt(x, y); got != w {
			t.Fatalf("bit %d = %v, want %v", i, got, w)
		}
	}
}
