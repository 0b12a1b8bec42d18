package session

import (
	"testing"
	"time"

	"github.com/Hiiva/slither/internal/state"
)

func TestPhaseTransitionGuardsAgainstStaleCAS(t *testing.T) {
	c := New(DefaultConfig(), nil)
	c.setPhase(PhaseHandshaking)

	if !c.transition(PhaseHandshaking, PhaseSpawning) {
		t.Fatalf("expected Handshaking -> Spawning to succeed")
	}
	if c.Phase() != PhaseSpawning {
		t.Fatalf("expected phase Spawning, got %s", c.Phase())
	}
	// A second attempt from the same stale "from" must not re-fire.
	if c.transition(PhaseHandshaking, PhaseSpawning) {
		t.Fatalf("expected stale transition to fail once phase moved on")
	}
}

func TestFirstSnakeDetectorAdoptsOnlyDuringSpawning(t *testing.T) {
	c := New(DefaultConfig(), nil)
	det := &FirstSnakeDetector{ctrl: c}
	candidate := &state.Snake{ID: 7}

	c.setPhase(PhaseHandshaking)
	if det.ShouldAdopt(candidate) {
		t.Fatalf("expected no adoption outside Spawning")
	}

	c.setPhase(PhaseSpawning)
	if !det.ShouldAdopt(candidate) {
		t.Fatalf("expected adoption during Spawning")
	}
	if c.Phase() != PhasePlaying {
		t.Fatalf("expected adoption to drive Spawning -> Playing, got %s", c.Phase())
	}

	// Already Playing: a later full descriptor (some other snake) must
	// not be considered for adoption.
	if det.ShouldAdopt(&state.Snake{ID: 9}) {
		t.Fatalf("expected no further adoption once Playing")
	}
}

func TestControllerHooksOnPongClearsEncoder(t *testing.T) {
	c := New(DefaultConfig(), nil)
	c.encoder.MaybePing(time.Unix(0, 0))
	if !c.encoder.PongOutstanding() {
		t.Fatalf("expected a ping in flight")
	}
	controllerHooks{ctrl: c}.OnPong()
	if c.encoder.PongOutstanding() {
		t.Fatalf("expected OnPong to clear the in-flight flag")
	}
}
