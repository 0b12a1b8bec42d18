package session

import "github.com/Hiiva/slither/internal/state"

// FirstSnakeDetector reproduces the original client's ambiguous
// first-snake heuristic (spec.md §9 Open Question): the first full
// snake descriptor seen while the session is still Spawning is adopted
// as the local player, and that moment is also what drives the
// Spawning → Playing transition described in §4.G ("wait for the first
// own snake-presence frame ... → Playing").
//
// Isolating the decision here means a future correlation-based
// detector (matching on coordinates handed back from a separate
// "spawn" signal, say) is a drop-in replacement that implements
// parse.OwnSnakeDetector without touching internal/parse at all.
type FirstSnakeDetector struct {
	ctrl *Controller
}

func (d *FirstSnakeDetector) ShouldAdopt(candidate *state.Snake) bool {
	if d.ctrl.Phase() != PhaseSpawning {
		return false
	}
	d.ctrl.transition(PhaseSpawning, PhasePlaying)
	return true
}
