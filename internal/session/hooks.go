package session

import "github.com/Hiiva/slither/internal/state"

// controllerHooks implements parse.Hooks, translating protocol events
// that are not themselves state-store mutations into state-machine
// transitions and encoder bookkeeping.
type controllerHooks struct {
	ctrl *Controller
}

// OnInitialSetup fires on the first 'a' frame and drives Handshaking →
// Spawning per §4.G. Session constants have already landed in the
// store by the time this runs (parse.InitialSetup calls the hook last).
func (h controllerHooks) OnInitialSetup(c state.SessionConstants) {
	h.ctrl.transition(PhaseHandshaking, PhaseSpawning)
	h.ctrl.logger.Printf("[session %s] initial setup received, game radius %d", h.ctrl.shortID(), c.GameRadius)
}

// OnDeath fires on an inbound 'v' for the local snake and moves the
// session to Dead regardless of which live phase it was in, since the
// death frame is authoritative.
func (h controllerHooks) OnDeath() {
	h.ctrl.setPhase(PhaseDead)
	h.ctrl.logger.Printf("[session %s] own snake died", h.ctrl.shortID())
}

// OnPong clears the encoder's in-flight ping flag (property 6).
func (h controllerHooks) OnPong() {
	h.ctrl.encoder.OnPong()
}

// OnVerifyCode surfaces the raw verify-code payload (SPEC_FULL.md
// supplemental feature 5); this client has no captcha UI, so it only
// logs the event for now.
func (h controllerHooks) OnVerifyCode(raw []byte) {
	h.ctrl.logger.Printf("[session %s] verify-code event, %d bytes", h.ctrl.shortID(), len(raw))
}
