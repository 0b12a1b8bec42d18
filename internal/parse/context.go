// Package parse turns opcode payload bytes into state-store mutations
// (component E, §4.E). Each opcode family gets its own parser function;
// router.Router dispatches to these by opcode, the "tagged-variant...
// per-variant parser function" design note of spec.md §9.
package parse

import "github.com/Hiiva/slither/internal/state"

// OwnSnakeDetector decides whether a freshly-parsed full snake
// descriptor should be adopted as the local player's snake. Isolated
// behind an interface per spec.md §9's open question on the first-snake
// heuristic: the default implementation (FirstSnakeDetector, in the
// session package) reproduces the original ambiguous behavior, but a
// future correlation-based detector can be swapped in without touching
// this package.
type OwnSnakeDetector interface {
	ShouldAdopt(candidate *state.Snake) bool
}

// Hooks lets the session controller (component G) observe protocol
// events that drive its state machine or rate limiters but are not
// themselves state-store mutations: initial setup (Spawning trigger),
// death (Dead trigger), pong (clears the in-flight ping flag), and the
// verify-code response (surfaced per SPEC_FULL.md supplemental feature
// 5).
type Hooks interface {
	OnInitialSetup(state.SessionConstants)
	OnDeath()
	OnPong()
	OnVerifyCode(raw []byte)
}

// NopHooks is a Hooks implementation that does nothing, useful in tests
// that only care about store mutations.
type NopHooks struct{}

func (NopHooks) OnInitialSetup(state.SessionConstants) {}
func (NopHooks) OnDeath()                              {}
func (NopHooks) OnPong()                               {}
func (NopHooks) OnVerifyCode([]byte)                   {}

// Context bundles the collaborators every parser needs.
type Context struct {
	Store    *state.Store
	Detector OwnSnakeDetector
	Hooks    Hooks
}
