package session

import "sync"

// InputSource is the external collaborator the session polls for
// player intent. Rendering and input capture are out of scope (spec.md
// Non-goals); this interface is the seam a UI layer plugs into.
type InputSource interface {
	// Sample returns the currently wanted heading in radians and
	// whether boost is held.
	Sample() (angle float64, boost bool)
}

// AtomicInput is a trivial InputSource a host application (the mobile
// bindings, or a CLI demo) can push values into from any goroutine.
type AtomicInput struct {
	mu    sync.Mutex
	angle float64
	boost bool
}

func NewAtomicInput() *AtomicInput { return &AtomicInput{} }

// Set updates the wanted heading and boost flag.
func (a *AtomicInput) Set(angle float64, boost bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.angle = angle
	a.boost = boost
}

func (a *AtomicInput) Sample() (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.angle, a.boost
}
