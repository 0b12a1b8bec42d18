// Package mobile provides gomobile-compatible bindings for embedding
// the slither.io protocol client in iOS/tvOS/Android applications.
//
// All exported functions use only primitive types (int, float64,
// string, bool, error) to satisfy gomobile's type restrictions; the
// session.Controller and state.Store types stay behind this boundary.
package mobile

import (
	"context"
	"fmt"
	"sync"

	"github.com/Hiiva/slither/internal/session"
)

var (
	mu      sync.Mutex
	ctrl    *session.Controller
	cancel  context.CancelFunc
	input   *session.AtomicInput
	runErrC chan error
)

// Start dials serverURL and begins a session under the given nickname.
// It returns once the connection attempt has been dispatched; the
// session itself runs in the background until Stop is called or the
// connection drops.
func Start(serverURL string, nickname string) error {
	mu.Lock()
	defer mu.Unlock()

	if ctrl != nil {
		return fmt.Errorf("session already running")
	}

	cfg := session.DefaultConfig()
	cfg.ServerURL = serverURL
	if nickname != "" {
		cfg.Nickname = nickname
	}

	input = session.NewAtomicInput()
	ctrl = session.New(cfg, input)

	ctx, cancelFn := context.WithCancel(context.Background())
	cancel = cancelFn
	runErrC = make(chan error, 1)

	go func() {
		runErrC <- ctrl.Run(ctx)
	}()
	return nil
}

// Stop ends the running session, if any.
func Stop() {
	mu.Lock()
	defer mu.Unlock()

	if cancel != nil {
		cancel()
	}
	ctrl = nil
	cancel = nil
	input = nil
}

// IsRunning reports whether a session is currently active and not yet
// Dead or Closed.
func IsRunning() bool {
	mu.Lock()
	c := ctrl
	mu.Unlock()

	if c == nil {
		return false
	}
	switch c.Phase() {
	case session.PhaseDead, session.PhaseClosed:
		return false
	default:
		return true
	}
}

// Phase returns the current session lifecycle phase as a string, for
// host-side UI state (e.g. showing a "connecting..." spinner).
func Phase() string {
	mu.Lock()
	c := ctrl
	mu.Unlock()
	if c == nil {
		return session.PhaseClosed.String()
	}
	return c.Phase().String()
}

// SetInput pushes the current wanted heading (radians) and boost flag
// from the host's touch/joystick layer into the running session.
func SetInput(angle float64, boost bool) {
	mu.Lock()
	in := input
	mu.Unlock()
	if in != nil {
		in.Set(angle, boost)
	}
}

// OwnSnakeAlive reports whether the local player's snake is currently
// alive, for a minimal host-side HUD.
func OwnSnakeAlive() bool {
	mu.Lock()
	c := ctrl
	mu.Unlock()
	if c == nil {
		return false
	}
	if _, ok := c.World().OwnSnakeID(); !ok {
		return false
	}
	return !c.World().OwnSnakeDead()
}
