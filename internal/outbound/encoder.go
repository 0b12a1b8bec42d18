// Package outbound implements the client-to-server frame encoder
// (component F, §4.F): heading, boost, and ping, each subject to the
// rate limits the protocol requires. The encoder never blocks the
// render path — callers hand it a send function and it only calls that
// function when a rule actually fires.
package outbound

import (
	"math"
	"sync"
	"time"
)

// Sender writes one already-encoded binary frame to the WebSocket. It
// must preserve ordering relative to other calls (§5's ordering
// guarantee (b)): callers are expected to invoke it from a single
// goroutine or behind a lock that serializes writes.
type Sender func(frame []byte) error

const (
	// HeadingOpcode-less: a heading frame IS its single byte, no opcode prefix.
	boostStart = 253
	boostStop  = 254
	pingByte   = 251

	// RotationInterval rate-limits heading frames to one per interval.
	RotationInterval = 100 * time.Millisecond
	// PingInterval is the minimum spacing between ping attempts.
	PingInterval = 250 * time.Millisecond
)

// Encoder tracks the rate-limit state for all three outbound frame
// kinds. The default session drives it from three separate goroutines
// (the input sampler, the ping ticker, and the inbound pong hook), so
// a single mutex serializes every access, the same guard state.Store
// uses for the same reason (§5: "thread-parallel runtimes must
// serialize ... with a single mutex").
type Encoder struct {
	mu   sync.Mutex
	send Sender

	lastHeadingSent time.Time
	lastHeadingSet  bool

	boosting bool

	lastPingSent time.Time
	lastPingSet  bool
	pongReceived bool
}

// New creates an Encoder that writes through send. pongReceived starts
// true so the very first ping is not blocked on a phantom in-flight
// one.
func New(send Sender) *Encoder {
	return &Encoder{send: send, pongReceived: true}
}

// Heading encodes and sends the current wanted heading if at least
// RotationInterval has elapsed since the last heading frame was sent.
// angle is radians; it is wrapped into [0, 2π) before encoding.
func (e *Encoder) Heading(now time.Time, angle float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastHeadingSet && now.Sub(e.lastHeadingSent) < RotationInterval {
		return nil
	}
	b := EncodeHeading(angle)
	if err := e.send([]byte{b}); err != nil {
		return err
	}
	e.lastHeadingSent = now
	e.lastHeadingSet = true
	return nil
}

// EncodeHeading converts a radian angle into the single-byte wire
// encoding: round(angle * 256 / 2π) mod 256.
func EncodeHeading(angle float64) byte {
	v := math.Mod(angle*256/(2*math.Pi), 256)
	if v < 0 {
		v += 256
	}
	return byte(int(math.Round(v)) % 256)
}

// Boost is edge-triggered: it only emits a frame when boostOn differs
// from the previously sent state.
func (e *Encoder) Boost(boostOn bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if boostOn == e.boosting {
		return nil
	}
	e.boosting = boostOn
	b := byte(boostStop)
	if boostOn {
		b = boostStart
	}
	return e.send([]byte{b})
}

// BoostState reports the last boost edge sent, letting a renderer or
// the session controller read it back without re-deriving it —
// SPEC_FULL.md supplemental feature 3.
func (e *Encoder) BoostState() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.boosting
}

// MaybePing sends opcode 251 if now-lastPing >= PingInterval and the
// previous ping was answered. A sent ping marks pong_received false
// until OnPong clears it, per §4.F's causal-pairing rule.
func (e *Encoder) MaybePing(now time.Time) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastPingSet && now.Sub(e.lastPingSent) < PingInterval {
		return nil
	}
	if !e.pongReceived {
		return nil
	}
	if err := e.send([]byte{pingByte}); err != nil {
		return err
	}
	e.lastPingSent = now
	e.lastPingSet = true
	e.pongReceived = false
	return nil
}

// OnPong clears the in-flight ping flag in response to an inbound 'p'
// frame.
func (e *Encoder) OnPong() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pongReceived = true
}

// PongOutstanding reports whether a ping has been sent without a
// matching pong yet — testable property 6 (never more than one
// in-flight ping).
func (e *Encoder) PongOutstanding() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.pongReceived
}
