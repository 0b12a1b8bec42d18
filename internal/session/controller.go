// Package session is the top-level orchestrator (component G, §4.G):
// it owns the connection, drives the Connecting → Handshaking →
// Spawning → Playing → Dead → Closed lifecycle, and wires the wire,
// handshake, parse, router, outbound, and state packages together.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Hiiva/slither/internal/handshake"
	"github.com/Hiiva/slither/internal/outbound"
	"github.com/Hiiva/slither/internal/parse"
	"github.com/Hiiva/slither/internal/router"
	"github.com/Hiiva/slither/internal/state"
	"github.com/Hiiva/slither/internal/transport"
	"github.com/Hiiva/slither/internal/wire"
)

// ErrHandshakeFailure wraps any error encountered during §4.B's opening
// exchange, per the §7 error taxonomy.
var ErrHandshakeFailure = errors.New("session: handshake failed")

// Controller is a single slither.io session: one WebSocket connection,
// one state.Store, and the goroutines that keep them moving.
type Controller struct {
	cfg   Config
	input InputSource

	store   *state.Store
	conn    *transport.Conn
	encoder *outbound.Encoder
	router  *router.Router

	phase    int32 // Phase, accessed via sync/atomic
	sessionID string
	logger    *log.Logger
}

// New creates a Controller. input may be nil, in which case the
// session never sends heading or boost frames (useful for a
// read-only/observer client).
func New(cfg Config, input InputSource) *Controller {
	id := uuid.New().String()
	logger := log.New(os.Stderr, fmt.Sprintf("[slither %s] ", id[:8]), log.LstdFlags)

	c := &Controller{
		cfg:       cfg,
		input:     input,
		store:     state.NewStore(),
		sessionID: id,
		logger:    logger,
	}
	c.encoder = outbound.New(c.sendOutbound)

	ctx := &parse.Context{
		Store:    c.store,
		Detector: &FirstSnakeDetector{ctrl: c},
		Hooks:    controllerHooks{ctrl: c},
	}
	c.router = router.New(ctx, logger)
	return c
}

func (c *Controller) shortID() string { return c.sessionID[:8] }

// World returns the state store backing this session. Its exported
// mutators exist for the parse package; callers outside this module
// should treat the returned data as a read-only snapshot.
func (c *Controller) World() *state.Store { return c.store }

func (c *Controller) sendOutbound(frame []byte) error {
	if c.conn == nil {
		return transport.ErrClosed
	}
	return c.conn.Send(frame)
}

// Run dials the server, performs the handshake, and then drives the
// session until ctx is canceled or the connection drops. It returns
// the terminal error, if any; a clean shutdown via ctx cancellation
// returns ctx.Err().
func (c *Controller) Run(ctx context.Context) error {
	c.setPhase(PhaseConnecting)
	conn, err := transport.Dial(ctx, c.cfg.ServerURL, c.logger)
	if err != nil {
		c.setPhase(PhaseClosed)
		return fmt.Errorf("%w: dial: %v", ErrHandshakeFailure, err)
	}
	c.conn = conn
	defer conn.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The write pump must run during the handshake: Send only enqueues.
	go conn.WriteLoop(runCtx)

	c.setPhase(PhaseHandshaking)
	hctx := ctx
	var cancelHandshake context.CancelFunc
	if c.cfg.HandshakeTimeout > 0 {
		hctx, cancelHandshake = context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
		defer cancelHandshake()
	}
	if err := c.runHandshake(hctx, conn); err != nil {
		c.setPhase(PhaseClosed)
		return fmt.Errorf("%w: %v", ErrHandshakeFailure, err)
	}

	go c.pingLoop(runCtx)
	if c.input != nil {
		go c.inputLoop(runCtx)
	}

	err = conn.ReadLoop(runCtx, c.router.Dispatch)
	c.setPhase(PhaseClosed)
	return err
}

// runHandshake performs §4.B steps 2-6: the secret challenge, the
// version-string challenge, and sending the client setup packet. It
// then keeps consuming frames through the router until the session
// reaches Spawning (the first 'a' frame), so that initial session
// constants are recorded before Run begins the steady-state loop.
func (c *Controller) runHandshake(ctx context.Context, conn *transport.Conn) error {
	if err := conn.Send([]byte{handshake.LoginOpener}); err != nil {
		return err
	}

	secretRaw, err := conn.ReadOne()
	if err != nil {
		return err
	}
	secretFrame, err := wire.Split(secretRaw)
	if err != nil {
		return err
	}
	if secretFrame.Opcode != wire.OpSecretOrVersion {
		return fmt.Errorf("expected secret challenge, got opcode %s", secretFrame.Opcode)
	}
	secretReply, err := handshake.DecodeSecretReply(secretRaw)
	if err != nil {
		return err
	}
	if err := conn.Send(secretReply); err != nil {
		return err
	}

	versionRaw, err := conn.ReadOne()
	if err != nil {
		return err
	}
	versionFrame, err := wire.Split(versionRaw)
	if err != nil {
		return err
	}
	if versionFrame.Opcode != wire.OpSecretOrVersion {
		return fmt.Errorf("expected version challenge, got opcode %s", versionFrame.Opcode)
	}
	versionReply, err := handshake.DecodeVersionReply(versionFrame.Payload)
	if err != nil {
		return err
	}
	if err := conn.Send(versionReply); err != nil {
		return err
	}

	setup := handshake.SetupPacket(c.cfg.ProtocolVersion, c.cfg.Skin, c.cfg.Nickname, c.cfg.CustomSkin)
	if err := conn.Send(setup); err != nil {
		return err
	}

	for c.Phase() == PhaseHandshaking {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		raw, err := conn.ReadOne()
		if err != nil {
			return err
		}
		c.router.Dispatch(raw)
	}
	return nil
}

// pingLoop drives outbound.Encoder.MaybePing at a finer grain than
// PingInterval so the rate limiter, not this ticker, decides when a
// ping actually fires.
func (c *Controller) pingLoop(ctx context.Context) {
	tick := c.cfg.PingInterval / 4
	if tick <= 0 {
		tick = 50 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if c.Phase() == PhasePlaying {
				if err := c.encoder.MaybePing(now); err != nil {
					c.logger.Printf("[session %s] ping send failed: %v", c.shortID(), err)
					return
				}
			}
		}
	}
}

// inputLoop samples the InputSource at a fixed rate and feeds it
// through the encoder, which applies its own rate limits before any
// frame actually reaches the wire.
func (c *Controller) inputLoop(ctx context.Context) {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if c.Phase() != PhasePlaying {
				continue
			}
			angle, boost := c.input.Sample()
			if err := c.encoder.Heading(now, angle); err != nil {
				c.logger.Printf("[session %s] heading send failed: %v", c.shortID(), err)
				return
			}
			if err := c.encoder.Boost(boost); err != nil {
				c.logger.Printf("[session %s] boost send failed: %v", c.shortID(), err)
				return
			}
		}
	}
}
