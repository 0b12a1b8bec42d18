// Package router implements the frame router (component C, §4.C): it
// splits inbound WebSocket frames by opcode and dispatches each to the
// parser registered for that opcode in the parse package. Unknown
// opcodes are logged and dropped, never fatal, per §4.C and §7.
package router

import (
	"errors"
	"fmt"
	"log"

	"github.com/Hiiva/slither/internal/parse"
	"github.com/Hiiva/slither/internal/wire"
)

// Router dispatches inbound frames to the parse package using a shared
// parse.Context (state store + own-snake detector + session hooks).
type Router struct {
	ctx    *parse.Context
	Logger *log.Logger
}

// New creates a Router bound to ctx. If logger is nil, log.Default() is
// used, matching the plain log.Printf style the rest of this module
// follows.
func New(ctx *parse.Context, logger *log.Logger) *Router {
	if logger == nil {
		logger = log.Default()
	}
	return &Router{ctx: ctx, Logger: logger}
}

// Dispatch routes one already-framed inbound message. Parsing errors
// never propagate past this call — they are logged and swallowed, per
// §7's policy that the state store remains consistent because every
// mutator validates its own preconditions.
func (rt *Router) Dispatch(raw []byte) {
	frame, err := wire.Split(raw)
	if err != nil {
		rt.Logger.Printf("[router] dropping frame: %v", err)
		return
	}

	if err := rt.route(frame); err != nil {
		rt.Logger.Printf("[router] opcode %s: %v", frame.Opcode, err)
	}
}

func (rt *Router) route(f wire.Frame) error {
	switch f.Opcode {
	case wire.OpInitialSetup:
		return parse.InitialSetup(rt.ctx, f.Payload)
	case wire.OpDeath:
		return parse.Death(rt.ctx, f.Payload)
	case wire.OpSnakePresence:
		return parse.SnakePresence(rt.ctx, f.Payload)
	case wire.OpGrowAbs:
		return parse.Grow(rt.ctx, f.Payload, false)
	case wire.OpGrowRel:
		return parse.Grow(rt.ctx, f.Payload, true)
	case wire.OpMoveAbs:
		return parse.Move(rt.ctx, f.Payload, false)
	case wire.OpMoveRel:
		return parse.Move(rt.ctx, f.Payload, true)
	case wire.OpRotationE, wire.OpRotationEUpper, wire.OpRotation3, wire.OpRotation4, wire.OpRotation5:
		return parse.RotationOp(rt.ctx, f.Opcode, f.Payload)
	case wire.OpFullness:
		return parse.Fullness(rt.ctx, f.Payload)
	case wire.OpTailRemove:
		return parse.TailRemove(rt.ctx, f.Payload)
	case wire.OpFoodF, wire.OpFoodf, wire.OpFoodb:
		return parse.AddFood(rt.ctx, f.Payload)
	case wire.OpEatFood:
		_, _, _, err := parse.EatFood(rt.ctx, f.Payload)
		return err
	case wire.OpPreyPresence:
		return parse.PreyPresence(rt.ctx, f.Payload)
	case wire.OpPreyUpdate:
		return parse.UpdatePrey(rt.ctx, f.Payload)
	case wire.OpSectorAdd:
		return parse.SectorAdd(rt.ctx, f.Payload)
	case wire.OpSectorRemove:
		return parse.SectorRemove(rt.ctx, f.Payload)
	case wire.OpLeaderboard:
		return parse.Leaderboard(rt.ctx, f.Payload)
	case wire.OpMinimap:
		return parse.Minimap(rt.ctx, f.Payload)
	case wire.OpKill:
		return parse.Kill(rt.ctx, f.Payload)
	case wire.OpGlobalHighscore:
		return parse.GlobalHighscore(rt.ctx, f.Payload)
	case wire.OpVerifyCode:
		return parse.VerifyCodeResponse(rt.ctx, f.Payload)
	case wire.OpPong:
		return parse.Pong(rt.ctx, f.Payload)
	case wire.OpSecretOrVersion:
		// Handled by the handshake stage directly; once Playing begins
		// the server does not re-send '6', but a stray frame is just
		// logged and dropped rather than treated as fatal.
		return fmt.Errorf("%w: '6' frame received outside handshake", errUnexpectedDuringPlay)
	default:
		return fmt.Errorf("%w: %s", wire.ErrUnknownOpcode, f.Opcode)
	}
}

var errUnexpectedDuringPlay = errors.New("router: unexpected opcode during play")
