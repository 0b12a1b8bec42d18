package parse

import (
	"github.com/Hiiva/slither/internal/codec"
	"github.com/Hiiva/slither/internal/state"
)

// Kill parses opcode 'k': killer_snake_id(u16), total_kills(u24). The
// killer id and the raw 24-bit total are recorded unscaled; no
// normalized (/16777215) form is computed.
func Kill(ctx *Context, payload []byte) error {
	r := codec.NewReader(payload)
	killer, err := r.U16BE()
	if err != nil {
		return err
	}
	totalRaw, err := r.U24BE()
	if err != nil {
		return err
	}
	ctx.Store.RecordKill(state.SnakeID(killer), totalRaw)
	return nil
}

// GlobalHighscore parses opcode 'm': observational only, per §4.E.
func GlobalHighscore(ctx *Context, payload []byte) error {
	ctx.Store.RecordGlobalHighscore()
	return nil
}

// VerifyCodeResponse parses opcode 'o', surfaced as an event per
// SPEC_FULL.md supplemental feature 5 (the distillation lists this
// opcode in its table but never assigns it a parser).
func VerifyCodeResponse(ctx *Context, payload []byte) error {
	ctx.Hooks.OnVerifyCode(append([]byte(nil), payload...))
	return nil
}

// Pong parses opcode 'p': clears the in-flight ping flag (§4.F).
func Pong(ctx *Context, payload []byte) error {
	ctx.Hooks.OnPong()
	return nil
}

// Death parses opcode 'v': the own snake has died.
func Death(ctx *Context, payload []byte) error {
	ctx.Hooks.OnDeath()
	return nil
}
