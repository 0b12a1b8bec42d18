package parse

import (
	"github.com/Hiiva/slither/internal/codec"
	"github.com/Hiiva/slither/internal/state"
	"github.com/Hiiva/slither/internal/wire"
)

// PreyPresence parses opcode 'y' (§4.E), length-dispatched:
//   - 2 or 5 bytes: remove prey by id.
//   - 7 bytes: remove prey by id, crediting an eater.
//   - 19 or 22 bytes: add/update a full prey descriptor.
func PreyPresence(ctx *Context, payload []byte) error {
	switch len(payload) {
	case 2, 5:
		return preyRemove(ctx, payload)
	case 7:
		return preyEaten(ctx, payload)
	case 19, 22:
		return preyAdd(ctx, payload)
	default:
		return wire.ErrUnexpectedLen
	}
}

func preyRemove(ctx *Context, payload []byte) error {
	r := codec.NewReader(payload)
	id, err := r.U16BE()
	if err != nil {
		return err
	}
	ctx.Store.RemovePrey(state.PreyID(id))
	return nil
}

func preyEaten(ctx *Context, payload []byte) error {
	r := codec.NewReader(payload)
	id, err := r.U16BE()
	if err != nil {
		return err
	}
	if _, err := r.U16BE(); err != nil { // eater_id, observational only
		return err
	}
	ctx.Store.RemovePrey(state.PreyID(id))
	return nil
}

func preyAdd(ctx *Context, payload []byte) error {
	r := codec.NewReader(payload)
	id, err := r.U16BE()
	if err != nil {
		return err
	}
	color, err := r.U8()
	if err != nil {
		return err
	}
	xRaw, err := r.U16BE()
	if err != nil {
		return err
	}
	yRaw, err := r.U16BE()
	if err != nil {
		return err
	}
	sizeRaw, err := r.U8()
	if err != nil {
		return err
	}
	dirRaw, err := r.U8()
	if err != nil {
		return err
	}
	wangRaw, err := r.U16BE()
	if err != nil {
		return err
	}
	curAngRaw, err := r.U16BE()
	if err != nil {
		return err
	}
	speedRaw, err := r.U16BE()
	if err != nil {
		return err
	}

	p := &state.Prey{
		ID:     state.PreyID(id),
		Color:  color,
		X:      float64(xRaw)*3 + 1,
		Y:      float64(yRaw)*3 + 1,
		Size:   float64(sizeRaw) / 5,
		Dir:    int(dirRaw) - 48,
		WAng:   float64(wangRaw) * codec.TwoPi / 16777215,
		CurAng: float64(curAngRaw) * codec.TwoPi / 16777215,
		Speed:  float64(speedRaw) / 1000,
	}
	ctx.Store.UpsertPrey(p)
	return nil
}

// UpdatePrey parses opcode 'j': id(u16), dx(i16), dy(i16).
func UpdatePrey(ctx *Context, payload []byte) error {
	r := codec.NewReader(payload)
	id, err := r.U16BE()
	if err != nil {
		return err
	}
	dxRaw, err := r.U16BE()
	if err != nil {
		return err
	}
	dyRaw, err := r.U16BE()
	if err != nil {
		return err
	}
	dx := float64(int16(dxRaw))
	dy := float64(int16(dyRaw))
	ctx.Store.UpdatePreyDelta(state.PreyID(id), dx, dy)
	return nil
}
