package parse

import (
	"fmt"
	"unicode/utf8"

	"github.com/Hiiva/slither/internal/codec"
	"github.com/Hiiva/slither/internal/state"
	"github.com/Hiiva/slither/internal/wire"
)

// SnakePresence parses opcode 's' (§4.E). A 3-byte payload removes a
// snake (leave-range or death); any payload of 31 bytes or more is a
// full descriptor that adds/replaces the snake and may adopt it as the
// own snake.
func SnakePresence(ctx *Context, payload []byte) error {
	switch {
	case len(payload) == 3:
		return snakeStatusUpdate(ctx, payload)
	case len(payload) >= 31:
		return snakeFullDescriptor(ctx, payload)
	default:
		return wire.ErrUnexpectedLen
	}
}

func snakeStatusUpdate(ctx *Context, payload []byte) error {
	r := codec.NewReader(payload)
	id, err := r.U16BE()
	if err != nil {
		return err
	}
	status, err := r.U8()
	if err != nil {
		return err
	}
	switch status {
	case 0, 1: // leave-range, death
		ctx.Store.RemoveSnake(state.SnakeID(id))
		return nil
	default:
		return fmt.Errorf("%w: unexpected snake presence status %d", wire.ErrInvariant, status)
	}
}

func snakeFullDescriptor(ctx *Context, payload []byte) error {
	r := codec.NewReader(payload)

	id, err := r.U16BE()
	if err != nil {
		return err
	}
	ehangRaw, err := r.U24BE()
	if err != nil {
		return err
	}
	dirByte, err := r.U8()
	if err != nil {
		return err
	}
	wangRaw, err := r.U24BE()
	if err != nil {
		return err
	}
	speedRaw, err := r.U16BE()
	if err != nil {
		return err
	}
	famRaw, err := r.U24BE()
	if err != nil {
		return err
	}
	skin, err := r.U8()
	if err != nil {
		return err
	}
	xRaw, err := r.U24BE()
	if err != nil {
		return err
	}
	yRaw, err := r.U24BE()
	if err != nil {
		return err
	}
	nameLen, err := r.U8()
	if err != nil {
		return err
	}
	nameBytes, err := r.Bytes(int(nameLen))
	if err != nil {
		return fmt.Errorf("%w: name length %d exceeds payload", wire.ErrInvariant, nameLen)
	}
	csLen, err := r.U8()
	if err != nil {
		return err
	}
	var customSkin []byte
	if csLen > 0 {
		customSkin, err = r.Bytes(int(csLen))
		if err != nil {
			return err
		}
	}

	x := codec.PosFromU24(xRaw)
	y := codec.PosFromU24(yRaw)

	sn := &state.Snake{
		ID:         state.SnakeID(id),
		Name:       decodeName(nameBytes),
		Skin:       skin,
		CustomSkin: append([]byte(nil), customSkin...),
		EHAng:      codec.AngleFromU24(ehangRaw),
		WAng:       codec.AngleFromU24(wangRaw),
		Speed:      codec.SpeedFromU16(speedRaw),
		Fam:        codec.FamFromU24(famRaw),
		Dir:        int(dirByte) - 48,
		Alive:      true,
	}
	sn.Ang = sn.EHAng

	head := state.Vec2{X: x, Y: y}
	// The remainder is a server-as-sent list of per-segment relative
	// positions, each pair (bx, by) -> ((bx-127)/2, (by-127)/2) relative
	// to the head in world units. They are inserted in frame order so
	// the head ends up last (back of the sequence, per §3), with the
	// head itself always appended last regardless of how many trailing
	// pairs arrived.
	for r.Len() >= 2 {
		bx, _ := r.U8()
		by, _ := r.U8()
		sn.Body.AppendHead(state.Vec2{
			X: head.X + codec.SegmentOffset(bx),
			Y: head.Y + codec.SegmentOffset(by),
		})
	}
	sn.Body.AppendHead(head)

	ctx.Store.AddOrUpdateSnake(sn)
	if ctx.Detector != nil && ctx.Detector.ShouldAdopt(sn) {
		ctx.Store.AdoptOwnSnake(sn.ID)
	}
	return nil
}

// decodeName decodes a name field as UTF-8, substituting U+FFFD for any
// invalid byte sequence so "may contain replacement characters" (§3)
// holds for arbitrary server-supplied bytes.
func decodeName(b []byte) string {
	var out []rune
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		out = append(out, r)
		i += size
	}
	return string(out)
}

// ---------------------------------------------------------------------
// Grow ('n' absolute, 'N' relative)
// ---------------------------------------------------------------------

// Grow parses opcodes 'n'/'N' (§4.E): append an absolute or
// head-relative body segment and update fam.
func Grow(ctx *Context, payload []byte, relative bool) error {
	r := codec.NewReader(payload)
	id, err := r.U16BE()
	if err != nil {
		return err
	}
	snID := state.SnakeID(id)
	sn, ok := ctx.Store.Snake(snID)
	if !ok {
		return fmt.Errorf("%w: snake %d not found for grow update", wire.ErrInvariant, id)
	}

	var x, y float64
	if relative {
		dx, err := r.U8()
		if err != nil {
			return err
		}
		dy, err := r.U8()
		if err != nil {
			return err
		}
		last, ok := sn.Body.Head()
		if !ok {
			return fmt.Errorf("%w: snake %d has no body for relative grow", wire.ErrInvariant, id)
		}
		x = last.X + float64(codec.I8Shifted(dx))
		y = last.Y + float64(codec.I8Shifted(dy))
	} else {
		ux, err := r.U16BE()
		if err != nil {
			return err
		}
		uy, err := r.U16BE()
		if err != nil {
			return err
		}
		x, y = float64(ux), float64(uy)
	}

	famRaw, err := r.U24BE()
	if err != nil {
		return err
	}

	ctx.Store.AppendHead(snID, state.Vec2{X: x, Y: y})
	ctx.Store.SetFam(snID, codec.FamFromU24(famRaw))
	return nil
}

// ---------------------------------------------------------------------
// Move ('g' absolute, 'G' relative)
// ---------------------------------------------------------------------

// Move parses opcodes 'g'/'G' (§4.E): pop the oldest segment (if the
// body has more than one), then append the new head. The 100-segment
// cap is enforced by state.RingBody on the append.
func Move(ctx *Context, payload []byte, relative bool) error {
	r := codec.NewReader(payload)
	id, err := r.U16BE()
	if err != nil {
		return err
	}
	snID := state.SnakeID(id)
	sn, ok := ctx.Store.Snake(snID)
	if !ok {
		return fmt.Errorf("%w: snake %d not found for move update", wire.ErrInvariant, id)
	}

	var x, y float64
	if relative {
		dx, err := r.U8()
		if err != nil {
			return err
		}
		dy, err := r.U8()
		if err != nil {
			return err
		}
		last, ok := sn.Body.Head()
		if !ok {
			return fmt.Errorf("%w: snake %d has no body for relative move", wire.ErrInvariant, id)
		}
		x = last.X + float64(codec.I8Shifted(dx))
		y = last.Y + float64(codec.I8Shifted(dy))
	} else {
		ux, err := r.U16BE()
		if err != nil {
			return err
		}
		uy, err := r.U16BE()
		if err != nil {
			return err
		}
		x, y = float64(ux), float64(uy)
	}

	famRaw, err := r.U24BE()
	if err != nil {
		return err
	}

	if sn.Body.Len() > 1 {
		ctx.Store.PopTail(snID)
	}
	ctx.Store.AppendHead(snID, state.Vec2{X: x, Y: y})
	ctx.Store.SetFam(snID, codec.FamFromU24(famRaw))
	return nil
}

// ---------------------------------------------------------------------
// Rotation ('e', 'E', '3', '4', '5')
// ---------------------------------------------------------------------

// Rotation is the decoded form of a rotation opcode, carrying the
// source opcode so a future fix for the §9 length-collision open
// question doesn't require re-plumbing callers.
type Rotation struct {
	SnakeID      state.SnakeID
	SourceOpcode wire.Opcode
	Ang, WAng, Sp *float64
}

// RotationOp parses opcodes 'e'/'E'/'3'/'4'/'5' per the table in §4.E.
// Missing fields retain their prior value in the store; updates to
// unknown snakes are dropped (InvariantViolation).
func RotationOp(ctx *Context, op wire.Opcode, payload []byte) error {
	r := codec.NewReader(payload)
	id, err := r.U16BE()
	if err != nil {
		return err
	}
	tail := r.Remaining()

	upd, err := decodeRotationTail(op, tail)
	if err != nil {
		return err
	}
	upd.SnakeID = state.SnakeID(id)
	upd.SourceOpcode = op

	if !ctx.Store.SetRotation(state.SnakeID(id), state.RotationUpdate{Ang: upd.Ang, WAng: upd.WAng, Sp: upd.Sp}) {
		return fmt.Errorf("%w: rotation update for unknown snake %d", wire.ErrInvariant, id)
	}
	return nil
}

// decodeRotationTail implements the table in §4.E exactly, including
// the collision the spec flags as an open question between '3' (1-byte
// tail -> sp) and '5' (1-byte tail -> wang).
func decodeRotationTail(op wire.Opcode, tail []byte) (Rotation, error) {
	ang := func(b byte) *float64 { v := codec.AngleFromU8(b); return &v }
	sp := func(b byte) *float64 { v := codec.SpeedFromU8(b); return &v }

	switch op {
	case wire.OpRotationE:
		switch len(tail) {
		case 1:
			return Rotation{Ang: ang(tail[0])}, nil
		case 2:
			return Rotation{Ang: ang(tail[0]), Sp: sp(tail[1])}, nil
		case 3:
			return Rotation{Ang: ang(tail[0]), WAng: ang(tail[1]), Sp: sp(tail[2])}, nil
		}
	case wire.OpRotationEUpper:
		switch len(tail) {
		case 1:
			return Rotation{WAng: ang(tail[0])}, nil
		case 2:
			return Rotation{WAng: ang(tail[0]), Sp: sp(tail[1])}, nil
		}
	case wire.OpRotation3:
		switch len(tail) {
		case 1:
			return Rotation{Sp: sp(tail[0])}, nil
		case 2:
			return Rotation{Ang: ang(tail[0]), WAng: ang(tail[1])}, nil
		}
	case wire.OpRotation4:
		switch len(tail) {
		case 1:
			return Rotation{WAng: ang(tail[0])}, nil
		case 2:
			return Rotation{WAng: ang(tail[0]), Sp: sp(tail[1])}, nil
		case 3:
			return Rotation{Ang: ang(tail[0]), WAng: ang(tail[1]), Sp: sp(tail[2])}, nil
		}
	case wire.OpRotation5:
		switch len(tail) {
		case 1:
			return Rotation{WAng: ang(tail[0])}, nil
		case 2:
			return Rotation{Ang: ang(tail[0]), WAng: ang(tail[1])}, nil
		}
	}
	return Rotation{}, wire.ErrUnexpectedLen
}

// ---------------------------------------------------------------------
// Fullness ('h') and tail removal ('r')
// ---------------------------------------------------------------------

// Fullness parses opcode 'h': id(u16), fam(u24).
func Fullness(ctx *Context, payload []byte) error {
	r := codec.NewReader(payload)
	id, err := r.U16BE()
	if err != nil {
		return err
	}
	famRaw, err := r.U24BE()
	if err != nil {
		return err
	}
	if !ctx.Store.SetFam(state.SnakeID(id), codec.FamFromU24(famRaw)) {
		return fmt.Errorf("%w: fullness update for unknown snake %d", wire.ErrInvariant, id)
	}
	return nil
}

// TailRemove parses opcode 'r': a 2-byte payload pops a tail segment; a
// 6-byte payload also updates fam.
func TailRemove(ctx *Context, payload []byte) error {
	r := codec.NewReader(payload)
	id, err := r.U16BE()
	if err != nil {
		return err
	}
	snID := state.SnakeID(id)

	switch len(payload) {
	case 2:
		if !ctx.Store.PopTail(snID) {
			return fmt.Errorf("%w: tail removal for unknown/empty snake %d", wire.ErrInvariant, id)
		}
		return nil
	case 6:
		famRaw, err := r.U24BE()
		if err != nil {
			return err
		}
		if !ctx.Store.PopTail(snID) {
			return fmt.Errorf("%w: tail removal for unknown/empty snake %d", wire.ErrInvariant, id)
		}
		ctx.Store.SetFam(snID, codec.FamFromU24(famRaw))
		return nil
	default:
		return wire.ErrUnexpectedLen
	}
}
