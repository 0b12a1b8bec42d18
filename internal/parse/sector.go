package parse

import (
	"github.com/Hiiva/slither/internal/codec"
	"github.com/Hiiva/slither/internal/state"
)

// SectorAdd parses opcode 'W': (sx, sy) marks a sector in-range.
func SectorAdd(ctx *Context, payload []byte) error {
	sec, err := readSector(payload)
	if err != nil {
		return err
	}
	ctx.Store.AddSector(sec)
	return nil
}

// SectorRemove parses opcode 'w': (sx, sy) drops a sector from the
// in-range set. The store does not cull objects automatically — the
// server emits explicit leave-range updates for them (§4.E).
func SectorRemove(ctx *Context, payload []byte) error {
	sec, err := readSector(payload)
	if err != nil {
		return err
	}
	ctx.Store.RemoveSector(sec)
	return nil
}

func readSector(payload []byte) (state.Sector, error) {
	r := codec.NewReader(payload)
	x, err := r.U8()
	if err != nil {
		return state.Sector{}, err
	}
	y, err := r.U8()
	if err != nil {
		return state.Sector{}, err
	}
	return state.Sector{X: x, Y: y}, nil
}
