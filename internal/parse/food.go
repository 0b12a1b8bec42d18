package parse

import (
	"github.com/Hiiva/slither/internal/codec"
	"github.com/Hiiva/slither/internal/state"
)

// foodRecordLen is the fixed size of one packed food record:
// color(1) + x(2) + y(2) + size(1).
const foodRecordLen = 6

// AddFood parses opcodes 'F'/'f'/'b' (§4.E): a packed stream of food
// records consumed until the payload ends. A trailing fragment shorter
// than one record aborts the batch with a warning rather than panicking
// or silently corrupting state — whatever was decoded so far is still
// committed.
func AddFood(ctx *Context, payload []byte) error {
	var batch []state.Food
	r := codec.NewReader(payload)

	for r.Len() > 0 {
		if r.Len() < foodRecordLen {
			ctx.Store.AddFoodBatch(batch)
			return codec.ErrTruncated
		}
		colorIdx, _ := r.U8()
		x, _ := r.U16BE()
		y, _ := r.U16BE()
		sizeRaw, _ := r.U8()
		batch = append(batch, state.Food{
			X:          x,
			Y:          y,
			ColorIndex: colorIdx,
			Size:       float64(sizeRaw) / 5,
		})
	}
	ctx.Store.AddFoodBatch(batch)
	return nil
}

// EatFood parses opcode 'c': x(u16), y(u16), eater_id(u16). Removing an
// unknown key is a no-op warning per §3, not an error.
func EatFood(ctx *Context, payload []byte) (eaterID state.SnakeID, food state.Food, found bool, err error) {
	r := codec.NewReader(payload)
	x, err := r.U16BE()
	if err != nil {
		return 0, state.Food{}, false, err
	}
	y, err := r.U16BE()
	if err != nil {
		return 0, state.Food{}, false, err
	}
	eater, err := r.U16BE()
	if err != nil {
		return 0, state.Food{}, false, err
	}
	f, ok := ctx.Store.RemoveFood(x, y)
	return state.SnakeID(eater), f, ok, nil
}
