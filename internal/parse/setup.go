package parse

import (
	"github.com/Hiiva/slither/internal/codec"
	"github.com/Hiiva/slither/internal/state"
)

// InitialSetup parses opcode 'a' (§4.E/§4.D): the session constants.
// Its Hooks.OnInitialSetup call drives the Handshaking -> Spawning
// transition.
func InitialSetup(ctx *Context, payload []byte) error {
	r := codec.NewReader(payload)

	gameRadius, err := r.U24BE()
	if err != nil {
		return err
	}
	mscps, err := r.U16BE()
	if err != nil {
		return err
	}
	sectorSize, err := r.U16BE()
	if err != nil {
		return err
	}
	sectorCount, err := r.U16BE()
	if err != nil {
		return err
	}
	spangdv, err := r.U8()
	if err != nil {
		return err
	}
	nsp1, err := r.U16BE()
	if err != nil {
		return err
	}
	nsp2, err := r.U16BE()
	if err != nil {
		return err
	}
	nsp3, err := r.U16BE()
	if err != nil {
		return err
	}
	mamu, err := r.U16BE()
	if err != nil {
		return err
	}
	manu2, err := r.U16BE()
	if err != nil {
		return err
	}
	cst, err := r.U16BE()
	if err != nil {
		return err
	}
	protocolVersion, err := r.U8()
	if err != nil {
		return err
	}

	c := state.SessionConstants{
		GameRadius:           gameRadius,
		MaxSnakeParts:        mscps,
		SectorSize:           sectorSize,
		SectorCountAlongEdge: sectorCount,
		Spangdv:              spangdv,
		NSP1:                 nsp1,
		NSP2:                 nsp2,
		NSP3:                 nsp3,
		Mamu:                 mamu,
		Manu2:                manu2,
		Cst:                  cst,
		ProtocolVersion:      protocolVersion,
	}
	ctx.Store.SetSessionConstants(c)
	ctx.Hooks.OnInitialSetup(c)
	return nil
}
