package parse

import (
	"bytes"

	"github.com/Hiiva/slither/internal/codec"
	"github.com/Hiiva/slither/internal/state"
)

// Leaderboard parses opcode 'l' (§4.E): byte 0 is player rank, bytes
// 3-4 are player_count, and up to 10 entries follow starting at offset
// 5. Decoding stops early (not an error) if the payload runs out
// before 10 entries, since the server only sends as many as exist.
func Leaderboard(ctx *Context, payload []byte) error {
	if len(payload) < 5 {
		return codec.ErrTruncated
	}
	rank := payload[0]
	r := codec.NewReader(payload[3:5])
	playerCount, err := r.U16BE()
	if err != nil {
		return err
	}

	entries := make([]state.LeaderboardEntry, 0, 10)
	er := codec.NewReader(payload[5:])
	for i := 0; i < 10 && er.Len() > 0; i++ {
		lengthRaw, err := er.U16BE()
		if err != nil {
			break
		}
		famRaw, err := er.U24BE()
		if err != nil {
			break
		}
		color, err := er.U8()
		if err != nil {
			break
		}
		nameLen, err := er.U8()
		if err != nil {
			break
		}
		nameBytes, err := er.Bytes(int(nameLen))
		if err != nil {
			break
		}
		clean := bytes.ReplaceAll(nameBytes, []byte{0}, nil)
		entries = append(entries, state.LeaderboardEntry{
			Username:    decodeName(clean),
			SnakeLength: lengthRaw,
			Fam:         codec.FamFromU24(famRaw),
			ColorIndex:  color,
		})
	}

	ctx.Store.SetLeaderboard(state.Leaderboard{
		Entries:     entries,
		PlayerRank:  rank,
		PlayerCount: playerCount,
	})
	return nil
}
