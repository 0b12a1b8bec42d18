package session

import "time"

// Config mirrors the teacher's GameConfig/DefaultConfig pattern
// (rswebdev-schlangen server/game.go) but holds client-side session
// parameters instead of server tuning knobs.
type Config struct {
	ServerURL string
	Nickname  string
	Skin      byte   // 0..38
	CustomSkin []byte

	// ProtocolVersion is the protocol version itself; the setup packet
	// transmits ProtocolVersion-1 per §4.B step 6.
	ProtocolVersion byte

	HandshakeTimeout time.Duration
	RotationInterval time.Duration
	PingInterval     time.Duration
}

// DefaultConfig returns the slither.io defaults the original client
// used (original_source/main.py SlitherClient.__init__).
func DefaultConfig() Config {
	return Config{
		Nickname:         "GoBot",
		Skin:             0,
		ProtocolVersion:  12,
		HandshakeTimeout: 10 * time.Second,
		RotationInterval: 100 * time.Millisecond,
		PingInterval:     250 * time.Millisecond,
	}
}
