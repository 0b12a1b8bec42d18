package handshake

import "testing"

// TestPermuteBoundaryFixture reproduces the literal fixture from spec §8:
// 17 zero bytes followed by [98,115] repeated 24 times produces a
// 24-byte output whose every byte is an ASCII letter.
func TestPermuteBoundaryFixture(t *testing.T) {
	raw := make([]byte, 17)
	for i := 0; i < 24; i++ {
		raw = append(raw, 98, 115)
	}

	out, err := Permute(raw)
	if err != nil {
		t.Fatalf("Permute returned error: %v", err)
	}
	if len(out) != 24 {
		t.Fatalf("expected 24 output bytes, got %d", len(out))
	}
	for i, b := range out {
		if !((b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')) {
			t.Fatalf("byte %d = %q not an ASCII letter", i, b)
		}
	}

	// First byte by hand: v1 = 98 -> +32 doesn't apply (98>96) -> (98-98-0)%26=0
	// v2 = 115 -> (115-115-0)%26=0 -> m=(0<<4)|0=0 -> off=65 (m<97) -> m-=65 -> m=-65
	// g = 2+m = -63 -> out[0] = ((-65-63) mod 26) + 65 = 2 + 65 = 'C'.
	if out[0] != 'C' {
		t.Fatalf("out[0] = %q, want 'C'", out[0])
	}
}

func TestPermuteDeterministic(t *testing.T) {
	raw := make([]byte, secretMinLen)
	for i := range raw {
		raw[i] = byte(i * 7 % 251)
	}
	a, err := Permute(raw)
	if err != nil {
		t.Fatalf("Permute: %v", err)
	}
	b, err := Permute(raw)
	if err != nil {
		t.Fatalf("Permute: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("Permute is not deterministic: %v != %v", a, b)
	}
}

func TestPermuteTooShort(t *testing.T) {
	if _, err := Permute(make([]byte, 10)); err == nil {
		t.Fatalf("expected error for too-short input")
	}
}

func TestValidVersion(t *testing.T) {
	if !ValidVersion([]byte("AbCdEfGz")) {
		t.Fatalf("expected all-letter string to be valid")
	}
	if ValidVersion([]byte("Abc123")) {
		t.Fatalf("expected string with digits to be invalid")
	}
}

func TestSetupPacketNoCustomSkin(t *testing.T) {
	pkt := SetupPacket(12, 5, "PythonBot", nil)
	if pkt[0] != SetupOpcode {
		t.Fatalf("expected opcode %d, got %d", SetupOpcode, pkt[0])
	}
	if pkt[1] != 11 {
		t.Fatalf("expected protocol version-1 = 11, got %d", pkt[1])
	}
	if pkt[2] != 5 {
		t.Fatalf("expected skin 5, got %d", pkt[2])
	}
	nameLen := int(pkt[3])
	if nameLen != len("PythonBot") {
		t.Fatalf("unexpected name length %d", nameLen)
	}
	tail := pkt[4+nameLen:]
	if len(tail) != 2 || tail[0] != NoCustomSkinLen || tail[1] != NoCustomSkinSentinel {
		t.Fatalf("expected no-custom-skin sentinel, got %v", tail)
	}
}

func TestSetupPacketTruncatesLongNickname(t *testing.T) {
	longName := "ThisNicknameIsDefinitelyTooLongForTheProtocol"
	pkt := SetupPacket(12, 0, longName, nil)
	nameLen := int(pkt[3])
	if nameLen != 24 {
		t.Fatalf("expected nickname truncated to 24, got %d", nameLen)
	}
}

func TestSetupPacketWithCustomSkin(t *testing.T) {
	cs := []byte{1, 2, 3}
	pkt := SetupPacket(12, 0, "x", cs)
	nameLen := int(pkt[3])
	tail := pkt[4+nameLen:]
	if len(tail) != 1+len(cs) || int(tail[0]) != len(cs) {
		t.Fatalf("unexpected custom skin encoding: %v", tail)
	}
}
