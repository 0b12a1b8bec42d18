package codec

import (
	"errors"
	"math"
	"testing"
)

func TestReaderU8U16U24(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})

	b, err := r.U8()
	if err != nil || b != 0x01 {
		t.Fatalf("U8 = %v, %v", b, err)
	}

	u16, err := r.U16BE()
	if err != nil || u16 != 0x0203 {
		t.Fatalf("U16BE = %v, %v", u16, err)
	}

	u24, err := r.U24BE()
	if err != nil || u24 != 0x040506 {
		t.Fatalf("U24BE = %v, %v", u24, err)
	}

	if r.Len() != 0 {
		t.Fatalf("expected 0 bytes remaining, got %d", r.Len())
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0x01})
	if _, err := r.U16BE(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}

	r2 := NewReader([]byte{0x01, 0x02})
	if _, err := r2.U24BE(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestAngleFromU24RoundTrip(t *testing.T) {
	// 0 maps to 0; 16777215 maps to exactly 2π, which wraps to 0.
	if got := AngleFromU24(0); got != 0 {
		t.Fatalf("AngleFromU24(0) = %v, want 0", got)
	}
	got := AngleFromU24(16777215)
	if got != 0 {
		t.Fatalf("AngleFromU24(max) = %v, want 0 (2π wrapped)", got)
	}
}

func TestAngleFromU8Property(t *testing.T) {
	// Property 7: encode then decode via byte*2π/256 stays within 2π/256 of a.
	for _, a := range []float64{0, 0.1, math.Pi, math.Pi * 1.9, 6.28} {
		enc := byte(math.Mod(a*256/TwoPi, 256))
		dec := AngleFromU8(enc)
		diff := math.Abs(dec - math.Mod(a, TwoPi))
		if diff > TwoPi/256+1e-9 && TwoPi-diff > TwoPi/256+1e-9 {
			t.Fatalf("angle %v encoded/decoded to %v, diff %v exceeds tolerance", a, dec, diff)
		}
	}
}

func TestFamFromU24Bounds(t *testing.T) {
	if FamFromU24(0) != 0 {
		t.Fatalf("fam(0) should be 0")
	}
	if v := FamFromU24(16777215); v < 0.999999 || v > 1 {
		t.Fatalf("fam(max) = %v, want ~1", v)
	}
}

func TestI8Shifted(t *testing.T) {
	if I8Shifted(128) != 0 {
		t.Fatalf("I8Shifted(128) should be 0")
	}
	if I8Shifted(0) != -128 {
		t.Fatalf("I8Shifted(0) should be -128")
	}
	if I8Shifted(255) != 127 {
		t.Fatalf("I8Shifted(255) should be 127")
	}
}

func TestPosFromU24(t *testing.T) {
	if PosFromU24(25) != 5 {
		t.Fatalf("PosFromU24(25) = %v, want 5", PosFromU24(25))
	}
}
