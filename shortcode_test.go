package cronto

import "testing"

func TestShuffleDeshuffleRoundTripLength6(t *testing.T) {
	for x := 0; x < 1_000_000; x++ {
		s := shuffleCode(int64(x), 6)
		if len(s) != 6 {
			t.Fatalf("shuffleCode(%d, 6) has length %d, want 6", x, len(s))
		}
		if got := deshuffleCode(s); got != int64(x) {
			t.Fatalf("deshuffleCode(shuffleCode(%d)) = %d, want %d", x, got, x)
		}
	}
}

func TestShuffleDeshuffleRoundTripLength7(t *testing.T) {
	for x := 0; x < 10_000_000; x++ {
		s := shuffleCode(int64(x), 7)
		if got := deshuffleCode(s); got != int64(x) {
			t.Fatalf("deshuffleCode(shuffleCode(%d)) = %d, want %d", x, got, x)
		}
	}
}

func TestDeshuffleReshuffleLiteral(t *testing.T) {
	original := "1234567"
	reshuffled := shuffleCode(deshuffleCode(original), 7)
	if reshuffled != original {
		t.Errorf("shuffle(deshuffle(%q)) = %q, want %q", original, reshuffled, original)
	}
}

func TestCodeValueRange(t *testing.T) {
	a := []byte{0x01, 0x02, 0x03}
	b := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	for _, tc := range []struct {
		s, c, length int
	}{
		{3, 2, 7},
		{2, 3, 6},
		{13, 3, 7},
	} {
		v := codeValue(a, b, tc.s, tc.c, tc.length)
		max := pow10Int(tc.length)
		if v < 0 || v >= max {
			t.Errorf("codeValue(...,%d,%d,%d) = %d, out of range [0, %d)", tc.s, tc.c, tc.length, v, max)
		}
	}
}

func TestCodeCRecoversC(t *testing.T) {
	a := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	b := []byte{0x01, 0x02, 0x03, 0x04}
	const s, c, length = 13, 5, 7

	code := codeValue(a, b, s, c, length)
	got := codeC(code, a, s, length)
	if got != int64(c) {
		t.Errorf("codeC(codeValue(a,b,%d,%d,%d), a, %d, %d) = %d, want %d", s, c, length, s, length, got, c)
	}
}

func TestParseCode(t *testing.T) {
	if v, ok := parseCode("001234", 6); !ok || v != 1234 {
		t.Errorf("parseCode(\"001234\", 6) = (%d, %v), want (1234, true)", v, ok)
	}
	if _, ok := parseCode("12345", 6); ok {
		t.Error("parseCode should reject a code of the wrong length")
	}
}
