package cronto

import (
	"bytes"
	"testing"
)

func TestCRC24(t *testing.T) {
	got := crc24([]byte("123456789"))
	want := []byte{0x21, 0xcf, 0x02}
	if !bytes.Equal(got, want) {
		t.Errorf("crc24(\"123456789\") = %x, want %x", got, want)
	}
}

func TestCRC24Length(t *testing.T) {
	for _, data := range [][]byte{{}, {0x00}, repeatByte(0xFF, 92), repeatByte(0x5A, 142)} {
		if got := len(crc24(data)); got != 3 {
			t.Errorf("crc24(%d bytes) returned %d bytes, want 3", len(data), got)
		}
	}
}
