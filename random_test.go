package cronto

import "math/big"

// deterministicSource is a RandomSource that returns bytes from a fixed
// queue, letting tests pin exactly which id/key/nonce values a ceremony
// draws (e.g. id = 16 * 0x11, key = 16 * 0x22) instead of asserting
// against whatever crypto/rand happens to produce.
type deterministicSource struct {
	byteQueue [][]byte
	uintQueue []*big.Int
}

func (d *deterministicSource) Bytes(n int) ([]byte, error) {
	if len(d.byteQueue) == 0 {
		panic("deterministicSource: byte queue exhausted")
	}
	next := d.byteQueue[0]
	d.byteQueue = d.byteQueue[1:]
	if len(next) != n {
		panic("deterministicSource: queued byte slice has the wrong length")
	}
	return next, nil
}

func (d *deterministicSource) Uint(bits int) (*big.Int, error) {
	if len(d.uintQueue) == 0 {
		panic("deterministicSource: uint queue exhausted")
	}
	next := d.uintQueue[0]
	d.uintQueue = d.uintQueue[1:]
	return next, nil
}

func repeatByte(b byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = b
	}
	return out
}

func zeroNonceSource(byteQueue [][]byte) *deterministicSource {
	return &deterministicSource{
		byteQueue: byteQueue,
		uintQueue: []*big.Int{new(big.Int)},
	}
}
