package cronto

import (
	"crypto/rand"
	"math/big"
)

// RandomSource is the CSPRNG capability the core draws nonces, ids, and
// keys from. It's injected rather than called directly against
// crypto/rand so tests can supply a deterministic, reproducible stream
// without the core ever branching on whether it's under test.
type RandomSource interface {
	// Bytes returns n cryptographically random bytes.
	Bytes(n int) ([]byte, error)
	// Uint returns a uniform random unsigned integer in [0, 2^bits).
	Uint(bits int) (*big.Int, error)
}

// SystemRandomSource draws from crypto/rand.Reader. This is the production
// RandomSource; it must never be distinguishable from uniform.
type SystemRandomSource struct{}

// Bytes returns n bytes read from crypto/rand.Reader.
func (SystemRandomSource) Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, NewCryptoError("random.Bytes", err)
	}
	return buf, nil
}

// Uint returns a uniform random integer in [0, 2^bits) using
// crypto/rand.Int.
func (SystemRandomSource) Uint(bits int) (*big.Int, error) {
	limit := new(big.Int).Lsh(big.NewInt(1), uint(bits))
	v, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return nil, NewCryptoError("random.Uint", err)
	}
	return v, nil
}

// randomBytes draws size bytes from context's random source.
func randomBytes(ctx *ServiceContext, size int) ([]byte, error) {
	return ctx.Random.Bytes(size)
}

// randomBigEndian128 draws a uniform 128-bit integer and serializes it
// big-endian into 16 bytes, the nonce format aes_ctr_encrypt requires.
func randomBigEndian128(ctx *ServiceContext) ([]byte, error) {
	v, err := ctx.Random.Uint(128)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 16)
	v.FillBytes(out)
	return out, nil
}
