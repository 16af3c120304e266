package cronto

import (
	"math/big"
	"testing"
)

// benchSource is a deterministic RandomSource that never runs dry, unlike
// the queue-backed deterministicSource: benchmarks draw an unbounded
// number of ids, keys, and nonces.
type benchSource struct {
	counter byte
}

func (s *benchSource) Bytes(n int) ([]byte, error) {
	s.counter++
	return repeatByte(s.counter, n), nil
}

func (s *benchSource) Uint(bits int) (*big.Int, error) {
	s.counter++
	return new(big.Int).SetBytes(repeatByte(s.counter, bits/8)), nil
}

func benchContext() *ServiceContext {
	return &ServiceContext{
		ServiceID:  7,
		ServiceMAC: repeatByte(0x01, 16),
		ServiceKey: repeatByte(0x02, 16),
		Random:     &benchSource{},
	}
}

// Benchmark the full activation-start operation: payload assembly,
// AES-CTR, HMAC, code derivation, and matrix encoding.
func BenchmarkStartActivation(b *testing.B) {
	ctx := benchContext()
	account := 42

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := StartActivation(ctx, &account); err != nil {
			b.Fatalf("StartActivation: %v", err)
		}
	}
}

// Benchmark a transaction authorization with a two-row styled message.
func BenchmarkTransaction(b *testing.B) {
	ctx := benchContext()
	account := &Account{
		Number: 1,
		ID:     repeatByte(0x44, 16),
		Key:    repeatByte(0x55, 16),
		Salt:   repeatByte(0x66, 18),
	}
	message := StyledMessage{
		PlainRow("PAY", "EUR 100"),
		PlainRow("TO", "ALICE"),
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := Transaction(ctx, account, account.Salt, message); err != nil {
			b.Fatalf("Transaction: %v", err)
		}
	}
}

// Benchmark frame assembly alone: one AES-CTR pass over 60 bytes plus the
// authenticating HMAC.
func BenchmarkBuildBarcode(b *testing.B) {
	ctx := benchContext()
	plaintext := make([]byte, 60)

	b.SetBytes(60)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := buildBarcode(OpTransaction, 1, plaintext, ctx.ServiceKey, ctx.ServiceMAC, ctx); err != nil {
			b.Fatalf("buildBarcode: %v", err)
		}
	}
}

// Benchmark matrix encoding: CRC-24, Reed-Solomon, module expansion, and
// the alignment splice.
func BenchmarkEncodeBarcode(b *testing.B) {
	frame := repeatByte(0xA5, 89)

	b.SetBytes(89)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := encodeBarcode(frame); err != nil {
			b.Fatalf("encodeBarcode: %v", err)
		}
	}
}

// Benchmark the Reed-Solomon encoder in isolation.
func BenchmarkRSEncode(b *testing.B) {
	data := repeatByte(0x3C, blockSize-eccSymbols)

	b.SetBytes(int64(blockSize - eccSymbols))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		rsEncode(data, eccSymbols, rsFCR)
	}
}

// Benchmark one key derivation, the hottest primitive in the protocol
// layer (four derivations per transaction).
func BenchmarkDerive(b *testing.B) {
	key := repeatByte(0x01, 16)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		derive(key, "KDRES", "an 18-byte salt xx", 16)
	}
}
