package cronto

// Classical GF(2^8) Reed-Solomon systematic encoding, primitive polynomial
// 0x11D, first consecutive root (fcr) 1. No library in the retrieval pack
// implements encoding with this parameterization: klauspost/reedsolomon
// (seen in other_examples' xtaci-kcptun manifest) is erasure-coding over a
// Vandermonde matrix with a different wire format and no fcr/primitive
// knobs, and zxinggo's reedsolomon (seen via its MaxiCode decoder) is a
// decoder reachable only through that decoder, not an importable encoder.
// This is the same log/antilog-table-and-generator-polynomial technique
// both of those packages use internally, scoped to encoding only since the
// core never needs to decode a barcode it produced.

const gfPrimitive = 0x11D

// galoisField holds the exponent/logarithm tables for GF(2^8) built from a
// single primitive polynomial, shared by every Reed-Solomon call the
// package makes.
type galoisField struct {
	exp [512]byte // exp[i] = exp[i-255] for i >= 255, avoids a modulo per multiply
	log [256]byte
}

func newGaloisField(primitive int) *galoisField {
	gf := &galoisField{}
	x := 1
	for i := 0; i < 255; i++ {
		gf.exp[i] = byte(x)
		gf.log[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= primitive
		}
	}
	for i := 255; i < 512; i++ {
		gf.exp[i] = gf.exp[i-255]
	}
	return gf
}

var gf256 = newGaloisField(gfPrimitive)

func (gf *galoisField) mul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return gf.exp[int(gf.log[a])+int(gf.log[b])]
}

// polyMulXPlusRoot multiplies the polynomial p (highest degree first) by
// (x - root) = (x + root) in GF(2), returning a polynomial one degree
// higher.
func (gf *galoisField) polyMulXPlusRoot(p []byte, root byte) []byte {
	out := make([]byte, len(p)+1)
	copy(out, p)
	for i := len(p) - 1; i >= 0; i-- {
		out[i+1] ^= gf.mul(out[i], root)
	}
	return out
}

// generatorPoly builds the Reed-Solomon generator polynomial with nsym
// roots starting at alpha^fcr: g(x) = prod_{i=0}^{nsym-1} (x - alpha^(fcr+i)).
func (gf *galoisField) generatorPoly(nsym, fcr int) []byte {
	g := []byte{1}
	for i := 0; i < nsym; i++ {
		root := gf.exp[(fcr+i)%255]
		g = gf.polyMulXPlusRoot(g, root)
	}
	return g
}

// rsEncode appends nsym Reed-Solomon parity bytes to data (systematic
// encoding: the message bytes are unchanged, parity is the remainder of
// data*x^nsym divided by the generator polynomial, computed via synthetic
// division).
func rsEncode(data []byte, nsym, fcr int) []byte {
	gen := gf256.generatorPoly(nsym, fcr)

	remainder := make([]byte, len(data)+nsym)
	copy(remainder, data)

	for i := 0; i < len(data); i++ {
		coef := remainder[i]
		if coef == 0 {
			continue
		}
		for j := 0; j < len(gen); j++ {
			remainder[i+j] ^= gf256.mul(gen[j], coef)
		}
	}

	out := make([]byte, len(data)+nsym)
	copy(out, data)
	copy(out[len(data):], remainder[len(data):])
	return out
}
