package cronto

import (
	"math/big"
	"strconv"
	"strings"
)

// codeValue folds a nonce a and a MAC b into an L-digit decimal code:
//
//	code(a,b,s,c,L) = ((a mod M) + (b mod b_mod)*2^s + c) mod M
//	M = 10^L, b_mod = floor((M - 2^s)/2^s) + 1
//
// a and b are big-endian byte strings (an empty a is the zero value, the
// AES-CTR nonce, or an HMAC output depending on the caller); both can
// exceed 64 bits, so this runs on math/big rather than machine words.
func codeValue(a, b []byte, s, c, length int) int64 {
	max := pow10Big(length)
	twoS := new(big.Int).Lsh(big.NewInt(1), uint(s))

	aInt := new(big.Int).SetBytes(a)
	aInt.Mod(aInt, max)

	bMod := new(big.Int).Sub(max, twoS)
	bMod.Div(bMod, twoS)
	bMod.Add(bMod, big.NewInt(1))

	bInt := new(big.Int).SetBytes(b)
	bInt.Mod(bInt, bMod)
	bInt.Mul(bInt, twoS)

	result := new(big.Int).Add(aInt, bInt)
	result.Add(result, big.NewInt(int64(c)))
	result.Mod(result, max)
	return result.Int64()
}

// codeC is codeValue's verifier-side inverse, recovering the embedded
// counter c from a submitted code: ((code - a) mod M) mod 2^s. Unlike
// codeValue, a is used as-is here, not reduced mod M first; the result is
// the same either way, since (code - a) mod M equals
// (code - (a mod M)) mod M even when a (an AES-CTR nonce) is much larger
// than M.
func codeC(code int64, a []byte, s, length int) int64 {
	max := pow10Big(length)
	aInt := new(big.Int).SetBytes(a)

	diff := new(big.Int).Sub(big.NewInt(code), aInt)
	diff.Mod(diff, max)

	twoS := new(big.Int).Lsh(big.NewInt(1), uint(s))
	diff.Mod(diff, twoS)
	return diff.Int64()
}

func pow10Big(exp int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(exp)), nil)
}

// shuffleCode applies the fixed digit-position permutation for the given
// code length to code, returning it zero-padded to exactly length digits.
func shuffleCode(code int64, length int) string {
	shuffle := codeShuffle[length]
	digits := make([]byte, length)
	for i := length - 1; i >= 0; i-- {
		digits[i] = byte('0' + code%10)
		code /= 10
	}
	var out strings.Builder
	for _, s := range shuffle {
		out.WriteByte(digits[s])
	}
	return out.String()
}

// deshuffleCode inverts shuffleCode, recovering the integer the code
// represented before the digit-position permutation was applied.
func deshuffleCode(code string) int64 {
	deshuffle := codeDeshuffle[len(code)]
	var result int64
	for i := 0; i < len(code); i++ {
		d := int64(code[deshuffle[i]] - '0')
		exp := len(code) - i - 1
		result += d * pow10Int(exp)
	}
	return result
}

func pow10Int(exp int) int64 {
	result := int64(1)
	for i := 0; i < exp; i++ {
		result *= 10
	}
	return result
}

// parseCode converts a decimal code string to its integer value (no
// shuffle applied). Returns false if code isn't exactly `length` decimal
// digits.
func parseCode(code string, length int) (int64, bool) {
	if len(code) != length {
		return 0, false
	}
	v, err := strconv.ParseInt(code, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
