package cronto

import "strings"

// escape percent-escapes text against the fixed alphabet/escape-table
// pair: a code point present in the escape table becomes %XX (two
// uppercase hex digits of the mapped byte); one present in the alphabet
// passes through unchanged; anything else is dropped silently.
func escape(text string) string {
	var out strings.Builder
	for _, r := range text {
		if b, ok := unescapeTable[r]; ok {
			out.WriteString("%")
			out.WriteString(strings.ToUpper(hexByte(b)))
			continue
		}
		if strings.ContainsRune(alphabet, r) {
			out.WriteRune(r)
		}
	}
	return out.String()
}

func hexByte(b byte) string {
	const digits = "0123456789abcdef"
	return string([]byte{digits[b>>4], digits[b&0xF]})
}

// packPadString partitions s into groups of n base-40 digits, each group
// packed as a big-endian unsigned integer in symbolBytes bytes, padding
// missing trailing digits with padding's alphabet index. The result must
// be exactly length bytes.
func packPadString(s string, n int, padding byte, length int) ([]byte, error) {
	const base = len(alphabet)
	symbolBits := bitLen(pow(base, n))
	symbolBytes := (symbolBits + 7) / 8

	if length%symbolBytes != 0 {
		return nil, NewEncodingError("pack_pad_string", "target length is not a multiple of the symbol size")
	}

	paddingIndex := strings.IndexByte(alphabet, padding)
	if paddingIndex < 0 {
		return nil, NewEncodingError("pack_pad_string", "padding symbol is not in the alphabet")
	}

	numGroups := length / symbolBytes
	if len(s) > numGroups*n {
		return nil, ErrInvalidMessageLength
	}
	out := make([]byte, 0, length)
	for i := 0; i < numGroups; i++ {
		symbol := 0
		for j := 0; j < n; j++ {
			symbol *= base
			idx := i*n + j
			if idx < len(s) {
				symbol += strings.IndexByte(alphabet, s[idx])
			} else {
				symbol += paddingIndex
			}
		}
		group := make([]byte, symbolBytes)
		for b := symbolBytes - 1; b >= 0; b-- {
			group[b] = byte(symbol)
			symbol >>= 8
		}
		out = append(out, group...)
	}

	if len(out) != length {
		return nil, ErrInvalidMessageLength
	}
	return out, nil
}

// bitLen returns the number of bits needed to represent n (n >= 1).
func bitLen(n int) int {
	bits := 0
	for n > 0 {
		bits++
		n >>= 1
	}
	return bits
}

func pow(base, exp int) int {
	result := 1
	for i := 0; i < exp; i++ {
		result *= base
	}
	return result
}
