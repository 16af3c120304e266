package render

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"
)

// Serialize packs a module sequence two bits per module, most-significant
// pair first, and encodes the result as unpadded URL-safe base64.
func Serialize(modules []byte) string {
	packed := make([]byte, (len(modules)*2+7)/8)
	for i, m := range modules {
		shift := uint(6 - (i%4)*2)
		packed[i/4] |= (m & 0b11) << shift
	}
	return base64.RawURLEncoding.EncodeToString(packed)
}

// Deserialize decodes Serialize's output back into a module sequence.
// Trailing bits that don't fit the largest square matrix are padding from
// the base64 byte rounding and are discarded.
func Deserialize(s string) ([]byte, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("render: barcode is not valid base64: %w", err)
	}
	modules := make([]byte, 0, len(raw)*4)
	for _, b := range raw {
		modules = append(modules, (b>>6)&0b11, (b>>4)&0b11, (b>>2)&0b11, b&0b11)
	}
	size := int(math.Sqrt(float64(len(modules))))
	return modules[:size*size], nil
}
