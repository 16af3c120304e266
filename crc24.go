package cronto

import "github.com/pasztorpisti/go-crc"

// crc24 computes the IETF/OpenPGP CRC-24 (polynomial 0x864CFB, init
// 0xB704CE, no reflection, no xor-out) over data, serialized big-endian as
// 3 bytes. github.com/pasztorpisti/go-crc ships this exact variant as a
// preset (CRC24OPENPGP) rather than something this package needs to
// hand-roll.
func crc24(data []byte) []byte {
	sum := crc.CRC24OPENPGP.Calc(data)
	return []byte{byte(sum >> 16), byte(sum >> 8), byte(sum)}
}
