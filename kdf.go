package cronto

import "encoding/binary"

// derivationMagic binds every derived key to the protocol and version it
// was derived for.
const derivationMagic = "\x00cronto-v3\x00"

// derive is the keyed derivation function every per-purpose key in this
// package comes from:
//
//	derive(key, id, salt, n) = HMAC(key, 0x00000001 || id || "\0cronto-v3\0" || salt || be32(n*8))[:n]
//
// Label counter fixed at 1, a single derivation block, truncated to n
// bytes.
func derive(key []byte, id, salt string, n int) []byte {
	data := make([]byte, 0, 4+len(id)+len(derivationMagic)+len(salt)+4)
	data = append(data, 0x00, 0x00, 0x00, 0x01)
	data = append(data, id...)
	data = append(data, derivationMagic...)
	data = append(data, salt...)
	lengthBits := make([]byte, 4)
	binary.BigEndian.PutUint32(lengthBits, uint32(n*8))
	data = append(data, lengthBits...)

	return hmacSHA256(key, data)[:n]
}
