package cronto

import (
	"crypto/aes"
	"crypto/cipher"
)

// aesCTREncrypt draws a 16-byte nonce from ctx's random source and runs
// AES-128-CTR over message, returning nonce || ciphertext. The frame's own
// truncated HMAC is the authentication layer here (see frame.go), applied
// once over the whole frame, not once per encrypted field, so this stays a
// plain stream cipher rather than an AEAD mode.
func aesCTREncrypt(key, message []byte, ctx *ServiceContext) ([]byte, error) {
	nonce, err := randomBigEndian128(ctx)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, NewCryptoError("aes_ctr_encrypt", err)
	}

	ciphertext := make([]byte, len(message))
	stream := cipher.NewCTR(block, nonce)
	stream.XORKeyStream(ciphertext, message)

	result := make([]byte, 0, len(nonce)+len(ciphertext))
	result = append(result, nonce...)
	result = append(result, ciphertext...)
	return result, nil
}
