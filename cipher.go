package cronto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"golang.org/x/crypto/chacha20poly1305"
)

// CipherSuite selects the AEAD construction KeyVault seals secrets under.
// This is ambient infrastructure for storing service/account key material
// at rest; it plays no part in the barcode wire format itself.
type CipherSuite int

const (
	// CipherAES256GCM selects AES-256-GCM.
	CipherAES256GCM CipherSuite = iota + 1
	// CipherChaCha20Poly1305 selects ChaCha20-Poly1305.
	CipherChaCha20Poly1305
	// CipherAuto defaults to AES-256-GCM.
	CipherAuto
)

// vaultKeySize is the only key size a KeyVault ever derives: both
// AES-256-GCM and ChaCha20-Poly1305 take a 32-byte key, so there's no
// per-suite key size to plumb through.
const vaultKeySize = 32

// newAEAD builds the cipher.AEAD for suite and key. Both crypto/cipher's
// GCM mode and x/crypto's ChaCha20-Poly1305 already satisfy this
// interface directly, so KeyVault has no need for its own encrypt/decrypt
// wrapper type around them -- it calls Seal/Open on whichever one this
// returns.
func newAEAD(suite CipherSuite, key []byte) (cipher.AEAD, error) {
	if err := ValidateKeySize(key, vaultKeySize, "key"); err != nil {
		return nil, err
	}

	switch suite {
	case CipherAES256GCM, CipherAuto:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, NewCryptoError("aes.new_cipher", err)
		}
		aead, err := cipher.NewGCM(block)
		if err != nil {
			return nil, NewCryptoError("cipher.new_gcm", err)
		}
		return aead, nil
	case CipherChaCha20Poly1305:
		aead, err := chacha20poly1305.New(key)
		if err != nil {
			return nil, NewCryptoError("chacha20poly1305.new", err)
		}
		return aead, nil
	default:
		return nil, NewValidationError("suite", suite, "unsupported cipher suite")
	}
}

// generateNonce draws a random nonce sized for aead.
func generateNonce(aead cipher.AEAD) ([]byte, error) {
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, NewCryptoError("generate_nonce", err)
	}
	return nonce, nil
}
