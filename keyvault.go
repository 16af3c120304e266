package cronto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"hash"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

// KeyVault seals service and account key material (ServiceContext's
// ServiceKey/ServiceMAC, an Account's Key/Salt) into an opaque byte blob
// for the host to persist however it likes, and opens such a blob back
// into plaintext key material. It never touches a file itself --
// configuration loading and persistence are explicitly the host's
// concern, not the core's.
type KeyVault struct {
	provider KeyProvider
	suite    CipherSuite
	saltSize int
}

// NewKeyVault builds a vault that derives its sealing key from provider
// and encrypts under suite. saltSize must match the salt length provider
// produces, since Open needs to know where the salt prefix ends in a
// sealed blob without re-deriving anything first.
func NewKeyVault(provider KeyProvider, suite CipherSuite, saltSize int) *KeyVault {
	return &KeyVault{provider: provider, suite: suite, saltSize: saltSize}
}

// Seal encrypts plaintext under a freshly derived key, returning
// salt || nonce || ciphertext.
func (v *KeyVault) Seal(plaintext []byte) ([]byte, error) {
	salt, err := v.provider.GenerateSalt()
	if err != nil {
		return nil, NewCryptoError("keyvault.seal", err)
	}
	key, err := v.provider.DeriveKey(salt)
	if err != nil {
		return nil, NewCryptoError("keyvault.seal", err)
	}
	aead, err := newAEAD(v.suite, key)
	if err != nil {
		return nil, err
	}

	nonce, err := generateNonce(aead)
	if err != nil {
		return nil, err
	}
	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	blob := make([]byte, 0, len(salt)+len(nonce)+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, nonce...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// Open recovers the plaintext sealed by Seal.
func (v *KeyVault) Open(blob []byte) ([]byte, error) {
	if len(blob) < v.saltSize {
		return nil, NewValidationError("blob", len(blob), "sealed blob shorter than the salt prefix")
	}
	salt := blob[:v.saltSize]

	key, err := v.provider.DeriveKey(salt)
	if err != nil {
		return nil, NewCryptoError("keyvault.open", err)
	}
	aead, err := newAEAD(v.suite, key)
	if err != nil {
		return nil, err
	}

	nonceSize := aead.NonceSize()
	if len(blob) < v.saltSize+nonceSize {
		return nil, NewValidationError("blob", len(blob), "sealed blob shorter than salt + nonce")
	}
	nonce := blob[v.saltSize : v.saltSize+nonceSize]
	ciphertext := blob[v.saltSize+nonceSize:]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, NewCryptoError("keyvault.open", err)
	}
	return plaintext, nil
}

// KeyProvider derives a sealing key from a salt and can mint new salts.
// Every implementation in this package derives exactly vaultKeySize
// bytes, the one key size a KeyVault's AEAD suites ever take.
type KeyProvider interface {
	DeriveKey(salt []byte) ([]byte, error)
	GenerateSalt() ([]byte, error)
}

// HashFunc selects the underlying hash PBKDF2 runs over.
type HashFunc int

const (
	SHA256 HashFunc = iota + 1
	SHA512
)

// PBKDF2Params configures PasswordKeyProvider's PBKDF2 path.
type PBKDF2Params struct {
	Iterations int
	SaltSize   int
	HashFunc   HashFunc
}

// Argon2idParams configures PasswordKeyProvider's Argon2id path
// (the recommended default).
type Argon2idParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
	SaltSize    int
}

// PasswordKeyProvider implements KeyProvider using password-based key
// derivation, either Argon2id (recommended) or PBKDF2. It always derives
// vaultKeySize bytes -- a KeyVault has no use for a key of any other
// length, so unlike a general-purpose KDF wrapper there's no separate
// key-size knob to get wrong.
type PasswordKeyProvider struct {
	password     []byte
	useArgon2id  bool
	pbkdf2Params PBKDF2Params
	argon2Params Argon2idParams
}

// NewPasswordKeyProvider creates a password-based key provider using
// Argon2id.
func NewPasswordKeyProvider(password []byte, params Argon2idParams) *PasswordKeyProvider {
	if params.Memory == 0 {
		params.Memory = 64 * 1024
	}
	if params.Iterations == 0 {
		params.Iterations = 3
	}
	if params.Parallelism == 0 {
		params.Parallelism = 4
	}
	if params.SaltSize == 0 {
		params.SaltSize = 32
	}
	return &PasswordKeyProvider{password: password, useArgon2id: true, argon2Params: params}
}

// NewPasswordKeyProviderPBKDF2 creates a password-based key provider using
// PBKDF2.
func NewPasswordKeyProviderPBKDF2(password []byte, params PBKDF2Params) *PasswordKeyProvider {
	if params.Iterations == 0 {
		params.Iterations = 100000
	}
	if params.SaltSize == 0 {
		params.SaltSize = 32
	}
	if params.HashFunc == 0 {
		params.HashFunc = SHA256
	}
	return &PasswordKeyProvider{password: password, useArgon2id: false, pbkdf2Params: params}
}

func (p *PasswordKeyProvider) DeriveKey(salt []byte) ([]byte, error) {
	if len(p.password) == 0 {
		return nil, NewValidationError("password", nil, "cannot be empty")
	}
	if len(salt) == 0 {
		return nil, NewValidationError("salt", nil, "cannot be empty")
	}

	if p.useArgon2id {
		return argon2.IDKey(
			p.password,
			salt,
			p.argon2Params.Iterations,
			p.argon2Params.Memory,
			p.argon2Params.Parallelism,
			vaultKeySize,
		), nil
	}

	var hashFunc func() hash.Hash
	switch p.pbkdf2Params.HashFunc {
	case SHA256:
		hashFunc = sha256.New
	case SHA512:
		hashFunc = sha512.New
	default:
		return nil, NewValidationError("hash_func", p.pbkdf2Params.HashFunc, "unsupported PBKDF2 hash function")
	}

	return pbkdf2.Key(p.password, salt, p.pbkdf2Params.Iterations, vaultKeySize, hashFunc), nil
}

func (p *PasswordKeyProvider) GenerateSalt() ([]byte, error) {
	saltSize := p.pbkdf2Params.SaltSize
	if p.useArgon2id {
		saltSize = p.argon2Params.SaltSize
	}
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, NewCryptoError("generate_salt", err)
	}
	return salt, nil
}

// SaltSize reports the salt length this provider generates, so callers can
// size a KeyVault correctly.
func (p *PasswordKeyProvider) SaltSize() int {
	if p.useArgon2id {
		return p.argon2Params.SaltSize
	}
	return p.pbkdf2Params.SaltSize
}
