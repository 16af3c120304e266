package cronto

import (
	"bytes"
	"testing"
)

func TestKeyVaultSealOpenArgon2idGCM(t *testing.T) {
	provider := NewPasswordKeyProvider([]byte("correct horse battery staple"), Argon2idParams{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
	})
	vault := NewKeyVault(provider, CipherAES256GCM, provider.SaltSize())

	plaintext := []byte("a 16-byte service MAC key")
	blob, err := vault.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	got, err := vault.Open(blob)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Open(Seal(x)) = %q, want %q", got, plaintext)
	}
}

func TestKeyVaultSealOpenPBKDF2ChaCha20(t *testing.T) {
	provider := NewPasswordKeyProviderPBKDF2([]byte("another passphrase"), PBKDF2Params{
		Iterations: 10,
	})
	vault := NewKeyVault(provider, CipherChaCha20Poly1305, provider.SaltSize())

	plaintext := repeatByte(0x5A, 32)
	blob, err := vault.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	got, err := vault.Open(blob)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("Open(Seal(x)) = %x, want %x", got, plaintext)
	}
}

func TestKeyVaultOpenRejectsCorruptBlob(t *testing.T) {
	provider := NewPasswordKeyProvider([]byte("correct horse battery staple"), Argon2idParams{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
	})
	vault := NewKeyVault(provider, CipherAES256GCM, provider.SaltSize())

	blob, err := vault.Seal([]byte("some secret"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	blob[len(blob)-1] ^= 0xFF

	if _, err := vault.Open(blob); err == nil {
		t.Error("Open should reject a blob whose ciphertext was tampered with")
	}
}

func TestKeyVaultOpenRejectsTruncatedBlob(t *testing.T) {
	provider := NewPasswordKeyProvider([]byte("pw"), Argon2idParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1})
	vault := NewKeyVault(provider, CipherAES256GCM, provider.SaltSize())

	if _, err := vault.Open(make([]byte, 4)); err == nil {
		t.Error("Open should reject a blob shorter than the salt prefix")
	}
}

func TestRotateVaultSecretBasic(t *testing.T) {
	oldProvider := NewPasswordKeyProvider([]byte("old password"), Argon2idParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1})
	newProvider := NewPasswordKeyProvider([]byte("new password"), Argon2idParams{Memory: 8 * 1024, Iterations: 1, Parallelism: 1})
	oldVault := NewKeyVault(oldProvider, CipherAES256GCM, oldProvider.SaltSize())
	newVault := NewKeyVault(newProvider, CipherAES256GCM, newProvider.SaltSize())

	plaintext := []byte("rotate me")
	blob, err := oldVault.Seal(plaintext)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}

	rotated, err := RotateVaultSecret(oldVault, newVault, blob)
	if err != nil {
		t.Fatalf("RotateVaultSecret: %v", err)
	}

	if _, err := oldVault.Open(rotated); err == nil {
		t.Error("rotated blob should no longer open under the old vault")
	}
	got, err := newVault.Open(rotated)
	if err != nil {
		t.Fatalf("Open under new vault: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("rotated plaintext = %q, want %q", got, plaintext)
	}
}
