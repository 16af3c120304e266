package cronto

// RotateVaultSecret opens a blob sealed under oldVault and reseals its
// plaintext under newVault: rotating stored key material to a new vault
// passphrase or cipher suite without the caller ever handling the
// plaintext in between. The caurus front end drives this through its
// rekey command for both the service configuration and every stored
// account key.
func RotateVaultSecret(oldVault, newVault *KeyVault, blob []byte) ([]byte, error) {
	plaintext, err := oldVault.Open(blob)
	if err != nil {
		return nil, err
	}
	return newVault.Seal(plaintext)
}
