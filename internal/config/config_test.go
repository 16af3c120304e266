package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/caurus/cronto"
)

func testVault(t *testing.T, password string) *cronto.KeyVault {
	t.Helper()
	provider := cronto.NewPasswordKeyProvider([]byte(password), cronto.Argon2idParams{
		Memory: 8 * 1024, Iterations: 1, Parallelism: 1,
	})
	return cronto.NewKeyVault(provider, cronto.CipherAES256GCM, provider.SaltSize())
}

func TestInitAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caurus.yaml")

	written, err := Init(path, 7, "accounts.db", nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(written.Service.MAC) != 32 || len(written.Service.Key) != 32 {
		t.Errorf("generated key material is not 16 hex-encoded bytes: mac %d chars, key %d chars",
			len(written.Service.MAC), len(written.Service.Key))
	}
	if written.Service.Sealed {
		t.Error("Init without a vault marked the configuration sealed")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Service.ID != 7 {
		t.Errorf("Service.ID = %d, want 7", loaded.Service.ID)
	}
	if loaded.Service.MAC != written.Service.MAC || loaded.Service.Key != written.Service.Key {
		t.Error("loaded key material differs from what Init wrote")
	}
	if loaded.DB != "accounts.db" {
		t.Errorf("DB = %q, want %q", loaded.DB, "accounts.db")
	}
	if loaded.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want %q", loaded.Log.Level, "info")
	}
}

func TestInitSealedRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caurus.yaml")
	vault := testVault(t, "a vault passphrase")

	if _, err := Init(path, 7, "accounts.db", vault); err != nil {
		t.Fatalf("Init: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.Service.Sealed {
		t.Fatal("Init with a vault did not mark the configuration sealed")
	}

	ctx, err := loaded.ServiceContext(vault)
	if err != nil {
		t.Fatalf("ServiceContext with the sealing vault: %v", err)
	}
	if len(ctx.ServiceMAC) != 16 || len(ctx.ServiceKey) != 16 {
		t.Error("unsealed key material is not 16 bytes")
	}

	if _, err := loaded.ServiceContext(nil); err == nil {
		t.Error("ServiceContext opened a sealed configuration without a vault")
	}
	if _, err := loaded.ServiceContext(testVault(t, "wrong passphrase")); err == nil {
		t.Error("ServiceContext opened a sealed configuration under the wrong vault")
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caurus.yaml")
	if _, err := Init(path, 1, "caurus.db", nil); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := Init(path, 2, "caurus.db", nil); err == nil {
		t.Error("Init overwrote an existing configuration file")
	}
}

func TestInitRejectsOutOfRangeServiceID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caurus.yaml")
	if _, err := Init(path, 64, "caurus.db", nil); err == nil {
		t.Error("Init accepted service id 64")
	}
	if _, err := Init(path, -1, "caurus.db", nil); err == nil {
		t.Error("Init accepted a negative service id")
	}
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caurus.yaml")
	contents := strings.Join([]string{
		"service:",
		"  id: 3",
		"  mac: " + strings.Repeat("01", 16),
		"  key: " + strings.Repeat("02", 16),
	}, "\n")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB != "caurus.db" {
		t.Errorf("default DB = %q, want %q", cfg.DB, "caurus.db")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("default Log.Level = %q, want %q", cfg.Log.Level, "info")
	}
	if cfg.Service.Sealed {
		t.Error("a configuration without a sealed marker loaded as sealed")
	}
}

func TestServiceContext(t *testing.T) {
	cfg := &Config{Service: ServiceConfig{
		ID:  5,
		MAC: strings.Repeat("01", 16),
		Key: strings.Repeat("02", 16),
	}}

	ctx, err := cfg.ServiceContext(nil)
	if err != nil {
		t.Fatalf("ServiceContext: %v", err)
	}
	if ctx.ServiceID != 5 {
		t.Errorf("ServiceID = %d, want 5", ctx.ServiceID)
	}
	if len(ctx.ServiceMAC) != 16 || len(ctx.ServiceKey) != 16 {
		t.Error("decoded key material is not 16 bytes")
	}
	if ctx.Random == nil {
		t.Error("ServiceContext has no random source")
	}
}

func TestServiceContextRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"bad hex mac", Config{Service: ServiceConfig{ID: 1, MAC: "zz", Key: strings.Repeat("02", 16)}}},
		{"bad hex key", Config{Service: ServiceConfig{ID: 1, MAC: strings.Repeat("01", 16), Key: "zz"}}},
		{"short mac", Config{Service: ServiceConfig{ID: 1, MAC: "0102", Key: strings.Repeat("02", 16)}}},
		{"service id out of range", Config{Service: ServiceConfig{ID: 64, MAC: strings.Repeat("01", 16), Key: strings.Repeat("02", 16)}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.cfg.ServiceContext(nil); err == nil {
				t.Error("ServiceContext accepted a malformed config")
			}
		})
	}
}

func TestRekey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caurus.yaml")
	vault := testVault(t, "first passphrase")
	nextVault := testVault(t, "second passphrase")

	cfg, err := Init(path, 7, "accounts.db", nil)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	before, err := cfg.ServiceContext(nil)
	if err != nil {
		t.Fatalf("ServiceContext: %v", err)
	}

	// Plain -> sealed.
	if _, err := Rekey(path, nil, vault); err != nil {
		t.Fatalf("Rekey to sealed: %v", err)
	}
	sealed, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !sealed.Service.Sealed {
		t.Fatal("Rekey did not mark the configuration sealed")
	}
	ctx, err := sealed.ServiceContext(vault)
	if err != nil {
		t.Fatalf("ServiceContext after sealing: %v", err)
	}
	if !bytes.Equal(ctx.ServiceMAC, before.ServiceMAC) || !bytes.Equal(ctx.ServiceKey, before.ServiceKey) {
		t.Error("sealing changed the service key material")
	}

	// Sealed -> sealed under a different passphrase.
	if _, err := Rekey(path, vault, nextVault); err != nil {
		t.Fatalf("Rekey to a new passphrase: %v", err)
	}
	rotated, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := rotated.ServiceContext(vault); err == nil {
		t.Error("configuration still opens under the outgoing vault after rekey")
	}
	ctx, err = rotated.ServiceContext(nextVault)
	if err != nil {
		t.Fatalf("ServiceContext after rotation: %v", err)
	}
	if !bytes.Equal(ctx.ServiceMAC, before.ServiceMAC) {
		t.Error("rotation changed the service key material")
	}

	// Sealed -> plain.
	if _, err := Rekey(path, nextVault, nil); err != nil {
		t.Fatalf("Rekey to plain: %v", err)
	}
	plain, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if plain.Service.Sealed {
		t.Fatal("Rekey to plain left the configuration marked sealed")
	}
	ctx, err = plain.ServiceContext(nil)
	if err != nil {
		t.Fatalf("ServiceContext after unsealing: %v", err)
	}
	if !bytes.Equal(ctx.ServiceKey, before.ServiceKey) {
		t.Error("unsealing changed the service key material")
	}
}

func TestRekeySealedRequiresOldVault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "caurus.yaml")
	vault := testVault(t, "a vault passphrase")
	if _, err := Init(path, 1, "caurus.db", vault); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := Rekey(path, nil, testVault(t, "another")); err == nil {
		t.Error("Rekey resealed a sealed configuration without the old vault")
	}
}
