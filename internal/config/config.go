// Package config loads and writes the caurus service configuration file:
// the service's identity and keys, the path to the account database, and
// log settings. The cronto core itself never reads configuration; this
// package converts the on-disk form into the in-memory ServiceContext the
// core consumes. Key material is stored hex-encoded, either plain or
// sealed by a cronto.KeyVault when the operator supplies a passphrase.
package config

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/viper"

	"github.com/caurus/cronto"
)

// ServiceConfig is the service identity section of the configuration
// file. When Sealed is set, MAC and Key hold hex-encoded KeyVault blobs
// rather than the raw key material.
type ServiceConfig struct {
	ID     int    `mapstructure:"id"`
	MAC    string `mapstructure:"mac"`
	Key    string `mapstructure:"key"`
	Sealed bool   `mapstructure:"sealed"`
}

// LogConfig configures the command-line front end's logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the full contents of a caurus configuration file.
type Config struct {
	Service ServiceConfig `mapstructure:"service"`
	DB      string        `mapstructure:"db"`
	Log     LogConfig     `mapstructure:"log"`
}

// Load reads and decodes the configuration file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("db", "caurus.db")
	v.SetDefault("log.level", "info")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return &cfg, nil
}

// keyMaterial decodes one hex field of the service section, opening it
// with vault when the configuration is sealed.
func (s *ServiceConfig) keyMaterial(field, name string, vault *cronto.KeyVault) ([]byte, error) {
	raw, err := hex.DecodeString(field)
	if err != nil {
		return nil, fmt.Errorf("config: service %s is not valid hex: %w", name, err)
	}
	if !s.Sealed {
		return raw, nil
	}
	if vault == nil {
		return nil, fmt.Errorf("config: service %s is sealed and no key passphrase was supplied", name)
	}
	plain, err := vault.Open(raw)
	if err != nil {
		return nil, fmt.Errorf("config: opening sealed service %s: %w", name, err)
	}
	return plain, nil
}

// ServiceContext converts the configured service identity into the
// context the cronto core operates on, decoding (and, for a sealed
// configuration, opening) the key material and attaching the system
// CSPRNG. vault may be nil for an unsealed configuration.
func (c *Config) ServiceContext(vault *cronto.KeyVault) (*cronto.ServiceContext, error) {
	if c.Service.ID < 0 || c.Service.ID > 63 {
		return nil, fmt.Errorf("config: service id %d out of range [0, 64)", c.Service.ID)
	}
	mac, err := c.Service.keyMaterial(c.Service.MAC, "mac", vault)
	if err != nil {
		return nil, err
	}
	key, err := c.Service.keyMaterial(c.Service.Key, "key", vault)
	if err != nil {
		return nil, err
	}

	ctx := &cronto.ServiceContext{
		ServiceID:  uint8(c.Service.ID),
		ServiceMAC: mac,
		ServiceKey: key,
		Random:     cronto.SystemRandomSource{},
	}
	if err := ctx.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return ctx, nil
}

// Init generates a fresh service identity (random MAC and encryption
// keys) and writes a new configuration file at path, sealing the key
// material under vault when one is supplied. It refuses to overwrite an
// existing file.
func Init(path string, serviceID int, dbPath string, vault *cronto.KeyVault) (*Config, error) {
	if serviceID < 0 || serviceID > 63 {
		return nil, fmt.Errorf("config: service id %d out of range [0, 64)", serviceID)
	}

	random := cronto.SystemRandomSource{}
	mac, err := random.Bytes(16)
	if err != nil {
		return nil, fmt.Errorf("config: generating service mac: %w", err)
	}
	key, err := random.Bytes(16)
	if err != nil {
		return nil, fmt.Errorf("config: generating service key: %w", err)
	}

	macField, err := sealField(mac, vault, "mac")
	if err != nil {
		return nil, err
	}
	keyField, err := sealField(key, vault, "key")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Service: ServiceConfig{
			ID:     serviceID,
			MAC:    macField,
			Key:    keyField,
			Sealed: vault != nil,
		},
		DB:  dbPath,
		Log: LogConfig{Level: "info"},
	}
	if err := write(path, cfg, false); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Rekey reseals the configured service key material: it opens the
// existing MAC and encryption keys (under oldVault when the file is
// sealed) and rewrites the file sealed under newVault, or as plain hex
// when newVault is nil.
func Rekey(path string, oldVault, newVault *cronto.KeyVault) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	cfg.Service.MAC, err = resealField(cfg.Service.MAC, cfg.Service.Sealed, oldVault, newVault, "mac")
	if err != nil {
		return nil, err
	}
	cfg.Service.Key, err = resealField(cfg.Service.Key, cfg.Service.Sealed, oldVault, newVault, "key")
	if err != nil {
		return nil, err
	}
	cfg.Service.Sealed = newVault != nil

	if err := write(path, cfg, true); err != nil {
		return nil, err
	}
	return cfg, nil
}

func sealField(plain []byte, vault *cronto.KeyVault, name string) (string, error) {
	if vault == nil {
		return hex.EncodeToString(plain), nil
	}
	blob, err := vault.Seal(plain)
	if err != nil {
		return "", fmt.Errorf("config: sealing service %s: %w", name, err)
	}
	return hex.EncodeToString(blob), nil
}

func resealField(field string, sealed bool, oldVault, newVault *cronto.KeyVault, name string) (string, error) {
	raw, err := hex.DecodeString(field)
	if err != nil {
		return "", fmt.Errorf("config: service %s is not valid hex: %w", name, err)
	}

	switch {
	case sealed && newVault != nil:
		if oldVault == nil {
			return "", fmt.Errorf("config: service %s is sealed and no key passphrase was supplied", name)
		}
		blob, err := cronto.RotateVaultSecret(oldVault, newVault, raw)
		if err != nil {
			return "", fmt.Errorf("config: resealing service %s: %w", name, err)
		}
		return hex.EncodeToString(blob), nil
	case sealed:
		if oldVault == nil {
			return "", fmt.Errorf("config: service %s is sealed and no key passphrase was supplied", name)
		}
		plain, err := oldVault.Open(raw)
		if err != nil {
			return "", fmt.Errorf("config: opening sealed service %s: %w", name, err)
		}
		return hex.EncodeToString(plain), nil
	case newVault != nil:
		return sealField(raw, newVault, name)
	default:
		return field, nil
	}
}

func write(path string, cfg *Config, overwrite bool) error {
	v := viper.New()
	v.Set("service.id", cfg.Service.ID)
	v.Set("service.mac", cfg.Service.MAC)
	v.Set("service.key", cfg.Service.Key)
	v.Set("service.sealed", cfg.Service.Sealed)
	v.Set("db", cfg.DB)
	v.Set("log.level", cfg.Log.Level)

	if overwrite {
		if err := v.WriteConfigAs(path); err != nil {
			return fmt.Errorf("config: writing %s: %w", path, err)
		}
		return nil
	}
	if err := v.SafeWriteConfigAs(path); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
