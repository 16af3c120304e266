// Package store persists enrolled accounts in a SQLite database. An
// account enters the store when the activation ceremony completes and is
// read back every time a transaction is authorized for it. When the
// store is opened with a cronto.KeyVault, account keys are sealed by the
// vault before they touch the database.
package store

import (
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/caurus/cronto"
)

// ErrNotFound is returned when the requested account number has no
// enrolled account.
var ErrNotFound = errors.New("store: account not found")

// accountRecord is the persisted form of a cronto.Account. The device id
// and salt are stored hex-encoded; the account key is additionally sealed
// by the store's KeyVault when one is configured, with Sealed recording
// which form the row holds.
type accountRecord struct {
	Number    int    `gorm:"primaryKey"`
	DeviceID  string `gorm:"column:device_id;size:32;not null"`
	Key       string `gorm:"not null"`
	Sealed    bool   `gorm:"not null"`
	Salt      string `gorm:"size:36;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (accountRecord) TableName() string { return "accounts" }

func (r *accountRecord) account(vault *cronto.KeyVault) (*cronto.Account, error) {
	id, err := hex.DecodeString(r.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("store: account %d has a corrupt device id: %w", r.Number, err)
	}
	key, err := hex.DecodeString(r.Key)
	if err != nil {
		return nil, fmt.Errorf("store: account %d has a corrupt key: %w", r.Number, err)
	}
	if r.Sealed {
		if vault == nil {
			return nil, fmt.Errorf("store: account %d key is sealed and no key passphrase was supplied", r.Number)
		}
		key, err = vault.Open(key)
		if err != nil {
			return nil, fmt.Errorf("store: opening sealed key of account %d: %w", r.Number, err)
		}
	}
	salt, err := hex.DecodeString(r.Salt)
	if err != nil {
		return nil, fmt.Errorf("store: account %d has a corrupt salt: %w", r.Number, err)
	}
	return &cronto.Account{Number: r.Number, ID: id, Key: key, Salt: salt}, nil
}

// Store is a SQLite-backed account database.
type Store struct {
	db    *gorm.DB
	vault *cronto.KeyVault
}

// Open opens the account database at path, creating it and its schema if
// necessary. vault, when non-nil, seals account keys at rest; it must
// match the vault the existing rows were sealed under.
func Open(path string, vault *cronto.KeyVault) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	if err := db.AutoMigrate(&accountRecord{}); err != nil {
		return nil, fmt.Errorf("store: migrating %s: %w", path, err)
	}
	return &Store{db: db, vault: vault}, nil
}

// Save inserts or replaces the account under its account number, sealing
// its key when the store has a vault.
func (s *Store) Save(account *cronto.Account) error {
	key := account.Key
	if s.vault != nil {
		blob, err := s.vault.Seal(account.Key)
		if err != nil {
			return fmt.Errorf("store: sealing key of account %d: %w", account.Number, err)
		}
		key = blob
	}
	rec := accountRecord{
		Number:   account.Number,
		DeviceID: hex.EncodeToString(account.ID),
		Key:      hex.EncodeToString(key),
		Sealed:   s.vault != nil,
		Salt:     hex.EncodeToString(account.Salt),
	}
	if err := s.db.Save(&rec).Error; err != nil {
		return fmt.Errorf("store: saving account %d: %w", account.Number, err)
	}
	return nil
}

// Account returns the enrolled account with the given number, or
// ErrNotFound.
func (s *Store) Account(number int) (*cronto.Account, error) {
	var rec accountRecord
	err := s.db.First(&rec, "number = ?", number).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: loading account %d: %w", number, err)
	}
	return rec.account(s.vault)
}

// Accounts returns every enrolled account, ordered by account number.
func (s *Store) Accounts() ([]*cronto.Account, error) {
	var recs []accountRecord
	if err := s.db.Order("number").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("store: listing accounts: %w", err)
	}
	accounts := make([]*cronto.Account, 0, len(recs))
	for i := range recs {
		account, err := recs[i].account(s.vault)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

// Delete removes the account with the given number, returning ErrNotFound
// when there is none.
func (s *Store) Delete(number int) error {
	result := s.db.Delete(&accountRecord{}, "number = ?", number)
	if result.Error != nil {
		return fmt.Errorf("store: deleting account %d: %w", number, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Rekey reseals every stored account key under newVault (or unseals them
// when newVault is nil), using the vault the store was opened with for
// the existing rows. On success the store carries newVault for
// subsequent operations.
func (s *Store) Rekey(newVault *cronto.KeyVault) error {
	var recs []accountRecord
	if err := s.db.Order("number").Find(&recs).Error; err != nil {
		return fmt.Errorf("store: listing accounts: %w", err)
	}

	for i := range recs {
		rec := &recs[i]
		raw, err := hex.DecodeString(rec.Key)
		if err != nil {
			return fmt.Errorf("store: account %d has a corrupt key: %w", rec.Number, err)
		}

		switch {
		case rec.Sealed && newVault != nil:
			if s.vault == nil {
				return fmt.Errorf("store: account %d key is sealed and no key passphrase was supplied", rec.Number)
			}
			raw, err = cronto.RotateVaultSecret(s.vault, newVault, raw)
			if err != nil {
				return fmt.Errorf("store: resealing key of account %d: %w", rec.Number, err)
			}
		case rec.Sealed:
			if s.vault == nil {
				return fmt.Errorf("store: account %d key is sealed and no key passphrase was supplied", rec.Number)
			}
			raw, err = s.vault.Open(raw)
			if err != nil {
				return fmt.Errorf("store: opening sealed key of account %d: %w", rec.Number, err)
			}
		case newVault != nil:
			raw, err = newVault.Seal(raw)
			if err != nil {
				return fmt.Errorf("store: sealing key of account %d: %w", rec.Number, err)
			}
		default:
			continue
		}

		rec.Key = hex.EncodeToString(raw)
		rec.Sealed = newVault != nil
		if err := s.db.Save(rec).Error; err != nil {
			return fmt.Errorf("store: saving account %d: %w", rec.Number, err)
		}
	}

	s.vault = newVault
	return nil
}
