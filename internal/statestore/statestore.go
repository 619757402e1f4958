// Package statestore persists the authenticated session across process
// restarts. The identity payload and the credential live in one row so they
// are always written and cleared as a pair.
package statestore

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sessionRow struct {
	ID        uint   `gorm:"primaryKey"`
	Identity  string `gorm:"not null"` // serialized identity object
	Token     string `gorm:"not null"` // opaque credential
	UpdatedAt time.Time
}

func (sessionRow) TableName() string { return "session" }

// Store is the durable key-value home of the session pair.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if needed) the state database at path. Parent
// directories are created for regular file paths; sqlite URI DSNs (used by
// tests) are passed through untouched.
func Open(path string) (*Store, error) {
	if filepath.IsAbs(path) || filepath.Dir(path) != "." {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, err
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&sessionRow{}); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Save stores the identity payload and credential together, replacing any
// previous pair in a single transaction.
func (s *Store) Save(identity []byte, token string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&sessionRow{}).Error; err != nil {
			return err
		}
		return tx.Create(&sessionRow{ID: 1, Identity: string(identity), Token: token}).Error
	})
}

// Load returns the persisted pair. ok is false when no session is stored.
func (s *Store) Load() (identity []byte, token string, ok bool, err error) {
	var row sessionRow
	if err := s.db.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", false, nil
		}
		return nil, "", false, err
	}
	return []byte(row.Identity), row.Token, true, nil
}

// Clear removes the pair. Clearing an empty store is a no-op.
func (s *Store) Clear() error {
	return s.db.Where("1 = 1").Delete(&sessionRow{}).Error
}
