package storage

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Blob is the key/value row backing GormStore.
type Blob struct {
	Key       string `gorm:"primaryKey"`
	Data      []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization (blobs → ledger_blobs).
func (Blob) TableName() string { return "ledger_blobs" }

// GormStore persists blobs in a single key/value table. Works against
// sqlite (default, single-tenant local file) or postgres via DSN.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&Blob{}); err != nil {
		return nil, err
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	var b Blob
	err := s.db.WithContext(ctx).First(&b, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b.Data, true, nil
}

func (s *GormStore) Save(ctx context.Context, key string, data []byte) error {
	b := Blob{Key: key, Data: data}
	return s.db.WithContext(ctx).Save(&b).Error
}

var _ BlobStore = (*GormStore)(nil)
