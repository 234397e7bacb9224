package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/itay19101973/E-commerce-system/internal/domains/users/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStore persists revoked refresh-token ids in PostgreSQL. Rows are
// kept until the token would have expired anyway and are then swept by the
// purge command.
type TokenStore struct {
	db *gorm.DB
}

// NewTokenStore wires a PostgreSQL-backed revocation store.
func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

type revokedTokenRecord struct {
	JTI       string    `gorm:"primaryKey;column:jti"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
}

func (revokedTokenRecord) TableName() string { return "revoked_tokens" }

// Revoke records the jti. Revoking the same token twice is a no-op.
func (s *TokenStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	record := revokedTokenRecord{JTI: jti, ExpiresAt: expiresAt.UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
}

// IsRevoked reports whether the jti has been revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if err := s.ensureDB(); err != nil {
		return false, err
	}
	var count int64
	if err := s.db.WithContext(ctx).Model(&revokedTokenRecord{}).
		Where("jti = ?", jti).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeExpired deletes revocations for tokens that expired before now.
func (s *TokenStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	result := s.db.WithContext(ctx).Where("expires_at < ?", now.UTC()).Delete(&revokedTokenRecord{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (s *TokenStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres token store not configured")
	}
	return nil
}
