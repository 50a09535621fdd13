package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tasktrack/internal/model"
)

// TokenRepository manages the live session-token rows that back revocation.
// Appends are independent inserts, so two concurrent sessions for the same
// user never conflict.
type TokenRepository interface {
	Append(ctx context.Context, token *model.UserToken) error
	Exists(ctx context.Context, userID uuid.UUID, access, token string) (bool, error)
	Remove(ctx context.Context, userID uuid.UUID, token string) error
}

type tokenRepository struct {
	db *gorm.DB
}

// NewTokenRepository builds a GORM-backed repository.
func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Append(ctx context.Context, token *model.UserToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) Exists(ctx context.Context, userID uuid.UUID, access, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.UserToken{}).
		Where("user_id = ? AND access = ? AND token = ?", userID, access, token).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Remove deletes the matching token row. Removing an absent token is not an
// error, which makes revocation idempotent.
func (r *tokenRepository) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&model.UserToken{}).Error
}
