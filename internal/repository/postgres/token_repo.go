package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
)

// TokenRepo implements repository.TokenRepository on PostgreSQL.
type TokenRepo struct {
	db *gorm.DB
}

func NewTokenRepo(db *gorm.DB) repository.TokenRepository {
	return &TokenRepo{db: db}
}

func (r *TokenRepo) Save(ctx context.Context, token *entity.OutstandingToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("saving outstanding token: %w", err)
	}
	return nil
}

func (r *TokenRepo) GetByJTI(ctx context.Context, jti string) (*entity.OutstandingToken, error) {
	var token entity.OutstandingToken
	result := r.db.WithContext(ctx).Where("jti = ?", jti).First(&token)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting token by jti: %w", result.Error)
	}
	return &token, nil
}

// Revoke upserts a revoked row keyed by jti. A jti the server never
// stored still ends up blacklisted.
func (r *TokenRepo) Revoke(ctx context.Context, token *entity.OutstandingToken) error {
	token.Revoked = true
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "jti"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"revoked": true}),
	}).Create(token)
	if result.Error != nil {
		return fmt.Errorf("revoking token: %w", result.Error)
	}
	return nil
}

func (r *TokenRepo) RevokeAllForAccount(ctx context.Context, kind entity.AccountKind, accountID uint) error {
	result := r.db.WithContext(ctx).Model(&entity.OutstandingToken{}).
		Where("account_kind = ? AND account_id = ?", kind, accountID).
		Update("revoked", true)
	if result.Error != nil {
		return fmt.Errorf("revoking account tokens: %w", result.Error)
	}
	return nil
}
