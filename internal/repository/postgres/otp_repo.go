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

// OTPRepo implements repository.OTPRepository on PostgreSQL.
type OTPRepo struct {
	db *gorm.DB
}

func NewOTPRepo(db *gorm.DB) repository.OTPRepository {
	return &OTPRepo{db: db}
}

// Save upserts the code for its scope, replacing any previous one.
func (r *OTPRepo) Save(ctx context.Context, code *entity.OTPCode) error {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "account_kind"}, {Name: "account_id"}, {Name: "purpose"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "created_at"}),
	}).Create(code)
	if result.Error != nil {
		return fmt.Errorf("saving otp code: %w", result.Error)
	}
	return nil
}

func (r *OTPRepo) GetByScope(ctx context.Context, kind entity.AccountKind, accountID uint, purpose entity.OTPPurpose) (*entity.OTPCode, error) {
	var code entity.OTPCode
	result := r.db.WithContext(ctx).
		Where("account_kind = ? AND account_id = ? AND purpose = ?", kind, accountID, purpose).
		First(&code)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting otp code: %w", result.Error)
	}
	return &code, nil
}

func (r *OTPRepo) DeleteByScope(ctx context.Context, kind entity.AccountKind, accountID uint, purpose entity.OTPPurpose) error {
	result := r.db.WithContext(ctx).
		Where("account_kind = ? AND account_id = ? AND purpose = ?", kind, accountID, purpose).
		Delete(&entity.OTPCode{})
	if result.Error != nil {
		return fmt.Errorf("deleting otp code: %w", result.Error)
	}
	return nil
}
