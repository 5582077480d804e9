package repository

import (
	"context"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
)

// OTPRepository persists one-time codes. A scope is the triple
// (account kind, account id, purpose); Save replaces any existing code
// for the same scope.
type OTPRepository interface {
	Save(ctx context.Context, code *entity.OTPCode) error
	GetByScope(ctx context.Context, kind entity.AccountKind, accountID uint, purpose entity.OTPPurpose) (*entity.OTPCode, error)
	DeleteByScope(ctx context.Context, kind entity.AccountKind, accountID uint, purpose entity.OTPPurpose) error
}
