package repository

import (
	"context"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
)

// TokenRepository persists outstanding refresh tokens and their
// revocation state. Revoke must succeed for a jti that has no stored
// row yet, recording it as revoked.
type TokenRepository interface {
	Save(ctx context.Context, token *entity.OutstandingToken) error
	GetByJTI(ctx context.Context, jti string) (*entity.OutstandingToken, error)
	Revoke(ctx context.Context, token *entity.OutstandingToken) error
	RevokeAllForAccount(ctx context.Context, kind entity.AccountKind, accountID uint) error
}
