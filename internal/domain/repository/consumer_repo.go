package repository

import (
	"context"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
)

// ConsumerRepository persists end-customer accounts.
type ConsumerRepository interface {
	Create(ctx context.Context, consumer *entity.Consumer) error
	GetByID(ctx context.Context, id uint) (*entity.Consumer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Consumer, error)
	GetByGoogleSub(ctx context.Context, sub string) (*entity.Consumer, error)
	Update(ctx context.Context, consumer *entity.Consumer) error
	Delete(ctx context.Context, id uint) error
}
