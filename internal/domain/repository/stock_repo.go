package repository

import (
	"context"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
)

// StockRepository persists inventory articles, company-scoped.
type StockRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, companyID, id uint) (*entity.StockItem, error)
	GetByName(ctx context.Context, companyID uint, name string) (*entity.StockItem, error)
	ListByCompany(ctx context.Context, companyID uint) ([]entity.StockItem, error)
	Update(ctx context.Context, item *entity.StockItem) error
	Delete(ctx context.Context, companyID, id uint) error
}
