package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
)

// StockRepo implements repository.StockRepository on PostgreSQL.
type StockRepo struct {
	db *gorm.DB
}

func NewStockRepo(db *gorm.DB) repository.StockRepository {
	return &StockRepo{db: db}
}

func (r *StockRepo) Create(ctx context.Context, item *entity.StockItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("creating stock item: %w", err)
	}
	return nil
}

func (r *StockRepo) GetByID(ctx context.Context, companyID, id uint) (*entity.StockItem, error) {
	var item entity.StockItem
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&item, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting stock item: %w", result.Error)
	}
	return &item, nil
}

func (r *StockRepo) GetByName(ctx context.Context, companyID uint, name string) (*entity.StockItem, error) {
	var item entity.StockItem
	result := r.db.WithContext(ctx).
		Where("company_id = ? AND name = ?", companyID, name).
		First(&item)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting stock item by name: %w", result.Error)
	}
	return &item, nil
}

func (r *StockRepo) ListByCompany(ctx context.Context, companyID uint) ([]entity.StockItem, error) {
	var items []entity.StockItem
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name").
		Find(&items)
	if result.Error != nil {
		return nil, fmt.Errorf("listing stock items: %w", result.Error)
	}
	return items, nil
}

func (r *StockRepo) Update(ctx context.Context, item *entity.StockItem) error {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("updating stock item: %w", err)
	}
	return nil
}

func (r *StockRepo) Delete(ctx context.Context, companyID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&entity.StockItem{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting stock item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
