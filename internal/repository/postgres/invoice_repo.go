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

// InvoiceRepo implements repository.InvoiceRepository on PostgreSQL.
type InvoiceRepo struct {
	db *gorm.DB
}

func NewInvoiceRepo(db *gorm.DB) repository.InvoiceRepository {
	return &InvoiceRepo{db: db}
}

// Create stores the invoice and its lines in one transaction.
func (r *InvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	if err := r.db.WithContext(ctx).Create(invoice).Error; err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, companyID, id uint) (*entity.Invoice, error) {
	var invoice entity.Invoice
	result := r.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ?", companyID).
		First(&invoice, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting invoice: %w", result.Error)
	}
	return &invoice, nil
}

func (r *InvoiceRepo) ListByCompany(ctx context.Context, companyID uint, filter repository.InvoiceFilter) ([]entity.Invoice, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("company_id = ?", companyID).
		Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var invoices []entity.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	return invoices, nil
}

func (r *InvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	if err := r.db.WithContext(ctx).Save(invoice).Error; err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, companyID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&entity.Invoice{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting invoice: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *InvoiceRepo) CountByCompany(ctx context.Context, companyID uint) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&entity.Invoice{}).
		Where("company_id = ?", companyID).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("counting invoices: %w", result.Error)
	}
	return count, nil
}
