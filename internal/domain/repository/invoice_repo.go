package repository

import (
	"context"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
)

// InvoiceFilter narrows invoice listings. Zero values mean "no filter".
type InvoiceFilter struct {
	Status entity.InvoiceStatus
	Limit  int
	Offset int
}

// InvoiceRepository persists invoices within a company scope. All
// lookups are company-scoped so one tenant can never read another's
// documents.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, companyID, id uint) (*entity.Invoice, error)
	ListByCompany(ctx context.Context, companyID uint, filter InvoiceFilter) ([]entity.Invoice, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, companyID, id uint) error
	CountByCompany(ctx context.Context, companyID uint) (int64, error)
}
