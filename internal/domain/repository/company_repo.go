package repository

import (
	"context"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
)

// CompanyRepository persists company (tenant) accounts.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id uint) (*entity.Company, error)
	GetByEmail(ctx context.Context, email string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	Delete(ctx context.Context, id uint) error
	GetPlanByName(ctx context.Context, name string) (*entity.Plan, error)
}
