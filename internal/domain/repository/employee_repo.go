package repository

import (
	"context"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
)

// EmployeeRepository persists employee records, their auth accounts,
// and the profession/access-right catalogs of a company.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id uint) (*entity.Employee, error)
	GetByEmail(ctx context.Context, email string) (*entity.Employee, error)
	ListByCompany(ctx context.Context, companyID uint) ([]entity.Employee, error)
	Update(ctx context.Context, employee *entity.Employee) error
	Delete(ctx context.Context, id uint) error

	CreateAccount(ctx context.Context, account *entity.EmployeeAccount) error
	GetAccountByEmail(ctx context.Context, email string) (*entity.EmployeeAccount, error)
	GetAccountByEmployeeID(ctx context.Context, employeeID uint) (*entity.EmployeeAccount, error)
	GetAccountByID(ctx context.Context, id uint) (*entity.EmployeeAccount, error)
	UpdateAccount(ctx context.Context, account *entity.EmployeeAccount) error

	CreateProfession(ctx context.Context, profession *entity.Profession) error
	ListProfessions(ctx context.Context, companyID uint) ([]entity.Profession, error)
	DeleteProfession(ctx context.Context, companyID, id uint) error

	CreateAccessRight(ctx context.Context, right *entity.AccessRight) error
	GetAccessRight(ctx context.Context, companyID, id uint) (*entity.AccessRight, error)
	ListAccessRights(ctx context.Context, companyID uint) ([]entity.AccessRight, error)
	UpdateAccessRight(ctx context.Context, right *entity.AccessRight) error
	DeleteAccessRight(ctx context.Context, companyID, id uint) error
}
