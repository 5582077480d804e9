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

// EmployeeRepo implements repository.EmployeeRepository on PostgreSQL.
type EmployeeRepo struct {
	db *gorm.DB
}

func NewEmployeeRepo(db *gorm.DB) repository.EmployeeRepository {
	return &EmployeeRepo{db: db}
}

func (r *EmployeeRepo) Create(ctx context.Context, employee *entity.Employee) error {
	if err := r.db.WithContext(ctx).Create(employee).Error; err != nil {
		return fmt.Errorf("creating employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id uint) (*entity.Employee, error) {
	var employee entity.Employee
	result := r.db.WithContext(ctx).
		Preload("Profession").Preload("AccessRight").
		First(&employee, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting employee by id: %w", result.Error)
	}
	return &employee, nil
}

func (r *EmployeeRepo) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	var employee entity.Employee
	result := r.db.WithContext(ctx).
		Preload("Profession").Preload("AccessRight").
		Where("email = ?", email).First(&employee)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting employee by email: %w", result.Error)
	}
	return &employee, nil
}

func (r *EmployeeRepo) ListByCompany(ctx context.Context, companyID uint) ([]entity.Employee, error) {
	var employees []entity.Employee
	result := r.db.WithContext(ctx).
		Preload("Profession").Preload("AccessRight").
		Where("company_id = ?", companyID).
		Order("last_name, first_name").
		Find(&employees)
	if result.Error != nil {
		return nil, fmt.Errorf("listing employees: %w", result.Error)
	}
	return employees, nil
}

func (r *EmployeeRepo) Update(ctx context.Context, employee *entity.Employee) error {
	if err := r.db.WithContext(ctx).Save(employee).Error; err != nil {
		return fmt.Errorf("updating employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Employee{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting employee: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepo) CreateAccount(ctx context.Context, account *entity.EmployeeAccount) error {
	if err := r.db.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("creating employee account: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) GetAccountByEmail(ctx context.Context, email string) (*entity.EmployeeAccount, error) {
	var account entity.EmployeeAccount
	result := r.db.WithContext(ctx).
		Preload("Employee").Preload("Employee.AccessRight").
		Where("email = ?", email).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting employee account by email: %w", result.Error)
	}
	return &account, nil
}

func (r *EmployeeRepo) GetAccountByEmployeeID(ctx context.Context, employeeID uint) (*entity.EmployeeAccount, error) {
	var account entity.EmployeeAccount
	result := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting employee account: %w", result.Error)
	}
	return &account, nil
}

func (r *EmployeeRepo) GetAccountByID(ctx context.Context, id uint) (*entity.EmployeeAccount, error) {
	var account entity.EmployeeAccount
	result := r.db.WithContext(ctx).Preload("Employee").First(&account, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting employee account by id: %w", result.Error)
	}
	return &account, nil
}

func (r *EmployeeRepo) UpdateAccount(ctx context.Context, account *entity.EmployeeAccount) error {
	if err := r.db.WithContext(ctx).Save(account).Error; err != nil {
		return fmt.Errorf("updating employee account: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) CreateProfession(ctx context.Context, profession *entity.Profession) error {
	if err := r.db.WithContext(ctx).Create(profession).Error; err != nil {
		return fmt.Errorf("creating profession: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) ListProfessions(ctx context.Context, companyID uint) ([]entity.Profession, error) {
	var professions []entity.Profession
	result := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("name").Find(&professions)
	if result.Error != nil {
		return nil, fmt.Errorf("listing professions: %w", result.Error)
	}
	return professions, nil
}

func (r *EmployeeRepo) DeleteProfession(ctx context.Context, companyID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&entity.Profession{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting profession: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepo) CreateAccessRight(ctx context.Context, right *entity.AccessRight) error {
	if err := r.db.WithContext(ctx).Create(right).Error; err != nil {
		return fmt.Errorf("creating access right: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) GetAccessRight(ctx context.Context, companyID, id uint) (*entity.AccessRight, error) {
	var right entity.AccessRight
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		First(&right, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting access right: %w", result.Error)
	}
	return &right, nil
}

func (r *EmployeeRepo) ListAccessRights(ctx context.Context, companyID uint) ([]entity.AccessRight, error) {
	var rights []entity.AccessRight
	result := r.db.WithContext(ctx).Where("company_id = ?", companyID).Order("name").Find(&rights)
	if result.Error != nil {
		return nil, fmt.Errorf("listing access rights: %w", result.Error)
	}
	return rights, nil
}

func (r *EmployeeRepo) UpdateAccessRight(ctx context.Context, right *entity.AccessRight) error {
	if err := r.db.WithContext(ctx).Save(right).Error; err != nil {
		return fmt.Errorf("updating access right: %w", err)
	}
	return nil
}

func (r *EmployeeRepo) DeleteAccessRight(ctx context.Context, companyID, id uint) error {
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&entity.AccessRight{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting access right: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
