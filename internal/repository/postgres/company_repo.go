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

// CompanyRepo implements repository.CompanyRepository on PostgreSQL.
type CompanyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) repository.CompanyRepository {
	return &CompanyRepo{db: db}
}

func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	if err := r.db.WithContext(ctx).Create(company).Error; err != nil {
		return fmt.Errorf("creating company: %w", err)
	}
	return nil
}

func (r *CompanyRepo) GetByID(ctx context.Context, id uint) (*entity.Company, error) {
	var company entity.Company
	result := r.db.WithContext(ctx).Preload("Plan").First(&company, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting company by id: %w", result.Error)
	}
	return &company, nil
}

func (r *CompanyRepo) GetByEmail(ctx context.Context, email string) (*entity.Company, error) {
	var company entity.Company
	result := r.db.WithContext(ctx).Preload("Plan").Where("email = ?", email).First(&company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting company by email: %w", result.Error)
	}
	return &company, nil
}

func (r *CompanyRepo) GetPlanByName(ctx context.Context, name string) (*entity.Plan, error) {
	var plan entity.Plan
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&plan)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting plan by name: %w", result.Error)
	}
	return &plan, nil
}

func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	if err := r.db.WithContext(ctx).Save(company).Error; err != nil {
		return fmt.Errorf("updating company: %w", err)
	}
	return nil
}

func (r *CompanyRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Company{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting company: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
