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

// ConsumerRepo implements repository.ConsumerRepository on PostgreSQL.
type ConsumerRepo struct {
	db *gorm.DB
}

func NewConsumerRepo(db *gorm.DB) repository.ConsumerRepository {
	return &ConsumerRepo{db: db}
}

func (r *ConsumerRepo) Create(ctx context.Context, consumer *entity.Consumer) error {
	if err := r.db.WithContext(ctx).Create(consumer).Error; err != nil {
		return fmt.Errorf("creating consumer: %w", err)
	}
	return nil
}

func (r *ConsumerRepo) GetByID(ctx context.Context, id uint) (*entity.Consumer, error) {
	var consumer entity.Consumer
	result := r.db.WithContext(ctx).First(&consumer, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting consumer by id: %w", result.Error)
	}
	return &consumer, nil
}

func (r *ConsumerRepo) GetByEmail(ctx context.Context, email string) (*entity.Consumer, error) {
	var consumer entity.Consumer
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&consumer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting consumer by email: %w", result.Error)
	}
	return &consumer, nil
}

func (r *ConsumerRepo) GetByGoogleSub(ctx context.Context, sub string) (*entity.Consumer, error) {
	var consumer entity.Consumer
	result := r.db.WithContext(ctx).Where("google_sub = ?", sub).First(&consumer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("getting consumer by google sub: %w", result.Error)
	}
	return &consumer, nil
}

func (r *ConsumerRepo) Update(ctx context.Context, consumer *entity.Consumer) error {
	if err := r.db.WithContext(ctx).Save(consumer).Error; err != nil {
		return fmt.Errorf("updating consumer: %w", err)
	}
	return nil
}

func (r *ConsumerRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entity.Consumer{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting consumer: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
