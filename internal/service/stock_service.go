package service

import (
	"context"
	"errors"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
)

// StockItemInput carries the fields of a new or edited article.
type StockItemInput struct {
	Name        string
	SKU         string
	Description string
	Quantity    int
	Unit        string
	UnitPrice   int64
	Currency    string
	AlertLevel  int
	Supplier    string
	ImageURL    string
}

// StockService manages a company's inventory. Adjustments that would
// drive a quantity negative are rejected.
type StockService struct {
	stock repository.StockRepository
}

func NewStockService(stock repository.StockRepository) *StockService {
	return &StockService{stock: stock}
}

// Create adds an article. Names are unique within a company.
func (s *StockService) Create(ctx context.Context, companyID uint, input StockItemInput) (*entity.StockItem, error) {
	if _, err := s.stock.GetByName(ctx, companyID, input.Name); err == nil {
		return nil, apperrors.ErrConflict
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	currency := input.Currency
	if currency == "" {
		currency = "MGA"
	}
	unit := input.Unit
	if unit == "" {
		unit = "piece"
	}
	item := &entity.StockItem{
		CompanyID:   companyID,
		Name:        input.Name,
		SKU:         input.SKU,
		Description: input.Description,
		Quantity:    input.Quantity,
		Unit:        unit,
		UnitPrice:   input.UnitPrice,
		Currency:    currency,
		AlertLevel:  input.AlertLevel,
		Supplier:    input.Supplier,
		ImageURL:    input.ImageURL,
	}
	if err := s.stock.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *StockService) Get(ctx context.Context, companyID, id uint) (*entity.StockItem, error) {
	return s.stock.GetByID(ctx, companyID, id)
}

func (s *StockService) List(ctx context.Context, companyID uint) ([]entity.StockItem, error) {
	return s.stock.ListByCompany(ctx, companyID)
}

func (s *StockService) Update(ctx context.Context, companyID, id uint, input StockItemInput) (*entity.StockItem, error) {
	item, err := s.stock.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if input.Name != item.Name {
		if _, err := s.stock.GetByName(ctx, companyID, input.Name); err == nil {
			return nil, apperrors.ErrConflict
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}
	item.Name = input.Name
	item.SKU = input.SKU
	item.Description = input.Description
	item.UnitPrice = input.UnitPrice
	item.AlertLevel = input.AlertLevel
	item.Supplier = input.Supplier
	item.ImageURL = input.ImageURL
	if input.Unit != "" {
		item.Unit = input.Unit
	}
	if input.Currency != "" {
		item.Currency = input.Currency
	}
	if err := s.stock.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Adjust applies a signed quantity delta. A withdrawal larger than the
// quantity on hand is rejected.
func (s *StockService) Adjust(ctx context.Context, companyID, id uint, delta int) (*entity.StockItem, error) {
	item, err := s.stock.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if item.Quantity+delta < 0 {
		return nil, ErrInsufficientStock
	}
	item.Quantity += delta
	if err := s.stock.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *StockService) Delete(ctx context.Context, companyID, id uint) error {
	return s.stock.Delete(ctx, companyID, id)
}
