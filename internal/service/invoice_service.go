package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
)

// statusTransitions lists the legal successors of each invoice state.
// Terminal states have no successors.
var statusTransitions = map[entity.InvoiceStatus][]entity.InvoiceStatus{
	entity.InvoiceDraft:     {entity.InvoiceSent, entity.InvoiceCancelled},
	entity.InvoiceSent:      {entity.InvoicePaid, entity.InvoiceCancelled, entity.InvoiceFailed},
	entity.InvoiceFailed:    {entity.InvoiceSent, entity.InvoiceCancelled},
	entity.InvoicePaid:      {},
	entity.InvoiceCancelled: {},
}

func canTransition(from, to entity.InvoiceStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// InvoiceItemInput is one line of a submitted invoice.
type InvoiceItemInput struct {
	Label       string
	Quantity    int
	UnitPrice   int64
	StockItemID *uint
}

// InvoiceInput carries the fields of a new or edited invoice.
type InvoiceInput struct {
	Number      string
	ClientName  string
	ClientEmail string
	ClientPhone string
	Description string
	Currency    string
	DueDate     *time.Time
	Items       []InvoiceItemInput
}

// InvoiceService manages the invoice lifecycle within a company,
// enforcing the status machine and the plan's invoice cap.
type InvoiceService struct {
	invoices  repository.InvoiceRepository
	companies repository.CompanyRepository
	stock     repository.StockRepository

	now func() time.Time
}

func NewInvoiceService(
	invoices repository.InvoiceRepository,
	companies repository.CompanyRepository,
	stock repository.StockRepository,
) *InvoiceService {
	return &InvoiceService{
		invoices:  invoices,
		companies: companies,
		stock:     stock,
		now:       time.Now,
	}
}

// Create stores a draft invoice. Lines referencing stock items decrement
// the inventory; a line asking for more than is on hand is rejected.
func (s *InvoiceService) Create(ctx context.Context, companyID uint, createdBy *uint, input InvoiceInput) (*entity.Invoice, error) {
	company, err := s.companies.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.Plan != nil && company.Plan.MaxInvoices > 0 {
		count, err := s.invoices.CountByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if count >= int64(company.Plan.MaxInvoices) {
			return nil, ErrPlanLimitReached
		}
	}

	currency := input.Currency
	if currency == "" {
		currency = "MGA"
	}

	invoice := &entity.Invoice{
		CompanyID:   companyID,
		Number:      input.Number,
		ClientName:  input.ClientName,
		ClientEmail: input.ClientEmail,
		ClientPhone: input.ClientPhone,
		Description: input.Description,
		Currency:    currency,
		Status:      entity.InvoiceDraft,
		DueDate:     input.DueDate,
		CreatedByID: createdBy,
	}
	for _, line := range input.Items {
		if line.StockItemID != nil {
			item, err := s.stock.GetByID(ctx, companyID, *line.StockItemID)
			if err != nil {
				return nil, err
			}
			if item.Quantity < line.Quantity {
				return nil, ErrInsufficientStock
			}
			item.Quantity -= line.Quantity
			if err := s.stock.Update(ctx, item); err != nil {
				return nil, err
			}
		}
		invoice.Items = append(invoice.Items, entity.InvoiceItem{
			Label:       line.Label,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			StockItemID: line.StockItemID,
		})
		invoice.AmountTotal += int64(line.Quantity) * line.UnitPrice
	}

	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

func (s *InvoiceService) Get(ctx context.Context, companyID, id uint) (*entity.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	invoice.IsOverdue = invoice.Overdue(s.now())
	return invoice, nil
}

func (s *InvoiceService) List(ctx context.Context, companyID uint, filter repository.InvoiceFilter) ([]entity.Invoice, error) {
	invoices, err := s.invoices.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range invoices {
		invoices[i].IsOverdue = invoices[i].Overdue(now)
	}
	return invoices, nil
}

// Update edits the header fields of a draft. Lines are fixed once the
// invoice exists because their stock movements already happened; past
// draft, nothing is editable.
func (s *InvoiceService) Update(ctx context.Context, companyID, id uint, input InvoiceInput) (*entity.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != entity.InvoiceDraft {
		return nil, ErrInvalidStatusChange
	}

	invoice.Number = input.Number
	invoice.ClientName = input.ClientName
	invoice.ClientEmail = input.ClientEmail
	invoice.ClientPhone = input.ClientPhone
	invoice.Description = input.Description
	invoice.DueDate = input.DueDate
	if input.Currency != "" {
		invoice.Currency = input.Currency
	}
	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// ChangeStatus moves the invoice through its lifecycle. Paid invoices
// also record the payment moment and settle the outstanding amount.
func (s *InvoiceService) ChangeStatus(ctx context.Context, companyID, id uint, to entity.InvoiceStatus) (*entity.Invoice, error) {
	if !entity.ValidInvoiceStatus(to) {
		return nil, ErrInvalidStatusChange
	}
	invoice, err := s.invoices.GetByID(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if !canTransition(invoice.Status, to) {
		return nil, ErrInvalidStatusChange
	}

	invoice.Status = to
	if to == entity.InvoicePaid {
		now := s.now()
		invoice.PaidAt = &now
		invoice.AmountPaid = invoice.AmountTotal
	}
	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Delete removes a draft. Anything past draft stays for the books and
// must be cancelled instead.
func (s *InvoiceService) Delete(ctx context.Context, companyID, id uint) error {
	invoice, err := s.invoices.GetByID(ctx, companyID, id)
	if err != nil {
		return err
	}
	if invoice.Status != entity.InvoiceDraft {
		return ErrInvalidStatusChange
	}
	return s.invoices.Delete(ctx, companyID, id)
}

// ExportExcel renders the company's invoices into an xlsx workbook and
// returns the serialized bytes.
func (s *InvoiceService) ExportExcel(ctx context.Context, companyID uint, filter repository.InvoiceFilter) ([]byte, error) {
	invoices, err := s.invoices.ListByCompany(ctx, companyID, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Factures"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	headers := []string{"Numéro", "Client", "Email", "Montant total", "Montant payé", "Devise", "Statut", "Échéance", "Créée le"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for row, inv := range invoices {
		due := ""
		if inv.DueDate != nil {
			due = inv.DueDate.Format("2006-01-02")
		}
		values := []interface{}{
			inv.Number,
			inv.ClientName,
			inv.ClientEmail,
			float64(inv.AmountTotal) / 100,
			float64(inv.AmountPaid) / 100,
			inv.Currency,
			string(inv.Status),
			due,
			inv.CreatedAt.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("writing row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}
