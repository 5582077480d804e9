package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
)

func planlessCompany(id uint) *entity.Company {
	return &entity.Company{ID: id, Name: "Boutique", EmailVerified: true, IsActive: true}
}

func TestInvoiceService_CreateComputesTotalAndDecrementsStock(t *testing.T) {
	invoices := new(MockInvoiceRepo)
	companies := new(MockCompanyRepo)
	stock := new(MockStockRepo)
	svc := NewInvoiceService(invoices, companies, stock)
	ctx := context.Background()

	companies.On("GetByID", ctx, uint(1)).Return(planlessCompany(1), nil)
	item := &entity.StockItem{ID: 3, CompanyID: 1, Quantity: 10, UnitPrice: 5000}
	stock.On("GetByID", ctx, uint(1), uint(3)).Return(item, nil)
	stock.On("Update", ctx, item).Return(nil)
	invoices.On("Create", ctx, mock.AnythingOfType("*entity.Invoice")).Return(nil)

	itemID := uint(3)
	invoice, err := svc.Create(ctx, 1, nil, InvoiceInput{
		Number: "F-2025-001", ClientName: "Client",
		Items: []InvoiceItemInput{
			{Label: "Savon", Quantity: 4, UnitPrice: 5000, StockItemID: &itemID},
			{Label: "Livraison", Quantity: 1, UnitPrice: 2000},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4*5000+2000), invoice.AmountTotal)
	assert.Equal(t, entity.InvoiceDraft, invoice.Status)
	assert.Equal(t, 6, item.Quantity)
}

func TestInvoiceService_CreateRejectsOverdraw(t *testing.T) {
	invoices := new(MockInvoiceRepo)
	companies := new(MockCompanyRepo)
	stock := new(MockStockRepo)
	svc := NewInvoiceService(invoices, companies, stock)
	ctx := context.Background()

	companies.On("GetByID", ctx, uint(1)).Return(planlessCompany(1), nil)
	stock.On("GetByID", ctx, uint(1), uint(3)).
		Return(&entity.StockItem{ID: 3, CompanyID: 1, Quantity: 2}, nil)

	itemID := uint(3)
	_, err := svc.Create(ctx, 1, nil, InvoiceInput{
		Number: "F-2025-001", ClientName: "Client",
		Items:  []InvoiceItemInput{{Label: "Savon", Quantity: 4, UnitPrice: 5000, StockItemID: &itemID}},
	})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	invoices.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceService_CreateEnforcesPlanCap(t *testing.T) {
	invoices := new(MockInvoiceRepo)
	companies := new(MockCompanyRepo)
	svc := NewInvoiceService(invoices, companies, new(MockStockRepo))
	ctx := context.Background()

	capped := planlessCompany(1)
	capped.Plan = &entity.Plan{MaxInvoices: 10}
	companies.On("GetByID", ctx, uint(1)).Return(capped, nil)
	invoices.On("CountByCompany", ctx, uint(1)).Return(int64(10), nil)

	_, err := svc.Create(ctx, 1, nil, InvoiceInput{
		Number: "F-2025-011", ClientName: "Client",
		Items:  []InvoiceItemInput{{Label: "Savon", Quantity: 1, UnitPrice: 100}},
	})

	assert.ErrorIs(t, err, ErrPlanLimitReached)
}

func TestInvoiceService_StatusMachine(t *testing.T) {
	cases := []struct {
		from entity.InvoiceStatus
		to   entity.InvoiceStatus
		ok   bool
	}{
		{entity.InvoiceDraft, entity.InvoiceSent, true},
		{entity.InvoiceDraft, entity.InvoicePaid, false},
		{entity.InvoiceSent, entity.InvoicePaid, true},
		{entity.InvoiceSent, entity.InvoiceFailed, true},
		{entity.InvoiceFailed, entity.InvoiceSent, true},
		{entity.InvoicePaid, entity.InvoiceCancelled, false},
		{entity.InvoiceCancelled, entity.InvoiceSent, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"->"+string(tc.to), func(t *testing.T) {
			invoices := new(MockInvoiceRepo)
			svc := NewInvoiceService(invoices, new(MockCompanyRepo), new(MockStockRepo))
			ctx := context.Background()

			invoices.On("GetByID", ctx, uint(1), uint(2)).
				Return(&entity.Invoice{ID: 2, CompanyID: 1, Status: tc.from, AmountTotal: 9000}, nil)
			if tc.ok {
				invoices.On("Update", ctx, mock.AnythingOfType("*entity.Invoice")).Return(nil)
			}

			invoice, err := svc.ChangeStatus(ctx, 1, 2, tc.to)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.to, invoice.Status)
				if tc.to == entity.InvoicePaid {
					assert.NotNil(t, invoice.PaidAt)
					assert.Equal(t, invoice.AmountTotal, invoice.AmountPaid)
				}
			} else {
				assert.ErrorIs(t, err, ErrInvalidStatusChange)
			}
		})
	}
}

func TestInvoiceService_DeleteOnlyDrafts(t *testing.T) {
	invoices := new(MockInvoiceRepo)
	svc := NewInvoiceService(invoices, new(MockCompanyRepo), new(MockStockRepo))
	ctx := context.Background()

	invoices.On("GetByID", ctx, uint(1), uint(2)).
		Return(&entity.Invoice{ID: 2, CompanyID: 1, Status: entity.InvoiceSent}, nil)

	err := svc.Delete(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrInvalidStatusChange)
	invoices.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_ExportExcel(t *testing.T) {
	invoices := new(MockInvoiceRepo)
	svc := NewInvoiceService(invoices, new(MockCompanyRepo), new(MockStockRepo))
	ctx := context.Background()

	invoices.On("ListByCompany", ctx, uint(1), repository.InvoiceFilter{}).Return([]entity.Invoice{
		{Number: "F-2025-001", ClientName: "Client A", AmountTotal: 2200000, Currency: "MGA", Status: entity.InvoicePaid},
		{Number: "F-2025-002", ClientName: "Client B", AmountTotal: 90000, Currency: "MGA", Status: entity.InvoiceSent},
	}, nil)

	data, err := svc.ExportExcel(ctx, 1, repository.InvoiceFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	numero, err := f.GetCellValue("Factures", "A2")
	require.NoError(t, err)
	assert.Equal(t, "F-2025-001", numero)
	statut, err := f.GetCellValue("Factures", "G3")
	require.NoError(t, err)
	assert.Equal(t, "envoyee", statut)
}

func TestInvoice_OverdueDerivation(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	cases := []struct {
		name    string
		status  entity.InvoiceStatus
		due     *time.Time
		overdue bool
	}{
		{"sent past due", entity.InvoiceSent, &past, true},
		{"failed past due", entity.InvoiceFailed, &past, true},
		{"sent not yet due", entity.InvoiceSent, &future, false},
		{"draft past due", entity.InvoiceDraft, &past, false},
		{"paid past due", entity.InvoicePaid, &past, false},
		{"no due date", entity.InvoiceSent, nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := &entity.Invoice{Status: tc.status, DueDate: tc.due}
			assert.Equal(t, tc.overdue, inv.Overdue(now))
		})
	}
}

func TestInvoiceService_ListStampsOverdue(t *testing.T) {
	invoices := new(MockInvoiceRepo)
	svc := NewInvoiceService(invoices, new(MockCompanyRepo), new(MockStockRepo))
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	past := now.Add(-time.Hour)
	invoices.On("ListByCompany", ctx, uint(1), repository.InvoiceFilter{}).
		Return([]entity.Invoice{
			{ID: 1, Status: entity.InvoiceSent, DueDate: &past},
			{ID: 2, Status: entity.InvoiceDraft, DueDate: &past},
		}, nil)

	list, err := svc.List(ctx, 1, repository.InvoiceFilter{})

	require.NoError(t, err)
	assert.True(t, list[0].IsOverdue)
	assert.False(t, list[1].IsOverdue)
}

func TestInvoiceService_UpdateOnlyDrafts(t *testing.T) {
	invoices := new(MockInvoiceRepo)
	svc := NewInvoiceService(invoices, new(MockCompanyRepo), new(MockStockRepo))
	ctx := context.Background()

	invoices.On("GetByID", ctx, uint(1), uint(7)).
		Return(&entity.Invoice{ID: 7, CompanyID: 1, Status: entity.InvoiceSent}, nil)

	_, err := svc.Update(ctx, 1, 7, InvoiceInput{Number: "F-2025-001", ClientName: "Rakoto"})

	assert.ErrorIs(t, err, ErrInvalidStatusChange)
	invoices.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestInvoiceService_UpdateEditsDraftHeader(t *testing.T) {
	invoices := new(MockInvoiceRepo)
	svc := NewInvoiceService(invoices, new(MockCompanyRepo), new(MockStockRepo))
	ctx := context.Background()

	draft := &entity.Invoice{ID: 7, CompanyID: 1, Status: entity.InvoiceDraft, Currency: "MGA"}
	invoices.On("GetByID", ctx, uint(1), uint(7)).Return(draft, nil)
	invoices.On("Update", ctx, draft).Return(nil)

	updated, err := svc.Update(ctx, 1, 7, InvoiceInput{Number: "F-2025-002", ClientName: "Rasoa"})

	require.NoError(t, err)
	assert.Equal(t, "F-2025-002", updated.Number)
	assert.Equal(t, "Rasoa", updated.ClientName)
	assert.Equal(t, "MGA", updated.Currency, "empty currency keeps the stored one")
}
