package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
)

type MockCompanyRepo struct {
	mock.Mock
}

func (m *MockCompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepo) GetByID(ctx context.Context, id uint) (*entity.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Company), args.Error(1)
}

func (m *MockCompanyRepo) GetByEmail(ctx context.Context, email string) (*entity.Company, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Company), args.Error(1)
}

func (m *MockCompanyRepo) GetPlanByName(ctx context.Context, name string) (*entity.Plan, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Plan), args.Error(1)
}

func (m *MockCompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockConsumerRepo struct {
	mock.Mock
}

func (m *MockConsumerRepo) Create(ctx context.Context, consumer *entity.Consumer) error {
	args := m.Called(ctx, consumer)
	return args.Error(0)
}

func (m *MockConsumerRepo) GetByID(ctx context.Context, id uint) (*entity.Consumer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Consumer), args.Error(1)
}

func (m *MockConsumerRepo) GetByEmail(ctx context.Context, email string) (*entity.Consumer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Consumer), args.Error(1)
}

func (m *MockConsumerRepo) GetByGoogleSub(ctx context.Context, sub string) (*entity.Consumer, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Consumer), args.Error(1)
}

func (m *MockConsumerRepo) Update(ctx context.Context, consumer *entity.Consumer) error {
	args := m.Called(ctx, consumer)
	return args.Error(0)
}

func (m *MockConsumerRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockEmployeeRepo struct {
	mock.Mock
}

func (m *MockEmployeeRepo) Create(ctx context.Context, employee *entity.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockEmployeeRepo) GetByID(ctx context.Context, id uint) (*entity.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Employee), args.Error(1)
}

func (m *MockEmployeeRepo) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Employee), args.Error(1)
}

func (m *MockEmployeeRepo) ListByCompany(ctx context.Context, companyID uint) ([]entity.Employee, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Employee), args.Error(1)
}

func (m *MockEmployeeRepo) Update(ctx context.Context, employee *entity.Employee) error {
	args := m.Called(ctx, employee)
	return args.Error(0)
}

func (m *MockEmployeeRepo) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmployeeRepo) CreateAccount(ctx context.Context, account *entity.EmployeeAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockEmployeeRepo) GetAccountByEmail(ctx context.Context, email string) (*entity.EmployeeAccount, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EmployeeAccount), args.Error(1)
}

func (m *MockEmployeeRepo) GetAccountByEmployeeID(ctx context.Context, employeeID uint) (*entity.EmployeeAccount, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EmployeeAccount), args.Error(1)
}

func (m *MockEmployeeRepo) GetAccountByID(ctx context.Context, id uint) (*entity.EmployeeAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EmployeeAccount), args.Error(1)
}

func (m *MockEmployeeRepo) UpdateAccount(ctx context.Context, account *entity.EmployeeAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockEmployeeRepo) CreateProfession(ctx context.Context, profession *entity.Profession) error {
	args := m.Called(ctx, profession)
	return args.Error(0)
}

func (m *MockEmployeeRepo) ListProfessions(ctx context.Context, companyID uint) ([]entity.Profession, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Profession), args.Error(1)
}

func (m *MockEmployeeRepo) DeleteProfession(ctx context.Context, companyID, id uint) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockEmployeeRepo) CreateAccessRight(ctx context.Context, right *entity.AccessRight) error {
	args := m.Called(ctx, right)
	return args.Error(0)
}

func (m *MockEmployeeRepo) GetAccessRight(ctx context.Context, companyID, id uint) (*entity.AccessRight, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AccessRight), args.Error(1)
}

func (m *MockEmployeeRepo) ListAccessRights(ctx context.Context, companyID uint) ([]entity.AccessRight, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AccessRight), args.Error(1)
}

func (m *MockEmployeeRepo) UpdateAccessRight(ctx context.Context, right *entity.AccessRight) error {
	args := m.Called(ctx, right)
	return args.Error(0)
}

func (m *MockEmployeeRepo) DeleteAccessRight(ctx context.Context, companyID, id uint) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, invoice *entity.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, companyID, id uint) (*entity.Invoice, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) ListByCompany(ctx context.Context, companyID uint, filter repository.InvoiceFilter) ([]entity.Invoice, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) Update(ctx context.Context, invoice *entity.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepo) Delete(ctx context.Context, companyID, id uint) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepo) CountByCompany(ctx context.Context, companyID uint) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

type MockStockRepo struct {
	mock.Mock
}

func (m *MockStockRepo) Create(ctx context.Context, item *entity.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockRepo) GetByID(ctx context.Context, companyID, id uint) (*entity.StockItem, error) {
	args := m.Called(ctx, companyID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StockItem), args.Error(1)
}

func (m *MockStockRepo) GetByName(ctx context.Context, companyID uint, name string) (*entity.StockItem, error) {
	args := m.Called(ctx, companyID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.StockItem), args.Error(1)
}

func (m *MockStockRepo) ListByCompany(ctx context.Context, companyID uint) ([]entity.StockItem, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.StockItem), args.Error(1)
}

func (m *MockStockRepo) Update(ctx context.Context, item *entity.StockItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockStockRepo) Delete(ctx context.Context, companyID, id uint) error {
	args := m.Called(ctx, companyID, id)
	return args.Error(0)
}

type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendOTP(ctx context.Context, to, name, code string, validity time.Duration) error {
	args := m.Called(ctx, to, name, code, validity)
	return args.Error(0)
}

func (m *MockEmailService) SendEmployeeInvitation(ctx context.Context, to, employeeName, companyName, inviteLink string) error {
	args := m.Called(ctx, to, employeeName, companyName, inviteLink)
	return args.Error(0)
}

func (m *MockEmailService) SendPasswordReset(ctx context.Context, to, name, code string, validity time.Duration) error {
	args := m.Called(ctx, to, name, code, validity)
	return args.Error(0)
}

// fakeTokenRepo backs the token manager in flow tests.
type fakeTokenRepo struct {
	tokens map[string]*entity.OutstandingToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*entity.OutstandingToken{}}
}

func (f *fakeTokenRepo) Save(_ context.Context, token *entity.OutstandingToken) error {
	cp := *token
	f.tokens[token.JTI] = &cp
	return nil
}

func (f *fakeTokenRepo) GetByJTI(_ context.Context, jti string) (*entity.OutstandingToken, error) {
	token, ok := f.tokens[jti]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *token
	return &cp, nil
}

func (f *fakeTokenRepo) Revoke(_ context.Context, token *entity.OutstandingToken) error {
	if existing, ok := f.tokens[token.JTI]; ok {
		existing.Revoked = true
		return nil
	}
	cp := *token
	cp.Revoked = true
	f.tokens[token.JTI] = &cp
	return nil
}

func (f *fakeTokenRepo) RevokeAllForAccount(_ context.Context, kind entity.AccountKind, accountID uint) error {
	for _, token := range f.tokens {
		if token.AccountKind == kind && token.AccountID == accountID {
			token.Revoked = true
		}
	}
	return nil
}
