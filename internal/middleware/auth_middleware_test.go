package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
	"github.com/tsena-smart/tsena-api/pkg/auth"
	"github.com/tsena-smart/tsena-api/pkg/auth/manager"
)

type memTokenRepo struct {
	tokens map[string]*entity.OutstandingToken
}

func (f *memTokenRepo) Save(_ context.Context, token *entity.OutstandingToken) error {
	cp := *token
	f.tokens[token.JTI] = &cp
	return nil
}

func (f *memTokenRepo) GetByJTI(_ context.Context, jti string) (*entity.OutstandingToken, error) {
	token, ok := f.tokens[jti]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return token, nil
}

func (f *memTokenRepo) Revoke(_ context.Context, token *entity.OutstandingToken) error {
	token.Revoked = true
	f.tokens[token.JTI] = token
	return nil
}

func (f *memTokenRepo) RevokeAllForAccount(context.Context, entity.AccountKind, uint) error {
	return nil
}

// stubEmployeeRepo serves a single account; only the lookups the
// middleware touches are implemented.
type stubEmployeeRepo struct {
	account *entity.EmployeeAccount
}

func (s *stubEmployeeRepo) GetAccountByID(_ context.Context, id uint) (*entity.EmployeeAccount, error) {
	if s.account == nil || s.account.ID != id {
		return nil, apperrors.ErrNotFound
	}
	return s.account, nil
}

func (s *stubEmployeeRepo) Create(context.Context, *entity.Employee) error { return nil }
func (s *stubEmployeeRepo) GetByID(context.Context, uint) (*entity.Employee, error) {
	return nil, apperrors.ErrNotFound
}
func (s *stubEmployeeRepo) GetByEmail(context.Context, string) (*entity.Employee, error) {
	return nil, apperrors.ErrNotFound
}
func (s *stubEmployeeRepo) ListByCompany(context.Context, uint) ([]entity.Employee, error) {
	return nil, nil
}
func (s *stubEmployeeRepo) Update(context.Context, *entity.Employee) error { return nil }
func (s *stubEmployeeRepo) Delete(context.Context, uint) error             { return nil }
func (s *stubEmployeeRepo) CreateAccount(context.Context, *entity.EmployeeAccount) error {
	return nil
}
func (s *stubEmployeeRepo) GetAccountByEmail(context.Context, string) (*entity.EmployeeAccount, error) {
	return nil, apperrors.ErrNotFound
}
func (s *stubEmployeeRepo) GetAccountByEmployeeID(context.Context, uint) (*entity.EmployeeAccount, error) {
	return nil, apperrors.ErrNotFound
}
func (s *stubEmployeeRepo) UpdateAccount(context.Context, *entity.EmployeeAccount) error {
	return nil
}
func (s *stubEmployeeRepo) CreateProfession(context.Context, *entity.Profession) error { return nil }
func (s *stubEmployeeRepo) ListProfessions(context.Context, uint) ([]entity.Profession, error) {
	return nil, nil
}
func (s *stubEmployeeRepo) DeleteProfession(context.Context, uint, uint) error { return nil }
func (s *stubEmployeeRepo) CreateAccessRight(context.Context, *entity.AccessRight) error {
	return nil
}
func (s *stubEmployeeRepo) GetAccessRight(context.Context, uint, uint) (*entity.AccessRight, error) {
	return nil, apperrors.ErrNotFound
}
func (s *stubEmployeeRepo) ListAccessRights(context.Context, uint) ([]entity.AccessRight, error) {
	return nil, nil
}
func (s *stubEmployeeRepo) UpdateAccessRight(context.Context, *entity.AccessRight) error {
	return nil
}
func (s *stubEmployeeRepo) DeleteAccessRight(context.Context, uint, uint) error { return nil }

// stubCompanyRepo serves a single company; only GetByID matters here.
type stubCompanyRepo struct {
	company *entity.Company
}

func (s *stubCompanyRepo) GetByID(_ context.Context, id uint) (*entity.Company, error) {
	if s.company == nil || s.company.ID != id {
		return nil, apperrors.ErrNotFound
	}
	return s.company, nil
}

func (s *stubCompanyRepo) Create(context.Context, *entity.Company) error { return nil }
func (s *stubCompanyRepo) GetByEmail(context.Context, string) (*entity.Company, error) {
	return nil, apperrors.ErrNotFound
}
func (s *stubCompanyRepo) Update(context.Context, *entity.Company) error { return nil }
func (s *stubCompanyRepo) Delete(context.Context, uint) error            { return nil }
func (s *stubCompanyRepo) GetPlanByName(context.Context, string) (*entity.Plan, error) {
	return nil, apperrors.ErrNotFound
}

// stubConsumerRepo serves a single consumer.
type stubConsumerRepo struct {
	consumer *entity.Consumer
}

func (s *stubConsumerRepo) GetByID(_ context.Context, id uint) (*entity.Consumer, error) {
	if s.consumer == nil || s.consumer.ID != id {
		return nil, apperrors.ErrNotFound
	}
	return s.consumer, nil
}

func (s *stubConsumerRepo) Create(context.Context, *entity.Consumer) error { return nil }
func (s *stubConsumerRepo) GetByEmail(context.Context, string) (*entity.Consumer, error) {
	return nil, apperrors.ErrNotFound
}
func (s *stubConsumerRepo) GetByGoogleSub(context.Context, string) (*entity.Consumer, error) {
	return nil, apperrors.ErrNotFound
}
func (s *stubConsumerRepo) Update(context.Context, *entity.Consumer) error { return nil }
func (s *stubConsumerRepo) Delete(context.Context, uint) error             { return nil }

type testAccounts struct {
	company  *entity.Company
	employee *entity.EmployeeAccount
	consumer *entity.Consumer
}

func testSetup(accounts testAccounts) (*manager.TokenManager, *gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	tokens := manager.NewTokenManager(
		auth.NewJWTService("test-secret"),
		&memTokenRepo{tokens: map[string]*entity.OutstandingToken{}},
		15*time.Minute, 7*24*time.Hour)
	mw := NewAuthMiddleware(tokens,
		&stubCompanyRepo{company: accounts.company},
		&stubEmployeeRepo{account: accounts.employee},
		&stubConsumerRepo{consumer: accounts.consumer})
	r := gin.New()
	return tokens, r, mw
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireEmployee_AdmitsVerifiedAccount(t *testing.T) {
	account := &entity.EmployeeAccount{
		ID: 1, EmailVerified: true,
		Employee: &entity.Employee{ID: 1, CompanyID: 4, IsActive: true},
	}
	tokens, r, mw := testSetup(testAccounts{employee: account})
	r.GET("/protected", mw.RequireEmployee(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"company_id": CompanyIDFrom(c)})
	})

	pair, err := tokens.IssuePair(context.Background(), account)
	require.NoError(t, err)

	w := doRequest(r, pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"company_id":4`)
}

func TestRequireEmployee_RejectsLockedAccount(t *testing.T) {
	lockedUntil := time.Now().Add(10 * time.Minute)
	account := &entity.EmployeeAccount{
		ID: 1, EmailVerified: true,
		FailedAttempts: entity.MaxFailedLogins,
		LockedUntil:    &lockedUntil,
	}
	tokens, r, mw := testSetup(testAccounts{employee: account})
	r.GET("/protected", mw.RequireEmployee(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Token was issued before the lockout; the guard still rejects.
	pair, err := tokens.IssuePair(context.Background(), account)
	require.NoError(t, err)

	w := doRequest(r, pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireEmployee_RejectsCompanyToken(t *testing.T) {
	tokens, r, mw := testSetup(testAccounts{})
	r.GET("/protected", mw.RequireEmployee(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	pair, err := tokens.IssuePair(context.Background(), &entity.Company{ID: 2})
	require.NoError(t, err)

	w := doRequest(r, pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireCompany_RejectsMissingAndRefreshTokens(t *testing.T) {
	tokens, r, mw := testSetup(testAccounts{})
	r.GET("/protected", mw.RequireCompany(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doRequest(r, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	pair, err := tokens.IssuePair(context.Background(), &entity.Company{ID: 2})
	require.NoError(t, err)

	// A refresh token must never open a protected route.
	w = doRequest(r, pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireCompany_AdmitsVerifiedActiveCompany(t *testing.T) {
	company := &entity.Company{ID: 2, EmailVerified: true, IsActive: true}
	tokens, r, mw := testSetup(testAccounts{company: company})
	r.GET("/protected", mw.RequireCompany(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"company_id": CompanyIDFrom(c)})
	})

	pair, err := tokens.IssuePair(context.Background(), company)
	require.NoError(t, err)

	w := doRequest(r, pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"company_id":2`)
}

func TestRequireCompany_RejectsUnverifiedOrInactiveCompany(t *testing.T) {
	cases := []struct {
		name    string
		company *entity.Company
	}{
		{"unverified", &entity.Company{ID: 9, EmailVerified: false, IsActive: true}},
		{"deactivated", &entity.Company{ID: 9, EmailVerified: true, IsActive: false}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, r, mw := testSetup(testAccounts{company: tc.company})
			r.GET("/protected", mw.RequireCompany(), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			// The token itself is valid; the account state must veto it.
			pair, err := tokens.IssuePair(context.Background(), tc.company)
			require.NoError(t, err)

			w := doRequest(r, pair.AccessToken)
			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}
}

func TestRequireCompany_RejectsDeletedAccount(t *testing.T) {
	company := &entity.Company{ID: 2, EmailVerified: true, IsActive: true}
	tokens, r, mw := testSetup(testAccounts{})
	r.GET("/protected", mw.RequireCompany(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	pair, err := tokens.IssuePair(context.Background(), company)
	require.NoError(t, err)

	w := doRequest(r, pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireConsumer_ChecksAccountState(t *testing.T) {
	active := &entity.Consumer{ID: 3, EmailVerified: true, IsActive: true}
	tokens, r, mw := testSetup(testAccounts{consumer: active})
	r.GET("/protected", mw.RequireConsumer(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	pair, err := tokens.IssuePair(context.Background(), active)
	require.NoError(t, err)
	w := doRequest(r, pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)

	inactive := &entity.Consumer{ID: 3, EmailVerified: true, IsActive: false}
	tokens, r, mw = testSetup(testAccounts{consumer: inactive})
	r.GET("/protected", mw.RequireConsumer(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	pair, err = tokens.IssuePair(context.Background(), inactive)
	require.NoError(t, err)
	w = doRequest(r, pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireEmployee_RejectsDeactivatedEmployee(t *testing.T) {
	account := &entity.EmployeeAccount{
		ID: 1, EmailVerified: true,
		Employee: &entity.Employee{ID: 1, CompanyID: 4, IsActive: false},
	}
	tokens, r, mw := testSetup(testAccounts{employee: account})
	r.GET("/protected", mw.RequireEmployee(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	pair, err := tokens.IssuePair(context.Background(), account)
	require.NoError(t, err)

	w := doRequest(r, pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
