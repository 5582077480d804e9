package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
	"github.com/tsena-smart/tsena-api/pkg/auth"
	"github.com/tsena-smart/tsena-api/pkg/auth/manager"
)

func newTestTokenManager() *manager.TokenManager {
	return manager.NewTokenManager(
		auth.NewJWTService("test-secret"), newFakeTokenRepo(),
		15*time.Minute, 7*24*time.Hour)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestCompanyAuth_RegisterSendsOTP(t *testing.T) {
	companies := new(MockCompanyRepo)
	email := new(MockEmailService)
	svc := NewCompanyAuthService(companies, NewOTPService(newFakeOTPRepo()), email, newTestTokenManager())
	ctx := context.Background()

	companies.On("GetByEmail", ctx, "ent@example.mg").Return(nil, apperrors.ErrNotFound)
	companies.On("GetPlanByName", ctx, FreemiumPlan).
		Return(&entity.Plan{ID: 2, Name: FreemiumPlan}, nil)
	companies.On("Create", ctx, mock.AnythingOfType("*entity.Company")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Company).ID = 1
		}).Return(nil)
	email.On("SendOTP", ctx, "ent@example.mg", "Boutique", mock.MatchedBy(func(code string) bool {
		return len(code) == 6
	}), OTPValidity).Return(nil)

	company, err := svc.Register(ctx, CompanyRegisterInput{
		Name: "Boutique", Email: "ent@example.mg", Password: "motdepasse",
	})

	require.NoError(t, err)
	assert.False(t, company.EmailVerified)
	require.NotNil(t, company.PlanID)
	assert.Equal(t, uint(2), *company.PlanID)
	companies.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestCompanyAuth_RegisterRollsBackOnEmailFailure(t *testing.T) {
	companies := new(MockCompanyRepo)
	email := new(MockEmailService)
	codes := newFakeOTPRepo()
	svc := NewCompanyAuthService(companies, NewOTPService(codes), email, newTestTokenManager())
	ctx := context.Background()

	companies.On("GetByEmail", ctx, "ent@example.mg").Return(nil, apperrors.ErrNotFound)
	companies.On("GetPlanByName", ctx, FreemiumPlan).Return(nil, apperrors.ErrNotFound)
	companies.On("Create", ctx, mock.AnythingOfType("*entity.Company")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entity.Company).ID = 42
		}).Return(nil)
	email.On("SendOTP", ctx, "ent@example.mg", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("provider down"))
	companies.On("Delete", ctx, uint(42)).Return(nil)

	_, err := svc.Register(ctx, CompanyRegisterInput{
		Name: "Boutique", Email: "ent@example.mg", Password: "motdepasse",
	})

	assert.ErrorIs(t, err, ErrEmailDelivery)
	companies.AssertExpectations(t)

	// The code issued for the rolled-back account is gone too.
	_, getErr := codes.GetByScope(ctx, entity.KindCompany, 42, entity.PurposeEmailVerify)
	assert.ErrorIs(t, getErr, apperrors.ErrNotFound)
}

func TestCompanyAuth_RegisterDuplicateEmail(t *testing.T) {
	companies := new(MockCompanyRepo)
	svc := NewCompanyAuthService(companies, NewOTPService(newFakeOTPRepo()), new(MockEmailService), newTestTokenManager())
	ctx := context.Background()

	companies.On("GetByEmail", ctx, "ent@example.mg").Return(&entity.Company{ID: 1}, nil)

	_, err := svc.Register(ctx, CompanyRegisterInput{
		Name: "Boutique", Email: "ent@example.mg", Password: "motdepasse",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
	companies.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCompanyAuth_VerifyEmailIssuesTokens(t *testing.T) {
	companies := new(MockCompanyRepo)
	otp := NewOTPService(newFakeOTPRepo())
	svc := NewCompanyAuthService(companies, otp, new(MockEmailService), newTestTokenManager())
	ctx := context.Background()

	company := &entity.Company{ID: 1, Email: "ent@example.mg"}
	code, err := otp.Issue(ctx, company, entity.PurposeEmailVerify)
	require.NoError(t, err)

	companies.On("GetByEmail", ctx, "ent@example.mg").Return(company, nil)
	companies.On("Update", ctx, company).Return(nil)

	verified, pair, err := svc.VerifyEmail(ctx, "ent@example.mg", code)

	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// The consumed code cannot verify a second time.
	_, _, err = svc.VerifyEmail(ctx, "ent@example.mg", code)
	assert.Error(t, err)
}

func TestCompanyAuth_LoginRejectsUnverified(t *testing.T) {
	companies := new(MockCompanyRepo)
	svc := NewCompanyAuthService(companies, NewOTPService(newFakeOTPRepo()), new(MockEmailService), newTestTokenManager())
	ctx := context.Background()

	companies.On("GetByEmail", ctx, "ent@example.mg").Return(&entity.Company{
		ID: 1, Email: "ent@example.mg",
		PasswordHash:  hashOf(t, "motdepasse"),
		EmailVerified: false, IsActive: true,
	}, nil)

	_, _, err := svc.Login(ctx, "ent@example.mg", "motdepasse")
	assert.ErrorIs(t, err, ErrAccountNotVerified)
}

func TestCompanyAuth_LoginWrongPassword(t *testing.T) {
	companies := new(MockCompanyRepo)
	svc := NewCompanyAuthService(companies, NewOTPService(newFakeOTPRepo()), new(MockEmailService), newTestTokenManager())
	ctx := context.Background()

	companies.On("GetByEmail", ctx, "ent@example.mg").Return(&entity.Company{
		ID: 1, Email: "ent@example.mg",
		PasswordHash:  hashOf(t, "motdepasse"),
		EmailVerified: true, IsActive: true,
	}, nil)

	_, _, err := svc.Login(ctx, "ent@example.mg", "mauvais")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCompanyAuth_LoginSuccess(t *testing.T) {
	companies := new(MockCompanyRepo)
	svc := NewCompanyAuthService(companies, NewOTPService(newFakeOTPRepo()), new(MockEmailService), newTestTokenManager())
	ctx := context.Background()

	company := &entity.Company{
		ID: 1, Email: "ent@example.mg",
		PasswordHash:  hashOf(t, "motdepasse"),
		EmailVerified: true, IsActive: true,
	}
	companies.On("GetByEmail", ctx, "ent@example.mg").Return(company, nil)
	companies.On("Update", ctx, company).Return(nil)

	logged, pair, err := svc.Login(ctx, "ent@example.mg", "motdepasse")

	require.NoError(t, err)
	assert.NotNil(t, logged.LastLogin)
	assert.NotEmpty(t, pair.AccessToken)
}

func TestCompanyAuth_ResendOTPCooldown(t *testing.T) {
	companies := new(MockCompanyRepo)
	email := new(MockEmailService)
	otp := NewOTPService(newFakeOTPRepo())
	svc := NewCompanyAuthService(companies, otp, email, newTestTokenManager())
	ctx := context.Background()

	company := &entity.Company{ID: 1, Email: "ent@example.mg", Name: "Boutique"}
	companies.On("GetByEmail", ctx, "ent@example.mg").Return(company, nil)
	email.On("SendOTP", ctx, "ent@example.mg", "Boutique", mock.Anything, OTPValidity).Return(nil)

	require.NoError(t, svc.ResendOTP(ctx, "ent@example.mg"))

	// A second resend inside the window reports the remaining wait.
	err := svc.ResendOTP(ctx, "ent@example.mg")
	var cooldown *ResendCooldownError
	require.ErrorAs(t, err, &cooldown)
	assert.GreaterOrEqual(t, cooldown.WaitMinutes, 1)
}

func TestCompanyAuth_ResetPasswordRevokesSessions(t *testing.T) {
	companies := new(MockCompanyRepo)
	otp := NewOTPService(newFakeOTPRepo())
	tokens := newTestTokenManager()
	svc := NewCompanyAuthService(companies, otp, new(MockEmailService), tokens)
	ctx := context.Background()

	company := &entity.Company{
		ID: 1, Email: "ent@example.mg",
		PasswordHash: hashOf(t, "ancien"), EmailVerified: true, IsActive: true,
	}
	companies.On("GetByEmail", ctx, "ent@example.mg").Return(company, nil)
	companies.On("Update", ctx, company).Return(nil)

	pair, err := tokens.IssuePair(ctx, company)
	require.NoError(t, err)

	code, err := otp.Issue(ctx, company, entity.PurposePasswordReset)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(ctx, "ent@example.mg", code, "nouveau-mdp"))

	// The pre-reset refresh token is dead.
	_, err = tokens.Refresh(ctx, pair.RefreshToken)
	assert.Error(t, err)

	// And the new password took.
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte("nouveau-mdp")))
}
