package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
	"github.com/tsena-smart/tsena-api/pkg/auth/manager"
)

// FreemiumPlan is the tier assigned to every new tenant.
const FreemiumPlan = "freemium"

// CompanyRegisterInput carries the fields of a company signup.
type CompanyRegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	City     string
	Country  string
	NIF      string
	STAT     string
	Password string
}

// CompanyAuthService implements the tenant account lifecycle: register
// with email verification, login, OTP resend, password reset.
type CompanyAuthService struct {
	companies repository.CompanyRepository
	otp       *OTPService
	email     EmailService
	tokens    *manager.TokenManager

	now func() time.Time
}

func NewCompanyAuthService(
	companies repository.CompanyRepository,
	otp *OTPService,
	email EmailService,
	tokens *manager.TokenManager,
) *CompanyAuthService {
	return &CompanyAuthService{
		companies: companies,
		otp:       otp,
		email:     email,
		tokens:    tokens,
		now:       time.Now,
	}
}

// Register creates the company unverified and mails it a verification
// code. If the mail cannot be delivered the account is removed again so
// the email can be retried with a clean slate.
func (s *CompanyAuthService) Register(ctx context.Context, input CompanyRegisterInput) (*entity.Company, error) {
	if _, err := s.companies.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	company := &entity.Company{
		Name:         input.Name,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		City:         input.City,
		Country:      input.Country,
		NIF:          input.NIF,
		STAT:         input.STAT,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	// New tenants start on the freemium tier. A missing seed plan is
	// logged and leaves the company uncapped rather than blocking signup.
	if plan, err := s.companies.GetPlanByName(ctx, FreemiumPlan); err == nil {
		company.PlanID = &plan.ID
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	} else {
		log.Printf("freemium plan missing, registering %s without a plan", input.Email)
	}
	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}

	code, err := s.otp.Issue(ctx, company, entity.PurposeEmailVerify)
	if err != nil {
		return nil, err
	}
	if err := s.email.SendOTP(ctx, company.Email, company.Name, code, OTPValidity); err != nil {
		// Without the mail the signup is unusable; roll the account
		// and its code back so the next attempt starts clean.
		if delErr := s.otp.Drop(ctx, entity.KindCompany, company.ID, entity.PurposeEmailVerify); delErr != nil {
			log.Printf("rollback of otp for company %d after email failure: %v", company.ID, delErr)
		}
		if delErr := s.companies.Delete(ctx, company.ID); delErr != nil {
			log.Printf("rollback of company %d after email failure: %v", company.ID, delErr)
		}
		return nil, ErrEmailDelivery
	}
	return company, nil
}

// VerifyEmail consumes the OTP and, on success, marks the company
// verified and issues its first token pair.
func (s *CompanyAuthService) VerifyEmail(ctx context.Context, email, code string) (*entity.Company, *manager.TokenPair, error) {
	company, err := s.companies.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, ErrInvalidOTP
		}
		return nil, nil, err
	}
	if company.EmailVerified {
		return nil, nil, ErrAlreadyVerified
	}
	if err := s.otp.Verify(ctx, entity.KindCompany, company.ID, entity.PurposeEmailVerify, code); err != nil {
		return nil, nil, err
	}

	company.EmailVerified = true
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.IssuePair(ctx, company)
	if err != nil {
		return nil, nil, err
	}
	return company, pair, nil
}

// ResendOTP issues a replacement verification code, subject to the
// five-minute cooldown.
func (s *CompanyAuthService) ResendOTP(ctx context.Context, email string) error {
	company, err := s.companies.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}
	if company.EmailVerified {
		return ErrAlreadyVerified
	}
	code, err := s.otp.Reissue(ctx, company, entity.PurposeEmailVerify)
	if err != nil {
		return err
	}
	if err := s.email.SendOTP(ctx, company.Email, company.Name, code, OTPValidity); err != nil {
		return ErrEmailDelivery
	}
	return nil
}

// Login authenticates by email and password and issues a token pair.
func (s *CompanyAuthService) Login(ctx context.Context, email, password string) (*entity.Company, *manager.TokenPair, error) {
	company, err := s.companies.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !company.EmailVerified {
		return nil, nil, ErrAccountNotVerified
	}
	if !company.IsActive {
		return nil, nil, ErrAccountInactive
	}

	now := s.now()
	company.LastLogin = &now
	if err := s.companies.Update(ctx, company); err != nil {
		log.Printf("updating last login for company %d: %v", company.ID, err)
	}

	pair, err := s.tokens.IssuePair(ctx, company)
	if err != nil {
		return nil, nil, err
	}
	return company, pair, nil
}

// ForgotPassword mails a reset code to the account. An unknown email is
// reported as not found so the handler can answer without leaking
// which addresses exist beyond the French catch-all message.
func (s *CompanyAuthService) ForgotPassword(ctx context.Context, email string) error {
	company, err := s.companies.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	code, err := s.otp.Issue(ctx, company, entity.PurposePasswordReset)
	if err != nil {
		return err
	}
	if err := s.email.SendPasswordReset(ctx, company.Email, company.Name, code, OTPValidity); err != nil {
		return ErrEmailDelivery
	}
	return nil
}

// ResetPassword consumes the reset code, stores the new password hash
// and revokes every outstanding refresh token of the account.
func (s *CompanyAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	company, err := s.companies.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrInvalidOTP
		}
		return err
	}
	if err := s.otp.Verify(ctx, entity.KindCompany, company.ID, entity.PurposePasswordReset, code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	company.PasswordHash = string(hash)
	if err := s.companies.Update(ctx, company); err != nil {
		return err
	}
	return s.tokens.RevokeAll(ctx, entity.KindCompany, company.ID)
}

// Refresh rotates a refresh token into a fresh pair.
func (s *CompanyAuthService) Refresh(ctx context.Context, refreshToken string) (*manager.TokenPair, error) {
	return s.tokens.Refresh(ctx, refreshToken)
}

// Logout blacklists the presented refresh token.
func (s *CompanyAuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}
