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

// LockoutWindow is how long an employee account stays locked after the
// failed-attempt threshold is reached.
const LockoutWindow = 15 * time.Minute

// EmployeeAuthService implements the invited-employee account flow:
// set password, confirm the emailed code, login with lockout, logout.
type EmployeeAuthService struct {
	employees repository.EmployeeRepository
	otp       *OTPService
	email     EmailService
	tokens    *manager.TokenManager

	now func() time.Time
}

func NewEmployeeAuthService(
	employees repository.EmployeeRepository,
	otp *OTPService,
	email EmailService,
	tokens *manager.TokenManager,
) *EmployeeAuthService {
	return &EmployeeAuthService{
		employees: employees,
		otp:       otp,
		email:     email,
		tokens:    tokens,
		now:       time.Now,
	}
}

// SetPassword stores the invited employee's chosen password and mails a
// confirmation code. The password can only be set once through this
// flow; a verified account must use the reset path instead.
func (s *EmployeeAuthService) SetPassword(ctx context.Context, email, password string) error {
	account, err := s.employees.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account.EmailVerified {
		return ErrPasswordAlreadySet
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	account.PasswordHash = string(hash)
	if err := s.employees.UpdateAccount(ctx, account); err != nil {
		return err
	}

	code, err := s.otp.Issue(ctx, account, entity.PurposeEmailVerify)
	if err != nil {
		return err
	}
	name := email
	if account.Employee != nil {
		name = account.Employee.FirstName
	}
	if err := s.email.SendOTP(ctx, account.Email, name, code, OTPValidity); err != nil {
		return ErrEmailDelivery
	}
	return nil
}

// ConfirmOTP consumes the confirmation code, marks the account verified
// and issues its first token pair.
func (s *EmployeeAuthService) ConfirmOTP(ctx context.Context, email, code string) (*entity.EmployeeAccount, *manager.TokenPair, error) {
	account, err := s.employees.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, ErrInvalidOTP
		}
		return nil, nil, err
	}
	if account.EmailVerified {
		return nil, nil, ErrAlreadyVerified
	}
	if err := s.otp.Verify(ctx, entity.KindEmployee, account.ID, entity.PurposeEmailVerify, code); err != nil {
		return nil, nil, err
	}

	account.EmailVerified = true
	if err := s.employees.UpdateAccount(ctx, account); err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.IssuePair(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return account, pair, nil
}

// Login authenticates an employee. Each failed password attempt bumps
// the counter; reaching the threshold starts the lockout window. A
// successful login resets the counter.
func (s *EmployeeAuthService) Login(ctx context.Context, email, password string) (*entity.EmployeeAccount, *manager.TokenPair, error) {
	account, err := s.employees.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	now := s.now()
	if account.IsLocked(now) {
		return nil, nil, ErrAccountLocked
	}
	if !account.EmailVerified {
		return nil, nil, ErrAccountNotVerified
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		account.FailedAttempts++
		if account.FailedAttempts >= entity.MaxFailedLogins {
			until := now.Add(LockoutWindow)
			account.LockedUntil = &until
		}
		if updErr := s.employees.UpdateAccount(ctx, account); updErr != nil {
			log.Printf("recording failed login for employee account %d: %v", account.ID, updErr)
		}
		return nil, nil, ErrInvalidCredentials
	}

	account.FailedAttempts = 0
	account.LockedUntil = nil
	account.LastLogin = &now
	if err := s.employees.UpdateAccount(ctx, account); err != nil {
		log.Printf("updating last login for employee account %d: %v", account.ID, err)
	}

	pair, err := s.tokens.IssuePair(ctx, account)
	if err != nil {
		return nil, nil, err
	}
	return account, pair, nil
}

// Logout blacklists the refresh token and stamps the account's last
// activity. The stamp is best effort; revocation is what matters.
func (s *EmployeeAuthService) Logout(ctx context.Context, accountID uint, refreshToken string) error {
	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return err
	}
	account, err := s.employees.GetAccountByID(ctx, accountID)
	if err != nil {
		log.Printf("loading employee account %d at logout: %v", accountID, err)
		return nil
	}
	now := s.now()
	account.LastLogin = &now
	if err := s.employees.UpdateAccount(ctx, account); err != nil {
		log.Printf("stamping logout for employee account %d: %v", accountID, err)
	}
	return nil
}

// Refresh rotates a refresh token into a fresh pair.
func (s *EmployeeAuthService) Refresh(ctx context.Context, refreshToken string) (*manager.TokenPair, error) {
	return s.tokens.Refresh(ctx, refreshToken)
}
