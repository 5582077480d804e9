package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
)

const (
	// OTPValidity is how long an issued code stays usable.
	OTPValidity = 30 * time.Minute
	// OTPResendCooldown is the minimum gap between two issues for the
	// same scope when the cooldown is enforced.
	OTPResendCooldown = 5 * time.Minute
)

// OTPService implements the one-time-code protocol shared by all
// account kinds: uniform six-digit codes, scoped per account and
// purpose, expired codes deleted the first time a read sees them,
// successful verification consuming the code.
type OTPService struct {
	codes repository.OTPRepository

	now func() time.Time
}

func NewOTPService(codes repository.OTPRepository) *OTPService {
	return &OTPService{codes: codes, now: time.Now}
}

// generateCode draws six uniform decimal digits from crypto/rand.
// Leading zeros are preserved.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", fmt.Errorf("generating otp code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Issue creates a fresh code for the account and purpose, replacing any
// previous code for the same scope, and returns it for delivery.
func (s *OTPService) Issue(ctx context.Context, account entity.Account, purpose entity.OTPPurpose) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	now := s.now()
	record := &entity.OTPCode{
		AccountKind: account.AccountKind(),
		AccountID:   account.AccountID(),
		Purpose:     purpose,
		Code:        code,
		ExpiresAt:   now.Add(OTPValidity),
		CreatedAt:   now,
	}
	if err := s.codes.Save(ctx, record); err != nil {
		return "", err
	}
	return code, nil
}

// Reissue is Issue guarded by the resend cooldown: if the existing code
// for the scope is younger than the cooldown, it returns a
// ResendCooldownError carrying the remaining wait in whole minutes,
// rounded up and never below one.
func (s *OTPService) Reissue(ctx context.Context, account entity.Account, purpose entity.OTPPurpose) (string, error) {
	existing, err := s.codes.GetByScope(ctx, account.AccountKind(), account.AccountID(), purpose)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return "", err
	}
	if existing != nil {
		elapsed := s.now().Sub(existing.CreatedAt)
		if elapsed < OTPResendCooldown {
			remaining := OTPResendCooldown - elapsed
			wait := int(math.Ceil(remaining.Minutes()))
			if wait < 1 {
				wait = 1
			}
			return "", &ResendCooldownError{WaitMinutes: wait}
		}
	}
	return s.Issue(ctx, account, purpose)
}

// Drop discards the outstanding code for a scope without verifying it.
// Used when the flow that issued the code is rolled back.
func (s *OTPService) Drop(ctx context.Context, kind entity.AccountKind, accountID uint, purpose entity.OTPPurpose) error {
	err := s.codes.DeleteByScope(ctx, kind, accountID, purpose)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	return err
}

// Verify checks a submitted code. A matching live code is consumed, so
// a second submission of the same code fails. A matching code past its
// expiry is deleted and reported as expired; after that the same code
// reads as invalid because nothing remains to compare against. A wrong
// code answers invalid regardless of the stored code's lifecycle, so a
// guesser learns nothing about it.
func (s *OTPService) Verify(ctx context.Context, kind entity.AccountKind, accountID uint, purpose entity.OTPPurpose, code string) error {
	stored, err := s.codes.GetByScope(ctx, kind, accountID, purpose)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrInvalidOTP
		}
		return err
	}
	if stored.Code != code {
		return ErrInvalidOTP
	}
	if stored.IsExpired(s.now()) {
		if err := s.codes.DeleteByScope(ctx, kind, accountID, purpose); err != nil {
			return err
		}
		return ErrExpiredOTP
	}
	return s.codes.DeleteByScope(ctx, kind, accountID, purpose)
}
