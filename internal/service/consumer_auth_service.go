package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
	"github.com/tsena-smart/tsena-api/pkg/auth/manager"
)

// GoogleVerifier abstracts Google ID-token verification so the service
// can be tested without reaching Google.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

// ConsumerRegisterInput carries the fields of an end-customer signup.
type ConsumerRegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
}

// ConsumerAuthService implements the end-customer account flow. A
// consumer can register with a password plus email verification, or
// through Google sign-in which skips the OTP step because Google
// already attests the address.
type ConsumerAuthService struct {
	consumers repository.ConsumerRepository
	otp       *OTPService
	email     EmailService
	tokens    *manager.TokenManager
	google    GoogleVerifier

	now func() time.Time
}

func NewConsumerAuthService(
	consumers repository.ConsumerRepository,
	otp *OTPService,
	email EmailService,
	tokens *manager.TokenManager,
	google GoogleVerifier,
) *ConsumerAuthService {
	return &ConsumerAuthService{
		consumers: consumers,
		otp:       otp,
		email:     email,
		tokens:    tokens,
		google:    google,
		now:       time.Now,
	}
}

// Register creates the consumer unverified and mails a verification
// code, rolling the account back if the mail cannot be delivered.
func (s *ConsumerAuthService) Register(ctx context.Context, input ConsumerRegisterInput) (*entity.Consumer, error) {
	if _, err := s.consumers.GetByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	consumer := &entity.Consumer{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		Phone:        input.Phone,
		PasswordHash: string(hash),
		IsActive:     true,
	}
	if err := s.consumers.Create(ctx, consumer); err != nil {
		return nil, err
	}

	code, err := s.otp.Issue(ctx, consumer, entity.PurposeEmailVerify)
	if err != nil {
		return nil, err
	}
	if err := s.email.SendOTP(ctx, consumer.Email, consumer.FirstName, code, OTPValidity); err != nil {
		if delErr := s.otp.Drop(ctx, entity.KindConsumer, consumer.ID, entity.PurposeEmailVerify); delErr != nil {
			log.Printf("rollback of otp for consumer %d after email failure: %v", consumer.ID, delErr)
		}
		if delErr := s.consumers.Delete(ctx, consumer.ID); delErr != nil {
			log.Printf("rollback of consumer %d after email failure: %v", consumer.ID, delErr)
		}
		return nil, ErrEmailDelivery
	}
	return consumer, nil
}

// VerifyEmail consumes the OTP, marks the consumer verified and issues
// the first token pair.
func (s *ConsumerAuthService) VerifyEmail(ctx context.Context, email, code string) (*entity.Consumer, *manager.TokenPair, error) {
	consumer, err := s.consumers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, ErrInvalidOTP
		}
		return nil, nil, err
	}
	if consumer.EmailVerified {
		return nil, nil, ErrAlreadyVerified
	}
	if err := s.otp.Verify(ctx, entity.KindConsumer, consumer.ID, entity.PurposeEmailVerify, code); err != nil {
		return nil, nil, err
	}

	consumer.EmailVerified = true
	if err := s.consumers.Update(ctx, consumer); err != nil {
		return nil, nil, err
	}

	pair, err := s.tokens.IssuePair(ctx, consumer)
	if err != nil {
		return nil, nil, err
	}
	return consumer, pair, nil
}

// ResendOTP issues a replacement verification code. Consumer resends
// carry no cooldown; the transport rate limiter is the only brake.
func (s *ConsumerAuthService) ResendOTP(ctx context.Context, email string) error {
	consumer, err := s.consumers.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if consumer.EmailVerified {
		return ErrAlreadyVerified
	}
	code, err := s.otp.Issue(ctx, consumer, entity.PurposeEmailVerify)
	if err != nil {
		return err
	}
	if err := s.email.SendOTP(ctx, consumer.Email, consumer.FirstName, code, OTPValidity); err != nil {
		return ErrEmailDelivery
	}
	return nil
}

// Login authenticates by email and password.
func (s *ConsumerAuthService) Login(ctx context.Context, email, password string) (*entity.Consumer, *manager.TokenPair, error) {
	consumer, err := s.consumers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if consumer.PasswordHash == "" {
		// Google-only account; no password to compare.
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(consumer.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !consumer.EmailVerified {
		return nil, nil, ErrAccountNotVerified
	}
	if !consumer.IsActive {
		return nil, nil, ErrAccountInactive
	}

	now := s.now()
	consumer.LastLogin = &now
	if err := s.consumers.Update(ctx, consumer); err != nil {
		log.Printf("updating last login for consumer %d: %v", consumer.ID, err)
	}

	pair, err := s.tokens.IssuePair(ctx, consumer)
	if err != nil {
		return nil, nil, err
	}
	return consumer, pair, nil
}

// LoginWithGoogle verifies the ID token, links or creates the matching
// consumer, and issues a token pair. An existing password account with
// the same verified email gets its Google subject attached.
func (s *ConsumerAuthService) LoginWithGoogle(ctx context.Context, idToken string) (*entity.Consumer, *manager.TokenPair, error) {
	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, nil, err
	}
	if !identity.EmailVerified {
		return nil, nil, ErrGoogleTokenInvalid
	}

	consumer, err := s.consumers.GetByGoogleSub(ctx, identity.Sub)
	if errors.Is(err, apperrors.ErrNotFound) {
		consumer, err = s.consumers.GetByEmail(ctx, strings.ToLower(identity.Email))
		if errors.Is(err, apperrors.ErrNotFound) {
			consumer = &entity.Consumer{
				FirstName:     identity.GivenName,
				LastName:      identity.FamilyName,
				Email:         strings.ToLower(identity.Email),
				GoogleSub:     identity.Sub,
				PictureURL:    identity.Picture,
				EmailVerified: true,
				IsActive:      true,
			}
			if err := s.consumers.Create(ctx, consumer); err != nil {
				return nil, nil, err
			}
		} else if err != nil {
			return nil, nil, err
		} else {
			consumer.GoogleSub = identity.Sub
			consumer.EmailVerified = true
			if consumer.PictureURL == "" {
				consumer.PictureURL = identity.Picture
			}
			if err := s.consumers.Update(ctx, consumer); err != nil {
				return nil, nil, err
			}
		}
	} else if err != nil {
		return nil, nil, err
	}

	if !consumer.IsActive {
		return nil, nil, ErrAccountInactive
	}

	now := s.now()
	consumer.LastLogin = &now
	if err := s.consumers.Update(ctx, consumer); err != nil {
		log.Printf("updating last login for consumer %d: %v", consumer.ID, err)
	}

	pair, err := s.tokens.IssuePair(ctx, consumer)
	if err != nil {
		return nil, nil, err
	}
	return consumer, pair, nil
}

// ForgotPassword mails a reset code to the account.
func (s *ConsumerAuthService) ForgotPassword(ctx context.Context, email string) error {
	consumer, err := s.consumers.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	code, err := s.otp.Issue(ctx, consumer, entity.PurposePasswordReset)
	if err != nil {
		return err
	}
	if err := s.email.SendPasswordReset(ctx, consumer.Email, consumer.FirstName, code, OTPValidity); err != nil {
		return ErrEmailDelivery
	}
	return nil
}

// ResetPassword consumes the reset code, stores the new password hash
// and revokes every outstanding refresh token of the account. A
// Google-only account gains a password this way.
func (s *ConsumerAuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	consumer, err := s.consumers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return ErrInvalidOTP
		}
		return err
	}
	if err := s.otp.Verify(ctx, entity.KindConsumer, consumer.ID, entity.PurposePasswordReset, code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	consumer.PasswordHash = string(hash)
	if err := s.consumers.Update(ctx, consumer); err != nil {
		return err
	}
	return s.tokens.RevokeAll(ctx, entity.KindConsumer, consumer.ID)
}

// Refresh rotates a refresh token into a fresh pair.
func (s *ConsumerAuthService) Refresh(ctx context.Context, refreshToken string) (*manager.TokenPair, error) {
	return s.tokens.Refresh(ctx, refreshToken)
}

// Logout blacklists the presented refresh token.
func (s *ConsumerAuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokens.Revoke(ctx, refreshToken)
}
