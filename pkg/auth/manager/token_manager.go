package manager

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
	"github.com/tsena-smart/tsena-api/pkg/auth"
)

// TokenErrorType classifies token failures for transport mapping.
type TokenErrorType string

const (
	ErrorTypeExpired   TokenErrorType = "expired"
	ErrorTypeInvalid   TokenErrorType = "invalid"
	ErrorTypeRevoked   TokenErrorType = "revoked"
	ErrorTypeWrongUse  TokenErrorType = "wrong_use"
	ErrorTypeNoAccount TokenErrorType = "no_account"
	ErrorTypeInternal  TokenErrorType = "internal"
)

// TokenError carries a classification alongside the underlying cause.
type TokenError struct {
	Type    TokenErrorType
	Message string
	Err     error
}

func (e *TokenError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *TokenError) Unwrap() error { return e.Err }

func newTokenError(t TokenErrorType, msg string, err error) *TokenError {
	return &TokenError{Type: t, Message: msg, Err: err}
}

// TokenPair is an access/refresh pair issued together. Both tokens
// share the same iat; each carries its own jti.
type TokenPair struct {
	AccessToken      string        `json:"access"`
	RefreshToken     string        `json:"refresh"`
	AccessExpiresIn  time.Duration `json:"-"`
	RefreshExpiresIn time.Duration `json:"-"`
}

// TokenManager issues, refreshes and revokes token pairs. Refresh
// tokens are tracked as outstanding rows; rotation blacklists the
// presented token before issuing a replacement.
type TokenManager struct {
	jwt             *auth.JWTService
	tokens          repository.TokenRepository
	accessLifetime  time.Duration
	refreshLifetime time.Duration

	now func() time.Time
}

func NewTokenManager(jwtSvc *auth.JWTService, tokens repository.TokenRepository, accessLifetime, refreshLifetime time.Duration) *TokenManager {
	return &TokenManager{
		jwt:             jwtSvc,
		tokens:          tokens,
		accessLifetime:  accessLifetime,
		refreshLifetime: refreshLifetime,
		now:             time.Now,
	}
}

// IssuePair mints an access/refresh pair for the account and records
// the refresh token as outstanding. A nil account is an error, never a
// panic.
func (m *TokenManager) IssuePair(ctx context.Context, account entity.Account) (*TokenPair, error) {
	if account == nil {
		return nil, newTokenError(ErrorTypeNoAccount, "cannot issue tokens without an account", nil)
	}

	issuedAt := m.now()
	accessJTI := uuid.NewString()
	refreshJTI := uuid.NewString()

	accessToken, err := m.jwt.Sign(auth.NewClaims(account, auth.UseAccess, accessJTI, issuedAt, m.accessLifetime))
	if err != nil {
		return nil, newTokenError(ErrorTypeInternal, "signing access token", err)
	}
	refreshToken, err := m.jwt.Sign(auth.NewClaims(account, auth.UseRefresh, refreshJTI, issuedAt, m.refreshLifetime))
	if err != nil {
		return nil, newTokenError(ErrorTypeInternal, "signing refresh token", err)
	}

	outstanding := &entity.OutstandingToken{
		JTI:         refreshJTI,
		AccountKind: account.AccountKind(),
		AccountID:   account.AccountID(),
		IssuedAt:    issuedAt,
		ExpiresAt:   issuedAt.Add(m.refreshLifetime),
	}
	if err := m.tokens.Save(ctx, outstanding); err != nil {
		return nil, newTokenError(ErrorTypeInternal, "recording refresh token", err)
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresIn:  m.accessLifetime,
		RefreshExpiresIn: m.refreshLifetime,
	}, nil
}

// VerifyAccess parses an access token and rejects anything that is not
// a live access token.
func (m *TokenManager) VerifyAccess(tokenString string) (*auth.Claims, error) {
	claims, err := m.jwt.Parse(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, newTokenError(ErrorTypeExpired, "access token expired", err)
		}
		return nil, newTokenError(ErrorTypeInvalid, "access token invalid", err)
	}
	if claims.TokenUse != auth.UseAccess {
		return nil, newTokenError(ErrorTypeWrongUse, "token is not an access token", nil)
	}
	return claims, nil
}

// verifyRefresh parses a refresh token and checks it against the
// outstanding-token store.
func (m *TokenManager) verifyRefresh(ctx context.Context, tokenString string) (*auth.Claims, error) {
	claims, err := m.jwt.Parse(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, newTokenError(ErrorTypeExpired, "refresh token expired", err)
		}
		return nil, newTokenError(ErrorTypeInvalid, "refresh token invalid", err)
	}
	if claims.TokenUse != auth.UseRefresh {
		return nil, newTokenError(ErrorTypeWrongUse, "token is not a refresh token", nil)
	}

	stored, err := m.tokens.GetByJTI(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, newTokenError(ErrorTypeInvalid, "unknown refresh token", err)
		}
		return nil, newTokenError(ErrorTypeInternal, "loading refresh token", err)
	}
	if stored.Revoked {
		return nil, newTokenError(ErrorTypeRevoked, "refresh token has been revoked", nil)
	}
	return claims, nil
}

// accountRef adapts parsed claims back into the Account capability so a
// refreshed pair can be minted without a database round trip.
type accountRef struct {
	id   uint
	kind entity.AccountKind
}

func (a accountRef) AccountID() uint                 { return a.id }
func (a accountRef) AccountKind() entity.AccountKind { return a.kind }
func (a accountRef) AccountEmail() string            { return "" }

// Refresh rotates a pair: the presented refresh token is verified,
// blacklisted, and replaced by a fresh pair for the same account. Once
// rotated, replaying the old token fails as revoked.
func (m *TokenManager) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := m.verifyRefresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if err := m.RevokeJTI(ctx, claims); err != nil {
		return nil, err
	}
	return m.IssuePair(ctx, accountRef{id: claims.AccountID(), kind: claims.Kind})
}

// RevokeJTI blacklists the refresh token identified by the claims. The
// upsert path means even a jti the store never saw ends up revoked.
func (m *TokenManager) RevokeJTI(ctx context.Context, claims *auth.Claims) error {
	token := &entity.OutstandingToken{
		JTI:         claims.ID,
		AccountKind: claims.Kind,
		AccountID:   claims.AccountID(),
		Revoked:     true,
		IssuedAt:    claims.IssuedAt.Time,
		ExpiresAt:   claims.ExpiresAt.Time,
	}
	if err := m.tokens.Revoke(ctx, token); err != nil {
		return newTokenError(ErrorTypeInternal, "revoking refresh token", err)
	}
	return nil
}

// Revoke blacklists a presented refresh token. An already-expired or
// already-revoked token revokes without error so logout is idempotent.
func (m *TokenManager) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := m.jwt.Parse(refreshToken)
	if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		return newTokenError(ErrorTypeInvalid, "refresh token invalid", err)
	}
	if claims.TokenUse != auth.UseRefresh {
		return newTokenError(ErrorTypeWrongUse, "token is not a refresh token", nil)
	}
	return m.RevokeJTI(ctx, claims)
}

// RevokeAll blacklists every outstanding refresh token of an account,
// e.g. after a password reset.
func (m *TokenManager) RevokeAll(ctx context.Context, kind entity.AccountKind, accountID uint) error {
	if err := m.tokens.RevokeAllForAccount(ctx, kind, accountID); err != nil {
		return newTokenError(ErrorTypeInternal, "revoking account tokens", err)
	}
	return nil
}
