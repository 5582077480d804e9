package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
)

// Token uses carried in the token_use claim. Middleware accepts only
// access tokens; the refresh endpoint accepts only refresh tokens.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Claims is the JWT payload shared by the three account kinds. Exactly
// one of CompanyID, EmployeeID, UserID is set, matching Kind. The jti
// lives in RegisteredClaims.ID.
type Claims struct {
	Kind       entity.AccountKind `json:"kind"`
	CompanyID  uint               `json:"company_id,omitempty"`
	EmployeeID uint               `json:"employee_id,omitempty"`
	UserID     uint               `json:"user_id,omitempty"`
	TokenUse   string             `json:"token_use"`
	jwt.RegisteredClaims
}

// AccountID returns the identity claim for the token's kind.
func (c *Claims) AccountID() uint {
	switch c.Kind {
	case entity.KindCompany:
		return c.CompanyID
	case entity.KindEmployee:
		return c.EmployeeID
	default:
		return c.UserID
	}
}

// JWTService signs and parses HS256 tokens with a shared secret.
type JWTService struct {
	secret []byte
}

func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// Sign produces a signed token string for the claims.
func (s *JWTService) Sign(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Parse validates the signature and standard claims (exp included) and
// returns the payload. Expiry is reported as jwt.ErrTokenExpired in
// the returned error; the decoded claims are still returned in that
// case so revocation can act on an expired token.
func (s *JWTService) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return claims, err
		}
		return nil, err
	}
	return claims, nil
}

// NewClaims builds the claims for one token of a pair. issuedAt is
// shared by both tokens of a pair so their iat values match.
func NewClaims(account entity.Account, use string, jti string, issuedAt time.Time, lifetime time.Duration) *Claims {
	claims := &Claims{
		Kind:     account.AccountKind(),
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(lifetime)),
		},
	}
	switch account.AccountKind() {
	case entity.KindCompany:
		claims.CompanyID = account.AccountID()
	case entity.KindEmployee:
		claims.EmployeeID = account.AccountID()
	default:
		claims.UserID = account.AccountID()
	}
	return claims
}
