package service

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// GoogleIdentity is the subset of a verified Google ID token the
// consumer flow needs.
type GoogleIdentity struct {
	Sub           string
	Email         string
	EmailVerified bool
	GivenName     string
	FamilyName    string
	Picture       string
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	jwt.RegisteredClaims
}

type jwksKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type jwksDocument struct {
	Keys []jwksKey `json:"keys"`
}

// GoogleOAuthService verifies Google ID tokens against Google's JWKS.
// Keys are cached and refetched when an unknown kid shows up or the
// cache ages out.
type GoogleOAuthService struct {
	clientID string
	httpc    *http.Client

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time
}

func NewGoogleOAuthService(clientID string) *GoogleOAuthService {
	return &GoogleOAuthService{
		clientID: clientID,
		httpc:    &http.Client{Timeout: 10 * time.Second},
		keys:     map[string]*rsa.PublicKey{},
	}
}

func parseRSAKey(k jwksKey) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decoding exponent: %w", err)
	}
	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nBytes), E: e}, nil
}

func (s *GoogleOAuthService) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleJWKSURL, nil)
	if err != nil {
		return fmt.Errorf("building jwks request: %w", err)
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("fetching google jwks: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching google jwks: status %d", resp.StatusCode)
	}

	var doc jwksDocument
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return fmt.Errorf("decoding google jwks: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(doc.Keys))
	for _, k := range doc.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := parseRSAKey(k)
		if err != nil {
			continue
		}
		keys[k.Kid] = pub
	}
	s.keys = keys
	s.fetchedAt = time.Now()
	return nil
}

func (s *GoogleOAuthService) keyForKid(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key, ok := s.keys[kid]; ok && time.Since(s.fetchedAt) < time.Hour {
		return key, nil
	}
	if err := s.refreshKeys(ctx); err != nil {
		return nil, err
	}
	key, ok := s.keys[kid]
	if !ok {
		return nil, fmt.Errorf("no google key for kid %q", kid)
	}
	return key, nil
}

// Verify validates a Google ID token and returns the identity it
// asserts. Audience and issuer are checked against the configured
// client id and Google's issuers.
func (s *GoogleOAuthService) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	claims := &googleClaims{}
	_, err := jwt.ParseWithClaims(idToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, fmt.Errorf("token has no kid header")
		}
		return s.keyForKid(ctx, kid)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleTokenInvalid, err)
	}

	if !claims.VerifyAudience(s.clientID, true) {
		return nil, fmt.Errorf("%w: audience mismatch", ErrGoogleTokenInvalid)
	}
	if iss := claims.Issuer; iss != "https://accounts.google.com" && iss != "accounts.google.com" {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrGoogleTokenInvalid, iss)
	}

	return &GoogleIdentity{
		Sub:           claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		GivenName:     claims.GivenName,
		FamilyName:    claims.FamilyName,
		Picture:       claims.Picture,
	}, nil
}
