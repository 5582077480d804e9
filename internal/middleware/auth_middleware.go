package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tsena-smart/tsena-api/internal/domain/entity"
	"github.com/tsena-smart/tsena-api/internal/domain/repository"
	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
	"github.com/tsena-smart/tsena-api/pkg/auth/manager"
)

// Context keys set by the auth middleware.
const (
	ctxAccountID   = "account_id"
	ctxAccountKind = "account_kind"
	ctxCompanyID   = "company_id"
)

// AccountIDFrom returns the authenticated account id, zero if absent.
func AccountIDFrom(c *gin.Context) uint {
	if v, ok := c.Get(ctxAccountID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// CompanyIDFrom returns the tenant scope of the request: the company's
// own id for company tokens, the employer's id for employee tokens.
func CompanyIDFrom(c *gin.Context) uint {
	if v, ok := c.Get(ctxCompanyID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message": message,
		"success": false,
		"donnees": nil,
	})
}

func forbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"message": message,
		"success": false,
		"donnees": nil,
	})
}

// AuthMiddleware guards routes with access-token checks per account
// kind. A valid token is not enough: the account is loaded on every
// request so a deactivated, unverified or locked account loses access
// before its token expires.
type AuthMiddleware struct {
	tokens    *manager.TokenManager
	companies repository.CompanyRepository
	employees repository.EmployeeRepository
	consumers repository.ConsumerRepository
}

func NewAuthMiddleware(
	tokens *manager.TokenManager,
	companies repository.CompanyRepository,
	employees repository.EmployeeRepository,
	consumers repository.ConsumerRepository,
) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:    tokens,
		companies: companies,
		employees: employees,
		consumers: consumers,
	}
}

func internalError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"message": "Une erreur interne est survenue.",
		"success": false,
		"donnees": nil,
	})
}

func (m *AuthMiddleware) verify(c *gin.Context, wantKind entity.AccountKind) (uint, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		unauthorized(c, "Authentification requise.")
		return 0, false
	}

	claims, err := m.tokens.VerifyAccess(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		var tokenErr *manager.TokenError
		if errors.As(err, &tokenErr) && tokenErr.Type == manager.ErrorTypeExpired {
			unauthorized(c, "Votre session a expiré, veuillez vous reconnecter.")
		} else {
			unauthorized(c, "Jeton invalide.")
		}
		return 0, false
	}
	if claims.Kind != wantKind {
		forbidden(c, "Accès refusé.")
		return 0, false
	}

	c.Set(ctxAccountID, claims.AccountID())
	c.Set(ctxAccountKind, claims.Kind)
	return claims.AccountID(), true
}

// RequireCompany admits only company access tokens resolving to a
// verified, active company.
func (m *AuthMiddleware) RequireCompany() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := m.verify(c, entity.KindCompany)
		if !ok {
			return
		}

		company, err := m.companies.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				unauthorized(c, "Compte introuvable.")
			} else {
				log.Printf("loading company %d: %v", id, err)
				internalError(c)
			}
			return
		}
		if !company.EmailVerified || !company.IsActive {
			forbidden(c, "Accès refusé.")
			return
		}
		c.Set(ctxCompanyID, id)
		c.Next()
	}
}

// RequireEmployee admits only employee access tokens and re-checks the
// lockout state on every request, so a freshly locked account loses
// access before its token expires.
func (m *AuthMiddleware) RequireEmployee() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := m.verify(c, entity.KindEmployee)
		if !ok {
			return
		}

		account, err := m.employees.GetAccountByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				unauthorized(c, "Compte introuvable.")
			} else {
				log.Printf("loading employee account %d: %v", id, err)
				internalError(c)
			}
			return
		}
		if !account.EmailVerified {
			forbidden(c, "Accès refusé.")
			return
		}
		if account.Employee != nil && !account.Employee.IsActive {
			forbidden(c, "Accès refusé.")
			return
		}
		if account.IsLocked(time.Now()) {
			forbidden(c, "Compte temporairement verrouillé suite à plusieurs tentatives échouées.")
			return
		}
		if account.Employee != nil {
			c.Set(ctxCompanyID, account.Employee.CompanyID)
		}
		c.Next()
	}
}

// RequireConsumer admits only consumer access tokens resolving to a
// verified, active consumer.
func (m *AuthMiddleware) RequireConsumer() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := m.verify(c, entity.KindConsumer)
		if !ok {
			return
		}

		consumer, err := m.consumers.GetByID(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				unauthorized(c, "Compte introuvable.")
			} else {
				log.Printf("loading consumer %d: %v", id, err)
				internalError(c)
			}
			return
		}
		if !consumer.EmailVerified || !consumer.IsActive {
			forbidden(c, "Accès refusé.")
			return
		}
		c.Next()
	}
}
