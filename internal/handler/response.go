package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/tsena-smart/tsena-api/internal/pkg/errors"
	"github.com/tsena-smart/tsena-api/internal/service"
	"github.com/tsena-smart/tsena-api/pkg/auth/manager"
)

// Response is the uniform JSON envelope every endpoint answers with.
// Messages are French; Donnees carries the payload, or null.
type Response struct {
	Message string      `json:"message"`
	Success bool        `json:"success"`
	Donnees interface{} `json:"donnees"`
}

// OK writes a success envelope.
func OK(c *gin.Context, status int, message string, donnees interface{}) {
	c.JSON(status, Response{Message: message, Success: true, Donnees: donnees})
}

// Fail writes a failure envelope.
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Message: message, Success: false, Donnees: nil})
}

func errorsIsNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}

// FailErr maps a service error onto a status code and a French client
// message. Unknown errors become a generic 500; the detail is logged,
// never sent.
func FailErr(c *gin.Context, err error) {
	var cooldown *service.ResendCooldownError
	if errors.As(err, &cooldown) {
		c.JSON(http.StatusTooManyRequests, gin.H{
			"message":          fmt.Sprintf("Veuillez patienter %d minute(s) avant de renvoyer un code.", cooldown.WaitMinutes),
			"success":          false,
			"donnees":          nil,
			"attendre_minutes": cooldown.WaitMinutes,
		})
		return
	}

	var tokenErr *manager.TokenError
	if errors.As(err, &tokenErr) {
		switch tokenErr.Type {
		case manager.ErrorTypeExpired:
			Fail(c, http.StatusUnauthorized, "Votre session a expiré, veuillez vous reconnecter.")
		case manager.ErrorTypeRevoked:
			Fail(c, http.StatusUnauthorized, "Ce jeton a été révoqué.")
		case manager.ErrorTypeInvalid, manager.ErrorTypeWrongUse:
			Fail(c, http.StatusUnauthorized, "Jeton invalide.")
		case manager.ErrorTypeNoAccount:
			Fail(c, http.StatusBadRequest, "Compte introuvable.")
		default:
			log.Printf("token error: %v", err)
			Fail(c, http.StatusInternalServerError, "Une erreur interne est survenue.")
		}
		return
	}

	switch {
	case errors.Is(err, service.ErrEmailTaken):
		Fail(c, http.StatusConflict, "Cette adresse email est déjà utilisée.")
	case errors.Is(err, service.ErrInvalidCredentials):
		Fail(c, http.StatusUnauthorized, "Email ou mot de passe incorrect.")
	case errors.Is(err, service.ErrAccountNotVerified):
		Fail(c, http.StatusForbidden, "Veuillez vérifier votre adresse email avant de vous connecter.")
	case errors.Is(err, service.ErrAccountInactive):
		Fail(c, http.StatusForbidden, "Ce compte est désactivé.")
	case errors.Is(err, service.ErrAccountLocked):
		Fail(c, http.StatusForbidden, "Compte temporairement verrouillé suite à plusieurs tentatives échouées.")
	case errors.Is(err, service.ErrInvalidOTP):
		Fail(c, http.StatusBadRequest, "Code de vérification invalide.")
	case errors.Is(err, service.ErrExpiredOTP):
		Fail(c, http.StatusBadRequest, "Code de vérification expiré, veuillez en demander un nouveau.")
	case errors.Is(err, service.ErrAlreadyVerified):
		Fail(c, http.StatusConflict, "Ce compte est déjà vérifié.")
	case errors.Is(err, service.ErrEmailDelivery):
		Fail(c, http.StatusBadGateway, "L'email n'a pas pu être envoyé, veuillez réessayer.")
	case errors.Is(err, service.ErrGoogleTokenInvalid):
		Fail(c, http.StatusUnauthorized, "Connexion Google invalide.")
	case errors.Is(err, service.ErrPasswordAlreadySet):
		Fail(c, http.StatusConflict, "Le mot de passe a déjà été défini.")
	case errors.Is(err, service.ErrInsufficientStock):
		Fail(c, http.StatusBadRequest, "Quantité en stock insuffisante.")
	case errors.Is(err, service.ErrInvalidStatusChange):
		Fail(c, http.StatusBadRequest, "Changement de statut invalide.")
	case errors.Is(err, service.ErrPlanLimitReached):
		Fail(c, http.StatusForbidden, "Limite de votre abonnement atteinte.")
	case errors.Is(err, apperrors.ErrNotFound):
		Fail(c, http.StatusNotFound, "Ressource introuvable.")
	case errors.Is(err, apperrors.ErrConflict):
		Fail(c, http.StatusConflict, "Conflit avec l'état actuel de la ressource.")
	case errors.Is(err, apperrors.ErrValidation):
		Fail(c, http.StatusBadRequest, "Données invalides.")
	case errors.Is(err, apperrors.ErrUnauthorized):
		Fail(c, http.StatusUnauthorized, "Authentification requise.")
	case errors.Is(err, apperrors.ErrForbidden):
		Fail(c, http.StatusForbidden, "Accès refusé.")
	default:
		log.Printf("internal error: %v", err)
		Fail(c, http.StatusInternalServerError, "Une erreur interne est survenue.")
	}
}
