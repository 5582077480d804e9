package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsena-smart/tsena-api/internal/middleware"
	"github.com/tsena-smart/tsena-api/internal/service"
)

// EmployeeAuthHandler exposes the invited-employee account endpoints.
type EmployeeAuthHandler struct {
	auth *service.EmployeeAuthService
}

func NewEmployeeAuthHandler(auth *service.EmployeeAuthService) *EmployeeAuthHandler {
	return &EmployeeAuthHandler{auth: auth}
}

type setPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"mot_de_passe" binding:"required,min=8"`
}

// SetPassword records the invited employee's password and mails the
// confirmation code.
func (h *EmployeeAuthHandler) SetPassword(c *gin.Context) {
	var req setPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Email ou mot de passe manquant.")
		return
	}
	if err := h.auth.SetPassword(c.Request.Context(), req.Email, req.Password); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Mot de passe enregistré. Un code de confirmation vous a été envoyé par email.", nil)
}

// ConfirmOTP consumes the confirmation code and returns the first
// token pair.
func (h *EmployeeAuthHandler) ConfirmOTP(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Email ou code manquant.")
		return
	}

	account, pair, err := h.auth.ConfirmOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Compte confirmé avec succès.", gin.H{
		"employe": account.Employee,
		"access":  pair.AccessToken,
		"refresh": pair.RefreshToken,
	})
}

// Login authenticates an employee and returns a token pair.
func (h *EmployeeAuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Email ou mot de passe manquant.")
		return
	}

	account, pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Connexion réussie.", gin.H{
		"employe": account.Employee,
		"access":  pair.AccessToken,
		"refresh": pair.RefreshToken,
	})
}

// Refresh rotates a refresh token.
func (h *EmployeeAuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Jeton de rafraîchissement manquant.")
		return
	}

	pair, err := h.auth.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Session renouvelée.", pair)
}

// Logout revokes the refresh token and stamps the account.
func (h *EmployeeAuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Jeton de rafraîchissement manquant.")
		return
	}

	accountID := middleware.AccountIDFrom(c)
	if err := h.auth.Logout(c.Request.Context(), accountID, req.Refresh); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Déconnexion réussie.", nil)
}
