package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsena-smart/tsena-api/internal/service"
)

// CompanyAuthHandler exposes the tenant account endpoints.
type CompanyAuthHandler struct {
	auth *service.CompanyAuthService
}

func NewCompanyAuthHandler(auth *service.CompanyAuthService) *CompanyAuthHandler {
	return &CompanyAuthHandler{auth: auth}
}

type companyRegisterRequest struct {
	Name     string `json:"nom" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"telephone" binding:"max=30"`
	Address  string `json:"adresse" binding:"max=255"`
	City     string `json:"ville" binding:"max=100"`
	Country  string `json:"pays" binding:"max=100"`
	NIF      string `json:"nif" binding:"max=50"`
	STAT     string `json:"stat" binding:"max=50"`
	Password string `json:"mot_de_passe" binding:"required,min=8"`
}

// Register creates a company account and mails the verification code.
func (h *CompanyAuthHandler) Register(c *gin.Context) {
	var req companyRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Données d'inscription invalides.")
		return
	}

	company, err := h.auth.Register(c.Request.Context(), service.CompanyRegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
		City:     req.City,
		Country:  req.Country,
		NIF:      req.NIF,
		STAT:     req.STAT,
		Password: req.Password,
	})
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusCreated, "Compte créé. Un code de vérification vous a été envoyé par email.", company)
}

type verifyRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

// VerifyEmail consumes the OTP and returns the first token pair.
func (h *CompanyAuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Email ou code manquant.")
		return
	}

	company, pair, err := h.auth.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Email vérifié avec succès.", gin.H{
		"entreprise": company,
		"access":     pair.AccessToken,
		"refresh":    pair.RefreshToken,
	})
}

type resendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendOTP reissues the verification code under the cooldown.
func (h *CompanyAuthHandler) ResendOTP(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Email manquant.")
		return
	}
	if err := h.auth.ResendOTP(c.Request.Context(), req.Email); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Un nouveau code vous a été envoyé par email.", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"mot_de_passe" binding:"required"`
}

// Login authenticates a company and returns a token pair.
func (h *CompanyAuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Email ou mot de passe manquant.")
		return
	}

	company, pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Connexion réussie.", gin.H{
		"entreprise": company,
		"access":     pair.AccessToken,
		"refresh":    pair.RefreshToken,
	})
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// Refresh rotates a refresh token.
func (h *CompanyAuthHandler) Refresh(c *gin.Context) {
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

// Logout revokes the presented refresh token.
func (h *CompanyAuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Jeton de rafraîchissement manquant.")
		return
	}
	if err := h.auth.Logout(c.Request.Context(), req.Refresh); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Déconnexion réussie.", nil)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword mails a reset code. The answer does not reveal whether
// the address exists.
func (h *CompanyAuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Email manquant.")
		return
	}

	const msg = "Si cette adresse existe, un code de réinitialisation a été envoyé."
	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		if errorsIsNotFound(err) {
			OK(c, http.StatusOK, msg, nil)
			return
		}
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, msg, nil)
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"nouveau_mot_de_passe" binding:"required,min=8"`
}

// ResetPassword consumes the reset code and installs the new password.
func (h *CompanyAuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Données de réinitialisation invalides.")
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Mot de passe réinitialisé, vous pouvez vous connecter.", nil)
}
