package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tsena-smart/tsena-api/internal/service"
)

// ConsumerAuthHandler exposes the end-customer account endpoints.
type ConsumerAuthHandler struct {
	auth *service.ConsumerAuthService
}

func NewConsumerAuthHandler(auth *service.ConsumerAuthService) *ConsumerAuthHandler {
	return &ConsumerAuthHandler{auth: auth}
}

type consumerRegisterRequest struct {
	FirstName string `json:"prenom" binding:"required,max=100"`
	LastName  string `json:"nom" binding:"max=100"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"telephone" binding:"max=30"`
	Password  string `json:"mot_de_passe" binding:"required,min=8"`
}

// Register creates a consumer account and mails the verification code.
func (h *ConsumerAuthHandler) Register(c *gin.Context) {
	var req consumerRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Données d'inscription invalides.")
		return
	}

	consumer, err := h.auth.Register(c.Request.Context(), service.ConsumerRegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusCreated, "Compte créé. Un code de vérification vous a été envoyé par email.", consumer)
}

// VerifyEmail consumes the OTP and returns the first token pair.
func (h *ConsumerAuthHandler) VerifyEmail(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Email ou code manquant.")
		return
	}

	consumer, pair, err := h.auth.VerifyEmail(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Email vérifié avec succès.", gin.H{
		"utilisateur": consumer,
		"access":      pair.AccessToken,
		"refresh":     pair.RefreshToken,
	})
}

// ResendOTP mails a fresh verification code.
func (h *ConsumerAuthHandler) ResendOTP(c *gin.Context) {
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

// Login authenticates by email and password.
func (h *ConsumerAuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Email ou mot de passe manquant.")
		return
	}

	consumer, pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Connexion réussie.", gin.H{
		"utilisateur": consumer,
		"access":      pair.AccessToken,
		"refresh":     pair.RefreshToken,
	})
}

type googleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// LoginWithGoogle signs a consumer in with a Google ID token, creating
// the account on first sight.
func (h *ConsumerAuthHandler) LoginWithGoogle(c *gin.Context) {
	var req googleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "Jeton Google manquant.")
		return
	}

	consumer, pair, err := h.auth.LoginWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		FailErr(c, err)
		return
	}
	OK(c, http.StatusOK, "Connexion Google réussie.", gin.H{
		"utilisateur": consumer,
		"access":      pair.AccessToken,
		"refresh":     pair.RefreshToken,
	})
}

// ForgotPassword mails a reset code. The answer does not reveal whether
// the address exists.
func (h *ConsumerAuthHandler) ForgotPassword(c *gin.Context) {
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

// ResetPassword consumes the reset code and installs the new password.
func (h *ConsumerAuthHandler) ResetPassword(c *gin.Context) {
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

// Refresh rotates a refresh token.
func (h *ConsumerAuthHandler) Refresh(c *gin.Context) {
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
func (h *ConsumerAuthHandler) Logout(c *gin.Context) {
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
