package handler

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/tsena-smart/tsena-api/internal/middleware"
)

// RouterDeps bundles everything the route table needs.
type RouterDeps struct {
	CompanyAuth  *CompanyAuthHandler
	EmployeeAuth *EmployeeAuthHandler
	ConsumerAuth *ConsumerAuthHandler
	Employees    *EmployeeHandler
	Invoices     *InvoiceHandler
	Stock        *StockHandler

	Auth      *middleware.AuthMiddleware
	RateLimit *middleware.RateLimitMiddleware

	AllowedOrigins []string
}

// NewRouter builds the Gin engine with the full route table. Auth
// endpoints sit behind a per-IP rate limit; everything mutating behind
// the kind-specific token guard.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authLimit := deps.RateLimit.Limit("auth", 20, time.Minute)
	otpLimit := deps.RateLimit.Limit("otp", 5, time.Minute)

	api := r.Group("/api")

	company := api.Group("/entreprise")
	{
		company.POST("/inscription", authLimit, deps.CompanyAuth.Register)
		company.POST("/verification-email", otpLimit, deps.CompanyAuth.VerifyEmail)
		company.POST("/renvoyer-code", otpLimit, deps.CompanyAuth.ResendOTP)
		company.POST("/connexion", authLimit, deps.CompanyAuth.Login)
		company.POST("/rafraichir", deps.CompanyAuth.Refresh)
		company.POST("/deconnexion", deps.Auth.RequireCompany(), deps.CompanyAuth.Logout)
		company.POST("/mot-de-passe-oublie", otpLimit, deps.CompanyAuth.ForgotPassword)
		company.POST("/reinitialiser-mot-de-passe", otpLimit, deps.CompanyAuth.ResetPassword)
	}

	employee := api.Group("/employe")
	{
		employee.POST("/definir-mot-de-passe", authLimit, deps.EmployeeAuth.SetPassword)
		employee.POST("/confirmer-code", otpLimit, deps.EmployeeAuth.ConfirmOTP)
		employee.POST("/connexion", authLimit, deps.EmployeeAuth.Login)
		employee.POST("/rafraichir", deps.EmployeeAuth.Refresh)
		employee.PUT("/deconnexion", deps.Auth.RequireEmployee(), deps.EmployeeAuth.Logout)
	}

	consumer := api.Group("/utilisateur")
	{
		consumer.POST("/inscription", authLimit, deps.ConsumerAuth.Register)
		consumer.POST("/verification-email", otpLimit, deps.ConsumerAuth.VerifyEmail)
		consumer.POST("/renvoyer-code", otpLimit, deps.ConsumerAuth.ResendOTP)
		consumer.POST("/connexion", authLimit, deps.ConsumerAuth.Login)
		consumer.POST("/connexion-google", authLimit, deps.ConsumerAuth.LoginWithGoogle)
		consumer.POST("/rafraichir", deps.ConsumerAuth.Refresh)
		consumer.POST("/deconnexion", deps.Auth.RequireConsumer(), deps.ConsumerAuth.Logout)
		consumer.POST("/mot-de-passe-oublie", otpLimit, deps.ConsumerAuth.ForgotPassword)
		consumer.POST("/reinitialiser-mot-de-passe", otpLimit, deps.ConsumerAuth.ResetPassword)
	}

	manage := api.Group("/gestion", deps.Auth.RequireCompany())
	{
		manage.POST("/employes", deps.Employees.Create)
		manage.GET("/employes", deps.Employees.List)
		manage.GET("/employes/:id", deps.Employees.Get)
		manage.PUT("/employes/:id", deps.Employees.Update)
		manage.DELETE("/employes/:id", deps.Employees.Delete)
		manage.POST("/employes/:id/inviter", deps.Employees.Invite)

		manage.POST("/professions", deps.Employees.CreateProfession)
		manage.GET("/professions", deps.Employees.ListProfessions)
		manage.DELETE("/professions/:id", deps.Employees.DeleteProfession)

		manage.POST("/droits-acces", deps.Employees.CreateAccessRight)
		manage.GET("/droits-acces", deps.Employees.ListAccessRights)
		manage.PUT("/droits-acces/:id", deps.Employees.UpdateAccessRight)
		manage.DELETE("/droits-acces/:id", deps.Employees.DeleteAccessRight)

		manage.POST("/factures", deps.Invoices.Create)
		manage.GET("/factures", deps.Invoices.List)
		manage.GET("/factures/export", deps.Invoices.ExportExcel)
		manage.GET("/factures/:id", deps.Invoices.Get)
		manage.PUT("/factures/:id", deps.Invoices.Update)
		manage.PATCH("/factures/:id/statut", deps.Invoices.ChangeStatus)
		manage.DELETE("/factures/:id", deps.Invoices.Delete)

		manage.POST("/stock", deps.Stock.Create)
		manage.GET("/stock", deps.Stock.List)
		manage.GET("/stock/:id", deps.Stock.Get)
		manage.PUT("/stock/:id", deps.Stock.Update)
		manage.PATCH("/stock/:id/ajuster", deps.Stock.Adjust)
		manage.DELETE("/stock/:id", deps.Stock.Delete)
	}

	// Employee-facing mirror of the tenant workspace, scoped to the
	// employer through the token.
	work := api.Group("/espace", deps.Auth.RequireEmployee())
	{
		work.GET("/factures", deps.Invoices.List)
		work.POST("/factures", deps.Invoices.Create)
		work.GET("/factures/:id", deps.Invoices.Get)
		work.PATCH("/factures/:id/statut", deps.Invoices.ChangeStatus)

		work.GET("/stock", deps.Stock.List)
		work.GET("/stock/:id", deps.Stock.Get)
		work.PATCH("/stock/:id/ajuster", deps.Stock.Adjust)
	}

	return r
}
