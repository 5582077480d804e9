package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/tsena-smart/tsena-api/internal/config"
	"github.com/tsena-smart/tsena-api/internal/handler"
	"github.com/tsena-smart/tsena-api/internal/middleware"
	postgresrepo "github.com/tsena-smart/tsena-api/internal/repository/postgres"
	redisrepo "github.com/tsena-smart/tsena-api/internal/repository/redis"
	"github.com/tsena-smart/tsena-api/internal/service"
	"github.com/tsena-smart/tsena-api/pkg/auth"
	"github.com/tsena-smart/tsena-api/pkg/auth/manager"
	"github.com/tsena-smart/tsena-api/pkg/database"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	migrationsPath := flag.String("migrations", "migrations", "path to the migrations directory")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
	}

	db, err := database.NewPostgresDB(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connecting to postgres: %v", err)
	}

	migrateURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(cfg.Database.User), url.QueryEscape(cfg.Database.Password),
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName, cfg.Database.SSLMode)
	if err := database.RunMigrations(*migrationsPath, migrateURL); err != nil {
		log.Fatalf("running migrations: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Fatalf("connecting to redis: %v", err)
	}

	companyRepo := postgresrepo.NewCompanyRepo(db)
	employeeRepo := postgresrepo.NewEmployeeRepo(db)
	consumerRepo := postgresrepo.NewConsumerRepo(db)
	otpRepo := postgresrepo.NewOTPRepo(db)
	tokenRepo := postgresrepo.NewTokenRepo(db)
	invoiceRepo := postgresrepo.NewInvoiceRepo(db)
	stockRepo := postgresrepo.NewStockRepo(db)
	cacheRepo := redisrepo.NewCacheRepo(redisClient)

	var emailSvc service.EmailService
	if cfg.Email.Provider == "resend" {
		emailSvc = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
	} else {
		emailSvc = service.NewNoopEmailService()
	}

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret)
	tokenManager := manager.NewTokenManager(jwtSvc, tokenRepo, cfg.JWT.AccessLifetime, cfg.JWT.RefreshLifetime)
	otpSvc := service.NewOTPService(otpRepo)
	googleSvc := service.NewGoogleOAuthService(cfg.Google.ClientID)

	companyAuth := service.NewCompanyAuthService(companyRepo, otpSvc, emailSvc, tokenManager)
	employeeAuth := service.NewEmployeeAuthService(employeeRepo, otpSvc, emailSvc, tokenManager)
	consumerAuth := service.NewConsumerAuthService(consumerRepo, otpSvc, emailSvc, tokenManager, googleSvc)
	employeeSvc := service.NewEmployeeService(employeeRepo, companyRepo, emailSvc, cfg.Server.InviteBaseURL)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, companyRepo, stockRepo)
	stockSvc := service.NewStockService(stockRepo)

	router := handler.NewRouter(handler.RouterDeps{
		CompanyAuth:    handler.NewCompanyAuthHandler(companyAuth),
		EmployeeAuth:   handler.NewEmployeeAuthHandler(employeeAuth),
		ConsumerAuth:   handler.NewConsumerAuthHandler(consumerAuth),
		Employees:      handler.NewEmployeeHandler(employeeSvc),
		Invoices:       handler.NewInvoiceHandler(invoiceSvc),
		Stock:          handler.NewStockHandler(stockSvc),
		Auth:           middleware.NewAuthMiddleware(tokenManager, companyRepo, employeeRepo, consumerRepo),
		RateLimit:      middleware.NewRateLimitMiddleware(cacheRepo),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	if err := redisClient.Close(); err != nil {
		log.Printf("closing redis: %v", err)
	}
	log.Println("server stopped")
}
