package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/elevate-api/internal/config"
	"github.com/yourusername/elevate-api/internal/handler"
	"github.com/yourusername/elevate-api/internal/middleware"
	pgRepo "github.com/yourusername/elevate-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/elevate-api/internal/repository/redis"
	"github.com/yourusername/elevate-api/internal/service"
	"github.com/yourusername/elevate-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis с использованием унифицированной конфигурации
	redisClient, err := database.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	agreementRepo := pgRepo.NewAgreementAcceptanceRepo(db)
	versionRepo := pgRepo.NewAgreementVersionRepo(db)
	handbookRepo := pgRepo.NewHandbookAcknowledgmentRepo(db)
	onboardingRepo := pgRepo.NewOnboardingProgressRepo(db)
	portalRepo := pgRepo.NewPortalAccessRepo(db)
	auditLogRepo := pgRepo.NewComplianceAuditLogRepo(db)
	studentRepo := pgRepo.NewStudentProfileRepo(db)
	accessRepo := pgRepo.NewMiladyAccessRepo(db)
	licenseRepo := pgRepo.NewMiladyLicenseCodeRepo(db)
	queueRepo := pgRepo.NewMiladyProvisioningQueueRepo(db)
	paymentRepo := pgRepo.NewVendorPaymentRepo(db)
	enrollmentRepo := pgRepo.NewEnrollmentRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем интеграции с внешними сервисами.
	// Отсутствие ключей - валидная конфигурация: стратегия просто пропускается.
	var apiClient service.VendorAPIClient
	if cfg.Milady.APIConfigured() {
		miladyClient, errClient := service.NewMiladyAPIClient(cfg.Milady)
		if errClient != nil {
			log.Printf("Failed to initialize Milady API client: %v", errClient)
			os.Exit(1)
		}
		apiClient = miladyClient
		log.Println("Milady API клиент инициализирован")
	}

	var stripeClient service.StripeTransferClient
	if cfg.Stripe.SecretKey != "" {
		sc, errStripe := service.NewStripeClient(cfg.Stripe.SecretKey)
		if errStripe != nil {
			log.Printf("Failed to initialize Stripe client: %v", errStripe)
			os.Exit(1)
		}
		stripeClient = sc
		log.Println("Stripe клиент инициализирован")
	}

	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.ResendAPIKey != "" {
		resendService, errEmail := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if errEmail != nil {
			log.Printf("Failed to initialize Resend email service: %v", errEmail)
			os.Exit(1)
		}
		emailService = resendService
		log.Println("Resend email сервис инициализирован")
	} else {
		log.Println("RESEND_API_KEY не задан, отправка писем отключена")
	}

	// Инициализируем сервисы
	auditService := service.NewAuditService(auditLogRepo, 0)
	complianceService := service.NewComplianceService(
		portalRepo,
		agreementRepo,
		versionRepo,
		handbookRepo,
		onboardingRepo,
		cacheRepo,
		auditService,
		time.Duration(cfg.Compliance.StatusCacheTTLSec)*time.Second,
	)
	miladyService := service.NewMiladyService(
		cfg.Milady,
		apiClient,
		stripeClient,
		studentRepo,
		accessRepo,
		licenseRepo,
		queueRepo,
		paymentRepo,
		enrollmentRepo,
		emailService,
		auditService,
	)

	// Инициализируем обработчики
	complianceHandler := handler.NewComplianceHandler(complianceService)
	miladyHandler := handler.NewMiladyHandler(miladyService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Инициализируем роутер Gin
	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	// В production (GIN_MODE=release): не доверяем прокси (защита от IP spoofing)
	// При деплое за load balancer: добавьте IP балансировщика в список
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://elevateforhumanity.org", "https://app.elevateforhumanity.org", "http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Метаданные клиента нужны всем write-операциям для аудита
	router.Use(middleware.ClientMeta())

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Compliance Gate
		compliance := api.Group("/compliance")
		compliance.Use(rateLimiter.Limit(middleware.DefaultComplianceRateLimitConfig()))
		{
			// Актуальные версии документов доступны до логина (страница подписания)
			compliance.GET("/agreement-versions", complianceHandler.GetAgreementVersions)

			authed := compliance.Group("")
			authed.Use(authMiddleware.RequireAuth())
			{
				authed.GET("/status", complianceHandler.CheckStatus)
				authed.POST("/agreements", complianceHandler.SignAgreement)
				authed.GET("/agreements", complianceHandler.GetAgreements)
				authed.POST("/handbook", complianceHandler.AcknowledgeHandbook)
				authed.POST("/onboarding/:step", complianceHandler.UpdateProgress)
			}
		}

		// Админские операции провижининга Milady
		admin := api.Group("/admin/milady")
		admin.Use(rateLimiter.Limit(middleware.AdminRateLimitConfig()))
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			admin.POST("/payments", miladyHandler.ProcessPayment)
			admin.POST("/provisioned", miladyHandler.MarkProvisioned)
			admin.GET("/payments/pending", miladyHandler.GetPendingPayments)
			admin.GET("/queue", miladyHandler.GetProvisioningQueue)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Server started on port %s", cfg.Server.Port)

	// После получения сигнала SIGINT или SIGTERM начинаем graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Создаем контекст с таймаутом для graceful shutdown сервера
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	// Дожидаемся, пока аудит допишет накопленные события
	if err := auditService.Close(shutdownCtx); err != nil {
		log.Printf("Error closing audit service: %v", err)
	}

	log.Println("Server exited properly")
}
