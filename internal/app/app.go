package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"outbound_backend/internal/auth"
	"outbound_backend/internal/config"
	"outbound_backend/internal/email"
	"outbound_backend/internal/geo"
	"outbound_backend/internal/handlers"
	"outbound_backend/internal/identity"
	"outbound_backend/internal/logger"
	"outbound_backend/internal/middleware"
	"outbound_backend/internal/models"
	"outbound_backend/internal/payments"
	"outbound_backend/internal/repositories"
	"outbound_backend/internal/routes"
	"outbound_backend/internal/services"
	"outbound_backend/internal/storage"
	"outbound_backend/internal/twofactor"
	"outbound_backend/internal/validator"
	"outbound_backend/internal/workers"
	"outbound_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 15 * time.Second

// Server is the assembled application.
type Server struct {
	Router   *gin.Engine
	Services *services.ServiceContainer
	Hub      *ws.WebSocketManager

	cfg   *config.Config
	db    *gorm.DB
	sqlDB *sql.DB
	redis *redis.Client
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, sqlDB := openDatabase(cfg)

	if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		logger.Fatal("Failed to enable uuid-ossp", "error", err)
	}
	if err := gormDB.AutoMigrate(models.All()...); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database migrated")

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	rdb := openRedis(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := NewServer(cfg, gormDB, sqlDB, rdb)
	server.Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              address,
		Handler:           server.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err.Error())
	}
	if err := rdb.Close(); err != nil {
		logger.Warn("Failed to close redis", "error", err.Error())
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close database", "error", err.Error())
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, *sql.DB) {
	logLevel := gormlogger.Warn
	if !cfg.IsProduction() {
		logLevel = gormlogger.Info
	}

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")
	return gormDB, sqlDB
}

func openRedis(cfg *config.Config) *redis.Client {
	opts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		logger.Fatal("Invalid redis url", "error", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Fatal("Redis unavailable", "error", err)
	}
	logger.Info("Redis connected")
	return rdb
}

// NewServer wires storage, services, handlers and routes.
func NewServer(cfg *config.Config, gormDB *gorm.DB, sqlDB *sql.DB, rdb *redis.Client) *Server {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:       cfg.Storage.Type,
		BasePath:   cfg.Storage.BasePath,
		BaseURL:    cfg.Storage.BaseURL,
		Bucket:     cfg.Storage.Bucket,
		AccessKey:  cfg.Storage.AccessKey,
		SecretKey:  cfg.Storage.SecretKey,
		Endpoint:   cfg.Storage.Endpoint,
		PublicRead: cfg.Storage.PublicRead,
		BunnyZone:  cfg.Storage.BunnyZone,
		BunnyKey:   cfg.Storage.BunnyKey,
		BunnyHost:  cfg.Storage.BunnyHost,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", storageInstance.Name())

	emailProvider, err := email.NewProvider(email.Config{
		Provider:     cfg.Email.Provider,
		ResendAPIKey: cfg.Email.ResendAPIKey,
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromEmail:    cfg.Email.FromEmail,
		FromName:     cfg.Email.FromName,
	})
	if err != nil {
		logger.Fatal("Failed to initialize email provider", "error", err)
	}
	logger.Info("Email provider initialized", "provider", cfg.Email.Provider)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	hub := ws.NewWebSocketManager()

	// 1. Services
	serviceContainer := initializeServices(cfg, storageInstance, emailProvider, tokens, rdb, hub)

	// 2. Handlers
	appHandlers := initializeHandlers(serviceContainer)

	// 3. WebSocket
	wsHandler := ws.NewWebSocketHandler(hub, serviceContainer.ChatService, cfg.Server.FrontendURL)

	// 4. Gin
	ginRouter := initializeGinRouter(cfg, gormDB)
	if local, ok := storageInstance.(*storage.LocalStorage); ok && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		ginRouter.Static(cfg.Storage.BaseURL, local.BasePath())
	}

	// 5. Routes
	resolver := identity.NewResolver(repositories.NewTeamRepository())
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler, tokens, resolver)

	return &Server{
		Router:   ginRouter,
		Services: serviceContainer,
		Hub:      hub,
		cfg:      cfg,
		db:       gormDB,
		sqlDB:    sqlDB,
		redis:    rdb,
	}
}

// Start launches the websocket hub and the background workers. They stop with ctx.
func (s *Server) Start(ctx context.Context) {
	go s.Hub.Run(ctx)

	chatWorker := workers.NewChatWorker(s.db, s.Services.ChatService, s.cfg.Jobs.ChatAutoCloseSchedule)
	if err := chatWorker.Start(ctx); err != nil {
		logger.Fatal("Failed to schedule chat auto-close", "error", err)
	}

	maintenance := workers.NewMaintenanceWorker(
		s.db,
		s.sqlDB,
		s.cfg.Database.MaxIdleConns,
		s.cfg.Jobs.ConnRefreshInterval,
		s.cfg.Jobs.StuckConnInterval,
	)
	maintenance.Start(ctx)
}

func initializeServices(
	cfg *config.Config,
	storageInstance storage.Storage,
	emailProvider email.Provider,
	tokens *auth.TokenManager,
	rdb *redis.Client,
	hub *ws.WebSocketManager,
) *services.ServiceContainer {
	// --- Repositories ---
	userRepo := repositories.NewUserRepository()
	teamRepo := repositories.NewTeamRepository()
	itemRepo := repositories.NewItemRepository()
	campaignRepo := repositories.NewCampaignRepository()
	orgRepo := repositories.NewOrganizationRepository()
	analyticsRepo := repositories.NewAnalyticsRepository()
	auditRepo := repositories.NewAuditRepository()
	chatRepo := repositories.NewChatRepository()
	refundRepo := repositories.NewRefundRepository()

	settings := services.Settings{
		PublicBaseURL: cfg.Server.PublicBaseURL,
		FrontendURL:   cfg.Server.FrontendURL,
	}
	gateway := payments.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)
	codes := twofactor.NewCodeStore(rdb, cfg.TwoFactor.CodeTTL)
	locator := geo.NewClient(cfg.Geo.BaseURL, cfg.Geo.Timeout)

	// --- Services ---
	auditService := services.NewAuditService(auditRepo)
	userService := services.NewUserService(userRepo, itemRepo, storageInstance)
	analyticsService := services.NewAnalyticsService(analyticsRepo, itemRepo, campaignRepo, locator)
	uploadConfig := services.UploadConfig{
		MaxFileSize:  cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	}

	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(userRepo, tokens, codes, emailProvider),
		UserService:         userService,
		TeamService:         services.NewTeamService(teamRepo, userRepo, auditService, emailProvider, settings),
		ItemService:         services.NewItemService(itemRepo, campaignRepo, orgRepo, storageInstance, auditService, settings),
		UploadService:       services.NewUploadService(itemRepo, userRepo, campaignRepo, storageInstance, auditService, uploadConfig, settings),
		CampaignService:     services.NewCampaignService(campaignRepo, itemRepo, orgRepo, auditService, settings),
		OrganizationService: services.NewOrganizationService(orgRepo, teamRepo, auditService),
		AnalyticsService:    analyticsService,
		AuditService:        auditService,
		ComplianceService:   services.NewComplianceService(campaignRepo),
		ChatService:         services.NewChatService(chatRepo, hub, cfg.Jobs.ChatIdleTimeout),
		BillingService: services.NewBillingService(userRepo, gateway, services.BillingConfig{
			Prices:    cfg.Stripe.Prices,
			ReturnURL: cfg.Stripe.ReturnURL,
		}, settings),
		RefundService:     services.NewRefundService(userRepo, refundRepo, userService, gateway, emailProvider),
		SecurityService:   services.NewSecurityService(userRepo, auditService),
		WhiteLabelService: services.NewWhiteLabelService(userRepo, auditService),
		PublicService:     services.NewPublicService(itemRepo, campaignRepo, analyticsService),
		EmailService:      emailProvider,
	}
}

func initializeHandlers(services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, services.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, services.UserService),
		TeamHandler:         handlers.NewTeamHandler(baseHandler, services.TeamService),
		ItemHandler:         handlers.NewItemHandler(baseHandler, services.ItemService),
		UploadHandler:       handlers.NewUploadHandler(baseHandler, services.UploadService),
		CampaignHandler:     handlers.NewCampaignHandler(baseHandler, services.CampaignService),
		OrganizationHandler: handlers.NewOrganizationHandler(baseHandler, services.OrganizationService),
		AnalyticsHandler:    handlers.NewAnalyticsHandler(baseHandler, services.AnalyticsService, services.AuditService, services.ComplianceService),
		AccountHandler:      handlers.NewAccountHandler(baseHandler, services.BillingService, services.RefundService, services.SecurityService, services.WhiteLabelService),
		ChatHandler:         handlers.NewChatHandler(baseHandler, services.ChatService),
		PublicHandler:       handlers.NewPublicHandler(baseHandler, services.PublicService, services.BillingService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.MaxMultipartMemory = 32 << 20
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.FrontendURL))
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := strings.ToLower(strings.TrimSpace(cfg.FirstAdminEmail))
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var existing models.User
	result := db.Where("email = ?", adminEmail).First(&existing)
	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:              adminEmail,
		PasswordHash:       hashedPassword,
		Name:               "Platform Admin",
		Role:               models.UserRoleAdmin,
		Plan:               models.PlanEnterprise,
		SubscriptionStatus: models.SubscriptionStatusNone,
		StorageLimit:       models.PlanEnterprise.StorageLimit(),
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Created first admin user", "email", adminEmail)
	return nil
}
