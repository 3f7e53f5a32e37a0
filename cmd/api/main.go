package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tesouraria/tesouraria-backend/internal/config"
	"github.com/tesouraria/tesouraria-backend/internal/handler"
	"github.com/tesouraria/tesouraria-backend/internal/middleware"
	"github.com/tesouraria/tesouraria-backend/internal/repository/postgres"
	"github.com/tesouraria/tesouraria-backend/internal/repository/storage"
	"github.com/tesouraria/tesouraria-backend/internal/service"
	"github.com/tesouraria/tesouraria-backend/internal/sheets"
	sheetsgoogle "github.com/tesouraria/tesouraria-backend/internal/sheets/google"
	sheetsmemory "github.com/tesouraria/tesouraria-backend/internal/sheets/memory"
	"github.com/tesouraria/tesouraria-backend/internal/sheets/sheetdb"
	"github.com/tesouraria/tesouraria-backend/internal/websocket"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	// Verify database connection
	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	if err := postgres.EnsureSchema(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	// Initialize repositories
	categoryRepo := postgres.NewCategoryRepository(pool)
	subcategoryRepo := postgres.NewSubcategoryRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)

	// Report file storage
	reportStore, err := storage.NewS3ReportStore(context.Background(), cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize report storage")
	}

	// Spreadsheet row uploader
	rowAppender := newRowAppender(cfg)

	// Initialize services
	catalogService := service.NewCatalogService(categoryRepo, subcategoryRepo, cfg.RemoteTimeout)
	ledgerService := service.NewLedgerService(transactionRepo, subcategoryRepo, categoryRepo, cfg.RemoteTimeout)
	calculationService := service.NewCalculationService(categoryRepo, subcategoryRepo, transactionRepo, cfg.RemoteTimeout)
	reportService := service.NewReportService(transactionRepo, reportRepo, reportStore, rowAppender, cfg.RemoteTimeout)
	profileService := service.NewProfileService(profileRepo, cfg.ReauthMaxAge, cfg.RemoteTimeout)

	// WebSocket hub for scope-based live updates
	hub := websocket.NewHub()
	catalogService.SetEventPublisher(hub)
	ledgerService.SetEventPublisher(hub)

	wsValidator, err := websocket.NewJWTValidator(cfg.AuthDomain, cfg.AuthAudience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket token validator")
	}

	// Initialize auth middleware
	authMiddleware, err := middleware.NewAuthMiddleware(cfg.AuthDomain, cfg.AuthAudience)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// Initialize handlers
	categoryHandler := handler.NewCategoryHandler(catalogService)
	subcategoryHandler := handler.NewSubcategoryHandler(catalogService)
	transactionHandler := handler.NewTransactionHandler(ledgerService)
	balanceHandler := handler.NewBalanceHandler(calculationService)
	reportHandler := handler.NewReportHandler(reportService)
	profileHandler := handler.NewProfileHandler(profileService)
	wsHandler := handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, rateLimiter, categoryHandler, subcategoryHandler, transactionHandler, balanceHandler, reportHandler, profileHandler, wsHandler)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// newRowAppender builds the spreadsheet uploader selected by configuration.
// The memory backend keeps rows in process, for local development without
// external credentials.
func newRowAppender(cfg *config.Config) sheets.RowAppender {
	switch cfg.Sheets.Backend {
	case "sheetdb":
		log.Info().Msg("Using SheetDB row uploader")
		return sheetdb.New(cfg.Sheets.SheetDBURL)
	case "google":
		client, err := sheetsgoogle.New(context.Background(), cfg.Sheets.SpreadsheetID, cfg.Sheets.SheetName)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Google Sheets client")
		}
		log.Info().Str("spreadsheet_id", cfg.Sheets.SpreadsheetID).Msg("Using Google Sheets row uploader")
		return client
	default:
		log.Info().Msg("Using in-memory row uploader")
		return sheetsmemory.New()
	}
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
