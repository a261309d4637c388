// internal/interfaces/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/your-org/bakehouse-backend/internal/config"
	"github.com/your-org/bakehouse-backend/internal/domain/cart"
	"github.com/your-org/bakehouse-backend/internal/domain/gallery"
	"github.com/your-org/bakehouse-backend/internal/domain/order"
	"github.com/your-org/bakehouse-backend/internal/domain/product"
	"github.com/your-org/bakehouse-backend/internal/domain/settings"
	"github.com/your-org/bakehouse-backend/internal/domain/upload"
	"github.com/your-org/bakehouse-backend/internal/domain/user"
	"github.com/your-org/bakehouse-backend/internal/interfaces/http/handlers"
	"github.com/your-org/bakehouse-backend/internal/interfaces/http/middleware"
	"github.com/your-org/bakehouse-backend/internal/interfaces/http/routes"
	"github.com/your-org/bakehouse-backend/internal/pkg/email"
	"github.com/your-org/bakehouse-backend/internal/pkg/metrics"
	"github.com/your-org/bakehouse-backend/internal/pkg/pdf"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const serverName = "Teejay Bakehouse API"

// Cache is the Redis surface the API uses: cart storage, checkout
// reservations and rate limiting
type Cache interface {
	cart.KeyValue
	order.Reserver
	middleware.HitCounter
	Health(ctx context.Context) error
}

// Dependencies are the connections the server is built on
type Dependencies struct {
	DB       *gorm.DB
	Cache    Cache
	Logger   logrus.FieldLogger
	Registry *prometheus.Registry // nil disables metrics
	Receipts handlers.ReceiptRenderer
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	gin        *gin.Engine
	httpServer *http.Server
	db         *gorm.DB
	cache      Cache
	logger     logrus.FieldLogger
	registry   *prometheus.Registry
	startedAt  time.Time
}

// NewServer wires services, handlers and middleware into a gin engine
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	s := &Server{
		config:    cfg,
		gin:       gin.New(),
		db:        deps.DB,
		cache:     deps.Cache,
		logger:    deps.Logger,
		registry:  deps.Registry,
		startedAt: time.Now(),
	}

	if len(cfg.Security.TrustedProxies) > 0 {
		if err := s.gin.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			s.logger.WithError(err).Warn("Invalid trusted proxies, ignoring")
		}
	}

	var recorder *metrics.Recorder
	if s.registry != nil {
		recorder = metrics.New(s.registry)
	}

	s.setupMiddleware(recorder)
	s.setupRoutes(s.buildHandlers(deps, recorder))

	return s
}

// Handler exposes the engine, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	s.logger.WithFields(logrus.Fields{
		"port":     s.config.Server.Port,
		"api_base": "/api/v1",
	}).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) buildHandlers(deps Dependencies, recorder *metrics.Recorder) *routes.Handlers {
	cfg := s.config
	logger := s.logger

	emailService := email.NewEmailService(cfg, logger)
	settingsService := settings.NewService(s.db)
	productService := product.NewService(s.db, cfg)
	cartService := cart.NewService(s.cache, productService, settingsService, cfg, logger, recorder)
	orderService := order.NewService(s.db, cfg, order.Dependencies{
		Carts:    cartService,
		Settings: settingsService,
		Reserver: s.cache,
		Notifier: email.NewOrderNotifier(emailService),
		Logger:   logger,
		Metrics:  recorder,
	})
	userService := user.NewService(s.db, cfg, emailService, logger)
	galleryService := gallery.NewService(s.db)
	uploadService := upload.NewService(s.db, cfg, logger)

	receipts := deps.Receipts
	if receipts == nil {
		receipts = pdf.NewService(cfg)
	}

	return &routes.Handlers{
		Auth:       handlers.NewAuthHandler(userService, logger),
		Product:    handlers.NewProductHandler(productService, logger),
		Cart:       handlers.NewCartHandler(cartService, logger),
		Order:      handlers.NewOrderHandler(orderService, receipts, settingsService, logger),
		AdminOrder: handlers.NewAdminOrderHandler(orderService, logger),
		Gallery:    handlers.NewGalleryHandler(galleryService, logger),
		Settings:   handlers.NewSettingsHandler(settingsService, logger),
		Upload:     handlers.NewUploadHandler(uploadService, cfg, logger),
		Contact:    handlers.NewContactHandler(emailService, logger),
	}
}

// setupMiddleware configures all middleware for the server
func (s *Server) setupMiddleware(recorder *metrics.Recorder) {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.CORS(s.config))
	s.gin.Use(middleware.SecurityHeaders(serverName))
	s.gin.Use(middleware.RateLimit(s.config.Security.RateLimitPerMinute, s.cache, s.logger))
	// uploads need room for the file plus multipart framing
	s.gin.Use(middleware.RequestSizeLimit(s.config.Upload.MaxSize + 1<<20))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
	s.gin.Use(middleware.Metrics(recorder))
}

func (s *Server) setupRoutes(h *routes.Handlers) {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)

	if s.registry != nil && s.config.Metrics.Enabled {
		s.gin.GET(s.config.Metrics.Path, gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	}

	storage := s.config.External.Storage
	s.gin.Static(storage.PublicPath, storage.LocalPath)

	apiV1 := s.gin.Group("/api/v1")
	apiV1.Use(middleware.SessionCookie(s.config))
	routes.SetupRoutes(apiV1, h, s.config)

	if s.config.IsDevelopment() {
		s.gin.GET("/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"message":     serverName,
				"version":     s.config.App.Version,
				"environment": s.config.App.Environment,
				"health":      "/health",
				"endpoints": gin.H{
					"auth":     "/api/v1/auth",
					"products": "/api/v1/products",
					"gallery":  "/api/v1/gallery",
					"cart":     "/api/v1/cart",
					"orders":   "/api/v1/orders",
					"contact":  "/api/v1/contact",
					"admin":    "/api/v1/admin",
				},
			})
		})
	}
}

// healthCheck pings the database and Redis concurrently
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "ok"}
	var dbErr, redisErr error

	// no shared cancellation: one failing check must not cancel the other
	var g errgroup.Group
	g.Go(func() error {
		sqlDB, err := s.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		dbErr = err
		return err
	})
	g.Go(func() error {
		redisErr = s.cache.Health(ctx)
		return redisErr
	})

	if err := g.Wait(); err != nil {
		if dbErr != nil {
			checks["database"] = "unavailable"
		}
		if redisErr != nil {
			checks["redis"] = "unavailable"
		}
		s.logger.WithError(err).Warn("Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"checks": checks,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"checks":      checks,
		"timestamp":   time.Now().UTC(),
		"version":     s.config.App.Version,
		"environment": s.config.App.Environment,
	})
}

// readinessCheck handles readiness check requests
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
