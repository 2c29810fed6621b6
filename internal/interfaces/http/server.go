// Package http provides the HTTP adapter for the application layer.
// It translates requests to service calls and domain errors to status
// codes, nothing more.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ofisi/requestflow/internal/application/service"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// Server is the HTTP server adapter
type Server struct {
	config     ServerConfig
	httpServer *http.Server
	router     *gin.Engine
	vehicles   *service.VehicleService
	ict        *service.ICTService
	store      *service.StoreService
	admin      *service.AdminService
	logger     Logger
}

// NewServer creates a new HTTP server wired to the domain services
func NewServer(
	config ServerConfig,
	vehicles *service.VehicleService,
	ict *service.ICTService,
	store *service.StoreService,
	admin *service.AdminService,
	logger Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)

	server := &Server{
		config:   config,
		router:   gin.New(),
		vehicles: vehicles,
		ict:      ict,
		store:    store,
		admin:    admin,
		logger:   logger,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())
}

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			"method", method,
			"path", path,
			"status", status,
			"latency", latency.String(),
			"client_ip", c.ClientIP(),
		)
	}
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	handlers := NewHandlers(s.vehicles, s.ict, s.store, s.admin, s.logger)

	// Health check
	s.router.GET("/health", handlers.HealthCheck)

	api := s.router.Group("/api")
	{
		vehicle := api.Group("/vehicle/requests")
		{
			vehicle.POST("", handlers.SubmitVehicle)
			vehicle.GET("", handlers.ListVehicle)
			vehicle.GET("/:id", handlers.GetVehicle)
			vehicle.POST("/:id/approve", handlers.ApproveVehicle)
			vehicle.POST("/:id/reject", handlers.RejectVehicle)
			vehicle.POST("/:id/correct", handlers.CorrectVehicle)
			vehicle.POST("/:id/cancel", handlers.CancelVehicle)
			vehicle.POST("/:id/assign", handlers.AssignVehicle)
			vehicle.POST("/:id/priority", handlers.PrioritizeVehicle)
			vehicle.DELETE("/:id", handlers.DeleteVehicle)
		}

		ict := api.Group("/ict/requests")
		{
			ict.POST("", handlers.SubmitICT)
			ict.GET("", handlers.ListICT)
			ict.GET("/:id", handlers.GetICT)
			ict.POST("/:id/approve", handlers.ApproveICT)
			ict.POST("/:id/reject", handlers.RejectICT)
			ict.POST("/:id/correct", handlers.CorrectICT)
			ict.POST("/:id/cancel", handlers.CancelICT)
			ict.POST("/:id/fulfill", handlers.FulfillICT)
			ict.POST("/:id/quantities", handlers.AdjustICTQuantities)
			ict.POST("/:id/priority", handlers.PrioritizeICT)
			ict.DELETE("/:id", handlers.DeleteICT)
		}

		store := api.Group("/store/requests")
		{
			store.POST("", handlers.SubmitStore)
			store.GET("", handlers.ListStore)
			store.GET("/:id", handlers.GetStore)
			store.POST("/:id/approve", handlers.ApproveStore)
			store.POST("/:id/reject", handlers.RejectStore)
			store.POST("/:id/correct", handlers.CorrectStore)
			store.POST("/:id/cancel", handlers.CancelStore)
			store.POST("/:id/route", handlers.RouteStore)
			store.POST("/:id/fulfill", handlers.FulfillStore)
			store.POST("/:id/priority", handlers.PrioritizeStore)
			store.DELETE("/:id", handlers.DeleteStore)
		}

		admin := api.Group("/admin")
		{
			admin.DELETE("/requests", handlers.ResetAll)
			admin.GET("/requests/:id/notifications", handlers.RequestNotifications)
		}
	}
}

// Start starts the HTTP server and blocks until ctx is cancelled or the
// listener fails
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.logger.Info("Starting HTTP server", "address", addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("HTTP server shutdown requested")
		return s.Stop()
	case err := <-errCh:
		s.logger.Error("HTTP server error", "error", err)
		return err
	}
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return err
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Router returns the underlying gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Address returns the server address
func (s *Server) Address() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}
