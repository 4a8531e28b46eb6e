package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soldesk/streamsync/internal/store"
)

// StatusSource exposes the connection layer's read-only status view.
type StatusSource interface {
	ConnectionStatus() map[string]bool
	ActiveTimers() []string
	ParseErrors() int64
}

// Config holds read API configuration.
type Config struct {
	Port  int
	Debug bool
}

// Server is the read-only HTTP surface over the store. Consumers only ever
// read from here; nothing on this surface mutates state.
type Server struct {
	cfg    Config
	store  *store.Store
	status StatusSource
	logger *slog.Logger

	httpServer *http.Server
}

// New creates the read API server.
func New(cfg Config, st *store.Store, status StatusSource, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:    cfg,
		store:  st,
		status: status,
		logger: logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	api := engine.Group("/api")
	{
		api.GET("/status", s.getStatus)
		api.GET("/state/:domain", s.getState)
		api.GET("/notifications", s.getNotifications)
	}

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	return s
}

// Start begins serving in the background.
func (s *Server) Start() {
	go func() {
		s.logger.Info("read api listening", "port", s.cfg.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("read api failed", "error", err)
		}
	}()
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"channels":     s.status.ConnectionStatus(),
		"timers":       s.status.ActiveTimers(),
		"mutations":    s.store.MutationCount(),
		"parse_errors": s.status.ParseErrors(),
		"time":         time.Now().UTC(),
	})
}

func (s *Server) getState(c *gin.Context) {
	domain := c.Param("domain")
	snap, ok := s.store.Snapshot(domain)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown domain", "domain": domain})
		return
	}
	c.JSON(http.StatusOK, gin.H{"domain": domain, "data": snap})
}

func (s *Server) getNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notifications": s.store.Notifications()})
}
