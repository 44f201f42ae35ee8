// Package server exposes the chat pipeline and contact form over HTTP.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aayud22/ayushi.dev/internal/chat"
	"github.com/aayud22/ayushi.dev/internal/mailer"
	"github.com/aayud22/ayushi.dev/internal/metrics"
)

// Mailer sends a validated contact-form submission.
type Mailer interface {
	Send(ctx context.Context, req mailer.ContactRequest) error
}

// Server wires the HTTP routes to the chat service and mailer.
type Server struct {
	engine  *gin.Engine
	chat    *chat.Service
	mailer  Mailer
	metrics *metrics.Collector
	logger  *slog.Logger
	addr    string
}

// Options configures the HTTP server.
type Options struct {
	Port        string
	CORSOrigins []string
}

// New creates the server and registers all routes. The mailer may be nil,
// in which case the contact endpoint reports the form as unavailable.
func New(svc *chat.Service, m Mailer, mc *metrics.Collector, logger *slog.Logger, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LoggingMiddleware(logger))

	corsConfig := cors.DefaultConfig()
	if len(opts.CORSOrigins) == 1 && opts.CORSOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = opts.CORSOrigins
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	engine.Use(cors.New(corsConfig))

	s := &Server{
		engine:  engine,
		chat:    svc,
		mailer:  m,
		metrics: mc,
		logger:  logger,
		addr:    ":" + opts.Port,
	}

	engine.GET("/health", s.handleHealth)
	engine.POST("/api/chat", s.handleChat)
	engine.POST("/api/contact", s.handleContact)
	engine.GET("/api/stats", s.handleStats)

	return s
}

// Handler returns the underlying HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStats(c *gin.Context) {
	if s.metrics == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, s.metrics.Snapshot())
}
