// Package api exposes the session engine over HTTP for the clinician-facing
// frontend.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Birukzex/NCS/internal/config"
	"github.com/Birukzex/NCS/internal/domain"
	"github.com/Birukzex/NCS/internal/review"
	"github.com/Birukzex/NCS/internal/session"
)

// Reviewer is the slice of the collaborator client the API uses.
type Reviewer interface {
	GenerateReview(ctx context.Context, data *domain.PatientData) (string, error)
	StreamChat(ctx context.Context, history []review.ChatMessage, message string, fn func(fragment string) error) error
}

// Server represents the HTTP server.
type Server struct {
	cfg      *config.ServerConfig
	sessions *session.Manager
	reviewer Reviewer
	router   *gin.Engine
	server   *http.Server
	log      *logrus.Logger
}

// NewServer creates a new HTTP server instance.
func NewServer(cfg *config.ServerConfig, sessions *session.Manager, reviewer Reviewer, logger *logrus.Logger) *Server {
	if logger.GetLevel() == logrus.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(securityHeaders())
	router.Use(requestIDMiddleware())

	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		reviewer: reviewer,
		router:   router,
		log:      logger,
	}
	s.setupRoutes()
	return s
}

// Start starts the HTTP server and blocks until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	s.log.WithField("addr", addr).Info("HTTP server listening")

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// setupRoutes configures the API routes.
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/session", s.handleGetSession)
		v1.DELETE("/session", s.handleClearSession)
		v1.PUT("/session/history", s.handleSetHistory)
		v1.PUT("/session/risk-factors", s.handleSetRiskFactors)

		v1.POST("/findings", s.handleAddBlankFinding)
		v1.POST("/findings/catalog", s.handleAddCatalogFinding)
		v1.PATCH("/findings/:id", s.handleUpdateFinding)
		v1.DELETE("/findings/:id", s.handleRemoveFinding)

		v1.GET("/catalog", s.handleGetCatalog)

		v1.POST("/review", s.handleRequestReview)
		v1.GET("/chat", s.handleChatStream)
	}
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
	})
}
