// Package httpapi exposes domain resolution over HTTP. Validation errors
// map to 400, an unresolvable domain to 404, upstream failures to 500.
package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tvaz/domainfo/internal/domainfo/common/log"
	"github.com/tvaz/domainfo/internal/domainfo/domain"
)

// DomainResolver is the service capability the API needs.
type DomainResolver interface {
	Resolve(ctx context.Context, name string) (*domain.View, error)
}

// Server wraps the HTTP listener and routes.
type Server struct {
	engine   *gin.Engine
	srv      *http.Server
	resolver DomainResolver
	logger   log.Logger
}

// New builds the HTTP server around the given resolver. env selects gin's
// release mode in production.
func New(resolver DomainResolver, logger log.Logger, env string) *Server {
	if env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	if logger == nil {
		logger = log.GetLogger()
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{engine: engine, resolver: resolver, logger: logger}
	engine.GET("/healthz", s.health)
	engine.GET("/api/domain/:name", s.getDomain)
	return s
}

// Handler exposes the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start binds the server to addr and serves until Stop or failure.
func (s *Server) Start(addr string) error {
	s.srv = &http.Server{Addr: addr, Handler: s.engine}
	s.logger.Info(map[string]any{"addr": addr}, "HTTP API listening")
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getDomain(c *gin.Context) {
	name := c.Param("name")

	normalized, err := domain.Normalize(name)
	if err != nil {
		s.logger.Warn(map[string]any{"domain": name, "error": err.Error()}, "Rejected malformed domain")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := s.resolver.Resolve(c.Request.Context(), normalized)
	if err != nil {
		s.logger.Error(map[string]any{"domain": normalized, "error": err.Error()}, "Domain resolution failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error while resolving the domain"})
		return
	}
	if view == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("domain %q not found", normalized)})
		return
	}

	c.JSON(http.StatusOK, view)
}
