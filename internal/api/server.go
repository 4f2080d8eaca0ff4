// Package api provides the read-only REST API over the reconciled
// network model, served by a Gin-based HTTP server.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lirkwood/netdox-sub001/internal/api/handlers"
	"github.com/lirkwood/netdox-sub001/internal/api/middleware"
	"github.com/lirkwood/netdox-sub001/internal/config"
	"github.com/lirkwood/netdox-sub001/internal/database"
	"github.com/lirkwood/netdox-sub001/internal/netmodel"
)

// Server serves the network model over HTTP.
//
// Security note: do not expose the API to untrusted networks without an
// API key configured.
type Server struct {
	logger     *slog.Logger
	engine     *gin.Engine
	httpServer *http.Server
}

// New builds a server over the finished network. The network must not be
// mutated while the server runs; a refresh builds a new network and a new
// server.
func New(cfg config.APIConfig, network *netmodel.Network, db *database.DB, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SlogRequestLogger(logger))

	h := handlers.New(network, db, logger)
	RegisterRoutes(engine, h, cfg)

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{logger: logger, engine: engine, httpServer: httpServer}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

// Engine exposes the router for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
