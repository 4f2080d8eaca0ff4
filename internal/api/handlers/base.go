// Package handlers implements the read-only network API endpoints.
//
// REST API Endpoints:
//
// System:
//   - GET /api/v1/health - Health check status
//   - GET /api/v1/summary - Object counts and policy version
//
// Network objects:
//   - GET /api/v1/domains - List domain names
//   - GET /api/v1/domains/:name - One domain with provenance-tagged records
//   - GET /api/v1/ips - List addresses
//   - GET /api/v1/ips/:addr - One address with reverse records and NAT
//   - GET /api/v1/nodes - List nodes
//   - GET /api/v1/nodes/:name - One node with its claims
//   - GET /api/v1/report/subnets - Collapsed private address space
//
// The API serves the model produced by the last refresh; every endpoint
// is a read. Mutating the network happens through plugins and the policy
// store, never over HTTP.
//
// @title netdox Network API
// @version 1.0
// @description Read-only REST API over the reconciled network model.
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package handlers

import (
	"log/slog"
	"time"

	"github.com/lirkwood/netdox-sub001/internal/database"
	"github.com/lirkwood/netdox-sub001/internal/netmodel"
)

// Handler contains the dependencies of the API endpoints. The network is
// the finished model of the last refresh and is only read here.
type Handler struct {
	net       *netmodel.Network
	db        *database.DB
	logger    *slog.Logger
	startTime time.Time
}

// New creates a Handler over the network and policy store. db may be nil
// when no policy store is open; the summary then reports version 0.
func New(net *netmodel.Network, db *database.DB, logger *slog.Logger) *Handler {
	return &Handler{
		net:       net,
		db:        db,
		logger:    logger,
		startTime: time.Now(),
	}
}
