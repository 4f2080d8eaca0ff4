package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lirkwood/netdox-sub001/internal/api/models"
)

// Health godoc
// @Summary Health check
// @Description Returns server health status
// @Tags system
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "policy store unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}

// Summary godoc
// @Summary Network summary
// @Description Returns object counts, configured locations and the policy version
// @Tags system
// @Produce json
// @Success 200 {object} models.SummaryResponse
// @Security ApiKeyAuth
// @Router /summary [get]
func (h *Handler) Summary(c *gin.Context) {
	var version int64
	if h.db != nil {
		if v, err := h.db.GetVersion(); err == nil {
			version = v
		}
	}
	c.JSON(http.StatusOK, models.SummaryResponse{
		Domains:       h.net.Domains.Len(),
		IPs:           h.net.IPs.Len(),
		Nodes:         h.net.Nodes.Len(),
		Locations:     h.net.Locator().Locations(),
		PolicyVersion: version,
	})
}
