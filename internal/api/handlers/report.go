package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lirkwood/netdox-sub001/internal/api/models"
	"github.com/lirkwood/netdox-sub001/internal/iptools"
)

// SubnetReport godoc
// @Summary Private address space report
// @Description Collapses the private addresses in the model into minimal subnets
// @Tags network
// @Produce json
// @Success 200 {object} models.SubnetReportResponse
// @Failure 500 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /report/subnets [get]
func (h *Handler) SubnetReport(c *gin.Context) {
	var addrs []string
	for _, ip := range h.net.IPs.All() {
		if !ip.Public() {
			addrs = append(addrs, ip.Addr)
		}
	}

	collapsed, err := iptools.Collapse(addrs, iptools.CollapseSubnets)
	if err != nil {
		// Addresses entered the model validated, so this is a bug.
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.SubnetReportResponse{
		Addresses: len(addrs),
		Collapsed: collapsed,
	})
}
