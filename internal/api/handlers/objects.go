package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lirkwood/netdox-sub001/internal/api/models"
	"github.com/lirkwood/netdox-sub001/internal/netmodel"
)

// ListDomains godoc
// @Summary List domains
// @Tags network
// @Produce json
// @Success 200 {object} models.ListResponse
// @Security ApiKeyAuth
// @Router /domains [get]
func (h *Handler) ListDomains(c *gin.Context) {
	names := h.net.Domains.Names()
	c.JSON(http.StatusOK, models.ListResponse{Count: len(names), Names: names})
}

// GetDomain godoc
// @Summary Get one domain
// @Tags network
// @Produce json
// @Param name path string true "Domain name"
// @Success 200 {object} models.DomainResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /domains/{name} [get]
func (h *Handler) GetDomain(c *gin.Context) {
	name := strings.ToLower(c.Param("name"))
	d, ok := h.net.Domains.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "domain not found"})
		return
	}
	c.JSON(http.StatusOK, domainResponse(d))
}

// ListIPs godoc
// @Summary List addresses
// @Tags network
// @Produce json
// @Success 200 {object} models.ListResponse
// @Security ApiKeyAuth
// @Router /ips [get]
func (h *Handler) ListIPs(c *gin.Context) {
	names := h.net.IPs.Names()
	c.JSON(http.StatusOK, models.ListResponse{Count: len(names), Names: names})
}

// GetIP godoc
// @Summary Get one address
// @Tags network
// @Produce json
// @Param addr path string true "IPv4 address"
// @Success 200 {object} models.IPResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /ips/{addr} [get]
func (h *Handler) GetIP(c *gin.Context) {
	ip, ok := h.net.IPs.Get(c.Param("addr"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "address not found"})
		return
	}
	c.JSON(http.StatusOK, ipResponse(ip))
}

// ListNodes godoc
// @Summary List nodes
// @Tags network
// @Produce json
// @Success 200 {object} models.ListResponse
// @Security ApiKeyAuth
// @Router /nodes [get]
func (h *Handler) ListNodes(c *gin.Context) {
	names := h.net.Nodes.Names()
	c.JSON(http.StatusOK, models.ListResponse{Count: len(names), Names: names})
}

// GetNode godoc
// @Summary Get one node
// @Tags network
// @Produce json
// @Param name path string true "Node name"
// @Success 200 {object} models.NodeResponse
// @Failure 404 {object} models.ErrorResponse
// @Security ApiKeyAuth
// @Router /nodes/{name} [get]
func (h *Handler) GetNode(c *gin.Context) {
	nd, ok := h.net.Nodes.Get(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "node not found"})
		return
	}
	c.JSON(http.StatusOK, nodeResponse(nd))
}

func domainResponse(d *netmodel.Domain) models.DomainResponse {
	return models.DomainResponse{
		Name:       d.Name,
		Root:       d.Root,
		Role:       d.Role,
		Location:   d.Location,
		Node:       d.NodeID,
		PublicIPs:  d.PublicIPLinks(),
		PrivateIPs: d.PrivateIPLinks(),
		CNAMEs:     d.CNAMELinks(),
		ImpliedIPs: d.ImpliedIPs.Values(),
		Subnets:    d.Subnets.Values(),
	}
}

func ipResponse(ip *netmodel.IPv4Address) models.IPResponse {
	return models.IPResponse{
		Addr:       ip.Addr,
		Subnet:     ip.Subnet,
		Public:     ip.Public(),
		Location:   ip.Location,
		NAT:        ip.NAT,
		Node:       ip.NodeID,
		PTR:        ip.PTRLinks(),
		ImpliedPTR: ip.ImpliedPTR.Values(),
	}
}

func nodeResponse(nd *netmodel.Node) models.NodeResponse {
	return models.NodeResponse{
		Name:       nd.Name,
		Type:       string(nd.Type),
		Location:   nd.Location,
		PublicIPs:  nd.PublicIPs.Values(),
		PrivateIPs: nd.PrivateIPs.Values(),
		Domains:    nd.Domains.Values(),
	}
}
