package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lirkwood/netdox-sub001/internal/api"
	"github.com/lirkwood/netdox-sub001/internal/api/models"
	"github.com/lirkwood/netdox-sub001/internal/config"
	"github.com/lirkwood/netdox-sub001/internal/netmodel"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testServer(t *testing.T, apiKey string) *api.Server {
	t.Helper()

	loc, err := netmodel.NewLocator(map[string][]string{"dc-1": {"192.168.0.0/24"}})
	require.NoError(t, err)
	net := netmodel.NewNetwork(config.NetworkPolicy{}, loc, nil)

	require.NoError(t, net.LinkDomain("app.example.com", "192.168.0.5", "zonefile"))
	require.NoError(t, net.LinkDomain("app.example.com", "edge.example.com", "zonefile"))
	require.NoError(t, net.SetNAT("192.168.0.5", "100.64.0.5"))

	nd, err := netmodel.NewNode("web-1", netmodel.NodeDefault)
	require.NoError(t, err)
	require.NoError(t, nd.AddIP("192.168.0.5"))
	require.NoError(t, net.AddNode(nd))

	cfg := config.APIConfig{Host: "127.0.0.1", Port: 8080, APIKey: apiKey}
	return api.New(cfg, net, nil, nil)
}

func get(t *testing.T, srv *api.Server, path, apiKey string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv := testServer(t, "")
	w := get(t, srv, "/api/v1/health", "")
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestSummary(t *testing.T) {
	srv := testServer(t, "")
	w := get(t, srv, "/api/v1/summary", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Domains, "cname targets are not auto-registered")
	assert.Equal(t, 2, resp.IPs, "linked address plus its NAT alias")
	assert.Equal(t, 1, resp.Nodes)
	assert.Equal(t, []string{"dc-1"}, resp.Locations)
}

func TestGetDomain(t *testing.T) {
	srv := testServer(t, "")
	w := get(t, srv, "/api/v1/domains/app.example.com", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.DomainResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "app.example.com", resp.Name)
	assert.Equal(t, "dc-1", resp.Location)
	assert.Equal(t, "web-1", resp.Node)
	assert.Equal(t, []netmodel.Link{{Value: "192.168.0.5", Source: "zonefile"}}, resp.PrivateIPs)
	assert.Equal(t, []netmodel.Link{{Value: "edge.example.com", Source: "zonefile"}}, resp.CNAMEs)

	w = get(t, srv, "/api/v1/domains/missing.example.com", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetIP(t *testing.T) {
	srv := testServer(t, "")
	w := get(t, srv, "/api/v1/ips/192.168.0.5", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.IPResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "192.168.0.0/24", resp.Subnet)
	assert.False(t, resp.Public)
	assert.Equal(t, "100.64.0.5", resp.NAT)
	assert.Equal(t, "web-1", resp.Node)
	assert.Contains(t, resp.ImpliedPTR, "app.example.com")
}

func TestGetNode(t *testing.T) {
	srv := testServer(t, "")
	w := get(t, srv, "/api/v1/nodes/web-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.NodeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "default", resp.Type)
	assert.Equal(t, []string{"192.168.0.5"}, resp.PrivateIPs)
}

func TestSubnetReport(t *testing.T) {
	srv := testServer(t, "")
	w := get(t, srv, "/api/v1/report/subnets", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SubnetReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Addresses, "100.64/10 is shared address space, not private")
	assert.NotEmpty(t, resp.Collapsed)
}

func TestAPIKeyProtection(t *testing.T) {
	srv := testServer(t, "secret")

	// Health stays open.
	assert.Equal(t, http.StatusOK, get(t, srv, "/api/v1/health", "").Code)

	assert.Equal(t, http.StatusUnauthorized, get(t, srv, "/api/v1/domains", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(t, srv, "/api/v1/domains", "wrong").Code)
	assert.Equal(t, http.StatusOK, get(t, srv, "/api/v1/domains", "secret").Code)
}
