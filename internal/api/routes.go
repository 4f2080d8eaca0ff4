package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/lirkwood/netdox-sub001/internal/api/handlers"
	"github.com/lirkwood/netdox-sub001/internal/api/middleware"
	"github.com/lirkwood/netdox-sub001/internal/config"

	_ "github.com/lirkwood/netdox-sub001/internal/api/docs" // swagger docs
)

// RegisterRoutes mounts every endpoint on the router. All endpoints are
// reads; the API key, when configured, covers everything except /health.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg config.APIConfig) {
	// Swagger UI at /swagger/*
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.GET("/health", h.Health)

	protected := api.Group("")
	if cfg.APIKey != "" {
		protected.Use(middleware.RequireAPIKey(cfg.APIKey))
	}

	protected.GET("/summary", h.Summary)

	protected.GET("/domains", h.ListDomains)
	protected.GET("/domains/:name", h.GetDomain)

	protected.GET("/ips", h.ListIPs)
	protected.GET("/ips/:addr", h.GetIP)

	protected.GET("/nodes", h.ListNodes)
	protected.GET("/nodes/:name", h.GetNode)

	protected.GET("/report/subnets", h.SubnetReport)
}
