package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"contactcalls/internal/calls"
	"contactcalls/internal/conferences"
	"contactcalls/internal/config"
	"contactcalls/internal/contacts"
	"contactcalls/internal/httpapi"
	"contactcalls/internal/phones"
	"contactcalls/internal/reporting"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, cfg config.Config) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	var cache *reporting.Cache
	if rdb != nil {
		cache = reporting.NewCache(rdb, cfg.Cache.ReportTTL)
	}

	h := httpapi.New(
		contacts.NewService(db),
		phones.NewService(db),
		calls.NewService(db),
		conferences.NewService(db),
		reporting.NewService(reporting.NewGormRepo(db)),
		cache,
	)
	h.Register(r.Group("/api"))
}
