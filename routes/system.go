package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/complaint-desk-api/apperror"
	"github.com/kendall-kelly/complaint-desk-api/response"
	"gorm.io/gorm"
)

type systemHandlers struct {
	db *gorm.DB
}

// health handles GET /api/health
func (h *systemHandlers) health(c *gin.Context) {
	response.Message(c, http.StatusOK, "Complaint Desk API is running", nil)
}

// databaseStatus handles GET /api/database/status: pings the pool and lists the tables
func (h *systemHandlers) databaseStatus(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err != nil {
		response.Error(c, apperror.Database("Failed to get database instance", err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		response.Error(c, apperror.Database("Database connection failed", err))
		return
	}

	tables, err := h.db.WithContext(ctx).Migrator().GetTables()
	if err != nil {
		response.Error(c, apperror.Database("Failed to query tables", err))
		return
	}

	stats := sqlDB.Stats()
	response.Message(c, http.StatusOK, "Database connected", gin.H{
		"tables":           tables,
		"open_connections": stats.OpenConnections,
		"in_use":           stats.InUse,
		"max_open":         stats.MaxOpenConnections,
	})
}

func notFound(c *gin.Context) {
	response.Error(c, apperror.NotFound("Route "+c.Request.Method+" "+c.Request.URL.Path+" not found"))
}
