package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// DatabasePinger reports whether the database is reachable
type DatabasePinger interface {
	Ping() error
}

// SystemHandler handles system-level endpoints
type SystemHandler struct {
	BaseHandler
	db        DatabasePinger
	appName   string
	env       string
	startTime time.Time
}

// NewSystemHandler creates a system handler
func NewSystemHandler(db DatabasePinger, appName, env string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		appName:   appName,
		env:       env,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/system")
	{
		group.GET("/health", h.Health)
		group.GET("/info", h.GetSystemInfo)
		group.GET("/ping", h.Ping)
	}
}

// HealthStatus is the health check payload
type HealthStatus struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks"`
	Checked time.Time         `json:"checked_at"`
}

// Health reports service health, including database reachability
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} dto.Response
// @Router /system/health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	status := HealthStatus{
		Status:  "healthy",
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Checks:  map[string]string{},
		Checked: time.Now().UTC(),
	}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status.Status = "degraded"
			status.Checks["database"] = "unreachable"
		} else {
			status.Checks["database"] = "ok"
		}
	}

	if status.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	h.Success(c, status)
}

// GetSystemInfo returns basic service information
// @Summary Service information
// @Tags system
// @Produce json
// @Success 200 {object} dto.Response
// @Router /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, gin.H{
		"name":        h.appName,
		"environment": h.env,
		"uptime":      time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ping is a trivial liveness probe
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}
