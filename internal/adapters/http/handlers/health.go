// Package handlers binds the HTTP routes to the application services.
package handlers

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/vows/internal/ports"
)

// BuildInfo is served on /-/build. The cmd package fills it from ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{Version: version, Commit: commit, BuildTime: buildTime, GoVersion: runtime.Version()}
}

// HealthHandler serves the operational /-/ routes.
type HealthHandler struct {
	registry ports.HealthRegistry
	build    BuildInfo
}

// NewHealthHandler returns a handler whose readiness probe consults
// registry. A nil registry is always ready.
func NewHealthHandler(registry ports.HealthRegistry, build BuildInfo) *HealthHandler {
	return &HealthHandler{registry: registry, build: build}
}

// RegisterHealthRoutesOnEngine mounts live, ready, build and metrics under /-/.
func (h *HealthHandler) RegisterHealthRoutesOnEngine(engine *gin.Engine) {
	rg := engine.Group("/-")
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.Build)
	rg.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Liveness answers as long as the process can serve HTTP at all.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness reports 503 only when a required dependency is unhealthy. A
// degraded service still takes traffic.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.registry == nil {
		c.JSON(http.StatusOK, gin.H{"status": ports.HealthStatusHealthy})
		return
	}

	res := h.registry.CheckAll(c.Request.Context())

	code := http.StatusOK
	if res.Status == ports.HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	body := gin.H{"status": res.Status}
	if len(res.Checks) > 0 {
		body["checks"] = res.Checks
	}

	c.JSON(code, body)
}

func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, h.build)
}
