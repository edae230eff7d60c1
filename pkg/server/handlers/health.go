// Package handlers implements the HTTP endpoint handlers.
package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/classifico/pkg/taxonomy"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// HealthHandler handles health check requests
type HealthHandler struct {
	store  taxonomy.Store
	rootID int64
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store taxonomy.Store, rootID int64) *HealthHandler {
	return &HealthHandler{
		store:  store,
		rootID: rootID,
	}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "classifico",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
	})
}

// LivenessCheck handles GET /live - Kubernetes liveness probe endpoint
func (h *HealthHandler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "alive",
		"service":   "classifico",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ReadinessCheck handles GET /ready - verifies the taxonomy store
// answers and the root node resolves.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := gin.H{
		"status":    "ready",
		"service":   "classifico",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    gin.H{},
	}
	checks := response["checks"].(gin.H)

	start := time.Now()
	_, err := h.store.Node(ctx, h.rootID)
	duration := time.Since(start)

	if err != nil {
		checks["taxonomy_store"] = gin.H{
			"status":   "unhealthy",
			"error":    err.Error(),
			"duration": duration.String(),
		}
		response["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	checks["taxonomy_store"] = gin.H{
		"status":   "healthy",
		"duration": duration.String(),
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["system"] = gin.H{
		"status":     "healthy",
		"goroutines": runtime.NumGoroutine(),
		"gc_cycles":  m.NumGC,
		"go_version": GoVersion,
	}

	c.JSON(http.StatusOK, response)
}
