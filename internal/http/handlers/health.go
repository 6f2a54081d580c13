package handlers

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"jokenpo/internal/arbiter"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

// SoundFiles are the audio assets the game page expects.
var SoundFiles = []string{
	"click.mp3",
	"win.mp3",
	"lose.mp3",
	"draw.mp3",
	"final_win.mp3",
	"final_lose.mp3",
	"final_draw.mp3",
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db        *pgxpool.Pool
	rdb       *redis.Client
	soundsDir string
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler. db and rdb may be nil.
func NewHealthHandler(db *pgxpool.Pool, rdb *redis.Client, soundsDir, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		rdb:       rdb,
		soundsDir: soundsDir,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Ping is the liveness probe used by game clients. The timestamp lets
// them detect clock skew.
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, arbiter.PingResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// CheckFiles reports missing sound assets.
func (h *HealthHandler) CheckFiles(c *gin.Context) {
	var missing []string
	for _, name := range SoundFiles {
		if _, err := os.Stat(filepath.Join(h.soundsDir, name)); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		c.JSON(http.StatusOK, arbiter.AssetsResponse{Status: "missing", Missing: missing})
		return
	}
	c.JSON(http.StatusOK, arbiter.AssetsResponse{Status: "ok"})
}

// Liveness returns simple alive status (for k8s liveness probe)
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness returns detailed health status (for k8s readiness probe)
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks, allHealthy := h.runChecks(ctx)

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	checks["memory_alloc_mb"] = formatMB(m.Alloc)

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Health is a combined endpoint for basic health checks
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if checks, ok := h.runChecks(ctx); !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"checks": checks,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

func (h *HealthHandler) runChecks(ctx context.Context) (map[string]string, bool) {
	checks := make(map[string]string)
	allHealthy := true

	switch {
	case h.db == nil:
		checks["database"] = "disabled"
	case h.db.Ping(ctx) != nil:
		checks["database"] = "unhealthy"
		allHealthy = false
	default:
		checks["database"] = "healthy"
	}

	switch {
	case h.rdb == nil:
		checks["redis"] = "disabled"
	case h.rdb.Ping(ctx).Err() != nil:
		checks["redis"] = "unhealthy"
		allHealthy = false
	default:
		checks["redis"] = "healthy"
	}

	return checks, allHealthy
}

func formatMB(bytes uint64) string {
	mb := float64(bytes) / 1024 / 1024
	return fmt.Sprintf("%.2f", mb)
}
