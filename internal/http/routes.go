package http

import (
	"time"

	"jokenpo/internal/config"
	"jokenpo/internal/http/handlers"
	"jokenpo/internal/http/middleware"
	"jokenpo/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the shared services the routes are built on.
type Deps struct {
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
	Hub     *ws.Hub
}

func RegisterRoutes(r *gin.Engine, cfg *config.Config, d Deps) {
	h := d.Handler
	playRL := middleware.PlayRateLimit(cfg.PlayRateLimit, time.Duration(cfg.PlayRateWindow)*time.Second)

	// Health checks (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Arbitration, reachable under the paths the game page already uses
	r.GET("/ping", d.Health.Ping)
	r.GET("/check_files", d.Health.CheckFiles)
	r.POST("/jogar", middleware.OptionalJWT(), playRL, h.Play)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(120, time.Minute))
	{
		v1.POST("/play", middleware.OptionalJWT(), playRL, h.Play)
		v1.POST("/session", middleware.MemoryRateLimit(10, time.Minute), h.CreateSession)
		v1.GET("/stats", middleware.JWT(), h.LifetimeStats)
		v1.GET("/rounds", middleware.JWT(), h.RecentRounds)
		v1.GET("/rounds/stats", middleware.JWT(), h.RoundStats)
	}

	// One match session per connection
	if d.Hub != nil {
		r.GET("/ws", ws.HandleWS(d.Hub, cfg.AllowedOrigin))
	}

	// Game page and sounds
	r.Static("/static", cfg.StaticDir)
	r.NoRoute(func(c *gin.Context) {
		c.File(cfg.StaticDir + "/index.html")
	})
}
