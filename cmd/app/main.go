package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jokenpo/internal/arbiter"
	"jokenpo/internal/config"
	"jokenpo/internal/db"
	httpServer "jokenpo/internal/http"
	"jokenpo/internal/http/handlers"
	"jokenpo/internal/http/middleware"
	"jokenpo/internal/logger"
	"jokenpo/internal/match"
	"jokenpo/internal/repository"
	"jokenpo/internal/service"
	"jokenpo/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	var pool *pgxpool.Pool
	var rounds handlers.RoundLog
	if cfg.DatabaseURL != "" {
		pool = db.Connect(cfg.DatabaseURL)
		defer pool.Close()
		rounds = repository.NewRoundRepository(pool)
	} else {
		logger.Warn("DATABASE_URL is not set, round log disabled")
	}

	rdb := connectRedis(cfg)
	var stats match.StatsStore = repository.NewMemoryStatsRepository()
	if rdb != nil {
		defer rdb.Close()
		stats = repository.NewStatsRepository(rdb)
		middleware.UseRedis(rdb)
	} else {
		logger.Warn("REDIS_ADDR is not set, lifetime stats kept in memory")
	}

	arb := arbiter.NewClient(cfg.ArbiterURL)
	hub := ws.NewHub(ws.HubConfig{
		Match:   cfg.Match(),
		Arbiter: arb,
		// rounds are attributed to the player and rate limited per player
		ArbiterFor: func(token string) match.Arbiter {
			return arb.WithToken(token)
		},
		Prober:      arb,
		Stats:       stats,
		IdleTimeout: cfg.SessionIdleTimeout,
	})
	if err := hub.StartCleanup(time.Minute); err != nil {
		logger.Fatal("failed to start session cleanup", "error", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware())

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" && (cfg.AllowedOrigin == "" || origin == cfg.AllowedOrigin) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, cfg, httpServer.Deps{
		Handler: handlers.NewHandler(rounds, stats),
		Health:  handlers.NewHealthHandler(pool, rdb, cfg.SoundsDir, version),
		Hub:     hub,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "arbiter", cfg.ArbiterURL, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// connectRedis returns nil when Redis is not configured or unreachable.
func connectRedis(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, falling back to memory", "addr", cfg.RedisAddr, "error", err)
		rdb.Close()
		return nil
	}
	logger.Info("redis connected", "addr", cfg.RedisAddr)
	return rdb
}
