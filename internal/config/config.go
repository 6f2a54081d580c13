package config

import (
	"os"
	"strconv"
	"time"

	"jokenpo/internal/logger"
	"jokenpo/internal/match"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort       string
	JWTSecret     string
	ArbiterURL    string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LogLevel      string
	LogJSON       bool

	// Match
	RoundsPerMatch int
	HistoryLimit   int
	TimeUnit       time.Duration
	MaxRetries     int

	// Assets
	SoundsDir     string
	StaticDir     string
	AllowedOrigin string

	// Limits
	PlayRateLimit      int
	PlayRateWindow     int
	SessionIdleTimeout time.Duration
}

// Load reads the environment, .env included when present.
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// empty means this process arbitrates its own rounds
	arbiterURL := os.Getenv("ARBITER_URL")
	if arbiterURL == "" {
		arbiterURL = "http://127.0.0.1:" + port
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	soundsDir := os.Getenv("SOUNDS_DIR")
	if soundsDir == "" {
		soundsDir = "static/sounds"
	}
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "static"
	}

	return &Config{
		AppPort:       port,
		JWTSecret:     jwtSecret,
		ArbiterURL:    arbiterURL,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       intEnv("REDIS_DB", 0),
		LogLevel:      logLevel,
		LogJSON:       os.Getenv("LOG_JSON") == "true",

		RoundsPerMatch: positiveIntEnv("ROUNDS_PER_MATCH", 10),
		HistoryLimit:   positiveIntEnv("HISTORY_LIMIT", 10),
		TimeUnit:       time.Duration(positiveIntEnv("TIME_UNIT_MS", 1000)) * time.Millisecond,
		MaxRetries:     intEnv("MAX_RETRIES", 3),

		SoundsDir:     soundsDir,
		StaticDir:     staticDir,
		AllowedOrigin: os.Getenv("ALLOWED_ORIGIN"),

		PlayRateLimit:      positiveIntEnv("PLAY_RATE_LIMIT", 60), // plays per window
		PlayRateWindow:     positiveIntEnv("PLAY_RATE_WINDOW", 60),
		SessionIdleTimeout: time.Duration(positiveIntEnv("SESSION_IDLE_TIMEOUT", 900)) * time.Second,
	}
}

// Match derives the session schedule from the time unit.
func (c *Config) Match() match.Config {
	m := match.ConfigForUnit(c.TimeUnit)
	m.RoundsPerMatch = c.RoundsPerMatch
	m.HistoryLimit = c.HistoryLimit
	m.MaxRetries = c.MaxRetries
	return m
}

func intEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		logger.Warn("ignoring invalid env value", "key", key, "value", v)
		return def
	}
	return n
}

func positiveIntEnv(key string, def int) int {
	if n := intEnv(key, def); n > 0 {
		return n
	}
	return def
}
