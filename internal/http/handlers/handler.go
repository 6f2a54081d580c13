package handlers

import (
	"context"
	"log/slog"
	"time"

	"jokenpo/internal/domain"
	"jokenpo/internal/game"
	"jokenpo/internal/logger"
	"jokenpo/internal/match"
	"jokenpo/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// RoundLog is the persistent log of arbitrated rounds.
type RoundLog interface {
	Create(ctx context.Context, round *domain.ArbitratedRound) error
	GetByPlayer(ctx context.Context, playerID string, limit int) ([]*domain.ArbitratedRound, error)
	GetPlayerStats(ctx context.Context, playerID string, since time.Time) (*domain.RoundStats, error)
}

type Handler struct {
	Opponent *game.Opponent
	// Rounds is nil when no database is configured
	Rounds RoundLog
	Stats  match.StatsStore

	log *slog.Logger
}

func NewHandler(rounds RoundLog, stats match.StatsStore) *Handler {
	return &Handler{
		Opponent: game.NewOpponent(nil),
		Rounds:   rounds,
		Stats:    stats,
		log:      logger.Component("http"),
	}
}

// getPlayerID extracts the player id set by the JWT middlewares
func getPlayerID(c *gin.Context) (string, bool) {
	return middleware.PlayerID(c)
}
