package handlers

import (
	"context"
	"net/http"
	"time"

	"jokenpo/internal/arbiter"
	"jokenpo/internal/domain"
	"jokenpo/internal/game"
	"jokenpo/internal/metrics"

	"github.com/gin-gonic/gin"
)

const roundLogTimeout = 5 * time.Second

type playRequest struct {
	PlayerMove *int `json:"player_move"`
	// anything but a valid index means "no previous move"
	PreviousPlayerMove any `json:"previous_player_move"`
}

// Play arbitrates one round: it picks the opponent move and decides the
// verdict from the player's point of view.
func (h *Handler) Play(c *gin.Context) {
	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body: player_move is required"})
		return
	}
	if req.PlayerMove == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "player_move is required"})
		return
	}
	player, err := game.MoveFromIndex(*req.PlayerMove)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid move: choose 0 (rock), 1 (paper) or 2 (scissors)"})
		return
	}

	previous := h.previousMove(req.PreviousPlayerMove)
	opponent := h.Opponent.Choose(previous)
	verdict := game.Decide(player, opponent)
	metrics.RoundsArbitrated.WithLabelValues(verdict.String()).Inc()

	h.log.Debug("round arbitrated",
		"player_move", player.Token(),
		"opponent_move", opponent.Token(),
		"verdict", verdict.Token(),
	)
	h.logRound(c, player, previous, opponent, verdict)

	c.JSON(http.StatusOK, arbiter.PlayResponse{
		OpponentMove: opponent.Token(),
		Verdict:      verdict.Token(),
	})
}

func (h *Handler) previousMove(raw any) *game.Move {
	if raw == nil {
		return nil
	}
	f, ok := raw.(float64)
	if ok && f == float64(int(f)) {
		if m, err := game.MoveFromIndex(int(f)); err == nil {
			return &m
		}
	}
	h.log.Warn("invalid previous_player_move, ignoring", "value", raw)
	return nil
}

// logRound appends the round to the round log without delaying the answer.
func (h *Handler) logRound(c *gin.Context, player game.Move, previous *game.Move, opponent game.Move, verdict game.Verdict) {
	if h.Rounds == nil {
		return
	}
	round := &domain.ArbitratedRound{
		PlayerMove:   player.Token(),
		OpponentMove: opponent.Token(),
		Verdict:      verdict.Token(),
	}
	if playerID, ok := getPlayerID(c); ok {
		round.PlayerID = &playerID
	}
	if previous != nil {
		p := previous.Token()
		round.PreviousMove = &p
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), roundLogTimeout)
		defer cancel()
		if err := h.Rounds.Create(ctx, round); err != nil {
			h.log.Warn("failed to log round", "error", err)
		}
	}()
}
