package handlers

import (
	"net/http"

	"jokenpo/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateSession mints an anonymous player and its token.
func (h *Handler) CreateSession(c *gin.Context) {
	playerID := service.NewPlayerID()
	token, err := service.GenerateJWT(playerID)
	if err != nil {
		h.log.Error("sign player token", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"token":     token,
		"player_id": playerID,
	})
}

// LifetimeStats returns the caller's finished-match counters and audio
// preference.
func (h *Handler) LifetimeStats(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}

	stats, err := h.Stats.Load(c.Request.Context(), playerID)
	if err != nil {
		h.log.Error("load lifetime stats", "player_id", playerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player_id":     playerID,
		"wins":          stats.Wins,
		"losses":        stats.Losses,
		"draws":         stats.Draws,
		"total":         stats.Total(),
		"music_enabled": stats.MusicEnabled,
	})
}
