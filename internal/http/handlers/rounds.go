package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RoundStats aggregates the caller's arbitrated rounds over ?days= (default 30).
func (h *Handler) RoundStats(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}
	if h.Rounds == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "round log disabled"})
		return
	}

	days := 30
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 365"})
			return
		}
		days = n
	}

	since := time.Now().AddDate(0, 0, -days)
	stats, err := h.Rounds.GetPlayerStats(c.Request.Context(), playerID, since)
	if err != nil {
		h.log.Error("round stats", "player_id", playerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load round stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"days":  days,
		"stats": stats,
	})
}

// RecentRounds lists the caller's latest arbitrated rounds, newest first.
func (h *Handler) RecentRounds(c *gin.Context) {
	playerID, ok := getPlayerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "player not found"})
		return
	}
	if h.Rounds == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "round log disabled"})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	rounds, err := h.Rounds.GetByPlayer(c.Request.Context(), playerID, limit)
	if err != nil {
		h.log.Error("recent rounds", "player_id", playerID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rounds"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rounds": rounds})
}
