package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"pieats/internal/services"
)

// LeaderboardHandler handles leaderboard endpoints
type LeaderboardHandler struct {
	leaderboardService *services.LeaderboardService
}

// NewLeaderboardHandler creates a new LeaderboardHandler
func NewLeaderboardHandler(leaderboardService *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// GetTopByScore returns restaurants ranked by total score
func (h *LeaderboardHandler) GetTopByScore(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"entries": h.leaderboardService.TopByScore(limitParam(c)),
	})
}

// GetTopByPoolContribution returns restaurants ranked by pool contribution
func (h *LeaderboardHandler) GetTopByPoolContribution(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"entries": h.leaderboardService.TopByPoolContribution(limitParam(c)),
	})
}

func limitParam(c *gin.Context) int {
	n, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || n <= 0 {
		return services.DefaultLeaderboardSize
	}
	return n
}
