package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pieats/internal/auth"
	"pieats/internal/services"
)

// RewardHandler handles reward estimate endpoints
type RewardHandler struct {
	rewardService *services.RewardService
	scoreService  *services.ScoreService
}

// NewRewardHandler creates a new RewardHandler
func NewRewardHandler(rewardService *services.RewardService, scoreService *services.ScoreService) *RewardHandler {
	return &RewardHandler{
		rewardService: rewardService,
		scoreService:  scoreService,
	}
}

// GetRestaurantReward returns the user's estimated reward at one restaurant
func (h *RewardHandler) GetRestaurantReward(c *gin.Context) {
	uid, exists := auth.GetUID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	restaurantID := c.Param("id")

	c.JSON(http.StatusOK, gin.H{
		"restaurant_id": restaurantID,
		"score":         h.rewardService.UserRestaurantScore(uid, restaurantID),
		"reward":        h.rewardService.UserReward(uid, restaurantID),
	})
}

// GetTotalReward returns the user's estimated reward across all restaurants
func (h *RewardHandler) GetTotalReward(c *gin.Context) {
	uid, exists := auth.GetUID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_reward": h.rewardService.UserTotalReward(uid),
	})
}

// GetMyScore returns the user's cached global score
func (h *RewardHandler) GetMyScore(c *gin.Context) {
	uid, exists := auth.GetUID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"score": h.scoreService.GetUserScore(uid),
	})
}
