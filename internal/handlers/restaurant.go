package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"pieats/internal/auth"
	"pieats/internal/models"
	"pieats/internal/services"
)

// RestaurantHandler handles restaurant endpoints
type RestaurantHandler struct {
	restaurantService *services.RestaurantService
	actionService     *services.ActionService
}

// NewRestaurantHandler creates a new RestaurantHandler
func NewRestaurantHandler(restaurantService *services.RestaurantService, actionService *services.ActionService) *RestaurantHandler {
	return &RestaurantHandler{
		restaurantService: restaurantService,
		actionService:     actionService,
	}
}

// GetRestaurants returns all restaurants, newest first
func (h *RestaurantHandler) GetRestaurants(c *gin.Context) {
	restaurants, err := h.restaurantService.GetAllRestaurants()
	if err != nil {
		// Read path: render an empty list rather than an error page.
		c.JSON(http.StatusOK, gin.H{"restaurants": []models.Restaurant{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants})
}

// GetRestaurantByID returns a single restaurant
func (h *RestaurantHandler) GetRestaurantByID(c *gin.Context) {
	restaurant, err := h.restaurantService.GetRestaurantByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load restaurant",
		})
		return
	}
	if restaurant == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Restaurant not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// SearchRestaurants matches restaurants by name or address
func (h *RestaurantHandler) SearchRestaurants(c *gin.Context) {
	restaurants, err := h.restaurantService.SearchRestaurants(c.Query("q"))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"restaurants": []models.Restaurant{}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"restaurants": restaurants})
}

// CreateRestaurant records a new recommendation and scores it
func (h *RestaurantHandler) CreateRestaurant(c *gin.Context) {
	uid, exists := auth.GetUID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req struct {
		Name      string   `json:"name" binding:"required"`
		Address   string   `json:"address" binding:"required"`
		Latitude  float64  `json:"latitude" binding:"min=-90,max=90"`
		Longitude float64  `json:"longitude" binding:"min=-180,max=180"`
		Dishes    []string `json:"dishes"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	restaurant, err := h.restaurantService.CreateRestaurant(services.CreateRestaurantInput{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Dishes:    req.Dishes,
		CreatedBy: uid,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	username, _ := auth.GetUsername(c)
	log.Printf("Restaurant created: id=%s name=%q by=%s uid=%s", restaurant.ID, restaurant.Name, username, uid)

	// The recommendation itself earns a point; a duplicate recommendation of
	// the same restaurant would not, but a freshly created one never is.
	scored, err := h.actionService.RecordAndScore(uid, restaurant.ID, models.ActionRecommend, models.ActionRecommend.Points())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Restaurant created but scoring failed",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"restaurant": restaurant,
		"scored":     scored,
	})
}

// RecordAction records a social action (like, rating, comment, tip) against
// a restaurant. Payments score through the payment flow, not here.
func (h *RestaurantHandler) RecordAction(c *gin.Context) {
	uid, exists := auth.GetUID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req struct {
		ActionType string `json:"action_type" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	actionType := models.ActionType(req.ActionType)
	if !actionType.Valid() || actionType == models.ActionPayment {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid action type",
		})
		return
	}

	restaurantID := c.Param("id")
	restaurant, err := h.restaurantService.GetRestaurantByID(restaurantID)
	if err != nil || restaurant == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Restaurant not found",
		})
		return
	}

	scored, err := h.actionService.RecordAndScore(uid, restaurantID, actionType, actionType.Points())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to record action",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scored": scored,
	})
}

// UploadPhoto stores a restaurant photo and appends it to the display list
func (h *RestaurantHandler) UploadPhoto(c *gin.Context) {
	if _, exists := auth.GetUID(c); !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Photo file is required",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read photo",
		})
		return
	}
	defer src.Close()

	url, err := h.restaurantService.AddPhoto(c.Param("id"), file.Filename, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to store photo",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url": url,
	})
}
