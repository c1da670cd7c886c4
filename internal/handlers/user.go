package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pieats/internal/auth"
	"pieats/internal/services"
)

// UserHandler handles user profile endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UploadAvatar stores a new avatar for the current user
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	uid, exists := auth.GetUID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Avatar file is required",
		})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Failed to read avatar",
		})
		return
	}
	defer src.Close()

	url, err := h.userService.UploadAvatar(uid, file.Filename, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to store avatar",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"avatar_url": url,
	})
}
