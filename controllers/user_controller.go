package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aditwicaksono/warung-pos-api/config"
	"github.com/aditwicaksono/warung-pos-api/services"
)

// UpdateUserRequest represents the request body for updating a user
type UpdateUserRequest struct {
	Password *string `json:"password" binding:"omitempty,min=8"`
	FullName *string `json:"full_name"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin staff"`
	IsActive *bool   `json:"is_active"`
}

// ListUsers handles GET /api/v1/users - lists users (admin only)
func ListUsers(c *gin.Context) {
	page, limit := paginationParams(c)

	users, total, err := services.ListUsers(config.GetDB(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   total,
		"data":    users,
	})
}

// GetUser handles GET /api/v1/users/:id - returns one user (admin only)
func GetUser(c *gin.Context) {
	userID, ok := idParam(c)
	if !ok {
		return
	}

	user, err := services.GetUser(config.GetDB(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// UpdateUser handles PUT /api/v1/users/:id - patches a user (admin only)
func UpdateUser(c *gin.Context) {
	userID, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := services.UpdateUser(config.GetDB(), userID, services.UserPatch{
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// DeactivateUser handles DELETE /api/v1/users/:id - disables a user (admin only)
func DeactivateUser(c *gin.Context) {
	userID, ok := idParam(c)
	if !ok {
		return
	}

	inactive := false
	user, err := services.UpdateUser(config.GetDB(), userID, services.UserPatch{IsActive: &inactive})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// idParam parses the :id path parameter, writing the error envelope on failure
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "ID must be a positive integer",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// paginationParams parses page/limit query parameters with defaults
func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit < 1 || limit > 500 {
		limit = 100
	}
	return page, limit
}
