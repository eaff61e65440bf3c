package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aditwicaksono/warung-pos-api/config"
	"github.com/aditwicaksono/warung-pos-api/logger"
	"github.com/aditwicaksono/warung-pos-api/metrics"
	"github.com/aditwicaksono/warung-pos-api/middleware"
	"github.com/aditwicaksono/warung-pos-api/services"
)

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest represents the request body for registering a user
type RegisterRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required,min=8"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role" binding:"omitempty,oneof=admin staff"`
}

// Login handles POST /api/v1/auth/login - exchanges credentials for a token
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	metrics.RecordAuthAttempt()

	db := config.GetDB()
	user, err := services.AuthenticateUser(db, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			metrics.RecordAuthFailure()
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_CREDENTIALS",
					"message": "Invalid username or password",
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	token, err := services.GenerateToken(config.GetConfig(), user)
	if err != nil {
		logger.FromContext(c).Error("failed to sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Failed to issue access token",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"access_token": token,
			"token_type":   "bearer",
			"user":         user,
		},
	})
}

// Register handles POST /api/v1/auth/register - creates a user (admin only)
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	db := config.GetDB()
	user, err := services.CreateUser(db, services.UserCreateInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	logger.FromContext(c).Info("user registered",
		zap.String("username", user.Username),
		zap.String("role", user.Role))

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    user,
	})
}

// Me handles GET /api/v1/auth/me - returns the authenticated user
func Me(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
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
