package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aditwicaksono/warung-pos-api/logger"
	"github.com/aditwicaksono/warung-pos-api/services"
)

// respondServiceError translates a typed service error into the JSON
// error envelope. Business-rule violations surface their reason;
// anything unclassified becomes an opaque 500 so internals are not
// disclosed.
func respondServiceError(c *gin.Context, err error) {
	var (
		notFound     *services.NotFoundError
		inactive     *services.InactiveError
		insufficient *services.InsufficientStockError
		duplicate    *services.DuplicateKeyError
		badStatus    *services.InvalidStatusError
		badInput     *services.InvalidInputError
	)

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    strings.ToUpper(notFound.Entity) + "_NOT_FOUND",
				"message": notFound.Error(),
			},
		})
	case errors.As(err, &inactive):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    strings.ToUpper(inactive.Entity) + "_INACTIVE",
				"message": inactive.Error(),
			},
		})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INSUFFICIENT_STOCK",
				"message": insufficient.Error(),
			},
		})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_KEY",
				"message": duplicate.Error(),
			},
		})
	case errors.As(err, &badStatus):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": badStatus.Error(),
			},
		})
	case errors.As(err, &badInput):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_INPUT",
				"message": badInput.Error(),
			},
		})
	default:
		logger.FromContext(c).Error("unexpected service error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "An unexpected error occurred",
			},
		})
	}
}

// bindError writes the standard validation error envelope for a failed
// request body bind.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}
