package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aditwicaksono/warung-pos-api/config"
	"github.com/aditwicaksono/warung-pos-api/logger"
	"github.com/aditwicaksono/warung-pos-api/services"
	"github.com/aditwicaksono/warung-pos-api/utils"
)

// UploadProductImage handles POST /api/v1/products/:id/image - stores a
// product photo and links it to the product. Replacing a photo removes
// the old object from storage.
func UploadProductImage(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		return
	}

	storage := services.GetImageStorage()
	if storage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "STORAGE_UNAVAILABLE",
				"message": "Image storage is not configured",
			},
		})
		return
	}

	product, err := services.GetProduct(config.GetDB(), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "A file is required in the 'file' form field",
			},
		})
		return
	}

	key, err := storage.UploadImage(fileHeader)
	if err != nil {
		var uploadErr *utils.FileUploadError
		if errors.As(err, &uploadErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    uploadErr.Code,
					"message": uploadErr.Message,
				},
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	previousKey := ""
	if product.ImageS3Key != nil {
		previousKey = *product.ImageS3Key
	}

	updated, err := services.SetProductImage(config.GetDB(), productID, key)
	if err != nil {
		// The product row did not take the new key, clean up the orphan.
		if delErr := storage.DeleteImage(key); delErr != nil {
			logger.FromContext(c).Warn("failed to delete orphaned image",
				zap.String("key", key), zap.Error(delErr))
		}
		respondServiceError(c, err)
		return
	}

	if previousKey != "" && previousKey != key {
		if delErr := storage.DeleteImage(previousKey); delErr != nil {
			logger.FromContext(c).Warn("failed to delete replaced image",
				zap.String("key", previousKey), zap.Error(delErr))
		}
	}

	if url, urlErr := storage.GetImageURL(key); urlErr == nil {
		updated.ImageURL = &url
	}

	logger.FromContext(c).Info("product image uploaded",
		zap.Uint("product_id", productID),
		zap.String("key", key))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}

// DeleteProductImage handles DELETE /api/v1/products/:id/image
func DeleteProductImage(c *gin.Context) {
	productID, ok := idParam(c)
	if !ok {
		return
	}

	product, err := services.GetProduct(config.GetDB(), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if product.ImageS3Key == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "IMAGE_NOT_FOUND",
				"message": "Product has no image",
			},
		})
		return
	}

	key := *product.ImageS3Key
	updated, err := services.SetProductImage(config.GetDB(), productID, "")
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if storage := services.GetImageStorage(); storage != nil {
		if delErr := storage.DeleteImage(key); delErr != nil {
			logger.FromContext(c).Warn("failed to delete stored image",
				zap.String("key", key), zap.Error(delErr))
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}
