package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aditwicaksono/warung-pos-api/config"
	"github.com/aditwicaksono/warung-pos-api/services"
)

// CategoryRequest represents the request body for creating a category
type CategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// UpdateCategoryRequest represents the request body for patching a category
type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// CreateCategory handles POST /api/v1/categories (admin only)
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := services.CreateCategory(config.GetDB(), services.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    category,
	})
}

// ListCategories handles GET /api/v1/categories
func ListCategories(c *gin.Context) {
	page, limit := paginationParams(c)

	categories, total, err := services.ListCategories(config.GetDB(), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"total":   total,
		"data":    categories,
	})
}

// GetCategory handles GET /api/v1/categories/:id
func GetCategory(c *gin.Context) {
	categoryID, ok := idParam(c)
	if !ok {
		return
	}

	category, err := services.GetCategory(config.GetDB(), categoryID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    category,
	})
}

// UpdateCategory handles PUT /api/v1/categories/:id (admin only)
func UpdateCategory(c *gin.Context) {
	categoryID, ok := idParam(c)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := services.UpdateCategory(config.GetDB(), categoryID, services.CategoryPatch{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    category,
	})
}

// DeleteCategory handles DELETE /api/v1/categories/:id (admin only).
// Products in the category are detached, not deleted.
func DeleteCategory(c *gin.Context) {
	categoryID, ok := idParam(c)
	if !ok {
		return
	}

	if err := services.DeleteCategory(config.GetDB(), categoryID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted",
	})
}
