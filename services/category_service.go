package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/aditwicaksono/warung-pos-api/models"
)

// CategoryInput is the request for creating a category
type CategoryInput struct {
	Name        string
	Description *string
}

// CreateCategory creates a category; names are unique
func CreateCategory(db *gorm.DB, input CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, &InvalidInputError{Message: "category name is required"}
	}

	var count int64
	if err := db.Model(&models.Category{}).Where("name = ?", input.Name).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, &DuplicateKeyError{Field: "category name", Value: input.Name}
	}

	category := models.Category{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategory returns one category by ID
func GetCategory(db *gorm.DB, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := db.First(&category, categoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "category", ID: categoryID}
		}
		return nil, err
	}
	return &category, nil
}

// ListCategories returns categories ordered by name with the total count
func ListCategories(db *gorm.DB, page, limit int) ([]models.Category, int64, error) {
	var total int64
	if err := db.Model(&models.Category{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 100
	}

	var categories []models.Category
	if err := db.
		Order("name").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&categories).Error; err != nil {
		return nil, 0, err
	}

	return categories, total, nil
}

// CategoryPatch carries the fields of a partial category update
type CategoryPatch struct {
	Name        *string
	Description *string
}

// UpdateCategory applies a field-by-field merge of the patch onto the category
func UpdateCategory(db *gorm.DB, categoryID uint, patch CategoryPatch) (*models.Category, error) {
	category, err := GetCategory(db, categoryID)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil && *patch.Name != category.Name {
		var count int64
		if err := db.Model(&models.Category{}).
			Where("name = ? AND id <> ?", *patch.Name, categoryID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, &DuplicateKeyError{Field: "category name", Value: *patch.Name}
		}
	}

	updates := make(map[string]interface{})
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if len(updates) == 0 {
		return category, nil
	}

	if err := db.Model(category).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetCategory(db, categoryID)
}

// DeleteCategory removes a category. Referencing products are detached
// (category_id set to NULL), not deleted.
func DeleteCategory(db *gorm.DB, categoryID uint) error {
	category, err := GetCategory(db, categoryID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where("category_id = ?", categoryID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(category).Error
	})
}
