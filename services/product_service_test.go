package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aditwicaksono/warung-pos-api/models"
)

func TestCreateProduct(t *testing.T) {
	db := setupInventoryTestDB(t)

	sku := "KOPI-001"
	description := "Instant coffee, single serving"
	product, err := CreateProduct(db, ProductCreateInput{
		Name:              "Kopi Sachet",
		Description:       &description,
		SKU:               &sku,
		PurchasePrice:     1000,
		SellingPrice:      1500,
		CurrentStock:      100,
		LowStockThreshold: 10,
	})

	assert.NoError(t, err)
	assert.True(t, product.IsActive)
	assert.Equal(t, "pcs", product.UnitOfMeasurement)
	assert.Equal(t, 100, product.CurrentStock)

	// The opening balance lands in the ledger.
	var logs []models.InventoryLog
	db.Where("product_id = ?", product.ID).Find(&logs)
	assert.Len(t, logs, 1)
	assert.Equal(t, models.ChangeTypeInitialStock, logs[0].ChangeType)
	assert.Equal(t, 100, logs[0].QuantityChange)
	assert.Equal(t, 0, logs[0].StockBefore)
	assert.Equal(t, 100, logs[0].StockAfter)
}

func TestCreateProduct_NoLedgerRowForZeroStock(t *testing.T) {
	db := setupInventoryTestDB(t)

	product, err := CreateProduct(db, ProductCreateInput{
		Name:         "Pre-order Item",
		SellingPrice: 5000,
	})

	assert.NoError(t, err)

	var count int64
	db.Model(&models.InventoryLog{}).Where("product_id = ?", product.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreateProduct_Validation(t *testing.T) {
	db := setupInventoryTestDB(t)

	tests := []struct {
		name  string
		input ProductCreateInput
	}{
		{"Empty name", ProductCreateInput{Name: "  ", SellingPrice: 100}},
		{"Negative price", ProductCreateInput{Name: "X", SellingPrice: -1}},
		{"Negative stock", ProductCreateInput{Name: "X", SellingPrice: 100, CurrentStock: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateProduct(db, tt.input)

			var inputErr *InvalidInputError
			assert.ErrorAs(t, err, &inputErr)
		})
	}
}

func TestCreateProduct_DuplicateSKU(t *testing.T) {
	db := setupInventoryTestDB(t)

	sku := "DUP-001"
	_, err := CreateProduct(db, ProductCreateInput{Name: "First", SKU: &sku, SellingPrice: 100})
	assert.NoError(t, err)

	_, err = CreateProduct(db, ProductCreateInput{Name: "Second", SKU: &sku, SellingPrice: 100})
	assert.True(t, IsDuplicateKey(err))
}

func TestCreateProduct_EmptySKUNotUnique(t *testing.T) {
	// Multiple products without a SKU must coexist; the uniqueness rule
	// only applies to real values.
	db := setupInventoryTestDB(t)

	empty := ""
	_, err := CreateProduct(db, ProductCreateInput{Name: "First", SKU: &empty, SellingPrice: 100})
	assert.NoError(t, err)

	_, err = CreateProduct(db, ProductCreateInput{Name: "Second", SKU: &empty, SellingPrice: 100})
	assert.NoError(t, err)
}

func TestListProducts(t *testing.T) {
	db := setupInventoryTestDB(t)

	category := models.Category{Name: "Beverages"}
	db.Create(&category)

	skuTea := "TEH-001"
	_, err := CreateProduct(db, ProductCreateInput{
		Name: "Teh Botol", SKU: &skuTea, CategoryID: &category.ID, SellingPrice: 4000, CurrentStock: 10,
	})
	assert.NoError(t, err)
	_, err = CreateProduct(db, ProductCreateInput{
		Name: "Kopi Sachet", SellingPrice: 1500, CurrentStock: 10,
	})
	assert.NoError(t, err)
	inactive, err := CreateProduct(db, ProductCreateInput{
		Name: "Old Snack", SellingPrice: 2000,
	})
	assert.NoError(t, err)
	db.Model(inactive).Update("is_active", false)

	t.Run("No filters returns everything", func(t *testing.T) {
		products, total, err := ListProducts(db, ProductListFilters{})
		assert.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, products, 3)
	})

	t.Run("OnlyActive hides deactivated products", func(t *testing.T) {
		_, total, err := ListProducts(db, ProductListFilters{OnlyActive: true})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("Search by name is case-insensitive", func(t *testing.T) {
		products, total, err := ListProducts(db, ProductListFilters{Search: "teh"})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Teh Botol", products[0].Name)
	})

	t.Run("Search matches SKU", func(t *testing.T) {
		products, _, err := ListProducts(db, ProductListFilters{Search: "teh-001"})
		assert.NoError(t, err)
		assert.Len(t, products, 1)
		assert.Equal(t, "Teh Botol", products[0].Name)
	})

	t.Run("Filter by category", func(t *testing.T) {
		products, total, err := ListProducts(db, ProductListFilters{CategoryID: &category.ID})
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, "Beverages", products[0].Category.Name)
	})
}

func TestListLowStockProducts(t *testing.T) {
	db := setupInventoryTestDB(t)

	low, err := CreateProduct(db, ProductCreateInput{
		Name: "Nearly Gone", SellingPrice: 100, CurrentStock: 2, LowStockThreshold: 5,
	})
	assert.NoError(t, err)
	_, err = CreateProduct(db, ProductCreateInput{
		Name: "Well Stocked", SellingPrice: 100, CurrentStock: 50, LowStockThreshold: 5,
	})
	assert.NoError(t, err)
	_, err = CreateProduct(db, ProductCreateInput{
		Name: "No Threshold", SellingPrice: 100, CurrentStock: 0,
	})
	assert.NoError(t, err)

	products, err := ListLowStockProducts(db)

	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, low.ID, products[0].ID)
}

func TestUpdateProduct(t *testing.T) {
	db := setupInventoryTestDB(t)
	product := createTestProduct(t, db, "Teh Botol", 10)

	newName := "Teh Botol Sosro"
	newPrice := 4500.0
	active := false
	updated, err := UpdateProduct(db, product.ID, ProductPatch{
		Name:         &newName,
		SellingPrice: &newPrice,
		IsActive:     &active,
	})

	assert.NoError(t, err)
	assert.Equal(t, "Teh Botol Sosro", updated.Name)
	assert.Equal(t, 4500.0, updated.SellingPrice)
	assert.False(t, updated.IsActive)
	// Untouched fields survive the patch.
	assert.Equal(t, 10, updated.CurrentStock)
	assert.Equal(t, 8000.0, updated.PurchasePrice)
}

func TestUpdateProduct_DuplicateSKU(t *testing.T) {
	db := setupInventoryTestDB(t)

	skuA := "A-001"
	skuB := "B-001"
	_, err := CreateProduct(db, ProductCreateInput{Name: "A", SKU: &skuA, SellingPrice: 100})
	assert.NoError(t, err)
	other, err := CreateProduct(db, ProductCreateInput{Name: "B", SKU: &skuB, SellingPrice: 100})
	assert.NoError(t, err)

	_, err = UpdateProduct(db, other.ID, ProductPatch{SKU: &skuA})
	assert.True(t, IsDuplicateKey(err))
}

func TestDeleteProduct_SoftDefault(t *testing.T) {
	db := setupInventoryTestDB(t)
	product := createTestProduct(t, db, "Teh Botol", 10)

	err := DeleteProduct(db, product.ID, false)

	assert.NoError(t, err)

	var after models.Product
	assert.NoError(t, db.First(&after, product.ID).Error)
	assert.False(t, after.IsActive)
}

func TestDeleteProduct_Permanent(t *testing.T) {
	db := setupInventoryTestDB(t)

	t.Run("Without order history removes the row and its ledger", func(t *testing.T) {
		product, err := CreateProduct(db, ProductCreateInput{
			Name: "Short Lived", SellingPrice: 100, CurrentStock: 5,
		})
		assert.NoError(t, err)

		err = DeleteProduct(db, product.ID, true)
		assert.NoError(t, err)

		var count int64
		db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
		assert.Equal(t, int64(0), count)
		db.Model(&models.InventoryLog{}).Where("product_id = ?", product.ID).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("With order history is refused", func(t *testing.T) {
		product := createTestProduct(t, db, "Sold Item", 10)
		_, err := CreateOrder(db, OrderCreateInput{
			Items: []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
		})
		assert.NoError(t, err)

		err = DeleteProduct(db, product.ID, true)

		var inputErr *InvalidInputError
		assert.ErrorAs(t, err, &inputErr)

		var count int64
		db.Model(&models.Product{}).Where("id = ?", product.ID).Count(&count)
		assert.Equal(t, int64(1), count)
	})
}

func TestSetProductImage(t *testing.T) {
	db := setupInventoryTestDB(t)
	product := createTestProduct(t, db, "Teh Botol", 10)

	updated, err := SetProductImage(db, product.ID, "product-images/123_teh.png")
	assert.NoError(t, err)
	assert.Equal(t, "product-images/123_teh.png", *updated.ImageS3Key)

	cleared, err := SetProductImage(db, product.ID, "")
	assert.NoError(t, err)
	assert.Nil(t, cleared.ImageS3Key)
}
