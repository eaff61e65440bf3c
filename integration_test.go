package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aditwicaksono/warung-pos-api/config"
	"github.com/aditwicaksono/warung-pos-api/models"
	"github.com/aditwicaksono/warung-pos-api/services"
	"github.com/aditwicaksono/warung-pos-api/tests/testutil"
)

// setupIntegrationApp wires the real router against an in-memory
// database and returns the router plus a valid admin bearer token.
func setupIntegrationApp(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenTestDB(t)

	cfg := &config.Config{
		GoEnv:              "test",
		JWTSecret:          "integration-secret",
		TokenExpiryMinutes: 30,
		BotAPIKey:          "integration-bot-key",
		CORSOrigins:        "http://localhost:5173",
	}

	prevDB, prevCfg := config.GetDB(), config.GetConfig()
	config.SetDB(db)
	config.SetConfig(cfg)
	t.Cleanup(func() {
		config.SetDB(prevDB)
		config.SetConfig(prevCfg)
	})

	admin, err := services.CreateUser(db, services.UserCreateInput{
		Username: "owner",
		Password: "super-secret-1",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)

	token, err := services.GenerateToken(cfg, admin)
	require.NoError(t, err)

	return setupRouter(cfg), token
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestPOSFlowIntegration drives the full point-of-sale path through the
// real middleware chain: login, catalog setup, a sale, a restock and the
// reporting endpoints.
func TestPOSFlowIntegration(t *testing.T) {
	router, token := setupIntegrationApp(t)

	// Login with the seeded admin account
	w := doJSON(router, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "owner",
		"password": "super-secret-1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Create a category
	w = doJSON(router, http.MethodPost, "/api/v1/categories", token, gin.H{"name": "Beverages"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var categoryResp struct {
		Data struct {
			ID uint `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &categoryResp))

	// Create a product with opening stock
	w = doJSON(router, http.MethodPost, "/api/v1/products", token, gin.H{
		"name":                "Es Teh Manis",
		"category_id":         categoryResp.Data.ID,
		"purchase_price":      2000,
		"selling_price":       5000,
		"current_stock":       20,
		"unit_of_measurement": "pcs",
		"low_stock_threshold": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var productResp struct {
		Data struct {
			ID           uint `json:"id"`
			CurrentStock int  `json:"current_stock"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &productResp))
	assert.Equal(t, 20, productResp.Data.CurrentStock)

	// Sell three units as a cash order
	w = doJSON(router, http.MethodPost, "/api/v1/orders", token, gin.H{
		"items": []gin.H{
			{"product_id": productResp.Data.ID, "quantity": 3},
		},
		"payment_method": "cash",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var orderResp struct {
		Data struct {
			ID          uint    `json:"id"`
			OrderNumber string  `json:"order_number"`
			Status      string  `json:"status"`
			TotalAmount float64 `json:"total_amount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orderResp))
	assert.Equal(t, models.OrderStatusCompleted, orderResp.Data.Status)
	assert.Equal(t, float64(15000), orderResp.Data.TotalAmount)
	assert.Regexp(t, `^INV-\d{8}-`, orderResp.Data.OrderNumber)

	// Stock was deducted
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/products/%d", productResp.Data.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &productResp))
	assert.Equal(t, 17, productResp.Data.CurrentStock)

	// Restock through the inventory endpoint
	w = doJSON(router, http.MethodPost, "/api/v1/inventory/stock-in", token, gin.H{
		"product_id": productResp.Data.ID,
		"quantity":   13,
		"remarks":    "supplier delivery",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The ledger shows the whole history for the product
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/v1/inventory/logs/%d", productResp.Data.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var logsResp struct {
		Data []struct {
			ChangeType string `json:"change_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logsResp))
	require.Len(t, logsResp.Data, 3)
	assert.Equal(t, models.ChangeTypeStockIn, logsResp.Data[0].ChangeType)
	assert.Equal(t, models.ChangeTypeSale, logsResp.Data[1].ChangeType)
	assert.Equal(t, models.ChangeTypeInitialStock, logsResp.Data[2].ChangeType)

	// Dashboard reflects the completed sale
	w = doJSON(router, http.MethodGet, "/api/v1/reports/dashboard", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var dashResp struct {
		Data struct {
			TotalSalesMonth        float64 `json:"total_sales_month"`
			TotalTransactionsMonth int64   `json:"total_transactions_month"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dashResp))
	assert.Equal(t, float64(15000), dashResp.Data.TotalSalesMonth)
	assert.Equal(t, int64(1), dashResp.Data.TotalTransactionsMonth)
}

// TestBotFlowIntegration drives the bot gateway endpoint through the
// real API key middleware.
func TestBotFlowIntegration(t *testing.T) {
	router, _ := setupIntegrationApp(t)

	_, err := services.CreateProduct(config.GetDB(), services.ProductCreateInput{
		Name:              "Kopi Sachet",
		PurchasePrice:     1000,
		SellingPrice:      2500,
		CurrentStock:      12,
		UnitOfMeasurement: "pcs",
		LowStockThreshold: 3,
	})
	require.NoError(t, err)

	body, _ := json.Marshal(gin.H{
		"command":      "check_stock",
		"product_name": "Kopi Sachet",
	})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/bot/command", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", "integration-bot-key")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reply struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.True(t, reply.Success)
	assert.Contains(t, reply.Message, "12")

	// Without the key the gateway is locked out
	req, _ = http.NewRequest(http.MethodPost, "/api/v1/bot/command", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// TestProtectedRoutesRejectAnonymous verifies the dashboard surface is
// closed without a token.
func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	router, _ := setupIntegrationApp(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/products"},
		{http.MethodPost, "/api/v1/orders"},
		{http.MethodGet, "/api/v1/reports/dashboard"},
		{http.MethodGet, "/api/v1/users"},
	}

	for _, p := range paths {
		w := doJSON(router, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, p.path)
	}
}
