package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aditwicaksono/warung-pos-api/config"
	"github.com/aditwicaksono/warung-pos-api/models"
	"github.com/aditwicaksono/warung-pos-api/services"
)

func TestUserEndpoints(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)

	admin := seedUser(t, db, "admin", "password123", models.RoleAdmin)
	staff := seedUser(t, db, "kasir1", "password123", models.RoleStaff)

	router := setupTestRouter()
	auth := mockAuthMiddleware(admin.ID, admin.Username, admin.Role)
	router.GET("/users", auth, ListUsers)
	router.GET("/users/:id", auth, GetUser)
	router.PUT("/users/:id", auth, UpdateUser)
	router.DELETE("/users/:id", auth, DeactivateUser)

	t.Run("List", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/users", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		response := parseResponse(t, w)
		assert.Equal(t, float64(2), response["total"])

		// Password hashes never leave the API.
		for _, raw := range response["data"].([]interface{}) {
			user := raw.(map[string]interface{})
			_, exposed := user["hashed_password"]
			assert.False(t, exposed)
		}
	})

	t.Run("Get", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, fmt.Sprintf("/users/%d", staff.ID), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := parseResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "kasir1", data["username"])
	})

	t.Run("Promote to admin", func(t *testing.T) {
		w := performRequest(router, http.MethodPut, fmt.Sprintf("/users/%d", staff.ID), map[string]interface{}{
			"role": "admin",
		})

		assert.Equal(t, http.StatusOK, w.Code)
		data := parseResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "admin", data["role"])
	})

	t.Run("Invalid role rejected at binding", func(t *testing.T) {
		w := performRequest(router, http.MethodPut, fmt.Sprintf("/users/%d", staff.ID), map[string]interface{}{
			"role": "owner",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, parseResponse(t, w), "VALIDATION_ERROR")
	})

	t.Run("Deactivate blocks login", func(t *testing.T) {
		w := performRequest(router, http.MethodDelete, fmt.Sprintf("/users/%d", staff.ID), nil)

		assert.Equal(t, http.StatusOK, w.Code)

		_, err := services.AuthenticateUser(db, "kasir1", "password123")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("Unknown user", func(t *testing.T) {
		w := performRequest(router, http.MethodGet, "/users/9999", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assertErrorCode(t, parseResponse(t, w), "USER_NOT_FOUND")
	})
}
