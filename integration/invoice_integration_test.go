package billing_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymbill/internal/auth"
	"gymbill/internal/invoice"
)

func TestCreateInvoiceIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanDatabase(t, db)

	handler := invoice.NewHandler(db, newTestEmailService())

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/invoices", auth.AuthMiddleware("test-secret"), handler.Create)
	router.GET("/invoices/:number", auth.AuthMiddleware("test-secret"), handler.Get)

	createInvoice := func(token string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]interface{}{
			"due_date": "2025-07-01",
			"items": []map[string]interface{}{
				{"description": "Day pass", "quantity": 2, "unit_price": "10.00"},
			},
		})
		req := httptest.NewRequest("POST", "/invoices", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("Numbers are sequential per gym", func(t *testing.T) {
		cleanDatabase(t, db)

		gymID := createTestGym(t, db, "Iron Gym", "IRON")
		userID := createTestUser(t, db, gymID, "staff@irongym.com", "Staff")
		token := generateTestToken(userID, gymID, "staff@irongym.com", "staff", "test-secret")

		w := createInvoice(token)
		require.Equal(t, http.StatusCreated, w.Code)

		var first invoice.InvoiceWithItems
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
		assert.Equal(t, "IRON000001", first.InvoiceNumber)
		require.Len(t, first.Items, 1)

		w = createInvoice(token)
		require.Equal(t, http.StatusCreated, w.Code)

		var second invoice.InvoiceWithItems
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
		assert.Equal(t, "IRON000002", second.InvoiceNumber)
	})

	t.Run("Tenants get independent sequences", func(t *testing.T) {
		cleanDatabase(t, db)

		ironID := createTestGym(t, db, "Iron Gym", "IRON")
		flexID := createTestGym(t, db, "Flex Gym", "FLEX")

		ironUser := createTestUser(t, db, ironID, "staff@irongym.com", "Iron Staff")
		flexUser := createTestUser(t, db, flexID, "staff@flexgym.com", "Flex Staff")

		ironToken := generateTestToken(ironUser, ironID, "staff@irongym.com", "staff", "test-secret")
		flexToken := generateTestToken(flexUser, flexID, "staff@flexgym.com", "staff", "test-secret")

		w := createInvoice(ironToken)
		require.Equal(t, http.StatusCreated, w.Code)

		w = createInvoice(flexToken)
		require.Equal(t, http.StatusCreated, w.Code)

		var flexInvoice invoice.InvoiceWithItems
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &flexInvoice))
		assert.Equal(t, "FLEX000001", flexInvoice.InvoiceNumber)
	})

	t.Run("Invoice is not visible to another gym", func(t *testing.T) {
		cleanDatabase(t, db)

		ironID := createTestGym(t, db, "Iron Gym", "IRON")
		flexID := createTestGym(t, db, "Flex Gym", "FLEX")

		ironUser := createTestUser(t, db, ironID, "staff@irongym.com", "Iron Staff")
		flexUser := createTestUser(t, db, flexID, "staff@flexgym.com", "Flex Staff")

		ironToken := generateTestToken(ironUser, ironID, "staff@irongym.com", "staff", "test-secret")
		flexToken := generateTestToken(flexUser, flexID, "staff@flexgym.com", "staff", "test-secret")

		w := createInvoice(ironToken)
		require.Equal(t, http.StatusCreated, w.Code)

		req := httptest.NewRequest("GET", "/invoices/IRON000001", nil)
		req.Header.Set("Authorization", "Bearer "+flexToken)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
