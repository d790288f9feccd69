package billing_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymbill/internal/auth"
	"gymbill/internal/member"
)

func TestCreateMemberIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanDatabase(t, db)

	handler := member.NewHandler(db)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/members", auth.AuthMiddleware("test-secret"), handler.CreateMember)
	router.GET("/members/:memberID", auth.AuthMiddleware("test-secret"), handler.GetMember)

	gymID := createTestGym(t, db, "Iron Gym", "IRON")
	userID := createTestUser(t, db, gymID, "staff@irongym.com", "Staff")
	token := generateTestToken(userID, gymID, "staff@irongym.com", "staff", "test-secret")

	t.Run("Create billable member derives end date", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{
			"name":                "Ada",
			"email":               "ada@example.com",
			"membership_type":     "premium",
			"membership_fees":     "60.00",
			"membership_duration": 3,
			"membership_start":    "2025-06-15",
		})
		req := httptest.NewRequest("POST", "/members", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var created member.Member
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

		require.NotNil(t, created.MembershipEndDate)
		// 2025-06-15 + 3 months, inclusive of the last day
		assert.Equal(t, "2025-09-14", created.MembershipEndDate.Format("2006-01-02"))
		assert.True(t, created.TotalSpent.Equal(decimal.RequireFromString("60.00")))
	})

	t.Run("Unknown membership type is rejected", func(t *testing.T) {
		body, _ := json.Marshal(map[string]interface{}{
			"name":            "Bob",
			"email":           "bob@example.com",
			"membership_type": "platinum",
		})
		req := httptest.NewRequest("POST", "/members", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Member of another gym is not visible", func(t *testing.T) {
		otherGymID := createTestGym(t, db, "Flex Gym", "FLEX")
		otherMemberID := createTestMember(t, db, otherGymID, "hidden",
			"basic", "30.00",
			time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC))

		req := httptest.NewRequest("GET", fmt.Sprintf("/members/%d", otherMemberID), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRenewMembershipIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	cleanDatabase(t, db)

	handler := member.NewHandler(db)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/members/:memberID/renew", auth.AuthMiddleware("test-secret"), handler.RenewMembership)

	gymID := createTestGym(t, db, "Iron Gym", "IRON")
	userID := createTestUser(t, db, gymID, "staff@irongym.com", "Staff")
	token := generateTestToken(userID, gymID, "staff@irongym.com", "staff", "test-secret")

	t.Run("Renewal starts after the current end date", func(t *testing.T) {
		end := time.Now().UTC().AddDate(0, 0, 10).Truncate(24 * time.Hour)
		memberID := createTestMember(t, db, gymID, "ada",
			"basic", "30.00", end.AddDate(0, -1, 0), end)

		body, _ := json.Marshal(map[string]interface{}{
			"membership_type":     "basic",
			"membership_fees":     "35.00",
			"membership_duration": 1,
		})
		req := httptest.NewRequest("POST", fmt.Sprintf("/members/%d/renew", memberID), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var renewed member.Member
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &renewed))

		require.NotNil(t, renewed.MembershipStartDate)
		assert.Equal(t, end.AddDate(0, 0, 1).Format("2006-01-02"),
			renewed.MembershipStartDate.Format("2006-01-02"))
		// 30.00 already spent plus the 35.00 renewal
		assert.True(t, renewed.TotalSpent.Equal(decimal.RequireFromString("65.00")))
	})

	t.Run("Non-billable type is rejected", func(t *testing.T) {
		memberID := createTestMember(t, db, gymID, "bob",
			"basic", "30.00",
			time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC))

		body, _ := json.Marshal(map[string]interface{}{
			"membership_type":     "none",
			"membership_fees":     "35.00",
			"membership_duration": 1,
		})
		req := httptest.NewRequest("POST", fmt.Sprintf("/members/%d/renew", memberID), bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
