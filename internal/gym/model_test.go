package gym

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bindCreateGym() *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/", func(c *gin.Context) {
		var req CreateGymRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, req)
	})
	return router
}

func TestCreateGymRequest_Validation(t *testing.T) {
	router := bindCreateGym()

	w := httptest.NewRecorder()
	reqBody := bytes.NewBuffer([]byte(`{}`))
	req, _ := http.NewRequest(http.MethodPost, "/", reqBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Name")
	assert.Contains(t, w.Body.String(), "required")
}

func TestCreateGymRequest_CodeFormat(t *testing.T) {
	router := bindCreateGym()

	w := httptest.NewRecorder()
	reqBody := bytes.NewBuffer([]byte(`{"name":"Iron Gym","code":"IRON GYM!","currency":"EUR","contact_email":"a@b.co"}`))
	req, _ := http.NewRequest(http.MethodPost, "/", reqBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "alphanum")
}

func TestCreateGymRequest_CurrencyLength(t *testing.T) {
	router := bindCreateGym()

	w := httptest.NewRecorder()
	reqBody := bytes.NewBuffer([]byte(`{"name":"Iron Gym","code":"IRON","currency":"EURO","contact_email":"a@b.co"}`))
	req, _ := http.NewRequest(http.MethodPost, "/", reqBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Currency")
}

func TestCreateGymRequest_Valid(t *testing.T) {
	router := bindCreateGym()

	w := httptest.NewRecorder()
	reqBody := bytes.NewBuffer([]byte(`{"name":"Iron Gym","code":"IRON","currency":"EUR","contact_email":"a@b.co","payment_deadline_day":15}`))
	req, _ := http.NewRequest(http.MethodPost, "/", reqBody)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
