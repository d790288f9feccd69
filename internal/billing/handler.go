package billing

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymbill/internal/auth"
	"gymbill/internal/email"
	"gymbill/internal/gym"
	"gymbill/internal/logger"
	"gymbill/internal/member"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, emailService *email.Service) *Handler {
	return &Handler{
		service: NewService(
			NewRepository(db),
			member.NewRepository(db),
			gym.NewRepository(db),
			emailService,
		),
	}
}

// Generate godoc
// @Summary      Generate monthly billing
// @Description  Snapshots pro-rated member fees for the month and stores the
// @Description  aggregate. Regenerating replaces an unfinalized snapshot.
// @Tags         billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body GenerateBillingRequest true "Billing month"
// @Success      201 {object} BillingDetail
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /billings [post]
func (h *Handler) Generate(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req GenerateBillingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := h.service.GenerateMonthlyBilling(
		c.Request.Context(), gymID, req.Year, time.Month(req.Month), time.Now())
	if err != nil {
		if errors.Is(err, ErrBillingFinalized) {
			c.JSON(http.StatusConflict, gin.H{"error": "billing for this month is finalized"})
			return
		}
		logger.Errorf("Failed to generate billing for gym %d: %v", gymID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate billing"})
		return
	}

	c.JSON(http.StatusCreated, detail)
}

// Get godoc
// @Summary      Get monthly billing
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Param        year  path int true "Billing year"
// @Param        month path int true "Billing month (1-12)"
// @Success      200 {object} BillingDetail
// @Failure      404 {object} api.ErrorResponse
// @Router       /billings/{year}/{month} [get]
func (h *Handler) Get(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	year, month, ok := parseBillingMonth(c)
	if !ok {
		return
	}

	detail, err := h.service.GetBilling(c.Request.Context(), gymID, year, month)
	if err != nil {
		if errors.Is(err, ErrBillingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "billing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load billing"})
		return
	}

	c.JSON(http.StatusOK, detail)
}

// List godoc
// @Summary      List billing history
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} GymBilling
// @Router       /billings [get]
func (h *Handler) List(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	billings, err := h.service.ListBillings(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load billing history"})
		return
	}

	c.JSON(http.StatusOK, billings)
}

// RecordPayment godoc
// @Summary      Record payment
// @Description  Appends a payment to the month's ledger and recomputes the
// @Description  paid/pending totals and status.
// @Tags         billing
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        year    path int true "Billing year"
// @Param        month   path int true "Billing month (1-12)"
// @Param        request body RecordPaymentRequest true "Payment"
// @Success      200 {object} GymBilling
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /billings/{year}/{month}/payments [post]
func (h *Handler) RecordPayment(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	year, month, ok := parseBillingMonth(c)
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment amount"})
		return
	}

	updated, err := h.service.RecordPayment(c.Request.Context(), gymID, year, month, amount, req.Method, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment amount must be positive"})
		case errors.Is(err, ErrBillingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "billing not found"})
		case errors.Is(err, ErrBillingFinalized):
			c.JSON(http.StatusConflict, gin.H{"error": "billing for this month is finalized"})
		default:
			logger.Errorf("Failed to record payment for gym %d: %v", gymID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record payment"})
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Send godoc
// @Summary      Send monthly billing
// @Description  Marks a draft billing as sent and emails the gym contact.
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Param        year  path int true "Billing year"
// @Param        month path int true "Billing month (1-12)"
// @Success      200 {object} GymBilling
// @Failure      404 {object} api.ErrorResponse
// @Router       /billings/{year}/{month}/send [post]
func (h *Handler) Send(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	year, month, ok := parseBillingMonth(c)
	if !ok {
		return
	}

	b, err := h.service.SendBilling(c.Request.Context(), gymID, year, month)
	if err != nil {
		if errors.Is(err, ErrBillingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no draft billing for this month"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send billing"})
		return
	}

	c.JSON(http.StatusOK, b)
}

// Finalize godoc
// @Summary      Finalize monthly billing
// @Description  Marks the month as historical. Finalized billings reject
// @Description  regeneration and further payments.
// @Tags         billing
// @Security     BearerAuth
// @Produce      json
// @Param        year  path int true "Billing year"
// @Param        month path int true "Billing month (1-12)"
// @Success      200 {object} GymBilling
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /billings/{year}/{month}/finalize [post]
func (h *Handler) Finalize(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	year, month, ok := parseBillingMonth(c)
	if !ok {
		return
	}

	b, err := h.service.FinalizeBilling(c.Request.Context(), gymID, year, month, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ErrBillingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "billing not found"})
		case errors.Is(err, ErrBillingFinalized):
			c.JSON(http.StatusConflict, gin.H{"error": "billing is already finalized"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to finalize billing"})
		}
		return
	}

	c.JSON(http.StatusOK, b)
}

func parseBillingMonth(c *gin.Context) (int, int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return 0, 0, false
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return 0, 0, false
	}
	return year, month, true
}
