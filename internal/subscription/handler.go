package subscription

import (
	"net/http"
	"strconv"
	"time"

	"gymbill/internal/auth"
	"gymbill/internal/billing"
	"gymbill/internal/logger"
	"gymbill/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// Enroll godoc
// @Summary      Enroll member in app access
// @Description  Creates a one-year app-access subscription at the fixed
// @Description  monthly rate.
// @Tags         subscriptions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body EnrollRequest true "Enrollment"
// @Success      201 {object} UserSubscription
// @Failure      400 {object} api.ErrorResponse
// @Router       /subscriptions [post]
func (h *Handler) Enroll(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := h.repo.Enroll(c.Request.Context(), gymID, req.MemberID, time.Now())
	if err != nil {
		logger.Errorf("Failed to enroll member %d: %v", req.MemberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enroll member"})
		return
	}
	logger.Infof("App subscription created: Member=%d, Gym=%d", req.MemberID, gymID)
	metrics.RecordAppSubscription("enrolled")

	c.JSON(http.StatusCreated, sub)
}

// Renew godoc
// @Summary      Renew app-access subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        subID path int true "Subscription ID"
// @Success      200 {object} UserSubscription
// @Failure      404 {object} api.ErrorResponse
// @Router       /subscriptions/{subID}/renew [post]
func (h *Handler) Renew(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	subID, err := strconv.Atoi(c.Param("subID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription id"})
		return
	}

	sub, err := h.repo.Renew(c.Request.Context(), gymID, subID, time.Now())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		return
	}
	metrics.RecordAppSubscription("renewed")

	c.JSON(http.StatusOK, sub)
}

// Cancel godoc
// @Summary      Cancel app-access subscription
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        subID path int true "Subscription ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Router       /subscriptions/{subID}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	subID, err := strconv.Atoi(c.Param("subID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription id"})
		return
	}

	if err := h.repo.Cancel(c.Request.Context(), gymID, subID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to cancel subscription"})
		return
	}
	metrics.RecordAppSubscription("cancelled")

	c.JSON(http.StatusOK, gin.H{"message": "subscription cancelled"})
}

// MonthlyCharge godoc
// @Summary      Pro-rated monthly charge
// @Description  Returns the subscription's pro-rated contribution for a
// @Description  calendar month.
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        subID path int true "Subscription ID"
// @Param        year  path int true "Year"
// @Param        month path int true "Month (1-12)"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} api.ErrorResponse
// @Router       /subscriptions/{subID}/charge/{year}/{month} [get]
func (h *Handler) MonthlyCharge(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	subID, err := strconv.Atoi(c.Param("subID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subscription id"})
		return
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
		return
	}

	sub, err := h.repo.GetByID(c.Request.Context(), gymID, subID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		return
	}

	charge, err := billing.ProratedCost(sub.MonthlyAmount, sub.StartDate, sub.EndDate, year, time.Month(month))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute charge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"subscription_id": sub.ID,
		"year":            year,
		"month":           month,
		"charge":          charge,
	})
}

// ListByMember godoc
// @Summary      List member subscriptions
// @Tags         subscriptions
// @Security     BearerAuth
// @Produce      json
// @Param        memberID path int true "Member ID"
// @Success      200 {array} UserSubscription
// @Router       /members/{memberID}/subscriptions [get]
func (h *Handler) ListByMember(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	memberID, err := strconv.Atoi(c.Param("memberID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member id"})
		return
	}

	subs, err := h.repo.ListByMember(c.Request.Context(), gymID, memberID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscriptions"})
		return
	}

	c.JSON(http.StatusOK, subs)
}
