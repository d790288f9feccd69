package attendance

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gymbill/internal/auth"
	"gymbill/internal/logger"
	"gymbill/internal/member"
	"gymbill/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{
		service: NewService(NewRepository(db), member.NewRepository(db)),
	}
}

// CheckIn godoc
// @Summary      Check in a member
// @Description  Records a gym visit. Rejects inactive memberships and
// @Description  duplicate same-day check-ins.
// @Tags         attendance
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CheckInRequest true "Check-in"
// @Success      201 {object} CheckIn
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /attendance/check-in [post]
func (h *Handler) CheckIn(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkIn, err := h.service.CheckIn(c.Request.Context(), gymID, req.MemberID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, ErrMemberNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		case errors.Is(err, ErrMembershipInactive):
			c.JSON(http.StatusBadRequest, gin.H{"error": "membership is not active"})
		case errors.Is(err, ErrAlreadyCheckedIn):
			c.JSON(http.StatusConflict, gin.H{"error": "member already checked in today"})
		default:
			logger.Errorf("Failed to check in member %d: %v", req.MemberID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check in"})
		}
		return
	}
	metrics.RecordCheckIn()

	c.JSON(http.StatusCreated, checkIn)
}

// ListMemberCheckIns godoc
// @Summary      List member check-ins
// @Tags         attendance
// @Security     BearerAuth
// @Produce      json
// @Param        memberID path int true "Member ID"
// @Success      200 {array} CheckIn
// @Router       /members/{memberID}/check-ins [get]
func (h *Handler) ListMemberCheckIns(c *gin.Context) {
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

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	checkIns, err := h.service.GetMemberCheckIns(c.Request.Context(), gymID, memberID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load check-ins"})
		return
	}

	c.JSON(http.StatusOK, checkIns)
}
