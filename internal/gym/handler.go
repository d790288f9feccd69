package gym

import (
	"errors"
	"net/http"
	"strconv"

	"gymbill/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type Handler struct {
	repo               Repository
	defaultDeadlineDay int
}

func NewHandler(db *sqlx.DB, defaultDeadlineDay int) *Handler {
	return &Handler{
		repo:               NewRepository(db),
		defaultDeadlineDay: defaultDeadlineDay,
	}
}

// CreateGym godoc
// @Summary      Create gym
// @Description  Registers a new tenant. Code becomes the invoice number prefix.
// @Tags         gyms
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateGymRequest true "Gym data"
// @Success      201 {object} Gym
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /admin/gyms [post]
func (h *Handler) CreateGym(c *gin.Context) {
	var req CreateGymRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	exists, err := h.repo.CodeExists(ctx, req.Code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check gym code"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "gym code already in use"})
		return
	}

	deadlineDay := req.PaymentDeadlineDay
	if deadlineDay == 0 {
		deadlineDay = h.defaultDeadlineDay
	}

	g, err := h.repo.CreateGym(ctx, req.Name, req.Code, req.Currency, req.ContactEmail, deadlineDay)
	if err != nil {
		// The CodeExists check above races with concurrent creates; the
		// UNIQUE constraint on gyms.code is the real guard.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			c.JSON(http.StatusConflict, gin.H{"error": "gym code already in use"})
			return
		}
		logger.Errorf("Failed to create gym %s: %v", req.Code, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create gym"})
		return
	}
	logger.Infof("Gym created: Code=%s, ID=%d", g.Code, g.ID)

	c.JSON(http.StatusCreated, g)
}

// GetGym godoc
// @Summary      Get gym
// @Tags         gyms
// @Security     BearerAuth
// @Produce      json
// @Param        gymID path int true "Gym ID"
// @Success      200 {object} Gym
// @Failure      404 {object} api.ErrorResponse
// @Router       /gyms/{gymID} [get]
func (h *Handler) GetGym(c *gin.Context) {
	gymID, err := strconv.Atoi(c.Param("gymID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gym id"})
		return
	}

	g, err := h.repo.GetGymByID(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "gym not found"})
		return
	}

	c.JSON(http.StatusOK, g)
}

// ListGyms godoc
// @Summary      List gyms
// @Tags         gyms
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Gym
// @Router       /admin/gyms [get]
func (h *Handler) ListGyms(c *gin.Context) {
	gyms, err := h.repo.GetAllGyms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load gyms"})
		return
	}

	c.JSON(http.StatusOK, gyms)
}
