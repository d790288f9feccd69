package member

import (
	"net/http"
	"strconv"
	"time"

	"gymbill/internal/auth"
	"gymbill/internal/logger"
	"gymbill/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

// CreateMember godoc
// @Summary      Create member
// @Description  Registers a member for the authenticated gym. A billable
// @Description  membership type requires fees and duration; the end date is
// @Description  derived (start + duration, inclusive of the last day).
// @Tags         members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateMemberRequest true "Member data"
// @Success      201 {object} Member
// @Failure      400 {object} api.ErrorResponse
// @Router       /members [post]
func (h *Handler) CreateMember(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mtype := MembershipType(req.MembershipType)
	if !mtype.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown membership type"})
		return
	}

	now := time.Now()
	m := &Member{
		GymID:          gymID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		MembershipType: mtype,
		TotalSpent:     decimal.Zero,
		JoinDate:       now,
	}

	if mtype.Billable() {
		fees, err := decimal.NewFromString(req.MembershipFees)
		if err != nil || fees.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid membership fees"})
			return
		}
		if req.MembershipDuration < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "membership_duration is required for billable memberships"})
			return
		}

		start := now
		if req.MembershipStart != "" {
			parsed, err := time.Parse("2006-01-02", req.MembershipStart)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid membership_start"})
				return
			}
			start = parsed
		}
		end := ComputeEndDate(start, req.MembershipDuration, 0)

		m.MembershipFees = fees
		m.MembershipDuration = req.MembershipDuration
		m.MembershipStartDate = &start
		m.MembershipEndDate = &end
		m.TotalSpent = fees
	}

	created, err := h.repo.CreateMember(c.Request.Context(), m)
	if err != nil {
		logger.Errorf("Failed to create member for gym %d: %v", gymID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create member"})
		return
	}
	logger.Infof("Member created: ID=%d, Gym=%d, Type=%s", created.ID, gymID, created.MembershipType)
	metrics.RecordMembership(string(created.MembershipType))

	c.JSON(http.StatusCreated, created)
}

// GetMember godoc
// @Summary      Get member
// @Description  Returns a member with the membership state classified
// @Description  against the current date.
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Param        memberID path int true "Member ID"
// @Success      200 {object} MemberWithState
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{memberID} [get]
func (h *Handler) GetMember(c *gin.Context) {
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

	m, err := h.repo.GetMemberByID(c.Request.Context(), gymID, memberID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}

	c.JSON(http.StatusOK, withState(*m, time.Now()))
}

// ListMembers godoc
// @Summary      List members
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} MemberWithState
// @Router       /members [get]
func (h *Handler) ListMembers(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	members, err := h.repo.ListByGym(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load members"})
		return
	}

	now := time.Now()
	out := make([]MemberWithState, 0, len(members))
	for _, m := range members {
		out = append(out, withState(m, now))
	}

	c.JSON(http.StatusOK, out)
}

// ListExpiring godoc
// @Summary      List expiring memberships
// @Description  Members whose membership ends within the next 7 days.
// @Tags         members
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} MemberWithState
// @Router       /members/expiring [get]
func (h *Handler) ListExpiring(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now()
	members, err := h.repo.ListExpiring(c.Request.Context(), gymID, now, ExpiringSoonWindow)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load expiring members"})
		return
	}

	out := make([]MemberWithState, 0, len(members))
	for _, m := range members {
		out = append(out, withState(m, now))
	}

	c.JSON(http.StatusOK, out)
}

// RenewMembership godoc
// @Summary      Renew membership
// @Description  Starts a new membership period the day after the current end
// @Description  date (or today when there is no current period) and adds the
// @Description  period fee to the member's total spent.
// @Tags         members
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        memberID path int true "Member ID"
// @Param        request body RenewMembershipRequest true "Renewal data"
// @Success      200 {object} Member
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /members/{memberID}/renew [post]
func (h *Handler) RenewMembership(c *gin.Context) {
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

	var req RenewMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mtype := MembershipType(req.MembershipType)
	if !mtype.Billable() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "membership type is not billable"})
		return
	}

	fees, err := decimal.NewFromString(req.MembershipFees)
	if err != nil || fees.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid membership fees"})
		return
	}

	ctx := c.Request.Context()
	now := time.Now()

	current, err := h.repo.GetMemberByID(ctx, gymID, memberID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}

	start := now
	if current.MembershipEndDate != nil && !now.After(*current.MembershipEndDate) {
		start = RenewalStart(*current.MembershipEndDate)
	}
	end := ComputeEndDate(start, req.MembershipDuration, req.ExtraDays)

	renewed, err := h.repo.RenewMembership(ctx, gymID, memberID, mtype, fees, req.MembershipDuration, start, end)
	if err != nil {
		logger.Errorf("Failed to renew membership for member %d: %v", memberID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to renew membership"})
		return
	}
	logger.Infof("Membership renewed: Member=%d, Type=%s, Until=%s", memberID, mtype, end.Format("2006-01-02"))
	metrics.RecordMembership(string(mtype))

	c.JSON(http.StatusOK, renewed)
}

func withState(m Member, now time.Time) MemberWithState {
	state := StateNotStarted
	if m.MembershipStartDate != nil && m.MembershipEndDate != nil {
		state = Classify(now, *m.MembershipStartDate, *m.MembershipEndDate)
	}
	return MemberWithState{Member: m, MembershipState: state}
}
