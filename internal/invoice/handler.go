package invoice

import (
	"errors"
	"net/http"
	"time"

	"gymbill/internal/auth"
	"gymbill/internal/email"
	"gymbill/internal/gym"
	"gymbill/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service Service
}

func NewHandler(db *sqlx.DB, emailService *email.Service) *Handler {
	return &Handler{
		service: NewService(NewRepository(db), gym.NewRepository(db), emailService),
	}
}

// Create godoc
// @Summary      Create invoice
// @Description  Creates an invoice with the next sequential number for the
// @Description  authenticated gym.
// @Tags         invoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request body CreateInvoiceRequest true "Invoice data"
// @Success      201 {object} InvoiceWithItems
// @Failure      400 {object} api.ErrorResponse
// @Router       /invoices [post]
func (h *Handler) Create(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid due_date"})
		return
	}

	items := make([]InvoiceItem, 0, len(req.Items))
	for _, item := range req.Items {
		unitPrice, err := decimal.NewFromString(item.UnitPrice)
		if err != nil || unitPrice.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid unit price"})
			return
		}
		items = append(items, InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   unitPrice,
		})
	}

	created, err := h.service.CreateInvoice(c.Request.Context(), gymID, req.MemberID, items, dueDate)
	if err != nil {
		if errors.Is(err, ErrAllocationFailed) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not allocate invoice number, retry"})
			return
		}
		logger.Errorf("Failed to create invoice for gym %d: %v", gymID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create invoice"})
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Get godoc
// @Summary      Get invoice by number
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Param        number path string true "Invoice number"
// @Success      200 {object} InvoiceWithItems
// @Failure      404 {object} api.ErrorResponse
// @Router       /invoices/{number} [get]
func (h *Handler) Get(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	inv, err := h.service.GetInvoice(c.Request.Context(), gymID, c.Param("number"))
	if err != nil {
		if errors.Is(err, ErrInvoiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load invoice"})
		return
	}

	c.JSON(http.StatusOK, inv)
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} Invoice
// @Router       /invoices [get]
func (h *Handler) List(c *gin.Context) {
	gymID, ok := auth.GetGymID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	invoices, err := h.service.ListInvoices(c.Request.Context(), gymID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load invoices"})
		return
	}

	c.JSON(http.StatusOK, invoices)
}
