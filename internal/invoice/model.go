package invoice

import (
	"time"

	"github.com/shopspring/decimal"
)

type Invoice struct {
	ID            int             `db:"id" json:"id"`
	GymID         int             `db:"gym_id" json:"gym_id"`
	MemberID      *int            `db:"member_id" json:"member_id,omitempty"`
	InvoiceNumber string          `db:"invoice_number" json:"invoice_number"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	DueDate       time.Time       `db:"due_date" json:"due_date"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

type InvoiceItem struct {
	ID          int             `db:"id" json:"id"`
	InvoiceID   int             `db:"invoice_id" json:"invoice_id"`
	Description string          `db:"description" json:"description"`
	Quantity    int             `db:"quantity" json:"quantity"`
	UnitPrice   decimal.Decimal `db:"unit_price" json:"unit_price"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
}

type InvoiceWithItems struct {
	Invoice
	Items []InvoiceItem `json:"items"`
}

type CreateInvoiceItemRequest struct {
	Description string `json:"description" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
	UnitPrice   string `json:"unit_price" binding:"required"`
}

type CreateInvoiceRequest struct {
	MemberID *int                       `json:"member_id,omitempty"`
	DueDate  string                     `json:"due_date" binding:"required,datetime=2006-01-02"`
	Items    []CreateInvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}
