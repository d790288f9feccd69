package billing

import (
	"time"

	"gymbill/internal/member"

	"github.com/shopspring/decimal"
)

// GymBilling is one tenant's billing aggregate for a calendar month. The
// total/paid/pending/overdue columns are caches of Aggregate+ApplyPayments
// over the snapshot and ledger rows; they are recomputed on every write,
// never updated independently.
type GymBilling struct {
	ID                 int             `db:"id" json:"id"`
	GymID              int             `db:"gym_id" json:"gym_id"`
	BillingYear        int             `db:"billing_year" json:"billing_year"`
	BillingMonth       int             `db:"billing_month" json:"billing_month"`
	TotalBillAmount    decimal.Decimal `db:"total_bill_amount" json:"total_bill_amount"`
	TotalPaidAmount    decimal.Decimal `db:"total_paid_amount" json:"total_paid_amount"`
	TotalPendingAmount decimal.Decimal `db:"total_pending_amount" json:"total_pending_amount"`
	TotalOverdueAmount decimal.Decimal `db:"total_overdue_amount" json:"total_overdue_amount"`
	BillingStatus      BillingStatus   `db:"billing_status" json:"billing_status"`
	PaymentDeadline    time.Time       `db:"payment_deadline" json:"payment_deadline"`
	IsFinalized        bool            `db:"is_finalized" json:"is_finalized"`
	FinalizedAt        *time.Time      `db:"finalized_at" json:"finalized_at,omitempty"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`
}

type MemberBillRow struct {
	ID             int                   `db:"id" json:"id"`
	BillingID      int                   `db:"billing_id" json:"billing_id"`
	MemberID       int                   `db:"member_id" json:"member_id"`
	MembershipType member.MembershipType `db:"membership_type" json:"membership_type"`
	MonthlyFee     decimal.Decimal       `db:"monthly_fee" json:"monthly_fee"`
}

type PaymentRow struct {
	ID        int             `db:"id" json:"id"`
	BillingID int             `db:"billing_id" json:"billing_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Method    string          `db:"method" json:"method"`
	PaidAt    time.Time       `db:"paid_at" json:"paid_at"`
}

// BillingDetail is the full read model: the aggregate row, the member
// snapshot, the payment ledger, and the derived per-type breakdown.
type BillingDetail struct {
	GymBilling
	MemberBills []MemberBillRow                         `json:"member_bills"`
	Payments    []PaymentRow                            `json:"payment_history"`
	Breakdown   map[member.MembershipType]TypeBreakdown `json:"billing_breakdown"`
}

type GenerateBillingRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

type RecordPaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
	Method string `json:"method" binding:"required,oneof=cash card transfer"`
}
