package subscription

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionStatus string

const (
	StatusActive    SubscriptionStatus = "active"
	StatusExpired   SubscriptionStatus = "expired"
	StatusCancelled SubscriptionStatus = "cancelled"
)

// MonthlyAmount is the fixed rate of the app-access add-on. Every
// enrollment bills at this rate; there are no per-member prices.
var MonthlyAmount = decimal.RequireFromString("500.00")

// TermYears is the fixed enrollment term.
const TermYears = 1

// UserSubscription is the app-access add-on for one member. Owned by the
// tenant's subscription aggregate: created on enrollment, mutated on
// renew/cancel, never managed anywhere else.
type UserSubscription struct {
	ID            int                `db:"id" json:"id"`
	GymID         int                `db:"gym_id" json:"gym_id"`
	MemberID      int                `db:"member_id" json:"member_id"`
	Status        SubscriptionStatus `db:"status" json:"status"`
	MonthlyAmount decimal.Decimal    `db:"monthly_amount" json:"monthly_amount"`
	StartDate     time.Time          `db:"start_date" json:"start_date"`
	EndDate       time.Time          `db:"end_date" json:"end_date"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `db:"updated_at" json:"updated_at"`
}

type EnrollRequest struct {
	MemberID int `json:"member_id" binding:"required"`
}
