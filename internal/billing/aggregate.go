package billing

import (
	"errors"
	"time"

	"gymbill/internal/member"

	"github.com/shopspring/decimal"
)

var ErrUnknownMembershipType = errors.New("unknown membership type")

type BillingStatus string

const (
	StatusDraft       BillingStatus = "draft"
	StatusSent        BillingStatus = "sent"
	StatusPartialPaid BillingStatus = "partial_paid"
	StatusFullyPaid   BillingStatus = "fully_paid"
	StatusOverdue     BillingStatus = "overdue"
)

// billableTypes is the closed key set of the billing breakdown. Anything
// else, including "none", is a caller error.
var billableTypes = map[member.MembershipType]bool{
	member.TypeBasic:            true,
	member.TypePremium:          true,
	member.TypeVIP:              true,
	member.TypePersonalTraining: true,
}

// MemberBill is one member's snapshot line in a monthly billing.
type MemberBill struct {
	MemberID       int                   `json:"member_id"`
	MembershipType member.MembershipType `json:"membership_type"`
	MonthlyFee     decimal.Decimal       `json:"monthly_fee"`
}

type TypeBreakdown struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type AggregateResult struct {
	TotalBillAmount decimal.Decimal                         `json:"total_bill_amount"`
	Breakdown       map[member.MembershipType]TypeBreakdown `json:"breakdown"`
}

// Aggregate folds member bills into the tenant total and the per-type
// breakdown. Pure summation: calling it twice with the same input yields
// the same output.
func Aggregate(bills []MemberBill) (*AggregateResult, error) {
	result := &AggregateResult{
		TotalBillAmount: decimal.Zero,
		Breakdown:       make(map[member.MembershipType]TypeBreakdown),
	}

	for _, b := range bills {
		if !billableTypes[b.MembershipType] {
			return nil, ErrUnknownMembershipType
		}
		if b.MonthlyFee.IsNegative() {
			return nil, ErrInvalidAmount
		}

		result.TotalBillAmount = result.TotalBillAmount.Add(b.MonthlyFee)

		entry := result.Breakdown[b.MembershipType]
		entry.Count++
		entry.TotalAmount = entry.TotalAmount.Add(b.MonthlyFee)
		result.Breakdown[b.MembershipType] = entry
	}

	return result, nil
}

// Payment is one entry of the append-only payment ledger.
type Payment struct {
	Amount decimal.Decimal `db:"amount" json:"amount"`
	Method string          `db:"method" json:"method"`
	PaidAt time.Time       `db:"paid_at" json:"paid_at"`
}

type PaymentSummary struct {
	TotalPaidAmount    decimal.Decimal `json:"total_paid_amount"`
	TotalPendingAmount decimal.Decimal `json:"total_pending_amount"`
	TotalOverdueAmount decimal.Decimal `json:"total_overdue_amount"`
	Status             BillingStatus   `json:"status"`
}

// ApplyPayments folds the payment ledger against the billed total. Pending
// is floored at zero so overpayment never goes negative. The status is a
// pure function of the sums and the deadline; nothing is stored or mutated
// here, so repeated application is idempotent.
func ApplyPayments(totalBillAmount decimal.Decimal, payments []Payment, now, paymentDeadline time.Time) (PaymentSummary, error) {
	if totalBillAmount.IsNegative() {
		return PaymentSummary{}, ErrInvalidAmount
	}

	totalPaid := decimal.Zero
	for _, p := range payments {
		if p.Amount.IsNegative() {
			return PaymentSummary{}, ErrInvalidAmount
		}
		totalPaid = totalPaid.Add(p.Amount)
	}

	totalPending := totalBillAmount.Sub(totalPaid)
	if totalPending.IsNegative() {
		totalPending = decimal.Zero
	}

	var status BillingStatus
	switch {
	case totalPaid.GreaterThanOrEqual(totalBillAmount) && totalBillAmount.IsPositive():
		status = StatusFullyPaid
	case totalPaid.IsPositive():
		status = StatusPartialPaid
	default:
		status = StatusSent
	}

	overdue := decimal.Zero
	if (status == StatusSent || status == StatusPartialPaid) &&
		now.After(paymentDeadline) && totalPending.IsPositive() {
		status = StatusOverdue
		overdue = totalPending
	}

	return PaymentSummary{
		TotalPaidAmount:    totalPaid,
		TotalPendingAmount: totalPending,
		TotalOverdueAmount: overdue,
		Status:             status,
	}, nil
}
