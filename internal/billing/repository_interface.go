package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	// ReplaceForMonth upserts the aggregate row for (gym, year, month) and
	// replaces the member snapshot. Fails with ErrBillingFinalized once the
	// month is finalized.
	ReplaceForMonth(ctx context.Context, b *GymBilling, bills []MemberBill) (*GymBilling, error)
	GetByMonth(ctx context.Context, gymID, year, month int) (*BillingDetail, error)
	// AddPayment appends to the payment ledger and recomputes the cached
	// totals and status under a row lock.
	AddPayment(ctx context.Context, gymID, year, month int, amount decimal.Decimal, method string, now time.Time) (*GymBilling, error)
	MarkSent(ctx context.Context, gymID, year, month int) (*GymBilling, error)
	Finalize(ctx context.Context, gymID, year, month int, now time.Time) (*GymBilling, error)
	ListByGym(ctx context.Context, gymID int) ([]GymBilling, error)
}
