package member

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	CreateMember(ctx context.Context, m *Member) (*Member, error)
	GetMemberByID(ctx context.Context, gymID, id int) (*Member, error)
	ListByGym(ctx context.Context, gymID int) ([]Member, error)
	// ListBillableInRange returns members whose membership period overlaps
	// [from, to] and whose type is billable.
	ListBillableInRange(ctx context.Context, gymID int, from, to time.Time) ([]Member, error)
	ListExpiring(ctx context.Context, gymID int, now time.Time, within time.Duration) ([]Member, error)
	RenewMembership(ctx context.Context, gymID, id int, mtype MembershipType, fees decimal.Decimal, durationMonths int, start, end time.Time) (*Member, error)
}
