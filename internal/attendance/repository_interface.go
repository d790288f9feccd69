package attendance

import (
	"context"
	"time"
)

type Repository interface {
	CreateCheckIn(ctx context.Context, gymID, memberID int, at time.Time) (*CheckIn, error)
	HasCheckInOnDay(ctx context.Context, gymID, memberID int, day time.Time) (bool, error)
	ListByMember(ctx context.Context, gymID, memberID int, limit int) ([]CheckIn, error)
	CountForMemberInRange(ctx context.Context, gymID, memberID int, from, to time.Time) (int, error)
}
