package subscription

import (
	"context"
	"time"
)

type Repository interface {
	Enroll(ctx context.Context, gymID, memberID int, now time.Time) (*UserSubscription, error)
	GetByID(ctx context.Context, gymID, id int) (*UserSubscription, error)
	Renew(ctx context.Context, gymID, id int, now time.Time) (*UserSubscription, error)
	Cancel(ctx context.Context, gymID, id int) error
	ListByMember(ctx context.Context, gymID, memberID int) ([]*UserSubscription, error)
}
