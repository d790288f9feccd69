package subscription

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const subscriptionColumns = `id, gym_id, member_id, status, monthly_amount, start_date, end_date, created_at, updated_at`

func (r *repository) Enroll(ctx context.Context, gymID, memberID int, now time.Time) (*UserSubscription, error) {
	endDate := now.AddDate(TermYears, 0, 0)

	sub := &UserSubscription{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO user_subscriptions (gym_id, member_id, status, monthly_amount, start_date, end_date)
		VALUES ($1, $2, 'active', $3, $4, $5)
		RETURNING `+subscriptionColumns+`
	`, gymID, memberID, MonthlyAmount, now, endDate).StructScan(sub)

	return sub, err
}

func (r *repository) GetByID(ctx context.Context, gymID, id int) (*UserSubscription, error) {
	sub := &UserSubscription{}
	err := r.db.GetContext(ctx, sub, `
		SELECT `+subscriptionColumns+`
		FROM user_subscriptions
		WHERE gym_id = $1 AND id = $2
	`, gymID, id)
	return sub, err
}

// Renew extends the subscription a further term starting the day after the
// current end date, or from now when the subscription already lapsed.
func (r *repository) Renew(ctx context.Context, gymID, id int, now time.Time) (*UserSubscription, error) {
	current, err := r.GetByID(ctx, gymID, id)
	if err != nil {
		return nil, err
	}

	start := current.EndDate.AddDate(0, 0, 1)
	if now.After(current.EndDate) {
		start = now
	}
	endDate := start.AddDate(TermYears, 0, 0)

	sub := &UserSubscription{}
	err = r.db.QueryRowxContext(ctx, `
		UPDATE user_subscriptions
		SET status = 'active',
		    end_date = $1,
		    updated_at = NOW()
		WHERE gym_id = $2 AND id = $3
		RETURNING `+subscriptionColumns+`
	`, endDate, gymID, id).StructScan(sub)

	return sub, err
}

func (r *repository) Cancel(ctx context.Context, gymID, id int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE user_subscriptions
		SET status = 'cancelled',
		    updated_at = NOW()
		WHERE gym_id = $1 AND id = $2
	`, gymID, id)
	return err
}

func (r *repository) ListByMember(ctx context.Context, gymID, memberID int) ([]*UserSubscription, error) {
	subs := []*UserSubscription{}
	err := r.db.SelectContext(ctx, &subs, `
		SELECT `+subscriptionColumns+`
		FROM user_subscriptions
		WHERE gym_id = $1 AND member_id = $2
		ORDER BY created_at DESC
	`, gymID, memberID)
	return subs, err
}
