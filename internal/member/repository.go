package member

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrMemberNotFound = errors.New("member not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const memberColumns = `id, gym_id, name, email, phone, membership_type, membership_fees,
	membership_duration, membership_start_date, membership_end_date, join_date,
	total_spent, created_at, updated_at`

func (r *repository) CreateMember(ctx context.Context, m *Member) (*Member, error) {
	created := &Member{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO members (gym_id, name, email, phone, membership_type, membership_fees,
			membership_duration, membership_start_date, membership_end_date, join_date, total_spent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+memberColumns+`
	`, m.GymID, m.Name, m.Email, m.Phone, m.MembershipType, m.MembershipFees,
		m.MembershipDuration, m.MembershipStartDate, m.MembershipEndDate, m.JoinDate, m.TotalSpent,
	).StructScan(created)

	return created, err
}

func (r *repository) GetMemberByID(ctx context.Context, gymID, id int) (*Member, error) {
	m := &Member{}
	err := r.db.GetContext(ctx, m, `
		SELECT `+memberColumns+`
		FROM members
		WHERE gym_id = $1 AND id = $2
	`, gymID, id)
	return m, err
}

func (r *repository) ListByGym(ctx context.Context, gymID int) ([]Member, error) {
	members := []Member{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT `+memberColumns+`
		FROM members
		WHERE gym_id = $1
		ORDER BY created_at DESC
	`, gymID)
	return members, err
}

func (r *repository) ListBillableInRange(ctx context.Context, gymID int, from, to time.Time) ([]Member, error) {
	members := []Member{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT `+memberColumns+`
		FROM members
		WHERE gym_id = $1
		  AND membership_type <> 'none'
		  AND membership_start_date IS NOT NULL
		  AND membership_end_date IS NOT NULL
		  AND membership_start_date <= $2
		  AND membership_end_date >= $3
		ORDER BY id
	`, gymID, to, from)
	return members, err
}

func (r *repository) ListExpiring(ctx context.Context, gymID int, now time.Time, within time.Duration) ([]Member, error) {
	// membership_end_date is a DATE, so the window is compared at day
	// granularity; a member whose end date is today is still expiring,
	// not expired, matching Classify.
	day := dateOnly(now)

	members := []Member{}
	err := r.db.SelectContext(ctx, &members, `
		SELECT `+memberColumns+`
		FROM members
		WHERE gym_id = $1
		  AND membership_end_date IS NOT NULL
		  AND membership_end_date >= $2
		  AND membership_end_date <= $3
		ORDER BY membership_end_date
	`, gymID, day, day.Add(within))
	return members, err
}

func (r *repository) RenewMembership(ctx context.Context, gymID, id int, mtype MembershipType, fees decimal.Decimal, durationMonths int, start, end time.Time) (*Member, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	m := &Member{}
	err = tx.QueryRowxContext(ctx, `
		UPDATE members
		SET membership_type = $1,
		    membership_fees = $2,
		    membership_duration = $3,
		    membership_start_date = $4,
		    membership_end_date = $5,
		    total_spent = total_spent + $2,
		    updated_at = NOW()
		WHERE gym_id = $6 AND id = $7
		RETURNING `+memberColumns+`
	`, mtype, fees, durationMonths, start, end, gymID, id).StructScan(m)
	if err != nil {
		return nil, err
	}

	return m, tx.Commit()
}
