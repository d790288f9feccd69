package attendance

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

func (r *repository) CreateCheckIn(ctx context.Context, gymID, memberID int, at time.Time) (*CheckIn, error) {
	checkIn := &CheckIn{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO check_ins (gym_id, member_id, checked_in_at)
		VALUES ($1, $2, $3)
		RETURNING id, gym_id, member_id, checked_in_at, created_at
	`, gymID, memberID, at).StructScan(checkIn)

	return checkIn, err
}

func (r *repository) HasCheckInOnDay(ctx context.Context, gymID, memberID int, day time.Time) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS(
			SELECT 1 FROM check_ins
			WHERE gym_id = $1
			  AND member_id = $2
			  AND checked_in_at::date = $3::date
		)
	`, gymID, memberID, day)
	return exists, err
}

func (r *repository) ListByMember(ctx context.Context, gymID, memberID int, limit int) ([]CheckIn, error) {
	if limit <= 0 {
		limit = 50
	}

	checkIns := []CheckIn{}
	err := r.db.SelectContext(ctx, &checkIns, `
		SELECT id, gym_id, member_id, checked_in_at, created_at
		FROM check_ins
		WHERE gym_id = $1 AND member_id = $2
		ORDER BY checked_in_at DESC
		LIMIT $3
	`, gymID, memberID, limit)
	return checkIns, err
}

func (r *repository) CountForMemberInRange(ctx context.Context, gymID, memberID int, from, to time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM check_ins
		WHERE gym_id = $1
		  AND member_id = $2
		  AND checked_in_at >= $3
		  AND checked_in_at <= $4
	`, gymID, memberID, from, to)
	return count, err
}
