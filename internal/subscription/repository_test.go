package subscription

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "gym_id", "member_id", "status", "monthly_amount",
		"start_date", "end_date", "created_at", "updated_at",
	})
}

func TestEnroll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	now := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	end := now.AddDate(1, 0, 0)

	mock.ExpectQuery(`INSERT INTO user_subscriptions.*`).
		WithArgs(1, 5, MonthlyAmount, now, end).
		WillReturnRows(subRows().
			AddRow(1, 1, 5, "active", "500.00", now, end, time.Now(), time.Now()))

	sub, err := repo.Enroll(context.Background(), 1, 5, now)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
	assert.True(t, sub.MonthlyAmount.Equal(MonthlyAmount))
	assert.Equal(t, end, sub.EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewBeforeExpiry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	start := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	now := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)

	// Current term runs to Jan 10 2026; the new term starts the day after
	// and runs one further year.
	newEnd := end.AddDate(0, 0, 1).AddDate(1, 0, 0)

	mock.ExpectQuery(`SELECT .* FROM user_subscriptions\s+WHERE gym_id = \$1 AND id = \$2`).
		WithArgs(1, 3).
		WillReturnRows(subRows().
			AddRow(3, 1, 5, "active", "500.00", start, end, time.Now(), time.Now()))

	mock.ExpectQuery(`UPDATE user_subscriptions\s+SET status = 'active'`).
		WithArgs(newEnd, 1, 3).
		WillReturnRows(subRows().
			AddRow(3, 1, 5, "active", "500.00", start, newEnd, time.Now(), time.Now()))

	sub, err := repo.Renew(context.Background(), 1, 3, now)
	require.NoError(t, err)
	assert.Equal(t, newEnd, sub.EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenewAfterLapse(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	start := time.Date(2023, time.January, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	newEnd := now.AddDate(1, 0, 0)

	mock.ExpectQuery(`SELECT .* FROM user_subscriptions\s+WHERE gym_id = \$1 AND id = \$2`).
		WithArgs(1, 3).
		WillReturnRows(subRows().
			AddRow(3, 1, 5, "expired", "500.00", start, end, time.Now(), time.Now()))

	mock.ExpectQuery(`UPDATE user_subscriptions\s+SET status = 'active'`).
		WithArgs(newEnd, 1, 3).
		WillReturnRows(subRows().
			AddRow(3, 1, 5, "active", "500.00", start, newEnd, time.Now(), time.Now()))

	sub, err := repo.Renew(context.Background(), 1, 3, now)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, sub.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectExec(`UPDATE user_subscriptions\s+SET status = 'cancelled'`).
		WithArgs(1, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.Cancel(context.Background(), 1, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByMember(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM user_subscriptions\s+WHERE gym_id = \$1 AND member_id = \$2`).
		WithArgs(1, 5).
		WillReturnRows(subRows().
			AddRow(2, 1, 5, "active", "500.00", now, now.AddDate(1, 0, 0), now, now).
			AddRow(1, 1, 5, "cancelled", "500.00", now.AddDate(-2, 0, 0), now.AddDate(-1, 0, 0), now, now))

	subs, err := repo.ListByMember(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.Len(t, subs, 2)
	assert.Equal(t, StatusCancelled, subs[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
