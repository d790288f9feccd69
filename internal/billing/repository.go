package billing

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrBillingNotFound  = errors.New("billing record not found")
	ErrBillingFinalized = errors.New("billing record is finalized")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const billingColumns = `id, gym_id, billing_year, billing_month, total_bill_amount,
	total_paid_amount, total_pending_amount, total_overdue_amount, billing_status,
	payment_deadline, is_finalized, finalized_at, created_at, updated_at`

func (r *repository) ReplaceForMonth(ctx context.Context, b *GymBilling, bills []MemberBill) (*GymBilling, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var finalized bool
	err = tx.GetContext(ctx, &finalized, `
		SELECT is_finalized
		FROM gym_billings
		WHERE gym_id = $1 AND billing_year = $2 AND billing_month = $3
		FOR UPDATE
	`, b.GymID, b.BillingYear, b.BillingMonth)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if finalized {
		return nil, ErrBillingFinalized
	}

	saved := &GymBilling{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO gym_billings (gym_id, billing_year, billing_month, total_bill_amount,
			total_paid_amount, total_pending_amount, total_overdue_amount, billing_status, payment_deadline)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (gym_id, billing_year, billing_month) DO UPDATE
		SET total_bill_amount    = EXCLUDED.total_bill_amount,
		    total_paid_amount    = EXCLUDED.total_paid_amount,
		    total_pending_amount = EXCLUDED.total_pending_amount,
		    total_overdue_amount = EXCLUDED.total_overdue_amount,
		    billing_status       = EXCLUDED.billing_status,
		    payment_deadline     = EXCLUDED.payment_deadline,
		    updated_at           = NOW()
		RETURNING `+billingColumns+`
	`, b.GymID, b.BillingYear, b.BillingMonth, b.TotalBillAmount,
		b.TotalPaidAmount, b.TotalPendingAmount, b.TotalOverdueAmount, b.BillingStatus, b.PaymentDeadline,
	).StructScan(saved)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM billing_member_bills WHERE billing_id = $1`, saved.ID)
	if err != nil {
		return nil, err
	}

	for _, bill := range bills {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO billing_member_bills (billing_id, member_id, membership_type, monthly_fee)
			VALUES ($1, $2, $3, $4)
		`, saved.ID, bill.MemberID, bill.MembershipType, bill.MonthlyFee)
		if err != nil {
			return nil, err
		}
	}

	return saved, tx.Commit()
}

func (r *repository) GetByMonth(ctx context.Context, gymID, year, month int) (*BillingDetail, error) {
	b := &GymBilling{}
	err := r.db.GetContext(ctx, b, `
		SELECT `+billingColumns+`
		FROM gym_billings
		WHERE gym_id = $1 AND billing_year = $2 AND billing_month = $3
	`, gymID, year, month)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBillingNotFound
		}
		return nil, err
	}

	detail := &BillingDetail{GymBilling: *b}

	err = r.db.SelectContext(ctx, &detail.MemberBills, `
		SELECT id, billing_id, member_id, membership_type, monthly_fee
		FROM billing_member_bills
		WHERE billing_id = $1
		ORDER BY member_id
	`, b.ID)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &detail.Payments, `
		SELECT id, billing_id, amount, method, paid_at
		FROM billing_payments
		WHERE billing_id = $1
		ORDER BY paid_at, id
	`, b.ID)
	if err != nil {
		return nil, err
	}

	agg, err := Aggregate(rowsToBills(detail.MemberBills))
	if err != nil {
		return nil, err
	}
	detail.Breakdown = agg.Breakdown

	return detail, nil
}

func (r *repository) AddPayment(ctx context.Context, gymID, year, month int, amount decimal.Decimal, method string, now time.Time) (*GymBilling, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	b := &GymBilling{}
	err = tx.QueryRowxContext(ctx, `
		SELECT `+billingColumns+`
		FROM gym_billings
		WHERE gym_id = $1 AND billing_year = $2 AND billing_month = $3
		FOR UPDATE
	`, gymID, year, month).StructScan(b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBillingNotFound
		}
		return nil, err
	}
	if b.IsFinalized {
		return nil, ErrBillingFinalized
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO billing_payments (billing_id, amount, method, paid_at)
		VALUES ($1, $2, $3, $4)
	`, b.ID, amount, method, now)
	if err != nil {
		return nil, err
	}

	payments := []Payment{}
	err = tx.SelectContext(ctx, &payments, `
		SELECT amount, method, paid_at
		FROM billing_payments
		WHERE billing_id = $1
	`, b.ID)
	if err != nil {
		return nil, err
	}

	summary, err := ApplyPayments(b.TotalBillAmount, payments, now, b.PaymentDeadline)
	if err != nil {
		return nil, err
	}

	updated := &GymBilling{}
	err = tx.QueryRowxContext(ctx, `
		UPDATE gym_billings
		SET total_paid_amount    = $1,
		    total_pending_amount = $2,
		    total_overdue_amount = $3,
		    billing_status       = $4,
		    updated_at           = NOW()
		WHERE id = $5
		RETURNING `+billingColumns+`
	`, summary.TotalPaidAmount, summary.TotalPendingAmount, summary.TotalOverdueAmount,
		summary.Status, b.ID,
	).StructScan(updated)
	if err != nil {
		return nil, err
	}

	return updated, tx.Commit()
}

func (r *repository) MarkSent(ctx context.Context, gymID, year, month int) (*GymBilling, error) {
	b := &GymBilling{}
	err := r.db.QueryRowxContext(ctx, `
		UPDATE gym_billings
		SET billing_status = 'sent',
		    updated_at = NOW()
		WHERE gym_id = $1 AND billing_year = $2 AND billing_month = $3
		  AND billing_status = 'draft'
		  AND is_finalized = FALSE
		RETURNING `+billingColumns+`
	`, gymID, year, month).StructScan(b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBillingNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *repository) Finalize(ctx context.Context, gymID, year, month int, now time.Time) (*GymBilling, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	b := &GymBilling{}
	err = tx.QueryRowxContext(ctx, `
		SELECT `+billingColumns+`
		FROM gym_billings
		WHERE gym_id = $1 AND billing_year = $2 AND billing_month = $3
		FOR UPDATE
	`, gymID, year, month).StructScan(b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBillingNotFound
		}
		return nil, err
	}
	if b.IsFinalized {
		return nil, ErrBillingFinalized
	}

	finalized := &GymBilling{}
	err = tx.QueryRowxContext(ctx, `
		UPDATE gym_billings
		SET is_finalized = TRUE,
		    finalized_at = $1,
		    updated_at = NOW()
		WHERE id = $2
		RETURNING `+billingColumns+`
	`, now, b.ID).StructScan(finalized)
	if err != nil {
		return nil, err
	}

	return finalized, tx.Commit()
}

func (r *repository) ListByGym(ctx context.Context, gymID int) ([]GymBilling, error) {
	billings := []GymBilling{}
	err := r.db.SelectContext(ctx, &billings, `
		SELECT `+billingColumns+`
		FROM gym_billings
		WHERE gym_id = $1
		ORDER BY billing_year DESC, billing_month DESC
	`, gymID)
	return billings, err
}

func rowsToBills(rows []MemberBillRow) []MemberBill {
	bills := make([]MemberBill, 0, len(rows))
	for _, row := range rows {
		bills = append(bills, MemberBill{
			MemberID:       row.MemberID,
			MembershipType: row.MembershipType,
			MonthlyFee:     row.MonthlyFee,
		})
	}
	return bills
}
