package invoice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Next advances the tenant's invoice sequence by one. The upsert takes a
// row lock on the tenant's sequence row, so concurrent allocations for the
// same gym are serialized by the database and never return the same value.
func (r *repository) Next(ctx context.Context, gymID int) (int64, error) {
	var lastValue int64
	err := r.db.GetContext(ctx, &lastValue, `
		INSERT INTO invoice_sequences (gym_id, last_value)
		VALUES ($1, 1)
		ON CONFLICT (gym_id) DO UPDATE
		SET last_value = invoice_sequences.last_value + 1,
		    updated_at = NOW()
		RETURNING last_value
	`, gymID)
	return lastValue, err
}

func (r *repository) CreateInvoice(ctx context.Context, inv *Invoice, items []InvoiceItem) (*InvoiceWithItems, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	created := &Invoice{}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO invoices (gym_id, member_id, invoice_number, amount, due_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, gym_id, member_id, invoice_number, amount, due_date, created_at
	`, inv.GymID, inv.MemberID, inv.InvoiceNumber, inv.Amount, inv.DueDate).StructScan(created)
	if err != nil {
		return nil, err
	}

	result := &InvoiceWithItems{Invoice: *created}
	for _, item := range items {
		saved := InvoiceItem{}
		err = tx.QueryRowxContext(ctx, `
			INSERT INTO invoice_items (invoice_id, description, quantity, unit_price, amount)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, invoice_id, description, quantity, unit_price, amount
		`, created.ID, item.Description, item.Quantity, item.UnitPrice, item.Amount).StructScan(&saved)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, saved)
	}

	return result, tx.Commit()
}

func (r *repository) GetByNumber(ctx context.Context, gymID int, invoiceNumber string) (*InvoiceWithItems, error) {
	inv := &Invoice{}
	err := r.db.GetContext(ctx, inv, `
		SELECT id, gym_id, member_id, invoice_number, amount, due_date, created_at
		FROM invoices
		WHERE gym_id = $1 AND invoice_number = $2
	`, gymID, invoiceNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}

	result := &InvoiceWithItems{Invoice: *inv}
	err = r.db.SelectContext(ctx, &result.Items, `
		SELECT id, invoice_id, description, quantity, unit_price, amount
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY id
	`, inv.ID)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *repository) ListByGym(ctx context.Context, gymID int) ([]Invoice, error) {
	invoices := []Invoice{}
	err := r.db.SelectContext(ctx, &invoices, `
		SELECT id, gym_id, member_id, invoice_number, amount, due_date, created_at
		FROM invoices
		WHERE gym_id = $1
		ORDER BY id DESC
	`, gymID)
	return invoices, err
}
