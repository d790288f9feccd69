package gym

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateGym(ctx context.Context, name, code, currency, contactEmail string, paymentDeadlineDay int) (*Gym, error) {
	g := &Gym{}
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO gyms (name, code, currency, contact_email, payment_deadline_day)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, code, currency, contact_email, payment_deadline_day, created_at
	`, name, strings.ToUpper(code), strings.ToUpper(currency), contactEmail, paymentDeadlineDay).StructScan(g)

	return g, err
}

func (r *repository) GetGymByID(ctx context.Context, id int) (*Gym, error) {
	g := &Gym{}
	err := r.db.GetContext(ctx, g, `
		SELECT id, name, code, currency, contact_email, payment_deadline_day, created_at
		FROM gyms
		WHERE id = $1
	`, id)
	return g, err
}

func (r *repository) GetGymByCode(ctx context.Context, code string) (*Gym, error) {
	g := &Gym{}
	err := r.db.GetContext(ctx, g, `
		SELECT id, name, code, currency, contact_email, payment_deadline_day, created_at
		FROM gyms
		WHERE code = $1
	`, strings.ToUpper(code))
	return g, err
}

func (r *repository) GetAllGyms(ctx context.Context) ([]Gym, error) {
	gyms := []Gym{}
	err := r.db.SelectContext(ctx, &gyms, `
		SELECT id, name, code, currency, contact_email, payment_deadline_day, created_at
		FROM gyms
		ORDER BY created_at DESC
	`)
	return gyms, err
}

func (r *repository) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM gyms WHERE code = $1)`, strings.ToUpper(code))
	return exists, err
}
