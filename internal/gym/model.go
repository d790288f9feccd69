package gym

import "time"

// Gym is one tenant of the CRM. Code prefixes the tenant's invoice numbers
// and must be unique across tenants.
type Gym struct {
	ID                 int       `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Code               string    `db:"code" json:"code"`
	Currency           string    `db:"currency" json:"currency"`
	ContactEmail       string    `db:"contact_email" json:"contact_email"`
	PaymentDeadlineDay int       `db:"payment_deadline_day" json:"payment_deadline_day"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

type CreateGymRequest struct {
	Name               string `json:"name" binding:"required"`
	Code               string `json:"code" binding:"required,min=2,max=8,alphanum"`
	Currency           string `json:"currency" binding:"required,len=3"`
	ContactEmail       string `json:"contact_email" binding:"required,email"`
	PaymentDeadlineDay int    `json:"payment_deadline_day" binding:"omitempty,min=1,max=28"`
}
