package member

import (
	"time"

	"github.com/shopspring/decimal"
)

type MembershipType string

const (
	TypeNone             MembershipType = "none"
	TypeBasic            MembershipType = "basic"
	TypePremium          MembershipType = "premium"
	TypeVIP              MembershipType = "vip"
	TypePersonalTraining MembershipType = "personal_training"
)

// IsValid reports whether t is one of the known membership types.
func (t MembershipType) IsValid() bool {
	switch t {
	case TypeNone, TypeBasic, TypePremium, TypeVIP, TypePersonalTraining:
		return true
	}
	return false
}

// Billable reports whether members of this type appear in monthly billing.
func (t MembershipType) Billable() bool {
	return t.IsValid() && t != TypeNone
}

type Member struct {
	ID                  int             `db:"id" json:"id"`
	GymID               int             `db:"gym_id" json:"gym_id"`
	Name                string          `db:"name" json:"name"`
	Email               string          `db:"email" json:"email"`
	Phone               string          `db:"phone" json:"phone"`
	MembershipType      MembershipType  `db:"membership_type" json:"membership_type"`
	MembershipFees      decimal.Decimal `db:"membership_fees" json:"membership_fees"`
	MembershipDuration  int             `db:"membership_duration" json:"membership_duration"`
	MembershipStartDate *time.Time      `db:"membership_start_date" json:"membership_start_date,omitempty"`
	MembershipEndDate   *time.Time      `db:"membership_end_date" json:"membership_end_date,omitempty"`
	JoinDate            time.Time       `db:"join_date" json:"join_date"`
	TotalSpent          decimal.Decimal `db:"total_spent" json:"total_spent"`
	CreatedAt           time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at" json:"updated_at"`
}

type CreateMemberRequest struct {
	Name               string `json:"name" binding:"required"`
	Email              string `json:"email" binding:"required,email"`
	Phone              string `json:"phone"`
	MembershipType     string `json:"membership_type" binding:"required"`
	MembershipFees     string `json:"membership_fees"`
	MembershipDuration int    `json:"membership_duration" binding:"omitempty,min=1"`
	MembershipStart    string `json:"membership_start" binding:"omitempty,datetime=2006-01-02"`
}

type RenewMembershipRequest struct {
	MembershipType     string `json:"membership_type" binding:"required"`
	MembershipFees     string `json:"membership_fees" binding:"required"`
	MembershipDuration int    `json:"membership_duration" binding:"required,min=1"`
	ExtraDays          int    `json:"extra_days" binding:"omitempty,min=0"`
}

type MemberWithState struct {
	Member
	MembershipState MembershipState `json:"membership_state"`
}
