package attendance

import "time"

type CheckIn struct {
	ID          int       `db:"id" json:"id"`
	GymID       int       `db:"gym_id" json:"gym_id"`
	MemberID    int       `db:"member_id" json:"member_id"`
	CheckedInAt time.Time `db:"checked_in_at" json:"checked_in_at"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type CheckInRequest struct {
	MemberID int `json:"member_id" binding:"required"`
}
