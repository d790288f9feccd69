package attendance

import (
	"context"
	"errors"
	"time"

	"gymbill/internal/member"
)

var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrMembershipInactive = errors.New("membership is not active")
	ErrAlreadyCheckedIn   = errors.New("member already checked in today")
)

type Service interface {
	CheckIn(ctx context.Context, gymID, memberID int, now time.Time) (*CheckIn, error)
	GetMemberCheckIns(ctx context.Context, gymID, memberID int, limit int) ([]CheckIn, error)
	CountForMonth(ctx context.Context, gymID, memberID, year int, month time.Month) (int, error)
}

type service struct {
	attendanceRepo Repository
	memberRepo     member.Repository
}

func NewService(attendanceRepo Repository, memberRepo member.Repository) Service {
	return &service{
		attendanceRepo: attendanceRepo,
		memberRepo:     memberRepo,
	}
}

// CheckIn records a visit. Members without a started, unexpired membership
// are turned away; a member checks in at most once per day.
func (s *service) CheckIn(ctx context.Context, gymID, memberID int, now time.Time) (*CheckIn, error) {
	m, err := s.memberRepo.GetMemberByID(ctx, gymID, memberID)
	if err != nil {
		return nil, ErrMemberNotFound
	}

	if m.MembershipStartDate == nil || m.MembershipEndDate == nil {
		return nil, ErrMembershipInactive
	}

	switch member.Classify(now, *m.MembershipStartDate, *m.MembershipEndDate) {
	case member.StateNotStarted, member.StateExpired:
		return nil, ErrMembershipInactive
	}

	hasCheckIn, err := s.attendanceRepo.HasCheckInOnDay(ctx, gymID, memberID, now)
	if err != nil {
		return nil, err
	}
	if hasCheckIn {
		return nil, ErrAlreadyCheckedIn
	}

	return s.attendanceRepo.CreateCheckIn(ctx, gymID, memberID, now)
}

func (s *service) GetMemberCheckIns(ctx context.Context, gymID, memberID int, limit int) ([]CheckIn, error) {
	return s.attendanceRepo.ListByMember(ctx, gymID, memberID, limit)
}

func (s *service) CountForMonth(ctx context.Context, gymID, memberID, year int, month time.Month) (int, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return s.attendanceRepo.CountForMemberInRange(ctx, gymID, memberID, from, to)
}
