package member

import "time"

type MembershipState string

const (
	StateNotStarted   MembershipState = "not_started"
	StateActive       MembershipState = "active"
	StateExpiringSoon MembershipState = "expiring_soon"
	StateExpired      MembershipState = "expired"
)

// ExpiringSoonWindow is how close to the end date a membership counts as
// expiring_soon.
const ExpiringSoonWindow = 7 * 24 * time.Hour

// ComputeEndDate derives the last covered day of a membership period:
// start plus durationMonths calendar months plus durationDays days, minus
// one day. The end date is inclusive, so a one-month membership starting
// Jan 15 ends Feb 14.
func ComputeEndDate(start time.Time, durationMonths, durationDays int) time.Time {
	return start.AddDate(0, durationMonths, durationDays).AddDate(0, 0, -1)
}

// RenewalStart is the first day of the period that follows an inclusive end
// date. Starting renewal on the end date itself would cover that day twice.
func RenewalStart(end time.Time) time.Time {
	return end.AddDate(0, 0, 1)
}

// Classify derives the membership state from explicit inputs only. Callers
// pass now so results are deterministic; comparisons are at day granularity.
func Classify(now, start, end time.Time) MembershipState {
	nowDay := dateOnly(now)
	startDay := dateOnly(start)
	endDay := dateOnly(end)

	if nowDay.Before(startDay) {
		return StateNotStarted
	}
	if nowDay.After(endDay) {
		return StateExpired
	}
	if endDay.Sub(nowDay) <= ExpiringSoonWindow {
		return StateExpiringSoon
	}
	return StateActive
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
