package billing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDateRange = errors.New("invalid date range")
)

// MonthBounds returns the first and last day of a calendar month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// DaysInMonth returns the day count of a calendar month (28-31).
func DaysInMonth(year int, month time.Month) int {
	_, end := MonthBounds(year, month)
	return end.Day()
}

// ProratedCost computes the share of a fixed monthly fee attributable to a
// calendar month, given the subscription's active interval. Both interval
// endpoints are inclusive: a subscription starting and ending on the same
// day is active for one day. All arithmetic stays in decimal and rounds to
// two places exactly once, at the end, so a full-month overlap returns the
// monthly amount unchanged.
func ProratedCost(monthlyAmount decimal.Decimal, subStart, subEnd time.Time, year int, month time.Month) (decimal.Decimal, error) {
	if !monthlyAmount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}

	start := dateOnly(subStart)
	end := dateOnly(subEnd)
	if end.Before(start) {
		return decimal.Zero, ErrInvalidDateRange
	}

	monthStart, monthEnd := MonthBounds(year, month)

	activeStart := start
	if monthStart.After(activeStart) {
		activeStart = monthStart
	}
	activeEnd := end
	if monthEnd.Before(activeEnd) {
		activeEnd = monthEnd
	}

	if activeEnd.Before(activeStart) {
		return decimal.Zero, nil
	}

	daysActive := int(activeEnd.Sub(activeStart).Hours()/24) + 1
	daysInMonth := monthEnd.Day()

	cost := monthlyAmount.
		Mul(decimal.NewFromInt(int64(daysActive))).
		Div(decimal.NewFromInt(int64(daysInMonth))).
		Round(2)

	return cost, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
