package member

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestComputeEndDate(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		days   int
		want   time.Time
	}{
		{"one month", day(2025, time.January, 15), 1, 0, day(2025, time.February, 14)},
		{"one month from first", day(2025, time.March, 1), 1, 0, day(2025, time.March, 31)},
		{"twelve months", day(2025, time.January, 1), 12, 0, day(2025, time.December, 31)},
		{"months plus days", day(2025, time.January, 15), 1, 10, day(2025, time.February, 24)},
		{"days only", day(2025, time.January, 1), 0, 30, day(2025, time.January, 30)},
		{"end of month overflow", day(2025, time.January, 31), 1, 0, day(2025, time.March, 2)},
		{"february leap year", day(2024, time.January, 31), 1, 0, day(2024, time.March, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeEndDate(tt.start, tt.months, tt.days))
		})
	}
}

func TestRenewalStart(t *testing.T) {
	end := day(2025, time.February, 14)
	assert.Equal(t, day(2025, time.February, 15), RenewalStart(end))

	// Renewal chains never double-cover a day.
	renewedEnd := ComputeEndDate(RenewalStart(end), 1, 0)
	assert.Equal(t, day(2025, time.March, 14), renewedEnd)
}

func TestClassify(t *testing.T) {
	start := day(2025, time.January, 1)
	end := day(2025, time.January, 31)

	tests := []struct {
		name string
		now  time.Time
		want MembershipState
	}{
		{"before start", day(2024, time.December, 31), StateNotStarted},
		{"on start", day(2025, time.January, 1), StateActive},
		{"mid period", day(2025, time.January, 15), StateActive},
		{"eight days before end", day(2025, time.January, 23), StateActive},
		{"seven days before end", day(2025, time.January, 24), StateExpiringSoon},
		{"on end date", day(2025, time.January, 31), StateExpiringSoon},
		{"day after end", day(2025, time.February, 1), StateExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.now, start, end))
		})
	}
}

func TestClassifyIgnoresTimeOfDay(t *testing.T) {
	start := day(2025, time.January, 1)
	end := day(2025, time.January, 31)

	lateOnEnd := time.Date(2025, time.January, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, StateExpiringSoon, Classify(lateOnEnd, start, end))

	earlyAfterEnd := time.Date(2025, time.February, 1, 0, 0, 1, 0, time.UTC)
	assert.Equal(t, StateExpired, Classify(earlyAfterEnd, start, end))
}

func TestMembershipTypeValidation(t *testing.T) {
	for _, mt := range []MembershipType{TypeNone, TypeBasic, TypePremium, TypeVIP, TypePersonalTraining} {
		assert.True(t, mt.IsValid(), "%s should be valid", mt)
	}
	assert.False(t, MembershipType("gold").IsValid())

	assert.False(t, TypeNone.Billable())
	assert.True(t, TypeBasic.Billable())
	assert.True(t, TypePersonalTraining.Billable())
}
