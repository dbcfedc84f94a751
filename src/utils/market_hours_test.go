package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fallbackIST() *TradingCalendar {
	return &TradingCalendar{
		Fallback: true,
		Timezone: time.FixedZone("IST", 5*3600+1800),
	}
}

func TestFallbackTradingDay(t *testing.T) {
	cal := fallbackIST()

	monday := time.Date(2025, 1, 6, 12, 0, 0, 0, cal.Timezone)
	saturday := time.Date(2025, 1, 4, 12, 0, 0, 0, cal.Timezone)
	sunday := time.Date(2025, 1, 5, 12, 0, 0, 0, cal.Timezone)

	assert.True(t, cal.IsTradingDay(monday))
	assert.False(t, cal.IsTradingDay(saturday))
	assert.False(t, cal.IsTradingDay(sunday))
}

func TestFallbackSessionWindow(t *testing.T) {
	cal := fallbackIST()
	day := func(hour, minute int) time.Time {
		return time.Date(2025, 1, 6, hour, minute, 0, 0, cal.Timezone)
	}

	tests := []struct {
		name string
		at   time.Time
		open bool
	}{
		{"before open", day(9, 14), false},
		{"at open", day(9, 15), true},
		{"midday", day(12, 0), true},
		{"last minute", day(15, 29), true},
		{"at close", day(15, 30), false},
		{"evening", day(18, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.open, cal.IsOpenOnMinute(tt.at))
		})
	}
}

func TestSessionWindowConvertsTimezone(t *testing.T) {
	cal := fallbackIST()

	// 05:00 UTC Monday is 10:30 IST, inside the session.
	utcMorning := time.Date(2025, 1, 6, 5, 0, 0, 0, time.UTC)
	assert.True(t, cal.IsOpenOnMinute(utcMorning))

	// 11:00 UTC is 16:30 IST, after close.
	utcAfternoon := time.Date(2025, 1, 6, 11, 0, 0, 0, time.UTC)
	assert.False(t, cal.IsOpenOnMinute(utcAfternoon))
}
