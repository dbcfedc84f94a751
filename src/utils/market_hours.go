package utils

import (
	"time"

	"github.com/scmhub/calendar"

	"ofs-monitor/src/logger"
)

// -----------------------------------------------------------------------------
// TradingCalendar calculates trading sessions using scmhub/calendar.
// -----------------------------------------------------------------------------

type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

// NewIndiaCalendar resolves the Indian market calendar (MIC xbom, the Bombay
// exchange; xnse as a second try). Both NSE and BSE keep the same session, so
// one calendar gates both collectors. When the library knows neither MIC, a
// fixed Mon-Fri 09:15-15:30 IST window is used instead.
func NewIndiaCalendar(log *logger.Logger) *TradingCalendar {
	istLoc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		istLoc = time.FixedZone("IST", 5*3600+1800)
	}

	for _, mic := range []string{"xbom", "xnse"} {
		if cal := calendar.GetCalendar(mic); cal != nil {
			return &TradingCalendar{Calendar: cal, Fallback: false, Timezone: cal.Loc}
		}
	}

	log.Warning("No calendar found for MICs xbom/xnse. Using simple fallback (Mon-Fri 09:15-15:30 IST).")
	return &TradingCalendar{Fallback: true, Timezone: istLoc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute checks if the market is open at a specific minute.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if tc.Fallback {
		if !tc.IsTradingDay(t) {
			return false
		}

		hour := t.Hour()
		minute := t.Minute()

		// 09:15 - 15:30 IST
		afterOpen := hour > 9 || (hour == 9 && minute >= 15)
		beforeClose := hour < 15 || (hour == 15 && minute < 30)
		return afterOpen && beforeClose
	}

	return tc.Calendar.IsOpen(t)
}
