package service

import "time"

const (
	// DefaultGraceHour is the clock hour before which activity is attributed
	// to the previous calendar day, accommodating late-night check-ins.
	DefaultGraceHour = 3

	// LocalDateLayout is the calendar-day format all computations key on.
	LocalDateLayout = "2006-01-02"
)

// ResolveLocalDate converts an instant into the calendar-day string it belongs
// to in the given IANA zone. Clock times before graceHour count toward the
// previous day. An unknown or empty timezone falls back silently to the UTC
// calendar date.
func ResolveLocalDate(timezone string, at time.Time, graceHour int) string {
	if graceHour < 0 || graceHour > 23 {
		graceHour = DefaultGraceHour
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil || timezone == "" {
		return at.UTC().Format(LocalDateLayout)
	}

	local := at.In(loc)
	if local.Hour() >= graceHour {
		return local.Format(LocalDateLayout)
	}

	// Step back one day through UTC midnight; stepping back in the
	// target zone would misbehave across DST transitions.
	y, m, d := local.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Format(LocalDateLayout)
}
