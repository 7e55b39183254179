package habit

import (
	"fmt"
	"time"
)

// DateFormat is the local calendar date layout used everywhere a completion's
// "day" matters.
const DateFormat = "2006-01-02"

// LoadLocation resolves an IANA timezone identifier. The caller always
// supplies the zone explicitly; the engine never falls back to the ambient
// locale, so an empty identifier is rejected too.
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	return loc, nil
}

// LocalDate returns the calendar date of t as observed in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateFormat)
}

// SameLocalDay reports whether a and b fall on the same calendar date in loc.
func SameLocalDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

func parseLocalDate(date string) (time.Time, error) {
	return time.Parse(DateFormat, date)
}
