package habit

import (
	"log"
	"time"
)

// Recurrence rules a goal can carry.
const (
	RuleDaily   = "daily"
	RuleWeekly  = "weekly"
	Rule3xAWeek = "3x_a_week"
)

// endOfDay is the last representable millisecond of t's calendar date in loc.
func endOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, 999000000, loc)
}

func containsWeekday(days []time.Weekday, wd time.Weekday) bool {
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}

// NextDeadline computes the instant at which the goal's current obligation is
// considered missed. ref is "now" at goal creation and the completion instant
// right after a completion; afterCompletion tells those two cases apart for
// daily goals, where completing today must not re-trigger today's deadline.
func NextDeadline(rule string, targetDays []time.Weekday, ref time.Time, afterCompletion bool, loc *time.Location) time.Time {
	switch rule {
	case RuleDaily:
		if afterCompletion {
			return endOfDay(ref.In(loc).AddDate(0, 0, 1), loc)
		}
		return endOfDay(ref, loc)
	case RuleWeekly, Rule3xAWeek:
		local := ref.In(loc)
		for i := 1; i <= 7; i++ {
			day := local.AddDate(0, 0, i)
			if containsWeekday(targetDays, day.Weekday()) {
				return endOfDay(day, loc)
			}
		}
		// Only reachable with an empty target set, which callers validate
		// against. Wrap to the first configured weekday of the following
		// week if there is one.
		if len(targetDays) > 0 {
			day := local.AddDate(0, 0, 7)
			for day.Weekday() != targetDays[0] {
				day = day.AddDate(0, 0, 1)
			}
			return endOfDay(day, loc)
		}
		log.Printf("event=deadline_no_target_days rule=%s", rule)
		return ref.Add(24 * time.Hour)
	default:
		log.Printf("event=deadline_unknown_rule rule=%s", rule)
		return ref.Add(24 * time.Hour)
	}
}

// Weekdays converts stored weekday ints (0=Sunday .. 6=Saturday) to
// time.Weekday values.
func Weekdays(days []int) []time.Weekday {
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		out = append(out, time.Weekday(d))
	}
	return out
}
