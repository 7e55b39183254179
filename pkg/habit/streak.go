package habit

import (
	"time"
)

// MilestoneThresholds are the streak lengths whose first crossing is recorded
// for celebration.
var MilestoneThresholds = []int{7, 14, 30, 50, 100, 180, 365}

// Milestone records the first crossing of a streak threshold.
type Milestone struct {
	Threshold  int       `json:"threshold"`
	ReachedAt  time.Time `json:"reached_at"`
	Celebrated bool      `json:"celebrated"`
}

// StreakState is the derived aggregate over a goal's completion history.
type StreakState struct {
	CurrentStreak int
	BestStreak    int
	BreakCount    int
	Milestones    []Milestone
}

// Completion is the slice of a completion event the streak engine needs: the
// local calendar date it counted for and the instant it was recorded.
type Completion struct {
	LocalDate string
	At        time.Time
}

// StreakAdvance is the outcome of applying one completion to a streak.
type StreakAdvance struct {
	State   StreakState
	Broke   bool
	Crossed []Milestone
}

// ValidateCompletion is the pre-write gate for a new completion: one per goal
// per local calendar date, and never on a future local date. existingDates is
// the goal's full active history, so a backdated completion landing on an
// older already-completed day is rejected the same as a same-day repeat. The
// database's partial unique index stays the authority under concurrency; this
// check catches duplicates before any state is touched.
func ValidateCompletion(newLocalDate string, existingDates []string, now time.Time, loc *time.Location) error {
	for _, d := range existingDates {
		if d == newLocalDate {
			return ErrAlreadyCompletedToday
		}
	}
	// ISO dates compare correctly as strings.
	if newLocalDate > LocalDate(now, loc) {
		return ErrFutureCompletion
	}
	return nil
}

// contiguous reports whether nextDate is exactly one period after prevDate:
// the following day for daily goals, the next qualifying target weekday for
// weekly and 3x-a-week goals.
func contiguous(rule string, targetDays []time.Weekday, prevDate, nextDate string) bool {
	prev, err := parseLocalDate(prevDate)
	if err != nil {
		return false
	}
	next, err := parseLocalDate(nextDate)
	if err != nil {
		return false
	}
	if !next.After(prev) {
		return false
	}

	switch rule {
	case RuleWeekly, Rule3xAWeek:
		if len(targetDays) == 0 {
			return false
		}
		for i := 1; i <= 7; i++ {
			day := prev.AddDate(0, 0, i)
			if containsWeekday(targetDays, day.Weekday()) {
				return day.Equal(next)
			}
		}
		return false
	default:
		return prev.AddDate(0, 0, 1).Equal(next)
	}
}

// AdvanceStreak applies one accepted completion to the streak. A contiguous
// completion (or the first ever) extends the streak; a gap records a break and
// restarts the streak at one. A streak already zeroed by a detected miss
// restarts without counting a second break. Newly crossed milestone thresholds
// are appended with the completion instant and celebrated=false.
func AdvanceStreak(state StreakState, rule string, targetDays []time.Weekday, prevLocalDate, newLocalDate string, at time.Time) StreakAdvance {
	adv := StreakAdvance{State: state}

	if prevLocalDate == "" || contiguous(rule, targetDays, prevLocalDate, newLocalDate) {
		adv.State.CurrentStreak++
	} else {
		if adv.State.CurrentStreak > 0 {
			adv.Broke = true
			adv.State.BreakCount++
		}
		adv.State.CurrentStreak = 1
	}
	if adv.State.CurrentStreak > adv.State.BestStreak {
		adv.State.BestStreak = adv.State.CurrentStreak
	}

	adv.Crossed = crossMilestones(&adv.State, at)
	return adv
}

func crossMilestones(state *StreakState, at time.Time) []Milestone {
	var crossed []Milestone
	for _, threshold := range MilestoneThresholds {
		if threshold > state.CurrentStreak {
			break
		}
		if hasMilestone(state.Milestones, threshold) {
			continue
		}
		m := Milestone{Threshold: threshold, ReachedAt: at}
		state.Milestones = append(state.Milestones, m)
		crossed = append(crossed, m)
	}
	return crossed
}

func hasMilestone(ms []Milestone, threshold int) bool {
	for _, m := range ms {
		if m.Threshold == threshold {
			return true
		}
	}
	return false
}

// ReplayStreak rebuilds streak state from the full ordered completion history.
// Reverting a completion that is not the most recent contiguous link cannot be
// undone with an incremental patch (bestStreak may point at a run that no
// longer exists), so reverts always replay. Celebrated flags from the prior
// milestone list survive for thresholds that are still crossed.
func ReplayStreak(rule string, targetDays []time.Weekday, completions []Completion, prior []Milestone) StreakState {
	var state StreakState
	prevDate := ""
	for _, c := range completions {
		adv := AdvanceStreak(state, rule, targetDays, prevDate, c.LocalDate, c.At)
		state = adv.State
		prevDate = c.LocalDate
	}

	for i := range state.Milestones {
		for _, p := range prior {
			if p.Threshold == state.Milestones[i].Threshold && p.Celebrated {
				state.Milestones[i].Celebrated = true
			}
		}
	}
	return state
}
