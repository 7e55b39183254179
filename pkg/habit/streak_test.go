package habit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func advanceAll(t *testing.T, rule string, targets []time.Weekday, dates []string) StreakState {
	t.Helper()
	var state StreakState
	prev := ""
	for _, d := range dates {
		at, err := time.Parse(DateFormat, d)
		require.NoError(t, err)
		adv := AdvanceStreak(state, rule, targets, prev, d, at)
		state = adv.State
		prev = d
	}
	return state
}

func TestAdvanceStreakDailyContiguous(t *testing.T) {
	state := advanceAll(t, RuleDaily, nil, []string{"2025-03-10", "2025-03-11", "2025-03-12"})
	assert.Equal(t, 3, state.CurrentStreak)
	assert.Equal(t, 3, state.BestStreak)
	assert.Equal(t, 0, state.BreakCount)
}

func TestAdvanceStreakDailyGap(t *testing.T) {
	state := advanceAll(t, RuleDaily, nil, []string{"2025-03-10", "2025-03-12"})
	assert.Equal(t, 1, state.CurrentStreak)
	assert.Equal(t, 1, state.BreakCount)
}

func TestAdvanceStreakBestSurvivesBreak(t *testing.T) {
	state := advanceAll(t, RuleDaily, nil, []string{
		"2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04",
		"2025-03-10", "2025-03-11",
	})
	assert.Equal(t, 2, state.CurrentStreak)
	assert.Equal(t, 4, state.BestStreak)
	assert.Equal(t, 1, state.BreakCount)
}

func TestAdvanceStreakWeeklyContiguity(t *testing.T) {
	targets := []time.Weekday{time.Monday, time.Wednesday, time.Friday}

	// 2025-03-10 is a Monday; Wednesday is the next target day.
	t.Run("next target day extends the streak", func(t *testing.T) {
		state := advanceAll(t, RuleWeekly, targets, []string{"2025-03-10", "2025-03-12", "2025-03-14"})
		assert.Equal(t, 3, state.CurrentStreak)
		assert.Equal(t, 0, state.BreakCount)
	})

	t.Run("skipping a target day breaks the streak", func(t *testing.T) {
		state := advanceAll(t, Rule3xAWeek, targets, []string{"2025-03-10", "2025-03-14"})
		assert.Equal(t, 1, state.CurrentStreak)
		assert.Equal(t, 1, state.BreakCount)
	})

	t.Run("the streak crosses the weekend to Monday", func(t *testing.T) {
		state := advanceAll(t, RuleWeekly, targets, []string{"2025-03-14", "2025-03-17"})
		assert.Equal(t, 2, state.CurrentStreak)
	})
}

func TestAdvanceStreakAfterMissReset(t *testing.T) {
	// A missed deadline already zeroed the streak and counted the break; the
	// next completion restarts at one without counting a second break.
	at := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	state := StreakState{CurrentStreak: 0, BestStreak: 4, BreakCount: 1}

	adv := AdvanceStreak(state, RuleDaily, nil, "2025-03-10", "2025-03-15", at)
	assert.False(t, adv.Broke)
	assert.Equal(t, 1, adv.State.CurrentStreak)
	assert.Equal(t, 1, adv.State.BreakCount)
	assert.Equal(t, 4, adv.State.BestStreak)
}

func TestAdvanceStreakMilestones(t *testing.T) {
	at := time.Date(2025, 3, 17, 8, 0, 0, 0, time.UTC)
	state := StreakState{CurrentStreak: 6, BestStreak: 6}

	adv := AdvanceStreak(state, RuleDaily, nil, "2025-03-16", "2025-03-17", at)
	require.Len(t, adv.Crossed, 1)
	assert.Equal(t, 7, adv.Crossed[0].Threshold)
	assert.Equal(t, at, adv.Crossed[0].ReachedAt)
	assert.False(t, adv.Crossed[0].Celebrated)

	// Already-recorded thresholds never re-cross.
	adv2 := AdvanceStreak(adv.State, RuleDaily, nil, "2025-03-17", "2025-03-18", at.AddDate(0, 0, 1))
	assert.Empty(t, adv2.Crossed)
	assert.Equal(t, 8, adv2.State.CurrentStreak)
}

func TestAdvanceStreakMultipleMilestonesAtOnce(t *testing.T) {
	// A streak restored to 15 with no milestone history crosses 7 and 14 together.
	at := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	state := StreakState{CurrentStreak: 14, BestStreak: 14}
	adv := AdvanceStreak(state, RuleDaily, nil, "2025-05-31", "2025-06-01", at)
	require.Len(t, adv.Crossed, 2)
	assert.Equal(t, 7, adv.Crossed[0].Threshold)
	assert.Equal(t, 14, adv.Crossed[1].Threshold)
}

func TestValidateCompletion(t *testing.T) {
	now := time.Date(2025, 3, 12, 22, 0, 0, 0, time.UTC)

	assert.NoError(t, ValidateCompletion("2025-03-12", []string{"2025-03-11"}, now, time.UTC))
	assert.NoError(t, ValidateCompletion("2025-03-12", nil, now, time.UTC))
	assert.ErrorIs(t, ValidateCompletion("2025-03-12", []string{"2025-03-11", "2025-03-12"}, now, time.UTC), ErrAlreadyCompletedToday)
	assert.ErrorIs(t, ValidateCompletion("2025-03-13", []string{"2025-03-12"}, now, time.UTC), ErrFutureCompletion)
}

func TestValidateCompletionBackdatedDuplicate(t *testing.T) {
	// A backdated sync landing on a day already completed earlier in the
	// history is a duplicate even though it is not the most recent day.
	now := time.Date(2025, 3, 12, 22, 0, 0, 0, time.UTC)
	history := []string{"2025-03-08", "2025-03-10", "2025-03-12"}

	assert.ErrorIs(t, ValidateCompletion("2025-03-10", history, now, time.UTC), ErrAlreadyCompletedToday)
	assert.ErrorIs(t, ValidateCompletion("2025-03-08", history, now, time.UTC), ErrAlreadyCompletedToday)
	assert.NoError(t, ValidateCompletion("2025-03-11", history, now, time.UTC))
}

func TestValidateCompletionTimezoneBoundary(t *testing.T) {
	// 01:00 UTC on the 13th is still the evening of the 12th in New York.
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	now := time.Date(2025, 3, 13, 1, 0, 0, 0, time.UTC)

	assert.ErrorIs(t, ValidateCompletion("2025-03-13", nil, now, ny), ErrFutureCompletion)
	assert.NoError(t, ValidateCompletion("2025-03-12", nil, now, ny))
}

func completionsFor(t *testing.T, dates ...string) []Completion {
	t.Helper()
	out := make([]Completion, 0, len(dates))
	for _, d := range dates {
		at, err := time.Parse(DateFormat, d)
		require.NoError(t, err)
		out = append(out, Completion{LocalDate: d, At: at.Add(9 * time.Hour)})
	}
	return out
}

func TestReplayStreakMatchesIncremental(t *testing.T) {
	dates := []string{"2025-03-01", "2025-03-02", "2025-03-03", "2025-03-05", "2025-03-06"}
	incremental := advanceAll(t, RuleDaily, nil, dates)
	replayed := ReplayStreak(RuleDaily, nil, completionsFor(t, dates...), nil)

	assert.Equal(t, incremental.CurrentStreak, replayed.CurrentStreak)
	assert.Equal(t, incremental.BestStreak, replayed.BestStreak)
	assert.Equal(t, incremental.BreakCount, replayed.BreakCount)
}

func TestReplayStreakBackfillHealsBreak(t *testing.T) {
	// Syncing the missing middle day turns two broken runs back into one.
	withGap := completionsFor(t, "2025-03-01", "2025-03-02", "2025-03-04", "2025-03-05")
	state := ReplayStreak(RuleDaily, nil, withGap, nil)
	require.Equal(t, 1, state.BreakCount)

	filled := completionsFor(t, "2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04", "2025-03-05")
	state = ReplayStreak(RuleDaily, nil, filled, nil)
	assert.Equal(t, 5, state.CurrentStreak)
	assert.Equal(t, 5, state.BestStreak)
	assert.Equal(t, 0, state.BreakCount)
}

func TestReplayStreakAfterMiddleRevert(t *testing.T) {
	// Five-day run; reverting the middle day splits it into two short runs.
	full := completionsFor(t, "2025-03-01", "2025-03-02", "2025-03-03", "2025-03-04", "2025-03-05")
	reverted := append(append([]Completion{}, full[:2]...), full[3:]...)

	state := ReplayStreak(RuleDaily, nil, reverted, nil)
	assert.Equal(t, 2, state.CurrentStreak)
	assert.Equal(t, 2, state.BestStreak)
	assert.Equal(t, 1, state.BreakCount)
}

func TestReplayStreakRollsBackBest(t *testing.T) {
	// A naive decrement would leave bestStreak at an unreachable 3.
	full := completionsFor(t, "2025-03-01", "2025-03-02", "2025-03-03")
	state := ReplayStreak(RuleDaily, nil, full[:2], nil)
	assert.Equal(t, 2, state.CurrentStreak)
	assert.Equal(t, 2, state.BestStreak)
}

func TestReplayStreakPreservesCelebratedFlags(t *testing.T) {
	var dates []string
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		dates = append(dates, day.AddDate(0, 0, i).Format(DateFormat))
	}
	prior := []Milestone{{Threshold: 7, ReachedAt: day.AddDate(0, 0, 6), Celebrated: true}}

	state := ReplayStreak(RuleDaily, nil, completionsFor(t, dates...), prior)
	require.Len(t, state.Milestones, 1)
	assert.Equal(t, 7, state.Milestones[0].Threshold)
	assert.True(t, state.Milestones[0].Celebrated)

	// Reverting below the threshold drops the milestone entirely.
	state = ReplayStreak(RuleDaily, nil, completionsFor(t, dates[:6]...), prior)
	assert.Empty(t, state.Milestones)
}

func TestReplayStreakEmptyHistory(t *testing.T) {
	state := ReplayStreak(RuleDaily, nil, nil, nil)
	assert.Zero(t, state.CurrentStreak)
	assert.Zero(t, state.BestStreak)
	assert.Zero(t, state.BreakCount)
	assert.Empty(t, state.Milestones)
}
