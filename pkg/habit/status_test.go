package habit

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClassifyCompletedTodayWins(t *testing.T) {
	now := time.Date(2025, 3, 12, 20, 0, 0, 0, time.UTC)

	// Deeply overdue, but completed earlier today: completion dominates.
	completed := time.Date(2025, 3, 12, 7, 0, 0, 0, time.UTC)
	deadline := now.Add(-72 * time.Hour)

	st := Classify(&completed, deadline, now, time.UTC)
	assert.Equal(t, ColorGreen, st.Color)
	assert.Equal(t, PrioritySafe, st.Priority)
	assert.Equal(t, "Completed ✓", st.Text)
	assert.False(t, st.NudgeEligible)
}

func TestClassifyCompletedYesterdayDoesNotWin(t *testing.T) {
	now := time.Date(2025, 3, 12, 1, 0, 0, 0, time.UTC)
	completed := time.Date(2025, 3, 11, 23, 0, 0, 0, time.UTC)
	deadline := now.Add(-2 * time.Hour)

	st := Classify(&completed, deadline, now, time.UTC)
	assert.Equal(t, ColorRed, st.Color)
	assert.True(t, st.NudgeEligible)
}

func TestClassifyStates(t *testing.T) {
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		deadline time.Time
		color    string
		priority int
		text     string
		eligible bool
	}{
		{"overdue by days", now.Add(-50 * time.Hour), ColorRed, PriorityUrgent, "Overdue by 2d", true},
		{"overdue by hours", now.Add(-5 * time.Hour), ColorRed, PriorityUrgent, "Overdue by 5h", true},
		{"critical", now.Add(45 * time.Minute), ColorRed, PriorityUrgent, "Due in 45m", true},
		{"due this instant", now, ColorRed, PriorityUrgent, "Due in 0m", true},
		{"warning", now.Add(3 * time.Hour), ColorYellow, PriorityWarning, "Due in 3h", true},
		{"exactly two hours is a warning", now.Add(2 * time.Hour), ColorYellow, PriorityWarning, "Due in 2h", true},
		{"safe", now.Add(20 * time.Hour), ColorGreen, PrioritySafe, "Safe", false},
		{"exactly six hours is safe", now.Add(6 * time.Hour), ColorGreen, PrioritySafe, "Safe", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := Classify(nil, tt.deadline, now, time.UTC)
			assert.Equal(t, tt.color, st.Color)
			assert.Equal(t, tt.priority, st.Priority)
			assert.Equal(t, tt.text, st.Text)
			assert.Equal(t, tt.eligible, st.NudgeEligible)
		})
	}
}

func TestStatusOrdering(t *testing.T) {
	now := time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)

	type item struct {
		name     string
		deadline time.Time
	}
	items := []item{
		{"safe", now.Add(30 * time.Hour)},
		{"overdue-late", now.Add(-1 * time.Hour)},
		{"warning", now.Add(4 * time.Hour)},
		{"overdue-early", now.Add(-10 * time.Hour)},
		{"critical", now.Add(30 * time.Minute)},
	}

	sort.SliceStable(items, func(i, j int) bool {
		a := Classify(nil, items[i].deadline, now, time.UTC)
		b := Classify(nil, items[j].deadline, now, time.UTC)
		return Less(a, b, items[i].deadline, items[j].deadline)
	})

	var names []string
	for _, it := range items {
		names = append(names, it.name)
	}
	// Urgent first; within equal priority the earlier deadline wins.
	assert.Equal(t, []string{"overdue-early", "overdue-late", "critical", "warning", "safe"}, names)
}
