package habit

import (
	"fmt"
	"time"
)

// Traffic-light colors a goal can show.
const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
)

// Sort priorities, 1 = most urgent first.
const (
	PriorityUrgent  = 1
	PriorityWarning = 2
	PrioritySafe    = 3
)

const (
	criticalWindow = 2 * time.Hour
	warningWindow  = 6 * time.Hour
)

// Status is the urgency classification of a goal at a given instant. It is
// recomputed on every read; the persisted current_status column is only a
// list-rendering hint and never feeds back into this logic.
type Status struct {
	Color         string `json:"color"`
	Priority      int    `json:"priority"`
	Text          string `json:"text"`
	NudgeEligible bool   `json:"nudge_eligible"`
}

// Classify evaluates the goal state machine. Completed-today wins over
// everything, including a deeply overdue deadline.
func Classify(lastCompletedAt *time.Time, nextDeadline, now time.Time, loc *time.Location) Status {
	if lastCompletedAt != nil && SameLocalDay(*lastCompletedAt, now, loc) {
		return Status{Color: ColorGreen, Priority: PrioritySafe, Text: "Completed ✓", NudgeEligible: false}
	}

	if now.After(nextDeadline) {
		over := now.Sub(nextDeadline)
		days := int(over.Hours() / 24)
		if days >= 1 {
			return Status{Color: ColorRed, Priority: PriorityUrgent, Text: fmt.Sprintf("Overdue by %dd", days), NudgeEligible: true}
		}
		return Status{Color: ColorRed, Priority: PriorityUrgent, Text: fmt.Sprintf("Overdue by %dh", int(over.Hours())), NudgeEligible: true}
	}

	until := nextDeadline.Sub(now)
	if until < criticalWindow {
		return Status{Color: ColorRed, Priority: PriorityUrgent, Text: fmt.Sprintf("Due in %dm", int(until.Minutes())), NudgeEligible: true}
	}
	if until < warningWindow {
		return Status{Color: ColorYellow, Priority: PriorityWarning, Text: fmt.Sprintf("Due in %dh", int(until.Hours())), NudgeEligible: true}
	}
	return Status{Color: ColorGreen, Priority: PrioritySafe, Text: "Safe", NudgeEligible: false}
}

// Less orders two classified goals for display: ascending priority, then the
// sooner deadline.
func Less(a, b Status, aDeadline, bDeadline time.Time) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return aDeadline.Before(bDeadline)
}
