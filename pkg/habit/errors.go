package habit

import "errors"

// Error taxonomy for the habit engine. Queries wrap these with the relevant
// ids via fmt.Errorf("%w: ...") so callers can branch with errors.Is.
var (
	ErrAlreadyCompletedToday = errors.New("goal already completed today")
	ErrFutureCompletion      = errors.New("completion date is in the future")
	ErrInvalidTimezone       = errors.New("invalid timezone identifier")
	ErrSelfNudge             = errors.New("cannot nudge your own goal")
	ErrNudgeCooldownActive   = errors.New("nudge cooldown still active")
	ErrGoalNotFound          = errors.New("goal not found")
	ErrStreakNotFound        = errors.New("streak not found")
	ErrCompletionNotFound    = errors.New("completion not found")
	ErrStreakIntegrity       = errors.New("streak state cannot be reconciled")
)
