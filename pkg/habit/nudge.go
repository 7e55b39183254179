package habit

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// CooldownWindow is how long a sender must wait between nudges on the same
// goal.
const CooldownWindow = 60 * time.Minute

// CooldownExpiry is the expiry a fresh nudge sets for the (sender, goal) pair.
func CooldownExpiry(now time.Time) time.Time {
	return now.Add(CooldownWindow)
}

// CanSend reports whether the pair's cooldown has lapsed. A zero expiry means
// no cooldown was ever recorded.
func CanSend(expiry, now time.Time) bool {
	return expiry.IsZero() || expiry.Before(now)
}

// RemainingMinutes is the whole-minute ceiling of the time left on a cooldown,
// clamped to zero once expired. This is what the UI shows as "try again in Nm".
func RemainingMinutes(expiry, now time.Time) int {
	if !expiry.After(now) {
		return 0
	}
	return int(math.Ceil(float64(expiry.Sub(now)) / float64(time.Minute)))
}

// CheckSender rejects nudging one's own goal, independent of cooldown state.
func CheckSender(senderID, ownerID uuid.UUID) error {
	if senderID == ownerID {
		return ErrSelfNudge
	}
	return nil
}
