package appointment

import "time"

const (
	// SlotDuration is the fixed length of every consultation at booking time.
	SlotDuration = 60 * time.Minute

	// RestBuffer is the mandatory rest period before a doctor's next
	// appointment, measured back from the proposed start.
	RestBuffer = 60 * time.Minute

	// MinLeadTime is the minimum advance notice between now and a proposed
	// start.
	MinLeadTime = 60 * time.Minute
)

// ConflictWindow returns the buffered window a proposed start is checked
// against: [start-RestBuffer, start+SlotDuration). The buffer is applied
// before the slot only; later bookings run their own check, so across the
// whole schedule every pair of scheduled appointments ends up at least
// RestBuffer apart.
func ConflictWindow(start time.Time) (windowStart, windowEnd time.Time) {
	return start.Add(-RestBuffer), start.Add(SlotDuration)
}

// Overlaps is the half-open interval test used for conflict detection:
// [aStart, aEnd) intersects [bStart, bEnd).
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// ValidateLeadTime rejects a proposed start closer than MinLeadTime to now.
func ValidateLeadTime(start, now time.Time) error {
	if start.Before(now.Add(MinLeadTime)) {
		return ErrLeadTimeTooShort
	}
	return nil
}
