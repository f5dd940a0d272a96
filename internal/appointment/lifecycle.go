package appointment

import "time"

// The status machine only moves forward:
//
//	SCHEDULED -> CANCELLED
//	SCHEDULED -> COMPLETED
//
// CANCELLED and COMPLETED are terminal. Transitions out of a terminal state
// are rejected here, and again at the storage layer by compare-and-swap
// updates keyed on the SCHEDULED status.

// MarkCancelled moves a scheduled appointment to CANCELLED. Start and end
// times are untouched.
func (a *Appointment) MarkCancelled() error {
	if a.Status != StatusScheduled {
		return ErrAlreadyFinalized
	}
	a.Status = StatusCancelled
	return nil
}

// MarkCompleted moves a scheduled appointment to COMPLETED and overwrites
// EndTime with the actual consultation end, which may differ from the
// originally allocated 60-minute slot.
func (a *Appointment) MarkCompleted(endedAt time.Time) error {
	if a.Status != StatusScheduled {
		return ErrAlreadyFinalized
	}
	a.Status = StatusCompleted
	a.EndTime = endedAt
	return nil
}
