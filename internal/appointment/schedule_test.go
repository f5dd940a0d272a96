package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateLeadTime(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		start   time.Time
		wantErr error
	}{
		{"exactly one hour ahead", now.Add(60 * time.Minute), nil},
		{"well ahead", now.Add(24 * time.Hour), nil},
		{"one minute short", now.Add(59 * time.Minute), ErrLeadTimeTooShort},
		{"in the past", now.Add(-time.Minute), ErrLeadTimeTooShort},
		{"right now", now, ErrLeadTimeTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLeadTime(tt.start, now)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestConflictWindow(t *testing.T) {
	start := time.Date(2025, 3, 10, 11, 30, 0, 0, time.UTC)

	windowStart, windowEnd := ConflictWindow(start)

	require.Equal(t, start.Add(-60*time.Minute), windowStart)
	require.Equal(t, start.Add(60*time.Minute), windowEnd)
}

// The buffer is applied before the proposed slot only. Against an existing
// 10:00-11:00 appointment, a proposal at 11:30 collides (its window opens at
// 10:30) while a proposal at 12:01 does not (window opens at 11:01).
func TestConflictWindowBufferBoundary(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

	existingStart := at(10, 0)
	existingEnd := at(11, 0)

	tests := []struct {
		name         string
		proposed     time.Time
		wantConflict bool
	}{
		{"30 minutes after existing end", at(11, 30), true},
		{"exactly at buffer boundary", at(12, 0), false}, // half-open: end > windowStart fails at equality
		{"one minute past the buffer", at(12, 1), false},
		{"same slot", at(10, 0), true},
		{"inside existing slot", at(10, 30), true},
		// window [8:00, 10:00) ends exactly where the existing slot starts
		{"immediately before existing", at(9, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			windowStart, windowEnd := ConflictWindow(tt.proposed)
			got := Overlaps(existingStart, existingEnd, windowStart, windowEnd)
			assert.Equal(t, tt.wantConflict, got)
		})
	}
}

func TestOverlapsHalfOpen(t *testing.T) {
	base := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	// [10:00, 11:00) and [11:00, 12:00) share only the boundary instant
	assert.False(t, Overlaps(base, base.Add(time.Hour), base.Add(time.Hour), base.Add(2*time.Hour)))
	// one minute of real intersection
	assert.True(t, Overlaps(base, base.Add(time.Hour), base.Add(59*time.Minute), base.Add(2*time.Hour)))
}
