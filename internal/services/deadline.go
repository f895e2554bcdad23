package services

import (
	"math"
	"time"

	"github.com/aarondl/null/v8"
)

// DeadlineState classifies a card's remaining SLA time.
type DeadlineState string

const (
	DeadlineNone     DeadlineState = "NO_DEADLINE"
	DeadlineOnTrack  DeadlineState = "ON_TRACK"
	DeadlineDueToday DeadlineState = "DUE_TODAY"
	DeadlineBreached DeadlineState = "BREACHED"
)

// DeadlineInfo is derived on every read and never persisted, so it can
// never go stale. DaysRemaining is only meaningful for ON_TRACK.
type DeadlineInfo struct {
	State         DeadlineState
	DaysRemaining int
}

// ClassifyDeadline turns (creation time, SLA hours budget) into a
// classification against now. Pure: identical inputs always yield
// identical output, so callers may invoke it on every render.
func ClassifyDeadline(createdAt time.Time, allottedHours null.Float64, now time.Time) DeadlineInfo {
	if !allottedHours.Valid {
		return DeadlineInfo{State: DeadlineNone}
	}

	deadline := createdAt.Add(time.Duration(allottedHours.Float64 * float64(time.Hour)))
	if now.After(deadline) {
		return DeadlineInfo{State: DeadlineBreached}
	}

	remaining := deadline.Sub(now)
	if remaining < 24*time.Hour {
		return DeadlineInfo{State: DeadlineDueToday}
	}

	return DeadlineInfo{
		State:         DeadlineOnTrack,
		DaysRemaining: int(math.Ceil(remaining.Hours() / 24)),
	}
}
