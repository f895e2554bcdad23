package services

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

func TestClassifyDeadline_NoBudgetMeansNoDeadline(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	info := ClassifyDeadline(created, null.Float64{}, created.Add(1000*time.Hour))

	assert.Equal(t, DeadlineNone, info.State)
	assert.Zero(t, info.DaysRemaining)
}

func TestClassifyDeadline_OnTrack(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	budget := null.Float64From(72)

	info := ClassifyDeadline(created, budget, created.Add(2*time.Hour))

	assert.Equal(t, DeadlineOnTrack, info.State)
	assert.Equal(t, 3, info.DaysRemaining)
}

func TestClassifyDeadline_DueTodayWithinLastDay(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	budget := null.Float64From(24)

	// One hour in: 23h remain, which is inside the final 24h window.
	info := ClassifyDeadline(created, budget, created.Add(1*time.Hour))

	assert.Equal(t, DeadlineDueToday, info.State)
}

func TestClassifyDeadline_Breached(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	budget := null.Float64From(24)

	info := ClassifyDeadline(created, budget, created.Add(25*time.Hour))

	assert.Equal(t, DeadlineBreached, info.State)
}

func TestClassifyDeadline_ExactBoundaryIsNotBreached(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	budget := null.Float64From(48)

	// now == deadline: not After, so still inside the budget.
	info := ClassifyDeadline(created, budget, created.Add(48*time.Hour))

	assert.Equal(t, DeadlineDueToday, info.State)
}

func TestClassifyDeadline_IsPure(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	budget := null.Float64From(100)
	now := created.Add(30 * time.Hour)

	first := ClassifyDeadline(created, budget, now)
	second := ClassifyDeadline(created, budget, now)

	assert.Equal(t, first, second)
}
