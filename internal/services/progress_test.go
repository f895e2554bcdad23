package services

import (
	"context"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/andimendes/zap-desk-engine/internal/entities"
)

func TestSummarizeTasks_CountsCompletion(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tasks := []entities.Task{
		{ID: 1, Done: true},
		{ID: 2, Done: false},
		{ID: 3, Done: false},
	}

	summary := SummarizeTasks(tasks, now)

	assert.Equal(t, 1, summary.Completed)
	assert.Equal(t, 3, summary.Total)
	assert.False(t, summary.HasOverdueOpenTask)
}

func TestSummarizeTasks_NoTasks(t *testing.T) {
	summary := SummarizeTasks(nil, time.Now())

	assert.Zero(t, summary.Completed)
	assert.Zero(t, summary.Total)
	assert.False(t, summary.HasOverdueOpenTask)
}

func TestSummarizeTasks_OverdueOpenTaskSetsFlag(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tasks := []entities.Task{
		{ID: 1, Done: false, DueAt: null.TimeFrom(now.Add(-time.Hour))},
		{ID: 2, Done: true, DueAt: null.TimeFrom(now.Add(-48 * time.Hour))},
	}

	summary := SummarizeTasks(tasks, now)

	assert.True(t, summary.HasOverdueOpenTask, "open overdue task must raise the flag")
}

func TestSummarizeTasks_DoneOverdueTaskDoesNotCount(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tasks := []entities.Task{
		{ID: 1, Done: true, DueAt: null.TimeFrom(now.Add(-time.Hour))},
	}

	summary := SummarizeTasks(tasks, now)

	assert.False(t, summary.HasOverdueOpenTask)
}

func TestProgressLedger_SummarizeAll(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	taskRepo := newFakeTaskRepo()
	taskRepo.tasks[10] = []entities.Task{
		{ID: 1, CardID: 10, Done: true},
		{ID: 2, CardID: 10, Done: false},
	}

	ledger := NewProgressLedger(taskRepo, zap.NewNop())
	ledger.now = func() time.Time { return now }

	summaries, err := ledger.SummarizeAll(context.Background(), entities.PipelineKindTicket, []int64{10, 20})
	require.NoError(t, err)

	assert.Equal(t, 1, summaries[10].Completed)
	assert.Equal(t, 2, summaries[10].Total)
	// A card without tasks still gets an entry so the board render
	// never misses a key.
	assert.Equal(t, 0, summaries[20].Total)
}
