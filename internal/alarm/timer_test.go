package alarm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarlovs/habitsync/internal/logging"
	"github.com/dkarlovs/habitsync/internal/models"
)

func triggered(id string, at time.Time) models.Habit {
	return models.Habit{ID: id, Name: id, NextTrigger: &at}
}

func waitFire(t *testing.T, ch <-chan models.Habit) models.Habit {
	t.Helper()
	select {
	case h := <-ch:
		return h
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reminder to fire")
	}
	panic("unreachable")
}

func assertSilent(t *testing.T, ch <-chan models.Habit, d time.Duration) {
	t.Helper()
	select {
	case h := <-ch:
		t.Fatalf("unexpected reminder for %s", h.ID)
	case <-time.After(d):
	}
}

func TestTimerScheduler_PastTriggerFiresImmediately(t *testing.T) {
	fired := make(chan models.Habit, 1)
	s := NewTimerScheduler(logging.Nop(), func(h models.Habit) { fired <- h })
	t.Cleanup(s.Stop)

	h := triggered("h1", time.Now().Add(-time.Hour))
	require.NoError(t, s.Schedule(context.Background(), h))

	got := waitFire(t, fired)
	assert.Equal(t, "h1", got.ID)
	assert.Empty(t, s.Pending())
}

func TestTimerScheduler_FutureTriggerFiresOnTime(t *testing.T) {
	fired := make(chan models.Habit, 1)
	s := NewTimerScheduler(logging.Nop(), func(h models.Habit) { fired <- h })
	t.Cleanup(s.Stop)

	h := triggered("h1", time.Now().Add(30*time.Millisecond))
	require.NoError(t, s.Schedule(context.Background(), h))
	assert.Equal(t, []string{"h1"}, s.Pending())

	got := waitFire(t, fired)
	assert.Equal(t, "h1", got.ID)
}

func TestTimerScheduler_RescheduleReplacesPriorTimer(t *testing.T) {
	fired := make(chan models.Habit, 2)
	s := NewTimerScheduler(logging.Nop(), func(h models.Habit) { fired <- h })
	t.Cleanup(s.Stop)

	ctx := context.Background()
	first := triggered("h1", time.Now().Add(50*time.Millisecond))
	first.Name = "first"
	require.NoError(t, s.Schedule(ctx, first))

	second := triggered("h1", time.Now().Add(100*time.Millisecond))
	second.Name = "second"
	require.NoError(t, s.Schedule(ctx, second))

	got := waitFire(t, fired)
	assert.Equal(t, "second", got.Name)
	assertSilent(t, fired, 150*time.Millisecond)
}

func TestTimerScheduler_CancelPreventsFire(t *testing.T) {
	fired := make(chan models.Habit, 1)
	s := NewTimerScheduler(logging.Nop(), func(h models.Habit) { fired <- h })
	t.Cleanup(s.Stop)

	ctx := context.Background()
	require.NoError(t, s.Schedule(ctx, triggered("h1", time.Now().Add(40*time.Millisecond))))
	require.NoError(t, s.Cancel(ctx, "h1"))

	assert.Empty(t, s.Pending())
	assertSilent(t, fired, 100*time.Millisecond)
}

func TestTimerScheduler_CancelUnknownIDIsNoOp(t *testing.T) {
	s := NewTimerScheduler(logging.Nop(), nil)
	assert.NoError(t, s.Cancel(context.Background(), "never-scheduled"))
}

func TestTimerScheduler_RejectsUnschedulableHabits(t *testing.T) {
	s := NewTimerScheduler(logging.Nop(), nil)
	ctx := context.Background()

	at := time.Now().Add(time.Hour)
	assert.Error(t, s.Schedule(ctx, models.Habit{NextTrigger: &at}))
	assert.Error(t, s.Schedule(ctx, models.Habit{ID: "h1"}))
	assert.Empty(t, s.Pending())
}

func TestTimerScheduler_PendingSortsIDs(t *testing.T) {
	s := NewTimerScheduler(logging.Nop(), nil)
	t.Cleanup(s.Stop)

	ctx := context.Background()
	at := time.Now().Add(time.Hour)
	require.NoError(t, s.Schedule(ctx, triggered("b", at)))
	require.NoError(t, s.Schedule(ctx, triggered("a", at)))
	require.NoError(t, s.Schedule(ctx, triggered("c", at)))

	assert.Equal(t, []string{"a", "b", "c"}, s.Pending())
}

func TestTimerScheduler_StopCancelsEverything(t *testing.T) {
	fired := make(chan models.Habit, 3)
	s := NewTimerScheduler(logging.Nop(), func(h models.Habit) { fired <- h })

	ctx := context.Background()
	require.NoError(t, s.Schedule(ctx, triggered("a", time.Now().Add(40*time.Millisecond))))
	require.NoError(t, s.Schedule(ctx, triggered("b", time.Now().Add(40*time.Millisecond))))

	s.Stop()

	assert.Empty(t, s.Pending())
	assertSilent(t, fired, 100*time.Millisecond)
}
