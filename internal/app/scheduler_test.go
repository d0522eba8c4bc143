package app_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/rayanearaujoc/mefirstapp/internal/app"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSchedulerLifecycle(t *testing.T) {
	t.Parallel()

	s, err := app.NewScheduler(discardLogger())
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}

	if err := s.AddCronJob("noop", "0 0 4 * * *", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("AddCronJob failed: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := s.Start(); err == nil {
		t.Error("second Start must be rejected")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if err := s.Stop(); err != nil {
		t.Errorf("Stop on a stopped scheduler must be a no-op, got %v", err)
	}
}

// TestStopCancelsRunningTask schedules a task that blocks on its context
// and checks that Stop releases it.
func TestStopCancelsRunningTask(t *testing.T) {
	t.Parallel()

	s, err := app.NewScheduler(discardLogger())
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}

	var startedOnce, unblockedOnce sync.Once
	started := make(chan struct{})
	unblocked := make(chan struct{})

	task := func(ctx context.Context) error {
		startedOnce.Do(func() { close(started) })
		<-ctx.Done()
		unblockedOnce.Do(func() { close(unblocked) })
		return ctx.Err()
	}
	if err := s.AddCronJob("blocker", "* * * * * *", task); err != nil {
		t.Fatalf("AddCronJob failed: %v", err)
	}

	if err := s.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("task never started")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	select {
	case <-unblocked:
	case <-time.After(3 * time.Second):
		t.Fatal("task context was not cancelled on Stop")
	}
}

func TestAddCronJobInvalidSchedule(t *testing.T) {
	t.Parallel()

	s, err := app.NewScheduler(discardLogger())
	if err != nil {
		t.Fatalf("NewScheduler failed: %v", err)
	}

	if err := s.AddCronJob("broken", "not-a-schedule", func(context.Context) error { return nil }); err == nil {
		t.Error("invalid cron expression must be rejected")
	}
}
