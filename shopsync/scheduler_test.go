package shopsync

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeLocker struct {
	held     bool
	acquired int
	released int
}

func (l *fakeLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context), bool, error) {
	if l.held {
		return nil, false, nil
	}
	l.acquired++
	return func(context.Context) { l.released++ }, true, nil
}

func TestRunOnce_PropagatesJobError(t *testing.T) {
	boom := errors.New("boom")
	sched := NewScheduler(nil, nil)

	err := sched.RunOnce(context.Background(), Job{
		Name: "order-sync",
		Run:  func(ctx context.Context) error { return boom },
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected job error to propagate, got %v", err)
	}
}

func TestRunOnce_EnforcesMaxDuration(t *testing.T) {
	sched := NewScheduler(nil, nil)

	err := sched.RunOnce(context.Background(), Job{
		Name:        "order-sync",
		MaxDuration: 10 * time.Millisecond,
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRunOnce_SkipsWhenLockHeldElsewhere(t *testing.T) {
	lock := &fakeLocker{held: true}
	sched := NewScheduler(nil, lock)

	ran := false
	err := sched.RunOnce(context.Background(), Job{
		Name: "order-sync",
		Run: func(ctx context.Context) error {
			ran = true
			return nil
		},
	})
	if err != nil {
		t.Fatalf("a skipped run is not an error, got %v", err)
	}
	if ran {
		t.Fatal("job must not run while another replica holds the lock")
	}
}

func TestRunOnce_ReleasesLockAfterRun(t *testing.T) {
	lock := &fakeLocker{}
	sched := NewScheduler(nil, lock)

	err := sched.RunOnce(context.Background(), Job{
		Name: "product-sync",
		Run:  func(ctx context.Context) error { return nil },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lock.acquired != 1 || lock.released != 1 {
		t.Fatalf("expected acquire/release once, got %d/%d", lock.acquired, lock.released)
	}
}
