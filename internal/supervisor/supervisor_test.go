package supervisor

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func waitAll(t *testing.T, s *Supervisor) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestGoReportsFirstError(t *testing.T) {
	t.Parallel()

	s := New(context.Background())
	s.Go("worker", func(ctx context.Context) error {
		return errors.New("boom")
	})
	waitAll(t, s)

	err := s.Err()
	if err == nil {
		t.Fatal("Err() = nil, want error")
	}
	if !strings.Contains(err.Error(), "worker") || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("Err() = %q, want name and cause", err)
	}
}

func TestCanceledIsNotAnError(t *testing.T) {
	t.Parallel()

	s := New(context.Background())
	s.Go("worker", func(ctx context.Context) error {
		return context.Canceled
	})
	waitAll(t, s)

	if err := s.Err(); err != nil {
		t.Fatalf("Err() = %v, want nil for context.Canceled", err)
	}
}

func TestCancelOnError(t *testing.T) {
	t.Parallel()

	s := New(context.Background(), WithCancelOnError(true))
	s.Go("healthy", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})
	s.Go("failing", func(ctx context.Context) error {
		return errors.New("boom")
	})
	waitAll(t, s)

	if s.Context().Err() == nil {
		t.Fatal("context not cancelled after first error")
	}
	if s.Err() == nil {
		t.Fatal("Err() = nil, want first error")
	}
}

func TestPanicRecovered(t *testing.T) {
	t.Parallel()

	s := New(context.Background(), WithCancelOnError(true))
	s.Go("panicky", func(ctx context.Context) error {
		panic("unexpected state")
	})
	waitAll(t, s)

	err := s.Err()
	if err == nil {
		t.Fatal("Err() = nil, want panic error")
	}
	if !strings.Contains(err.Error(), "panic in panicky") {
		t.Fatalf("Err() = %q, want panic wrapper", err)
	}
	if s.Context().Err() == nil {
		t.Fatal("context not cancelled after panic")
	}
}

func TestWaitHonorsDeadline(t *testing.T) {
	t.Parallel()

	s := New(context.Background())
	release := make(chan struct{})
	s.Go("stuck", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := s.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Wait = %v, want deadline exceeded", err)
	}

	close(release)
	waitAll(t, s)
}

func TestActiveCount(t *testing.T) {
	t.Parallel()

	s := New(context.Background())
	release := make(chan struct{})
	for i := 0; i < 3; i++ {
		s.Go0("worker", func(ctx context.Context) {
			<-release
		})
	}

	deadline := time.Now().Add(time.Second)
	for s.Active() != 3 {
		if time.Now().After(deadline) {
			t.Fatalf("Active() = %d, want 3", s.Active())
		}
		time.Sleep(time.Millisecond)
	}

	close(release)
	waitAll(t, s)
	if got := s.Active(); got != 0 {
		t.Fatalf("Active() = %d after exit, want 0", got)
	}
}
