package sdk

import (
	"context"
	"sync"
)

// SingleFlight coalesces concurrent executions of one logical operation.
// While a flight is outstanding every Run call joins it and observes the
// identical result; once it settles the record is cleared, so the next
// call starts a fresh execution. There is no queueing.
type SingleFlight[T any] struct {
	mu     sync.Mutex
	flight *flight[T]
}

type flight[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Run executes task at most once per in-flight window. The task receives
// ctx from whichever caller started the flight; joining callers still
// honor their own ctx while waiting.
func (s *SingleFlight[T]) Run(ctx context.Context, task func(ctx context.Context) (T, error)) (T, error) {
	s.mu.Lock()
	if s.flight != nil {
		f := s.flight
		s.mu.Unlock()
		return f.wait(ctx)
	}
	f := &flight[T]{done: make(chan struct{})}
	s.flight = f
	s.mu.Unlock()

	f.val, f.err = task(ctx)
	s.mu.Lock()
	s.flight = nil
	s.mu.Unlock()
	close(f.done)
	return f.val, f.err
}

func (f *flight[T]) wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
