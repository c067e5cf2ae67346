package sdk

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleFlightCoalescesConcurrentCallers(t *testing.T) {
	var sf SingleFlight[string]
	var executions atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	task := func(ctx context.Context) (string, error) {
		executions.Add(1)
		close(started)
		<-release
		return "token-1", nil
	}

	var wg sync.WaitGroup
	results := make([]string, 4)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = sf.Run(context.Background(), task)
	}()
	<-started

	for i := 1; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Joiners must never execute the task themselves.
			results[i], _ = sf.Run(context.Background(), func(ctx context.Context) (string, error) {
				executions.Add(1)
				return "wrong", nil
			})
		}(i)
	}

	// Give the joiners a moment to attach before settling the flight.
	time.Sleep(50 * time.Millisecond)
	release <- struct{}{}
	wg.Wait()

	assert.Equal(t, int32(1), executions.Load())
	for _, r := range results {
		assert.Equal(t, "token-1", r)
	}
}

func TestSingleFlightErrorSharedByAllCallers(t *testing.T) {
	var sf SingleFlight[string]
	boom := errors.New("boom")
	_, err := sf.Run(context.Background(), func(ctx context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)
}

func TestSingleFlightClearsRecordAfterSettlement(t *testing.T) {
	var sf SingleFlight[int]
	var executions atomic.Int32
	task := func(ctx context.Context) (int, error) {
		return int(executions.Add(1)), nil
	}

	first, _ := sf.Run(context.Background(), task)
	second, _ := sf.Run(context.Background(), task)
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second, "sequential calls each run the task")
}

func TestSingleFlightJoinerHonorsOwnContext(t *testing.T) {
	var sf SingleFlight[string]
	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go func() {
		_, _ = sf.Run(context.Background(), func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "late", nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sf.Run(ctx, func(ctx context.Context) (string, error) {
		return "never", nil
	})
	require.ErrorIs(t, err, context.Canceled)
}
