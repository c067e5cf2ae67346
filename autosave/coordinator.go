// Package autosave debounces and serializes background saves of a
// frequently edited document. At most one save is on the wire at a
// time; edits arriving mid-save collapse into a single queued follow-up
// carrying the latest payload. A failed save keeps its payload around
// for an explicit retry.
package autosave

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultDebounce is the quiet period after the last edit before a
// save fires.
const DefaultDebounce = 1200 * time.Millisecond

// Status describes the coordinator's save lifecycle.
type Status string

const (
	StatusIdle   Status = "idle"
	StatusSaving Status = "saving"
	StatusSaved  Status = "saved"
	StatusError  Status = "error"
)

// State is a point-in-time snapshot of the coordinator.
type State struct {
	Status Status
	// LastSavedAt is the completion time of the most recent successful
	// save; zero until one succeeds.
	LastSavedAt time.Time
	// Dirty reports whether edits exist that the server has not seen.
	Dirty bool
	// Err is the error of the most recent failed save, nil otherwise.
	Err error
}

// Config wires a coordinator.
type Config[T any] struct {
	// Save pushes one payload to the server. Called from the
	// coordinator's goroutine, never concurrently with itself.
	Save func(ctx context.Context, payload T) error
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
	// OnChange, when set, observes every state transition. Called
	// without internal locks held.
	OnChange func(State)
	Logger   zerolog.Logger
}

type task[T any] struct {
	payload  T
	revision uint64
}

// Coordinator owns the debounce timer and the in-flight/queued save
// pair. Construct with New; the zero value is not usable.
type Coordinator[T any] struct {
	cfg    Config[T]
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	timer    *time.Timer
	pending  *task[T]
	queued   *task[T]
	failed   *task[T]
	inFlight bool
	revision uint64
	// barrier marks the last Reset; outcomes of saves started at or
	// below it are ignored.
	barrier uint64
	state   State
}

// New returns a coordinator ready to accept edits.
func New[T any](cfg Config[T]) *Coordinator[T] {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator[T]{
		cfg:    cfg,
		ctx:    ctx,
		cancel: cancel,
		state:  State{Status: StatusIdle},
	}
}

// Snapshot returns the current state.
func (c *Coordinator[T]) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Schedule records an edit and restarts the debounce window. Only the
// payload of the last Schedule before the window elapses is saved.
func (c *Coordinator[T]) Schedule(payload T) {
	c.mu.Lock()
	c.revision++
	c.pending = &task[T]{payload: payload, revision: c.revision}
	c.state.Dirty = true
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.cfg.Debounce, c.fire)
	state := c.state
	c.mu.Unlock()
	c.notify(state)
}

func (c *Coordinator[T]) fire() {
	c.mu.Lock()
	t := c.pending
	c.pending = nil
	if t == nil {
		c.mu.Unlock()
		return
	}
	c.startOrQueueLocked(*t)
	state := c.state
	c.mu.Unlock()
	c.notify(state)
}

// Flush saves the pending edit immediately instead of waiting out the
// debounce window. No-op when nothing is pending.
func (c *Coordinator[T]) Flush() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	t := c.pending
	c.pending = nil
	if t == nil {
		c.mu.Unlock()
		return
	}
	c.startOrQueueLocked(*t)
	state := c.state
	c.mu.Unlock()
	c.notify(state)
}

// Retry re-dispatches the payload of the last failed save. No-op when
// nothing failed.
func (c *Coordinator[T]) Retry() {
	c.mu.Lock()
	t := c.failed
	if t == nil {
		c.mu.Unlock()
		return
	}
	c.failed = nil
	c.startOrQueueLocked(*t)
	state := c.state
	c.mu.Unlock()
	c.notify(state)
}

// Reset discards pending, queued, and failed work and returns to idle.
// Called when the document is deleted or published; an already
// in-flight save finishes but its outcome is ignored.
func (c *Coordinator[T]) Reset() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.pending = nil
	c.queued = nil
	c.failed = nil
	c.barrier = c.revision
	c.state = State{Status: StatusIdle}
	state := c.state
	c.mu.Unlock()
	c.notify(state)
}

// Close cancels any in-flight save and stops the timer.
func (c *Coordinator[T]) Close() {
	c.cancel()
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.mu.Unlock()
}

// startOrQueueLocked either launches the save or, when one is already
// in flight, parks the task as the single queued follow-up. A newer
// task always replaces an older queued one.
func (c *Coordinator[T]) startOrQueueLocked(t task[T]) {
	if c.inFlight {
		if c.queued == nil || t.revision >= c.queued.revision {
			c.queued = &t
		}
		return
	}
	c.inFlight = true
	c.state.Status = StatusSaving
	go c.run(t)
}

func (c *Coordinator[T]) run(t task[T]) {
	err := c.cfg.Save(c.ctx, t.payload)

	c.mu.Lock()
	c.inFlight = false
	if t.revision <= c.barrier {
		// Outcome of a save started before a Reset; drop it.
	} else if err != nil {
		c.failed = &t
		c.state.Status = StatusError
		c.state.Err = err
		c.cfg.Logger.Warn().Err(err).Msg("autosave failed")
	} else {
		c.failed = nil
		c.state.Status = StatusSaved
		c.state.LastSavedAt = time.Now()
		c.state.Err = nil
		if c.pending == nil && c.queued == nil {
			c.state.Dirty = false
		}
	}
	if q := c.queued; q != nil {
		c.queued = nil
		next := *q
		// The follow-up carries whatever the document looks like now. An
		// edit still sitting in the debounce window supersedes the parked
		// one; sending the parked payload would expose an intermediate
		// state the user has already typed past.
		if c.pending != nil && c.pending.revision > next.revision {
			if c.timer != nil {
				c.timer.Stop()
			}
			next = *c.pending
			c.pending = nil
		}
		c.inFlight = true
		c.state.Status = StatusSaving
		go c.run(next)
	}
	state := c.state
	c.mu.Unlock()
	c.notify(state)
}

func (c *Coordinator[T]) notify(state State) {
	if c.cfg.OnChange != nil {
		c.cfg.OnChange(state)
	}
}
