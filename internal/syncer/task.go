package syncer

import (
	"errors"
	"sync"

	"github.com/sourcegraph/conc"
)

// TaskState is the lifecycle state of the single background sync slot
type TaskState int

const (
	TaskIdle TaskState = iota
	TaskRunning
	TaskDone
	TaskFailed
)

// String returns a human-readable state name
func (s TaskState) String() string {
	switch s {
	case TaskIdle:
		return "idle"
	case TaskRunning:
		return "running"
	case TaskDone:
		return "done"
	case TaskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrAlreadyRunning is returned when a sync is requested while one is
// still in flight; the new request is rejected, not queued
var ErrAlreadyRunning = errors.New("a sync is already running")

// Task is a single-slot handle for a background operation. There is no
// cancellation: a running operation always finishes or fails on its own.
type Task struct {
	mu    sync.Mutex
	state TaskState
	err   error
	wg    conc.WaitGroup
}

// Start launches fn in the background. A second Start while the previous
// run is still active returns ErrAlreadyRunning.
func (t *Task) Start(fn func() error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state == TaskRunning {
		return ErrAlreadyRunning
	}

	t.state = TaskRunning
	t.err = nil

	t.wg.Go(func() {
		err := fn()

		t.mu.Lock()
		defer t.mu.Unlock()
		if err != nil {
			t.state = TaskFailed
			t.err = err
		} else {
			t.state = TaskDone
		}
	})

	return nil
}

// Wait blocks until the current run finishes and returns its error, if any
func (t *Task) Wait() error {
	t.wg.Wait()

	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// State returns the current lifecycle state
func (t *Task) State() TaskState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Err returns the failure of the last completed run, if any
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
