package syncer

import (
	"errors"
	"testing"
)

func TestTaskLifecycle(t *testing.T) {
	var task Task

	if task.State() != TaskIdle {
		t.Fatalf("expected a fresh task to be idle, got %v", task.State())
	}

	started := make(chan struct{})
	release := make(chan struct{})

	if err := task.Start(func() error {
		close(started)
		<-release
		return nil
	}); err != nil {
		t.Fatalf("failed to start task: %v", err)
	}

	<-started
	if task.State() != TaskRunning {
		t.Errorf("expected running state, got %v", task.State())
	}

	// The slot is taken while the first run is in flight
	if err := task.Start(func() error { return nil }); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}

	close(release)
	if err := task.Wait(); err != nil {
		t.Fatalf("unexpected task error: %v", err)
	}
	if task.State() != TaskDone {
		t.Errorf("expected done state, got %v", task.State())
	}
}

func TestTaskFailure(t *testing.T) {
	var task Task

	wantErr := errors.New("sync blew up")
	if err := task.Start(func() error { return wantErr }); err != nil {
		t.Fatalf("failed to start task: %v", err)
	}

	if err := task.Wait(); !errors.Is(err, wantErr) {
		t.Fatalf("expected the run's error, got %v", err)
	}
	if task.State() != TaskFailed {
		t.Errorf("expected failed state, got %v", task.State())
	}
	if !errors.Is(task.Err(), wantErr) {
		t.Errorf("expected Err to report the failure, got %v", task.Err())
	}
}

func TestTaskRestartAfterCompletion(t *testing.T) {
	var task Task

	if err := task.Start(func() error { return errors.New("first") }); err != nil {
		t.Fatalf("failed to start task: %v", err)
	}
	task.Wait()

	// A finished slot can be reused, and the old error is cleared
	if err := task.Start(func() error { return nil }); err != nil {
		t.Fatalf("failed to restart task: %v", err)
	}
	if err := task.Wait(); err != nil {
		t.Fatalf("expected clean second run, got %v", err)
	}
	if task.State() != TaskDone {
		t.Errorf("expected done state after restart, got %v", task.State())
	}
}

func TestTaskStateStrings(t *testing.T) {
	cases := map[TaskState]string{
		TaskIdle:    "idle",
		TaskRunning: "running",
		TaskDone:    "done",
		TaskFailed:  "failed",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
