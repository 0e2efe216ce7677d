package export

import (
	"context"
	"fmt"
	"sync"
)

// State is the lifecycle position of an export job.
type State string

// Job states
const (
	StateIdle       State = "idle"
	StateInProgress State = "in_progress"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Job tracks one user-facing export: idle, then in progress, then succeeded or failed.
// A failed job can be retried, which returns it to idle.
type Job struct {
	mu       sync.Mutex
	state    State
	artifact *Artifact
	err      error
}

// NewJob returns an idle job.
func NewJob() *Job {
	return &Job{state: StateIdle}
}

// State returns the current state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Result returns the artifact of a succeeded job or the error of a failed one.
func (j *Job) Result() (*Artifact, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.artifact, j.err
}

func (j *Job) transition(from, to State) error {
	if j.state != from {
		return fmt.Errorf("%w: %s -> %s (job is %s)", ErrInvalidTransition, from, to, j.state)
	}
	j.state = to
	return nil
}

// Start moves an idle job to in progress.
func (j *Job) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.transition(StateIdle, StateInProgress); err != nil {
		return err
	}
	j.artifact, j.err = nil, nil
	return nil
}

// Succeed records the artifact of an in-progress job.
func (j *Job) Succeed(a *Artifact) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.transition(StateInProgress, StateSucceeded); err != nil {
		return err
	}
	j.artifact = a
	return nil
}

// Fail records the error of an in-progress job.
func (j *Job) Fail(err error) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if terr := j.transition(StateInProgress, StateFailed); terr != nil {
		return terr
	}
	j.err = err
	return nil
}

// Retry returns a failed job to idle.
func (j *Job) Retry() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.transition(StateFailed, StateIdle); err != nil {
		return err
	}
	j.err = nil
	return nil
}

// Dismiss returns a succeeded job to idle once its artifact has been handed over.
func (j *Job) Dismiss() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if err := j.transition(StateSucceeded, StateIdle); err != nil {
		return err
	}
	j.artifact = nil
	return nil
}

// Run starts the job, runs fn and records its outcome.
func (j *Job) Run(ctx context.Context, fn func(context.Context) (*Artifact, error)) (*Artifact, error) {
	if err := j.Start(); err != nil {
		return nil, err
	}

	artifact, err := fn(ctx)
	if err != nil {
		_ = j.Fail(err)
		return nil, err
	}
	_ = j.Succeed(artifact)
	return artifact, nil
}
