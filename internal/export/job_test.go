package export

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJob_SuccessPath(t *testing.T) {
	job := NewJob()
	assert.Equal(t, StateIdle, job.State())

	want := &Artifact{Format: FormatMarkdown, Data: []byte("# CV")}
	got, err := job.Run(context.Background(), func(context.Context) (*Artifact, error) {
		assert.Equal(t, StateInProgress, job.State())
		return want, nil
	})

	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, StateSucceeded, job.State())

	artifact, jobErr := job.Result()
	assert.Same(t, want, artifact)
	assert.NoError(t, jobErr)

	require.NoError(t, job.Dismiss())
	assert.Equal(t, StateIdle, job.State())
}

func TestJob_FailureAndRetry(t *testing.T) {
	job := NewJob()
	boom := errors.New("boom")

	_, err := job.Run(context.Background(), func(context.Context) (*Artifact, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateFailed, job.State())

	artifact, jobErr := job.Result()
	assert.Nil(t, artifact)
	assert.ErrorIs(t, jobErr, boom)

	_, err = job.Run(context.Background(), func(context.Context) (*Artifact, error) { return &Artifact{}, nil })
	assert.ErrorIs(t, err, ErrInvalidTransition, "a failed job must be retried first")

	require.NoError(t, job.Retry())
	assert.Equal(t, StateIdle, job.State())

	_, err = job.Run(context.Background(), func(context.Context) (*Artifact, error) { return &Artifact{}, nil })
	require.NoError(t, err)
	assert.Equal(t, StateSucceeded, job.State())
}

func TestJob_InvalidTransitions(t *testing.T) {
	job := NewJob()

	assert.ErrorIs(t, job.Succeed(&Artifact{}), ErrInvalidTransition)
	assert.ErrorIs(t, job.Fail(errors.New("x")), ErrInvalidTransition)
	assert.ErrorIs(t, job.Retry(), ErrInvalidTransition)
	assert.ErrorIs(t, job.Dismiss(), ErrInvalidTransition)

	require.NoError(t, job.Start())
	assert.ErrorIs(t, job.Start(), ErrInvalidTransition)
	assert.ErrorIs(t, job.Retry(), ErrInvalidTransition)
	assert.Equal(t, StateInProgress, job.State())
}
