package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lockwise/lockshop-backend/pkg/logger"
)

type fakeLock struct {
	held     bool
	acquires int
	releases int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	f.acquires++
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.held = false
	f.releases++
	return nil
}

type countingJob struct {
	name string
	err  error
	runs int
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

func newTestService(t *testing.T, lock Lock, jobs ...Job) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: NewRegistry(jobs...),
		Lock:     lock,
	})
	require.NoError(t, err)
	return svc
}

func TestSweepRunsEveryJobDespiteFailures(t *testing.T) {
	good := &countingJob{name: "cart-cleanup"}
	bad := &countingJob{name: "broken", err: errors.New("boom")}
	svc := newTestService(t, &fakeLock{}, bad, good)

	svc.sweep(context.Background())

	assert.Equal(t, 1, bad.runs, "failing job should still run once")
	assert.Equal(t, 1, good.runs, "job after a failure should still run")
}

func TestSweepSkipsWhenLockHeldElsewhere(t *testing.T) {
	job := &countingJob{name: "cart-cleanup"}
	lock := &fakeLock{held: true}
	svc := newTestService(t, lock, job)

	svc.sweep(context.Background())

	assert.Zero(t, job.runs)
	assert.Equal(t, 1, lock.acquires)
	assert.Zero(t, lock.releases, "lock we never held must not be released")
}

func TestSweepReleasesLockAfterRun(t *testing.T) {
	lock := &fakeLock{}
	svc := newTestService(t, lock, &countingJob{name: "cart-cleanup"})

	svc.sweep(context.Background())

	assert.False(t, lock.held)
	assert.Equal(t, 1, lock.releases)
}

func TestNewServiceRequiresLoggerAndLock(t *testing.T) {
	_, err := NewService(ServiceParams{Lock: &fakeLock{}})
	require.Error(t, err)

	_, err = NewService(ServiceParams{Logger: logger.New(logger.Options{ServiceName: "cron-test"})})
	require.Error(t, err)
}
