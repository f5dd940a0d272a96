package redisclient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) Locker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDoctorLocker(client, 5*time.Second)
}

func TestWithDoctorLockMutualExclusion(t *testing.T) {
	locker := newTestLocker(t)
	doctorID := uuid.New()

	err := locker.WithDoctorLock(context.Background(), doctorID, func(ctx context.Context) error {
		// a second attempt for the same doctor while the lock is held
		inner := locker.WithDoctorLock(ctx, doctorID, func(context.Context) error {
			t.Fatal("critical section entered twice")
			return nil
		})
		assert.ErrorIs(t, inner, ErrLockNotAcquired)
		return nil
	})
	require.NoError(t, err)

	// released on return, so it can be reacquired
	err = locker.WithDoctorLock(context.Background(), doctorID, func(context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}

func TestWithDoctorLockIndependentDoctors(t *testing.T) {
	locker := newTestLocker(t)

	err := locker.WithDoctorLock(context.Background(), uuid.New(), func(ctx context.Context) error {
		// a different doctor's schedule is not blocked
		return locker.WithDoctorLock(ctx, uuid.New(), func(context.Context) error {
			return nil
		})
	})
	assert.NoError(t, err)
}

func TestWithDoctorLockPropagatesError(t *testing.T) {
	locker := newTestLocker(t)
	boom := errors.New("boom")

	err := locker.WithDoctorLock(context.Background(), uuid.New(), func(context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestWithDoctorLockReleasedAfterError(t *testing.T) {
	locker := newTestLocker(t)
	doctorID := uuid.New()

	_ = locker.WithDoctorLock(context.Background(), doctorID, func(context.Context) error {
		return errors.New("boom")
	})

	err := locker.WithDoctorLock(context.Background(), doctorID, func(context.Context) error {
		return nil
	})
	assert.NoError(t, err, "lock must be released even when the critical section fails")
}
