package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cohortlab/channelscout/internal/domain"
)

var fastPolicy = Policy{
	MaxAttempts: 3,
	InitialWait: time.Millisecond,
	MaxWait:     5 * time.Millisecond,
	Multiplier:  2.0,
}

func TestDo_Success(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastPolicy, "test", func() (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 1, calls)
}

func TestDo_TransientThenSuccess(t *testing.T) {
	calls := 0
	got, err := Do(context.Background(), fastPolicy, "test", func() (int, error) {
		calls++
		if calls < 3 {
			return 0, domain.NewDomainErrorWithCause(domain.ErrCodeTransient, "503", domain.ErrTransient)
		}
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 3, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy, "test", func() (int, error) {
		calls++
		return 0, domain.ErrTransient
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.Equal(t, 3, calls)
}

func TestDo_FatalNotRetried(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), fastPolicy, "test", func() (int, error) {
		calls++
		return 0, domain.ErrQuotaExceeded
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrQuotaExceeded)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, fastPolicy, "test", func() (int, error) {
		return 0, domain.ErrTransient
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsRetriable(t *testing.T) {
	assert.True(t, IsRetriable(domain.ErrTransient))
	assert.True(t, IsRetriable(domain.NewDomainErrorWithCause(domain.ErrCodeTransient, "429", domain.ErrTransient)))
	assert.False(t, IsRetriable(domain.ErrQuotaExceeded))
	assert.False(t, IsRetriable(domain.ErrInvalidQuery))
	assert.False(t, IsRetriable(errors.New("plain")))
}

func TestBackoffSchedule(t *testing.T) {
	p := Policy{MaxAttempts: 5, InitialWait: time.Second, MaxWait: 5 * time.Second, Multiplier: 2.0}
	assert.Equal(t, time.Second, p.backoff(1))
	assert.Equal(t, 2*time.Second, p.backoff(2))
	assert.Equal(t, 4*time.Second, p.backoff(3))
	assert.Equal(t, 5*time.Second, p.backoff(4)) // capped
}
