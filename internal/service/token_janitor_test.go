package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	mu     sync.Mutex
	calls  int
	maxAge time.Duration
	n      int64
	err    error
}

func (f *fakePurger) PurgeStale(_ context.Context, maxAge time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.maxAge = maxAge
	return f.n, f.err
}

func (f *fakePurger) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestNewTokenJanitor_Validation(t *testing.T) {
	_, err := NewTokenJanitor(TokenJanitorOptions{Interval: time.Minute, MaxAge: time.Hour})
	require.Error(t, err)

	_, err = NewTokenJanitor(TokenJanitorOptions{Purger: &fakePurger{}, MaxAge: time.Hour})
	require.Error(t, err)

	_, err = NewTokenJanitor(TokenJanitorOptions{Purger: &fakePurger{}, Interval: time.Minute})
	require.Error(t, err)
}

func TestTokenJanitor_PurgeOnce(t *testing.T) {
	purger := &fakePurger{n: 3}
	j, err := NewTokenJanitor(TokenJanitorOptions{Purger: purger, Interval: time.Minute, MaxAge: 48 * time.Hour})
	require.NoError(t, err)

	assert.Equal(t, int64(3), j.PurgeOnce(context.Background()))
	assert.Equal(t, 48*time.Hour, purger.maxAge)

	purger.err = errors.New("connection refused")
	assert.Zero(t, j.PurgeOnce(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Zero(t, j.PurgeOnce(ctx))
	assert.Equal(t, 2, purger.Calls(), "a cancelled context skips the purge")
}

func TestTokenJanitor_RunStopsOnCancel(t *testing.T) {
	purger := &fakePurger{err: errors.New("boom")}
	j, err := NewTokenJanitor(TokenJanitorOptions{Purger: purger, Interval: 20 * time.Millisecond, MaxAge: time.Hour})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	assert.Eventually(t, func() bool { return purger.Calls() >= 2 }, time.Second, 5*time.Millisecond,
		"purge keeps running despite errors")
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after context cancellation")
	}
}
