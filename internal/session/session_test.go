package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/eidqr/internal/card"
	apperr "github.com/youruser/eidqr/internal/errors"
	"github.com/youruser/eidqr/internal/export"
	"github.com/youruser/eidqr/internal/templates"
)

func newStore(idle time.Duration) *Store {
	reg := templates.Default()
	return NewStore(idle, func() (*card.State, *export.Exporter) {
		return card.New(reg, card.DefaultFirst), nil
	})
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestStore_CreateAndGet(t *testing.T) {
	s := newStore(time.Minute)
	sess := s.Create()

	got, err := s.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, s.Len())

	_, err = s.Get("missing")
	assert.True(t, apperr.Is(err, apperr.ErrCodeSessionNotFound))
}

func TestStore_SessionsAreIsolated(t *testing.T) {
	s := newStore(time.Minute)
	a, b := s.Create(), s.Create()
	require.NotEqual(t, a.ID, b.ID)

	_, err := a.Card.SelectTemplate("3")
	require.NoError(t, err)

	assert.Equal(t, "3", a.Card.Snapshot().Template.ID)
	assert.Equal(t, "1", b.Card.Snapshot().Template.ID)
}

func TestStore_GetOrCreate(t *testing.T) {
	s := newStore(time.Minute)

	first, created := s.GetOrCreate("")
	assert.True(t, created)

	again, created := s.GetOrCreate(first.ID)
	assert.False(t, created)
	assert.Same(t, first, again)

	_, created = s.GetOrCreate("stale-cookie")
	assert.True(t, created)
	assert.Equal(t, 2, s.Len())
}

func TestStore_Sweep(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s := newStore(10 * time.Minute)
	s.now = clock.now

	old := s.Create()
	clock.advance(8 * time.Minute)
	fresh := s.Create()
	clock.advance(5 * time.Minute)

	assert.Equal(t, 1, s.Sweep())
	_, err := s.Get(old.ID)
	assert.Error(t, err)
	_, err = s.Get(fresh.ID)
	assert.NoError(t, err)
}

func TestStore_GetKeepsSessionAlive(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1_700_000_000, 0)}
	s := newStore(10 * time.Minute)
	s.now = clock.now

	sess := s.Create()
	clock.advance(9 * time.Minute)
	_, err := s.Get(sess.ID)
	require.NoError(t, err)
	clock.advance(9 * time.Minute)

	assert.Zero(t, s.Sweep())
}

func TestStore_RunStopsWithContext(t *testing.T) {
	s := newStore(time.Nanosecond)
	s.Create()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return s.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
