package sessions

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aegis-aio/shellder/internal/browser"
	"github.com/aegis-aio/shellder/internal/classifier"
	"github.com/aegis-aio/shellder/internal/logs"
	"github.com/aegis-aio/shellder/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newSession() *browser.Session {
	info := models.ContainerInfo{Name: "golbat", State: models.ContainerStateRunning}
	snap := logs.NewSnapshot("golbat", info, "ERROR one failed\nok\n", time.Now())
	return browser.NewSession(snap, classifier.New())
}

func TestPutGetDelete(t *testing.T) {
	var observed []int
	s := NewStore(time.Minute, WithObserver(func(n int) { observed = append(observed, n) }))

	info := s.Put(newSession())
	_, err := uuid.Parse(info.ID)
	require.NoError(t, err)
	assert.Equal(t, "golbat", info.Service)
	assert.Equal(t, 1, info.Entries)

	got, err := s.Get(info.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())

	require.NoError(t, s.Delete(info.ID))
	assert.ErrorIs(t, s.Delete(info.ID), ErrSessionNotFound)
	_, err = s.Get(info.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.Equal(t, []int{1, 0}, observed)
}

func TestExpiryAndSlidingTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	s := NewStore(10*time.Minute, WithClock(clock.Now))

	kept := s.Put(newSession())
	dropped := s.Put(newSession())

	clock.Advance(8 * time.Minute)
	_, err := s.Get(kept.ID)
	require.NoError(t, err)

	clock.Advance(8 * time.Minute)
	_, err = s.Get(kept.ID)
	require.NoError(t, err, "access extends the expiry")

	_, err = s.Get(dropped.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 1, s.Len())

	clock.Advance(11 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
	assert.Zero(t, s.Len())
}

func TestRunStopsWithContext(t *testing.T) {
	s := NewStore(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
