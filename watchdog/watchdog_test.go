// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package watchdog

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeClock is a hand-cranked Clock. After always hands back the same
// channel; the test fires it by sending, after moving now forward. The
// channel is buffered so a fire never blocks when the scheduler has
// already drained its heap and is not watching a timer.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
	ch  chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ch:  make(chan time.Time, 1),
	}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) After(time.Duration) <-chan time.Time { return c.ch }

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// fire wakes the scheduler as if the nearest deadline's timer expired.
func (c *fakeClock) fire() { c.ch <- c.Now() }

type fakeProc struct {
	mu     sync.Mutex
	alive  bool
	marked bool
	killed bool
}

func (p *fakeProc) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.alive
}

func (p *fakeProc) MarkTimedOut() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.marked = true
}

func (p *fakeProc) Kill() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.killed = true
	p.alive = false

	return nil
}

func (p *fakeProc) state() (marked, killed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.marked, p.killed
}

func TestWatchdog_KillsExpired(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newFakeClock()
	wd := New(clock)

	defer wd.Stop()

	p := &fakeProc{alive: true}
	wd.Enqueue(p, clock.Now().Add(time.Second))

	clock.advance(2 * time.Second)
	clock.fire()

	require.Eventually(t, func() bool {
		marked, killed := p.state()
		return marked && killed
	}, 5*time.Second, time.Millisecond, "expired process must be marked and killed")
}

func TestWatchdog_EarlierDeadlineRunsFirst(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newFakeClock()
	wd := New(clock)

	defer wd.Stop()

	far := &fakeProc{alive: true}
	near := &fakeProc{alive: true}

	wd.Enqueue(far, clock.Now().Add(time.Hour))
	wd.Enqueue(near, clock.Now().Add(time.Second))

	clock.advance(2 * time.Second)
	clock.fire()

	require.Eventually(t, func() bool {
		_, killed := near.state()
		return killed
	}, 5*time.Second, time.Millisecond)

	_, farKilled := far.state()
	assert.False(t, farKilled, "an entry whose deadline has not passed must survive")
	assert.True(t, far.Alive())
}

func TestWatchdog_SkipsExitedProcess(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := newFakeClock()
	wd := New(clock)

	defer wd.Stop()

	exited := &fakeProc{alive: false}
	running := &fakeProc{alive: true}

	wd.Enqueue(exited, clock.Now().Add(time.Second))
	wd.Enqueue(running, clock.Now().Add(time.Second))

	clock.advance(2 * time.Second)
	clock.fire()

	require.Eventually(t, func() bool {
		_, killed := running.state()
		return killed
	}, 5*time.Second, time.Millisecond)

	marked, killed := exited.state()
	assert.False(t, marked, "a process that already exited must not be marked timed out")
	assert.False(t, killed)
}

func TestWatchdog_StopWithoutStart(t *testing.T) {
	defer goleak.VerifyNone(t)

	wd := New(nil)
	wd.Stop()

	// Enqueue after Stop must not hang or start a goroutine.
	done := make(chan struct{})

	go func() {
		wd.Enqueue(&fakeProc{alive: true}, time.Now())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Enqueue blocked after Stop")
	}
}
