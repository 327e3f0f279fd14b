// Copyright (c) njharman 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package watchdog enforces wall-clock deadlines on spawned processes.
//
// A single goroutine owns a min-heap of (deadline, process) pairs. Producers
// hand entries over on a channel and never touch the heap, so the heap needs
// no lock. When the nearest deadline elapses the goroutine kills every
// expired process that is still running and marks it as timed out; the
// owning wait call decides how to report that.
package watchdog

import (
	"container/heap"
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/njharman/cuprum/internal/ctxlog"
)

// Process is the contract a watchdog entry must satisfy. It is implemented
// by command.Process.
type Process interface {
	// Alive reports whether the process has not yet been observed to exit.
	Alive() bool
	// MarkTimedOut labels the process as killed by deadline.
	MarkTimedOut()
	// Kill force-terminates the process. os.ErrProcessDone is expected when
	// the process is already gone.
	Kill() error
}

// Clock abstracts time for the scheduler so tests can substitute a fake.
type Clock interface {
	Now() time.Time
	// After behaves like time.After.
	After(d time.Duration) <-chan time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time                         { return time.Now() }
func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SystemClock is the real-time Clock used by Default.
var SystemClock Clock = systemClock{}

type entry struct {
	deadline time.Time
	proc     Process
}

type entryHeap []entry

func (h entryHeap) Len() int            { return len(h) }
func (h entryHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h entryHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *entryHeap) Push(x any)         { *h = append(*h, x.(entry)) }
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]

	return e
}

// Watchdog is a deadline scheduler. The zero value is not usable; construct
// with New.
type Watchdog struct {
	clock Clock
	in    chan entry
	quit  chan struct{}
	once  sync.Once
	wg    sync.WaitGroup
}

// New returns a Watchdog using the given clock. A nil clock means
// SystemClock. The worker goroutine starts on first Enqueue.
func New(clock Clock) *Watchdog {
	if clock == nil {
		clock = SystemClock
	}

	return &Watchdog{
		clock: clock,
		in:    make(chan entry),
		quit:  make(chan struct{}),
	}
}

var (
	defaultOnce sync.Once
	defaultWd   *Watchdog
)

// Default returns the process-wide watchdog, creating it on first use.
// It is never stopped.
func Default() *Watchdog {
	defaultOnce.Do(func() {
		defaultWd = New(nil)
	})

	return defaultWd
}

// Enqueue registers p to be killed at deadline if it is still running.
func (w *Watchdog) Enqueue(p Process, deadline time.Time) {
	w.once.Do(func() {
		w.wg.Add(1)

		go w.loop()
	})

	select {
	case w.in <- entry{deadline: deadline, proc: p}:
	case <-w.quit:
	}
}

// Stop terminates the worker goroutine. Pending entries are abandoned; any
// processes they refer to are left running. Intended for tests; Default is
// never stopped.
func (w *Watchdog) Stop() {
	w.once.Do(func() {}) // a never-started watchdog has no goroutine to stop

	select {
	case <-w.quit:
	default:
		close(w.quit)
	}

	w.wg.Wait()
}

func (w *Watchdog) loop() {
	defer w.wg.Done()

	ctx := ctxlog.New(context.Background(), nil)
	waiting := &entryHeap{}

	heap.Init(waiting)

	for {
		// Sleep until the nearest deadline, or indefinitely when empty.
		// A new entry with an earlier deadline wakes the loop early.
		var timerC <-chan time.Time

		if waiting.Len() > 0 {
			d := (*waiting)[0].deadline.Sub(w.clock.Now())
			if d < 0 {
				d = 0
			}

			timerC = w.clock.After(d)
		}

		select {
		case e := <-w.in:
			heap.Push(waiting, e)
		case <-timerC:
		case <-w.quit:
			return
		}

		w.reap(ctx, waiting)
	}
}

// reap kills every expired entry that is still running.
func (w *Watchdog) reap(ctx context.Context, waiting *entryHeap) {
	now := w.clock.Now()

	for waiting.Len() > 0 {
		head := (*waiting)[0]
		if head.deadline.After(now) {
			break
		}

		heap.Pop(waiting)

		if !head.proc.Alive() {
			continue
		}

		head.proc.MarkTimedOut()

		if err := head.proc.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			ctxlog.Debug(ctx, "watchdog kill failed", "error", err)
		}
	}
}
