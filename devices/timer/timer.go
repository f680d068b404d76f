// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package timer implements the system timer, which ticks Freq times per
// second, drives preemption and wakes sleeping threads.
//
// The timer runs in one of two modes.  In Virtual mode a tick is raised
// whenever the CPU would halt with nothing to do, so time only passes while
// every thread is blocked; runs are deterministic and fast.  In RealTime
// mode a time.Ticker raises a tick every 1/Freq seconds.
package timer

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/intr"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/klog"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/threads"
)

// Vector is the interrupt vector of the timer.
const Vector = 0

// DefaultFreq is the default number of timer interrupts per second.
const DefaultFreq = 100

// Frequencies outside [MinFreq, MaxFreq] are rejected.
const (
	MinFreq = 19
	MaxFreq = 1000
)

// Mode selects how ticks are generated.
type Mode int

const (
	Virtual  Mode = iota // tick whenever the CPU goes idle
	RealTime             // tick from a time.Ticker
)

func (m Mode) String() string {
	switch m {
	case Virtual:
		return "virtual"
	case RealTime:
		return "real-time"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Timer is the system timer.
type Timer struct {
	ic    *intr.Controller
	sched *threads.Scheduler
	freq  int
	mode  Mode
	log   *klog.Logger

	ticks int64 // accessed atomically

	mu     sync.Mutex
	ticker *time.Ticker  // guarded by mu
	stop   chan struct{} // guarded by mu
	wg     sync.WaitGroup
}

// New returns a timer that ticks freq times per second and reports ticks
// to sched.  freq must lie in [MinFreq, MaxFreq].
func New(ic *intr.Controller, sched *threads.Scheduler, freq int, mode Mode) (*Timer, error) {
	if freq < MinFreq || freq > MaxFreq {
		return nil, fmt.Errorf("timer: frequency %d outside [%d, %d]", freq, MinFreq, MaxFreq)
	}
	return &Timer{ic: ic, sched: sched, freq: freq, mode: mode, log: klog.Log}, nil
}

// Init registers the timer interrupt handler.  In Virtual mode it also
// installs the idle hook that produces ticks.
func (t *Timer) Init() {
	t.ic.Register(Vector, "8254 Timer", t.interrupt)
	if t.mode == Virtual {
		t.ic.OnIdle(func() { t.ic.Raise(Vector) })
	}
}

// Start starts a RealTime timer ticking.  It does nothing in Virtual mode.
func (t *Timer) Start() {
	if t.mode != RealTime {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ticker != nil {
		return
	}
	t.ticker = time.NewTicker(time.Second / time.Duration(t.freq))
	t.stop = make(chan struct{})
	t.wg.Add(1)
	go t.run(t.ticker, t.stop)
}

func (t *Timer) run(ticker *time.Ticker, stop <-chan struct{}) {
	defer t.wg.Done()
	for {
		select {
		case <-ticker.C:
			t.ic.Raise(Vector)
		case <-stop:
			return
		case <-t.ic.Off():
			return
		}
	}
}

// Stop stops a RealTime timer.  It may be called from any goroutine.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.ticker != nil {
		t.ticker.Stop()
		close(t.stop)
		t.ticker = nil
	}
	t.mu.Unlock()
	t.wg.Wait()
}

// Freq returns the number of ticks per second.
func (t *Timer) Freq() int { return t.freq }

// Mode returns how the timer generates ticks.
func (t *Timer) Mode() Mode { return t.mode }

// Ticks returns the number of timer ticks since the OS booted.
func (t *Timer) Ticks() int64 {
	return atomic.LoadInt64(&t.ticks)
}

// Elapsed returns the number of timer ticks elapsed since then, which
// should be a value once returned by Ticks.
func (t *Timer) Elapsed(then int64) int64 {
	return t.Ticks() - then
}

// Sleep suspends execution for approximately ticks timer ticks.
// Interrupts must be turned on.
func (t *Timer) Sleep(ticks int64) {
	if ticks <= 0 {
		return
	}
	if t.ic.Level() != intr.On {
		t.log.Panicf("sleep with interrupts off")
	}
	t.sched.SleepUntil(t.Ticks() + ticks)
}

// SleepFor suspends execution for approximately d, rounded down to whole
// ticks.
func (t *Timer) SleepFor(d time.Duration) {
	t.Sleep(int64(d * time.Duration(t.freq) / time.Second))
}

// PrintStats prints timer statistics to w.
func (t *Timer) PrintStats(w io.Writer) {
	fmt.Fprintf(w, "Timer: %d ticks\n", t.Ticks())
}

// interrupt is the timer interrupt handler.
func (t *Timer) interrupt(*intr.Frame) {
	now := atomic.AddInt64(&t.ticks, 1)
	t.sched.Tick()
	t.sched.Wakeup(now)
}
