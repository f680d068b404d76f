// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package threads_test

import (
	"testing"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/intr"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/palloc"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/threads"
)

// A machine is a booted scheduler whose timer ticks in virtual time: a
// tick is raised whenever the CPU would otherwise halt.  The goroutine
// that called boot is the machine's initial thread.
type machine struct {
	ic    *intr.Controller
	pool  *palloc.Pool
	s     *threads.Scheduler
	ticks int64
}

const timerVec = 0

// boot() starts a machine with a pool of pages pages.  The machine is
// powered off when the test finishes.
func boot(tb testing.TB, pages int, opts ...threads.Option) *machine {
	tb.Helper()
	m := &machine{ic: intr.New(nil), pool: palloc.NewPool("kernel", pages)}
	m.s = threads.NewScheduler(m.ic, m.pool, opts...)
	if err := m.s.Init(); err != nil {
		tb.Fatalf("Init: %v", err)
	}
	m.ic.Register(timerVec, "timer", func(*intr.Frame) {
		m.ticks++
		m.s.Tick()
		m.s.Wakeup(m.ticks)
	})
	m.ic.OnIdle(func() { m.ic.Raise(timerVec) })
	tb.Cleanup(m.ic.PowerOff)
	if err := m.s.Start(); err != nil {
		tb.Fatalf("Start: %v", err)
	}
	return m
}

// sleep() puts the running thread to sleep for n ticks.
func (m *machine) sleep(n int64) {
	m.s.SleepUntil(m.ticks + n)
}

// spawn() creates a thread running fn and fails the test if it cannot.
func (m *machine) spawn(tb testing.TB, name string, fn func()) threads.TID {
	tb.Helper()
	tid, err := m.s.Create(name, threads.PriDefault, func(interface{}) { fn() }, nil)
	if err != nil {
		tb.Fatalf("Create(%q): %v", name, err)
	}
	return tid
}

// newSema() returns a semaphore initialized to value.
func (m *machine) newSema(value uint) *threads.Semaphore {
	sema := new(threads.Semaphore)
	sema.Init(m.s, value)
	return sema
}

// downN() downs sema n times.
func downN(sema *threads.Semaphore, n int) {
	for i := 0; i < n; i++ {
		sema.Down()
	}
}

func mustPanic(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", what)
		}
	}()
	f()
}
