// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package threads_test

import (
	"fmt"
	"testing"
)

// TestSleepAlarm starts five threads that each sleep iters times, thread
// i for (i+1)*10 ticks at a time, and checks that the product of
// iteration and duration recorded at each wakeup never decreases.
func TestSleepAlarm(t *testing.T) {
	const threadCnt, iters = 5, 7
	m := boot(t, 16)
	done := m.newSema(0)
	start := m.ticks + 100
	type wakeup struct {
		id      int
		product int64
	}
	var log []wakeup
	for i := 0; i < threadCnt; i++ {
		i := i
		duration := int64(i+1) * 10
		m.spawn(t, fmt.Sprintf("thread %d", i), func() {
			for iter := int64(1); iter <= iters; iter++ {
				m.s.SleepUntil(start + iter*duration)
				if m.ticks < start+iter*duration {
					t.Errorf("thread %d woke at %d, before %d", i, m.ticks, start+iter*duration)
				}
				log = append(log, wakeup{id: i, product: iter * duration})
			}
			done.Up()
		})
	}
	downN(done, threadCnt)

	if got, want := len(log), threadCnt*iters; got != want {
		t.Fatalf("%d wakeups, want %d", got, want)
	}
	counts := make([]int, threadCnt)
	var last int64
	for _, w := range log {
		if w.product < last {
			t.Errorf("thread %d woke up out of order (%d < %d)", w.id, w.product, last)
		}
		last = w.product
		counts[w.id]++
	}
	for i, n := range counts {
		if n != iters {
			t.Errorf("thread %d woke up %d times instead of %d", i, n, iters)
		}
	}
	if got := m.s.Sleeping(); got != 0 {
		t.Errorf("%d threads still sleeping", got)
	}
	if m.s.Stats().IdleTicks == 0 {
		t.Errorf("no idle ticks while every thread slept")
	}
}

func TestSleepOrderKept(t *testing.T) {
	m := boot(t, 16)
	done := m.newSema(0)
	var order []string
	for _, name := range []string{"late", "early-a", "early-b"} {
		name := name
		n := int64(5)
		if name == "late" {
			n = 20
		}
		m.spawn(t, name, func() {
			m.sleep(n)
			order = append(order, name)
			done.Up()
		})
	}
	m.s.Yield()
	if got := m.s.Sleeping(); got != 3 {
		t.Fatalf("%d sleeping, want 3", got)
	}
	downN(done, 3)
	if got := fmt.Sprint(order); got != "[early-a early-b late]" {
		t.Errorf("wake order %s", got)
	}
}

func TestWakeupLeavesSleepersNotDue(t *testing.T) {
	m := boot(t, 4)
	done := m.newSema(0)
	m.spawn(t, "sleeper", func() {
		m.sleep(50)
		done.Up()
	})
	m.s.Yield()
	m.s.Wakeup(m.ticks + 49)
	if got := m.s.Sleeping(); got != 1 {
		t.Errorf("%d sleeping after an early wakeup, want 1", got)
	}
	done.Down()
}
