// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package selftest

import (
	"fmt"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/threads"
)

func semaSelfTest(t *T) error {
	t.Msgf("Testing semaphores...")
	if err := t.Kernel.Sched.SemaSelfTest(); err != nil {
		return t.Failf("%v", err)
	}
	t.Msgf("done.")
	return nil
}

// lockCounter has two threads increment a shared counter, yielding the CPU
// in the middle of every increment, and checks that no update is lost.
func lockCounter(t *T) error {
	const iterations = 1000
	s := t.Kernel.Sched
	var (
		lock    threads.Lock
		done    threads.Semaphore
		counter int
	)
	lock.Init(s)
	done.Init(s, 0)
	for i := 0; i < 2; i++ {
		_, err := s.Create(fmt.Sprintf("counter %d", i), threads.PriDefault, func(interface{}) {
			for j := 0; j < iterations; j++ {
				lock.Acquire()
				v := counter
				s.Yield()
				counter = v + 1
				lock.Release()
			}
			done.Up()
		}, nil)
		if err != nil {
			return t.Failf("%v", err)
		}
	}
	done.Down()
	done.Down()
	t.Msgf("counter = %d", counter)
	if counter != 2*iterations {
		return t.Failf("counter is %d, want %d", counter, 2*iterations)
	}
	return nil
}

// condBroadcast puts several threads to sleep on one condition variable
// and checks that a single broadcast wakes each of them exactly once.
func condBroadcast(t *T) error {
	const waiters = 5
	s := t.Kernel.Sched
	var (
		lock    threads.Lock
		cond    threads.Cond
		done    threads.Semaphore
		waiting int
		woken   int
		ready   bool
	)
	lock.Init(s)
	cond.Init(s)
	done.Init(s, 0)
	for i := 0; i < waiters; i++ {
		_, err := s.Create(fmt.Sprintf("waiter %d", i), threads.PriDefault, func(interface{}) {
			lock.Acquire()
			waiting++
			for !ready {
				cond.Wait(&lock)
				woken++
			}
			lock.Release()
			done.Up()
		}, nil)
		if err != nil {
			return t.Failf("%v", err)
		}
	}
	for {
		lock.Acquire()
		n := waiting
		lock.Release()
		if n == waiters {
			break
		}
		s.Yield()
	}
	lock.Acquire()
	ready = true
	cond.Broadcast(&lock)
	lock.Release()
	for i := 0; i < waiters; i++ {
		done.Down()
	}
	t.Msgf("%d waiters, %d wakeups", waiters, woken)
	if woken != waiters {
		return t.Failf("%d wakeups for %d waiters", woken, waiters)
	}
	return nil
}
