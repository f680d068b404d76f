// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package threads

import (
	"runtime"
)

// A binarySemaphore is a binary semaphore; it can have values 0 and 1.
// Each thread owns one: posting it hands the CPU to the thread, and the
// thread waits on it whenever it does not hold the CPU.
type binarySemaphore struct {
	ch chan struct{}
}

// Init() initializes binarySemaphore *s; the initial value is 0.
func (s *binarySemaphore) Init() {
	s.ch = make(chan struct{}, 1)
}

// V() ensures that the semaphore count of *s is 1.
func (s *binarySemaphore) V() {
	select {
	case s.ch <- struct{}{}:
	default: // Don't block if the semaphore count is already 1.
	}
}

// park() waits until t is handed the CPU.  If the machine is powered off
// first, t's goroutine unwinds instead: the initial thread panics with
// ErrPoweredOff, which the code that booted the kernel recovers, and every
// other thread exits its goroutine.
func (s *Scheduler) park(t *Thread) {
	select {
	case <-t.resume.ch:
	case <-s.ic.Off():
		if t.initial {
			panic(ErrPoweredOff)
		}
		runtime.Goexit()
	}
}

// switchTo() transfers the CPU from cur to next.  It returns when cur is
// next handed the CPU, or at once if cur is dying.  A dying thread's
// goroutine must not touch any shared state once switchTo returns, because
// next already owns the CPU.
func (s *Scheduler) switchTo(cur, next *Thread) {
	dying := cur.status == Dying
	next.resume.V()
	if dying {
		return
	}
	s.park(cur)
}

// kernelThread() is the body of the goroutine behind every created thread.
// It waits for the first dispatch, enables interrupts, runs fn and then
// exits the thread, whether fn returned or called Exit.
func (s *Scheduler) kernelThread(t *Thread, fn ThreadFunc, aux interface{}) {
	s.park(t)
	returned := false
	defer func() {
		// A panic or a power off leaves the thread where it is.
		if returned || t.exiting {
			s.exit()
		}
	}()
	s.ic.Enable()
	fn(aux)
	returned = true
}
