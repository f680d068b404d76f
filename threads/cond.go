// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package threads

import (
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/list"
)

// A Cond is a condition variable.  It allows one piece of code to signal a
// condition and cooperating code to receive the signal and act upon it.
// Each Cond is associated with a single Lock, supplied on every call.
//
// Each waiter sleeps on a semaphore of its own, so a signal is delivered
// to exactly one waiter, the one that has waited longest.
type Cond struct {
	s       *Scheduler
	waiters list.List[*semaphoreElem]
}

// A semaphoreElem is one waiter of a Cond.
type semaphoreElem struct {
	elem list.Elem[*semaphoreElem]
	sema Semaphore
}

// Init initializes c for threads scheduled by s.
func (c *Cond) Init(s *Scheduler) {
	c.s = s
	c.waiters.Init()
}

// Wait atomically releases l and waits for c to be signalled by some other
// piece of code.  After c is signalled, l is reacquired before Wait
// returns.  l must be held before calling Wait.
//
// The monitor implemented by Wait is "Mesa" style, not "Hoare" style: a
// signal is not atomic with the waiter's return, so the caller must
// recheck the condition after the wait completes and wait again if
// necessary.
//
// Wait may sleep, so it must not be called within an interrupt handler.
func (c *Cond) Wait(l *Lock) {
	s := c.s
	if s.ic.Context() {
		s.log.Panicf("condition wait in interrupt context")
	}
	if !l.HeldByCurrentThread() {
		s.log.Panicf("condition wait without holding the lock")
	}
	w := new(semaphoreElem)
	w.elem.Init(w)
	w.sema.Init(s, 0)
	c.waiters.PushBack(&w.elem)
	l.Release()
	w.sema.Down()
	l.Acquire()
}

// Signal wakes up the longest waiting thread on c, if any.  The caller
// must hold l; Signal does not check that it does.
//
// An interrupt handler cannot acquire a lock, so it does not make sense to
// try to signal a condition variable within an interrupt handler.
func (c *Cond) Signal(l *Lock) {
	if c.s.ic.Context() {
		c.s.log.Panicf("condition signal in interrupt context")
	}
	if !c.waiters.Empty() {
		c.waiters.PopFront().Value().sema.Up()
	}
}

// Broadcast wakes up every thread waiting on c.  The caller must hold l.
func (c *Cond) Broadcast(l *Lock) {
	for !c.waiters.Empty() {
		c.Signal(l)
	}
}
