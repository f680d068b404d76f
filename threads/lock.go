// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package threads

// A Lock can be held by at most a single thread at any given time.  Locks
// are not recursive: it is an error for the thread currently holding a
// lock to try to acquire it.
//
// A Lock is a specialization of a semaphore with an initial value of 1.
// The difference is that a lock has an owner: only the thread that
// acquired a lock may release it.
type Lock struct {
	holder *Thread // thread holding the lock, for debugging
	sema   Semaphore
}

// Init initializes l for threads scheduled by s.  l is initially free.
func (l *Lock) Init(s *Scheduler) {
	l.holder = nil
	l.sema.Init(s, 1)
}

// Acquire acquires l, sleeping until it becomes available if necessary.
// The lock must not already be held by the current thread.
//
// Acquire may sleep, so it must not be called within an interrupt handler.
func (l *Lock) Acquire() {
	s := l.sema.s
	if s.ic.Context() {
		s.log.Panicf("lock acquire in interrupt context")
	}
	if l.HeldByCurrentThread() {
		s.log.Panicf("%v already holds the lock", l.holder)
	}
	l.sema.Down()
	l.holder = s.Current()
}

// TryAcquire tries to acquire l and returns true if successful or false on
// failure.  The lock must not already be held by the current thread.
// TryAcquire never sleeps.
func (l *Lock) TryAcquire() bool {
	s := l.sema.s
	if l.HeldByCurrentThread() {
		s.log.Panicf("%v already holds the lock", l.holder)
	}
	ok := l.sema.TryDown()
	if ok {
		l.holder = s.Current()
	}
	return ok
}

// Release releases l, which must be owned by the current thread.
//
// An interrupt handler cannot acquire a lock, so it does not make sense to
// try to release one within an interrupt handler.
func (l *Lock) Release() {
	s := l.sema.s
	if !l.HeldByCurrentThread() {
		s.log.Panicf("lock released by %v, held by %v", s.cur, l.holder)
	}
	l.holder = nil
	l.sema.Up()
}

// HeldByCurrentThread returns true if the current thread holds l.  (Note
// that testing whether some other thread holds a lock would be racy.)
func (l *Lock) HeldByCurrentThread() bool {
	return l.holder != nil && l.holder == l.sema.s.cur
}

// Holder returns the thread holding l, or nil.
func (l *Lock) Holder() *Thread {
	return l.holder
}
