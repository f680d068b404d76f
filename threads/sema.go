// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package threads

import (
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/list"
)

// A Semaphore is a nonnegative integer along with two atomic operators for
// manipulating it:
//
//   - Down or "P": wait for the value to become positive, then decrement it.
//   - Up or "V": increment the value (and wake up one waiting thread, if any).
//
// Waiters are woken in the order they arrived.  A Semaphore must be
// initialized with Init before use and must not be copied afterwards.
type Semaphore struct {
	s       *Scheduler
	value   uint
	waiters list.List[*Thread] // threads blocked in Down, oldest first
}

// Init initializes sema to value, for threads scheduled by s.
func (sema *Semaphore) Init(s *Scheduler, value uint) {
	sema.s = s
	sema.value = value
	sema.waiters.Init()
}

// Down waits for sema's value to become positive and then atomically
// decrements it.
//
// Down may sleep, so it must not be called within an interrupt handler.  It
// may be called with interrupts disabled, but if it sleeps then the next
// scheduled thread will probably turn interrupts back on.
func (sema *Semaphore) Down() {
	s := sema.s
	if s.ic.Context() {
		s.log.Panicf("semaphore down in interrupt context")
	}
	old := s.ic.Disable()
	for sema.value == 0 {
		sema.waiters.PushBack(&s.Current().elem)
		s.Block()
	}
	sema.value--
	s.ic.SetLevel(old)
}

// TryDown decrements sema's value if it is positive and returns whether it
// did so.  TryDown never sleeps and may be called from an interrupt
// handler.
func (sema *Semaphore) TryDown() bool {
	s := sema.s
	old := s.ic.Disable()
	ok := sema.value > 0
	if ok {
		sema.value--
	}
	s.ic.SetLevel(old)
	return ok
}

// Up increments sema's value and wakes up the thread that has waited
// longest, if any.  The woken thread becomes ready; it does not run before
// Up returns.
//
// Up may be called from an interrupt handler.
func (sema *Semaphore) Up() {
	s := sema.s
	old := s.ic.Disable()
	if !sema.waiters.Empty() {
		s.Unblock(sema.waiters.PopFront().Value())
	}
	sema.value++
	s.ic.SetLevel(old)
}

// Value returns sema's current value.
func (sema *Semaphore) Value() uint {
	s := sema.s
	old := s.ic.Disable()
	v := sema.value
	s.ic.SetLevel(old)
	return v
}

// SemaSelfTest makes the CPU "ping-pong" between the calling thread and a
// new thread ten times, using a pair of semaphores.  It returns an error
// only if the helper thread cannot be created.
func (s *Scheduler) SemaSelfTest() error {
	var sema [2]Semaphore
	sema[0].Init(s, 0)
	sema[1].Init(s, 0)
	if _, err := s.Create("sema-test", PriDefault, semaTestHelper, &sema); err != nil {
		return err
	}
	for i := 0; i < 10; i++ {
		sema[0].Up()
		sema[1].Down()
	}
	return nil
}

// semaTestHelper() is the helper thread of SemaSelfTest.
func semaTestHelper(aux interface{}) {
	sema := aux.(*[2]Semaphore)
	for i := 0; i < 10; i++ {
		sema[0].Down()
		sema[1].Up()
	}
}
