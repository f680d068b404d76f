// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package threads

import (
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/list"
)

// SleepUntil blocks the current thread until the timer tick count reaches
// tick, as reported to Wakeup.  The idle thread may not sleep.
func (s *Scheduler) SleepUntil(tick int64) {
	if s.ic.Context() {
		s.log.Panicf("sleep in interrupt context")
	}
	old := s.ic.Disable()
	t := s.Current()
	if t == s.idle {
		s.log.Panicf("the idle thread may not sleep")
	}
	t.wakeTick = tick
	s.sleeping.PushBack(&t.elem)
	s.Block()
	s.ic.SetLevel(old)
}

// Wakeup unblocks every sleeping thread whose wake tick is at or before
// now.  The timer interrupt handler calls it on every tick.  Threads that
// stay asleep keep their order.
func (s *Scheduler) Wakeup(now int64) {
	old := s.ic.Disable()
	for e := s.sleeping.Begin(); e != s.sleeping.End(); {
		t := e.Value()
		if t.wakeTick > now {
			e = e.Next()
			continue
		}
		e = list.Remove(e)
		s.Unblock(t)
	}
	s.ic.SetLevel(old)
}

// Sleeping returns the number of threads in SleepUntil.
func (s *Scheduler) Sleeping() int {
	old := s.ic.Disable()
	n := s.sleeping.Len()
	s.ic.SetLevel(old)
	return n
}
