// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package threads

// The multilevel feedback queue scheduler is not implemented.  The
// accessors below exist so that callers written against it compile and
// learn at run time that it is missing.

// Nice returns the current thread's nice value.
func (s *Scheduler) Nice() (int, error) {
	return 0, ErrNotImplemented
}

// SetNice sets the current thread's nice value.
func (s *Scheduler) SetNice(nice int) error {
	return ErrNotImplemented
}

// LoadAvg returns 100 times the system load average.
func (s *Scheduler) LoadAvg() (int, error) {
	return 0, ErrNotImplemented
}

// RecentCPU returns 100 times the current thread's recent_cpu value.
func (s *Scheduler) RecentCPU() (int, error) {
	return 0, ErrNotImplemented
}
