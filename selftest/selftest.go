// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package selftest contains the kernel's built-in test scenarios.  Each
// runs on the initial thread of a booted kernel, writes its progress as
// "(name) message" lines and returns an error if the kernel misbehaved.
package selftest

import (
	"fmt"
	"io"
	"sort"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/kernel"
)

// A Func runs one scenario on k, writing messages to w.
type Func func(t *T) error

// A T is the state of one running scenario.
type T struct {
	Name   string
	Kernel *kernel.Kernel
	w      io.Writer
}

// Msgf writes a "(name) message" line.
func (t *T) Msgf(format string, args ...interface{}) {
	fmt.Fprintf(t.w, "(%s) %s\n", t.Name, fmt.Sprintf(format, args...))
}

// Failf returns an error naming the scenario.
func (t *T) Failf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: FAIL: %s", t.Name, fmt.Sprintf(format, args...))
}

var registry = map[string]Func{
	"alarm-single":       func(t *T) error { return testSleep(t, 5, 1) },
	"alarm-multiple":     func(t *T) error { return testSleep(t, 5, 7) },
	"alarm-simultaneous": alarmSimultaneous,
	"alarm-zero":         alarmZero,
	"alarm-negative":     alarmNegative,
	"sema-self-test":     semaSelfTest,
	"lock-counter":       lockCounter,
	"cond-broadcast":     condBroadcast,
}

// Names returns the names of every scenario, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Run runs the scenario called name on k, which must be running on the
// calling thread.
func Run(k *kernel.Kernel, w io.Writer, name string) error {
	fn, ok := registry[name]
	if !ok {
		return fmt.Errorf("no test named %q", name)
	}
	t := &T{Name: name, Kernel: k, w: w}
	t.Msgf("begin")
	if err := fn(t); err != nil {
		return err
	}
	t.Msgf("end")
	return nil
}
