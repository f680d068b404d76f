// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel assembles the interrupt controller, page allocator,
// scheduler and timer into a bootable kernel.
//
// Run boots the kernel on the calling goroutine, which becomes the initial
// thread, runs the supplied main function, and powers the machine off when
// main returns:
//
//	k, err := kernel.New(kernel.DefaultConfig())
//	...
//	err = k.Run(func(k *kernel.Kernel) error {
//		k.Timer.Sleep(10)
//		return nil
//	})
package kernel

import (
	"errors"
	"fmt"
	"io"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/devices/timer"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/intr"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/klog"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/palloc"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/threads"
)

// ErrAlreadyRun is returned by Run on a kernel that has already run.
var ErrAlreadyRun = errors.New("kernel: already run")

// A Kernel is one machine: a CPU, its memory and its timer.
type Kernel struct {
	Config Config
	Log    *klog.Logger
	Intr   *intr.Controller
	Pages  *palloc.Pool
	Sched  *threads.Scheduler
	Timer  *timer.Timer

	ran bool
}

// An Option configures a Kernel.
type Option func(*Kernel)

// WithLogger sets the logger the kernel and its components use.
func WithLogger(l *klog.Logger) Option {
	return func(k *Kernel) { k.Log = l }
}

// New returns a kernel configured by cfg, ready to Run.
func New(cfg Config, opts ...Option) (*Kernel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	k := &Kernel{Config: cfg, Log: klog.Log}
	for _, o := range opts {
		o(k)
	}
	k.Intr = intr.New(k.Log)
	k.Pages = palloc.NewPool("kernel", cfg.Pages)
	k.Sched = threads.NewScheduler(k.Intr, k.Pages,
		threads.WithTimeSlice(cfg.TimeSlice),
		threads.WithLogger(k.Log),
		threads.WithMLFQS(cfg.MLFQS))
	tm, err := timer.New(k.Intr, k.Sched, cfg.TimerFreq, cfg.timerMode())
	if err != nil {
		return nil, err
	}
	k.Timer = tm
	return k, nil
}

// Run boots the kernel on the calling goroutine, runs main as the initial
// thread and powers the machine off once main returns.  It returns main's
// error.  If a thread powers the machine off while main is waiting for the
// CPU, main is abandoned and Run returns nil.
func (k *Kernel) Run(main func(k *Kernel) error) (err error) {
	if k.ran {
		return ErrAlreadyRun
	}
	k.ran = true
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && errors.Is(e, threads.ErrPoweredOff) {
				err = nil
				return
			}
			panic(r)
		}
	}()

	if err := k.Sched.Init(); err != nil {
		return fmt.Errorf("kernel: boot: %w", err)
	}
	k.Timer.Init()
	k.Log.VI(1).Infof("kernel: booting with %d pages, timer at %d Hz (%v)",
		k.Config.Pages, k.Timer.Freq(), k.Timer.Mode())
	defer k.shutdown()
	if err := k.Sched.Start(); err != nil {
		return fmt.Errorf("kernel: boot: %w", err)
	}
	k.Timer.Start()
	return main(k)
}

// PowerOff powers the machine off from the running thread.  Called from a
// thread other than the initial one it does not return.
func (k *Kernel) PowerOff() {
	k.Sched.PowerOff()
}

func (k *Kernel) shutdown() {
	k.Intr.PowerOff()
	k.Timer.Stop()
	if k.Log.V(1) {
		k.Log.Infof("kernel: powering off after %d ticks", k.Timer.Ticks())
	}
}

// PrintStats prints timer and thread statistics to w.
func (k *Kernel) PrintStats(w io.Writer) {
	k.Timer.PrintStats(w)
	k.Sched.PrintStats(w)
}
