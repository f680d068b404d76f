// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kernel

import (
	"flag"
	"fmt"

	"github.com/spf13/pflag"
	"v.io/x/lib/cmd/flagvar"
	"v.io/x/lib/cmd/pflagvar"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/devices/timer"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/threads"
)

// Config configures a kernel.  Its fields can be registered as command line
// flags with RegisterFlags or RegisterPFlags.
type Config struct {
	Pages        int  `flag:"pages,64,number of pages in the kernel page pool"`
	TimeSlice    int  `flag:"time-slice,4,timer ticks a thread runs before it is preempted"`
	TimerFreq    int  `flag:"timer-freq,100,timer interrupts per second"`
	VirtualTimer bool `flag:"virtual-timer,true,tick whenever the CPU goes idle rather than from the wall clock"`
	MLFQS        bool `flag:"mlfqs,false,use the multilevel feedback queue scheduler"`
}

// DefaultConfig returns the configuration the flags default to.
func DefaultConfig() Config {
	return Config{
		Pages:        64,
		TimeSlice:    threads.DefaultTimeSlice,
		TimerFreq:    timer.DefaultFreq,
		VirtualTimer: true,
	}
}

// RegisterFlags registers c's fields as flags in fs.
func (c *Config) RegisterFlags(fs *flag.FlagSet) error {
	return flagvar.RegisterFlagsInStruct(fs, "flag", c, nil, nil)
}

// RegisterPFlags registers c's fields as flags in pfs.
func (c *Config) RegisterPFlags(pfs *pflag.FlagSet) error {
	return pflagvar.RegisterFlagsInStruct(pfs, "flag", c, nil, nil)
}

// Validate returns an error describing the first problem with c, if any.
func (c Config) Validate() error {
	switch {
	case c.Pages < 1:
		return fmt.Errorf("kernel: %d pages: need at least one for the idle thread", c.Pages)
	case c.TimeSlice < 1:
		return fmt.Errorf("kernel: time slice of %d ticks is not positive", c.TimeSlice)
	case c.TimerFreq < timer.MinFreq || c.TimerFreq > timer.MaxFreq:
		return fmt.Errorf("kernel: timer frequency %d outside [%d, %d]", c.TimerFreq, timer.MinFreq, timer.MaxFreq)
	}
	return nil
}

func (c Config) timerMode() timer.Mode {
	if c.VirtualTimer {
		return timer.Virtual
	}
	return timer.RealTime
}
