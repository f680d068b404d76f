// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package intr models the interrupt controller of the single CPU the kernel
// runs on.
//
// The interrupt level is a flag owned by whichever kernel thread currently
// holds the CPU.  Devices raise interrupts from any goroutine with Raise; a
// raised interrupt stays pending until the CPU holder next allows delivery,
// which happens when interrupts are enabled (Enable, SetLevel(On)), when a
// thread polls with interrupts on (Poll), and when the idle thread halts
// (Halt).  Handlers run with interrupts off and Context() true.  A handler
// that wants the interrupted thread to give up the CPU calls YieldOnReturn;
// the yield hook then runs once the handler has returned and interrupt
// context has been left.
package intr

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/klog"
)

// NumVectors is the number of interrupt vectors.
const NumVectors = 16

// ErrPoweredOff is returned by operations that cannot complete because the
// machine has been powered off.
var ErrPoweredOff = errors.New("machine powered off")

// Level is the interrupt level: interrupts are either off or on.
type Level int

const (
	Off Level = iota // interrupts disabled
	On               // interrupts enabled
)

func (l Level) String() string {
	switch l {
	case Off:
		return "off"
	case On:
		return "on"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// A Frame describes the interrupt being delivered to a handler.
type Frame struct {
	Vec  int
	Name string
}

// A Handler handles one interrupt vector.
type Handler func(f *Frame)

type vector struct {
	name    string
	handler Handler
	pending int32  // accessed atomically
	count   uint64 // deliveries, accessed atomically
}

// Stats reports how many interrupts have been delivered.
type Stats struct {
	Delivered  map[string]uint64 // by vector name, registered vectors only
	Unexpected uint64            // raised on a vector with no handler
}

// A Controller is the interrupt controller of one CPU.
type Controller struct {
	// Only the CPU holder reads or writes these.
	level         Level
	inContext     bool
	yieldOnReturn bool
	onYield       func()
	onIdle        func()

	vecs       [NumVectors]vector
	unexpected uint64        // accessed atomically
	wake       chan struct{} // capacity 1, signalled by Raise

	offOnce sync.Once
	off     chan struct{}

	log *klog.Logger
}

// New returns a controller with interrupts off and no handlers registered.
// log may be nil, in which case klog.Log is used.
func New(log *klog.Logger) *Controller {
	if log == nil {
		log = klog.Log
	}
	return &Controller{
		wake: make(chan struct{}, 1),
		off:  make(chan struct{}),
		log:  log,
	}
}

// Level returns the current interrupt level.
func (c *Controller) Level() Level {
	return c.level
}

// SetLevel enables or disables interrupts as level indicates and returns the
// previous level.
func (c *Controller) SetLevel(level Level) Level {
	if level == On {
		return c.Enable()
	}
	return c.Disable()
}

// Enable enables interrupts, delivers any that are pending, and returns the
// previous level.  Enable must not be called from interrupt context.
func (c *Controller) Enable() Level {
	if c.inContext {
		c.log.Panicf("interrupts enabled in interrupt context")
	}
	old := c.level
	c.level = On
	c.deliver()
	return old
}

// Disable disables interrupts and returns the previous level.
func (c *Controller) Disable() Level {
	old := c.level
	c.level = Off
	return old
}

// Context returns true while an interrupt handler is running.
func (c *Controller) Context() bool {
	return c.inContext
}

// YieldOnReturn directs the controller to run the yield hook just before
// returning from the current interrupt.  It may only be called from a
// handler.
func (c *Controller) YieldOnReturn() {
	if !c.inContext {
		c.log.Panicf("yield-on-return requested outside interrupt context")
	}
	c.yieldOnReturn = true
}

// OnYield sets the hook run after a handler asked for YieldOnReturn.
func (c *Controller) OnYield(f func()) {
	c.onYield = f
}

// OnIdle sets the hook Halt runs when nothing is pending.  The hook may
// raise an interrupt itself; otherwise Halt waits for one.
func (c *Controller) OnIdle(f func()) {
	c.onIdle = f
}

// Register installs h as the handler for vec.  Each vector may be registered
// once.
func (c *Controller) Register(vec int, name string, h Handler) {
	if vec < 0 || vec >= NumVectors {
		c.log.Panicf("interrupt vector %d out of range", vec)
	}
	if h == nil {
		c.log.Panicf("nil handler for vector %d (%s)", vec, name)
	}
	v := &c.vecs[vec]
	if v.handler != nil {
		c.log.Panicf("vector %d already registered as %s", vec, v.name)
	}
	v.name = name
	v.handler = h
}

// Name returns the name vec was registered with, or "unknown".
func (c *Controller) Name(vec int) string {
	if vec < 0 || vec >= NumVectors || c.vecs[vec].handler == nil {
		return "unknown"
	}
	return c.vecs[vec].name
}

// Raise marks vec pending.  It may be called from any goroutine.
func (c *Controller) Raise(vec int) {
	if vec < 0 || vec >= NumVectors {
		c.log.Panicf("interrupt vector %d out of range", vec)
	}
	atomic.AddInt32(&c.vecs[vec].pending, 1)
	select {
	case c.wake <- struct{}{}:
	default:
	}
}

// Pending returns whether any interrupt is waiting to be delivered.
func (c *Controller) Pending() bool {
	return c.next() >= 0
}

func (c *Controller) next() int {
	for i := range c.vecs {
		if atomic.LoadInt32(&c.vecs[i].pending) > 0 {
			return i
		}
	}
	return -1
}

// Poll delivers pending interrupts if interrupts are on.  Threads that run
// for a long time without blocking call Poll so that the timer can preempt
// them.
func (c *Controller) Poll() {
	if c.level == On && !c.inContext {
		c.deliver()
	}
}

// Halt enables interrupts and waits until at least one has been delivered.
// It returns ErrPoweredOff if the machine is powered off while waiting.
func (c *Controller) Halt() error {
	if c.inContext {
		c.log.Panicf("halt in interrupt context")
	}
	c.level = On
	for !c.Pending() {
		if c.onIdle != nil {
			c.onIdle()
			if c.Pending() {
				break
			}
		}
		select {
		case <-c.wake:
		case <-c.off:
			return ErrPoweredOff
		}
	}
	c.deliver()
	return nil
}

// deliver runs the handlers of pending interrupts, lowest vector first,
// until none is pending.
func (c *Controller) deliver() {
	for c.level == On && !c.PoweredOff() {
		vec := c.next()
		if vec < 0 {
			return
		}
		v := &c.vecs[vec]
		atomic.AddInt32(&v.pending, -1)
		if v.handler == nil {
			atomic.AddUint64(&c.unexpected, 1)
			c.log.Errorf("unexpected interrupt %#04x", vec)
			continue
		}
		atomic.AddUint64(&v.count, 1)
		c.level = Off
		c.inContext = true
		v.handler(&Frame{Vec: vec, Name: v.name})
		c.inContext = false
		c.level = On
		if c.yieldOnReturn {
			c.yieldOnReturn = false
			if c.onYield != nil {
				c.onYield()
			}
		}
	}
}

// PowerOff powers the machine off.  Threads waiting for the CPU are released
// with ErrPoweredOff.  It is safe to call more than once.
func (c *Controller) PowerOff() {
	c.offOnce.Do(func() { close(c.off) })
}

// Off returns a channel that is closed when the machine is powered off.
func (c *Controller) Off() <-chan struct{} {
	return c.off
}

// PoweredOff returns whether the machine has been powered off.
func (c *Controller) PoweredOff() bool {
	select {
	case <-c.off:
		return true
	default:
		return false
	}
}

// Stats returns interrupt delivery counts.
func (c *Controller) Stats() Stats {
	s := Stats{
		Delivered:  make(map[string]uint64),
		Unexpected: atomic.LoadUint64(&c.unexpected),
	}
	for i := range c.vecs {
		if c.vecs[i].handler != nil {
			s.Delivered[c.vecs[i].name] += atomic.LoadUint64(&c.vecs[i].count)
		}
	}
	return s
}
