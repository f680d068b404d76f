// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package intr_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/intr"
)

func mustPanic(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", what)
		}
	}()
	f()
}

func TestLevels(t *testing.T) {
	c := intr.New(nil)
	if got := c.Level(); got != intr.Off {
		t.Fatalf("initial level %v, want off", got)
	}
	if old := c.Enable(); old != intr.Off {
		t.Errorf("Enable() returned %v, want off", old)
	}
	if old := c.SetLevel(intr.Off); old != intr.On {
		t.Errorf("SetLevel(Off) returned %v, want on", old)
	}
	if old := c.Disable(); old != intr.Off {
		t.Errorf("Disable() returned %v, want off", old)
	}
	if got, want := intr.On.String(), "on"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDeliveryWaitsForEnable(t *testing.T) {
	c := intr.New(nil)
	var got []string
	c.Register(3, "disk", func(f *intr.Frame) {
		if !c.Context() || c.Level() != intr.Off {
			t.Errorf("handler ran with context=%v level=%v", c.Context(), c.Level())
		}
		got = append(got, f.Name)
	})
	c.Register(0, "timer", func(f *intr.Frame) { got = append(got, f.Name) })
	c.Raise(3)
	c.Raise(0)
	c.Raise(0)
	c.Poll() // interrupts are off: nothing happens.
	if len(got) != 0 {
		t.Fatalf("delivered with interrupts off: %v", got)
	}
	c.Enable()
	if want := []string{"timer", "timer", "disk"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if c.Context() {
		t.Errorf("still in interrupt context")
	}
	st := c.Stats()
	if st.Delivered["timer"] != 2 || st.Delivered["disk"] != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestYieldOnReturn(t *testing.T) {
	c := intr.New(nil)
	yields := 0
	c.OnYield(func() {
		if c.Context() {
			t.Errorf("yield hook ran in interrupt context")
		}
		yields++
	})
	c.Register(0, "timer", func(*intr.Frame) { c.YieldOnReturn() })
	c.Enable()
	c.Raise(0)
	c.Poll()
	if yields != 1 {
		t.Errorf("yield hook ran %d times, want 1", yields)
	}
	mustPanic(t, "YieldOnReturn outside a handler", c.YieldOnReturn)
}

func TestEnableInHandlerPanics(t *testing.T) {
	c := intr.New(nil)
	c.Register(1, "bad", func(*intr.Frame) { c.Enable() })
	c.Raise(1)
	mustPanic(t, "Enable in a handler", func() { c.Enable() })
}

func TestRegisterTwicePanics(t *testing.T) {
	c := intr.New(nil)
	c.Register(2, "kbd", func(*intr.Frame) {})
	mustPanic(t, "second Register", func() { c.Register(2, "kbd", func(*intr.Frame) {}) })
	mustPanic(t, "Register out of range", func() { c.Register(intr.NumVectors, "x", func(*intr.Frame) {}) })
}

func TestUnexpected(t *testing.T) {
	c := intr.New(nil)
	c.Enable()
	c.Raise(7)
	c.Poll()
	if got := c.Stats().Unexpected; got != 1 {
		t.Errorf("unexpected count %d, want 1", got)
	}
}

func TestHaltUsesIdleHook(t *testing.T) {
	c := intr.New(nil)
	ticks := 0
	c.Register(0, "timer", func(*intr.Frame) { ticks++ })
	c.OnIdle(func() { c.Raise(0) })
	for i := 0; i < 3; i++ {
		if err := c.Halt(); err != nil {
			t.Fatal(err)
		}
	}
	if ticks != 3 {
		t.Errorf("ticks = %d, want 3", ticks)
	}
	if c.Level() != intr.On {
		t.Errorf("Halt left interrupts %v", c.Level())
	}
}

func TestHaltWaitsForRaise(t *testing.T) {
	c := intr.New(nil)
	done := false
	c.Register(5, "net", func(*intr.Frame) { done = true })
	go func() {
		time.Sleep(10 * time.Millisecond)
		c.Raise(5)
	}()
	if err := c.Halt(); err != nil {
		t.Fatal(err)
	}
	if !done {
		t.Errorf("handler did not run")
	}
}

func TestHaltPowerOff(t *testing.T) {
	c := intr.New(nil)
	go c.PowerOff()
	if err := c.Halt(); !errors.Is(err, intr.ErrPoweredOff) {
		t.Errorf("got %v, want ErrPoweredOff", err)
	}
	if !c.PoweredOff() {
		t.Errorf("not powered off")
	}
	c.PowerOff()
	select {
	case <-c.Off():
	default:
		t.Errorf("Off() not closed")
	}
}
