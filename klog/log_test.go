// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package klog_test

import (
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/klog"
)

func detectViolation(l *klog.Logger) {
	l.Panicf("lock %q already held", "tid")
}

func TestPanicfNamesCaller(t *testing.T) {
	l := klog.NewLogger("test")
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("recovered %T, want an error", r)
		}
		if !errors.Is(err, klog.ErrPanic) {
			t.Errorf("%v does not wrap ErrPanic", err)
		}
		var pe *klog.PanicError
		if !errors.As(err, &pe) {
			t.Fatalf("%v is not a *PanicError", err)
		}
		if got, want := pe.Func, "klog_test.detectViolation"; got != want {
			t.Errorf("Func = %q, want %q", got, want)
		}
		if got, want := err.Error(), `Kernel PANIC in klog_test.detectViolation(): lock "tid" already held`; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}()
	detectViolation(l)
}

func TestConfigureOnce(t *testing.T) {
	l := klog.NewLogger("test")
	if err := l.Configure(klog.Level(2)); err != nil {
		t.Fatal(err)
	}
	if !l.V(2) || l.V(3) {
		t.Errorf("V levels not applied")
	}
	if err := l.Configure(klog.Level(3)); !errors.Is(err, klog.ErrConfigured) {
		t.Errorf("second Configure: got %v, want ErrConfigured", err)
	}
	if err := l.Configure(klog.Level(3), klog.OverridePriorConfiguration(true)); err != nil {
		t.Errorf("override: %v", err)
	}
	if !l.V(3) {
		t.Errorf("override did not apply")
	}
}

func TestRegisterLoggingFlags(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	var lf klog.LoggingFlags
	klog.RegisterLoggingFlags(fs, &lf, "k_")
	if err := fs.Parse([]string{"--k_v=3", "--k_log_dir=/tmp/k", "--k_vmodule=sched=2"}); err != nil {
		t.Fatal(err)
	}
	if lf.Verbosity != 3 || lf.LogDir != "/tmp/k" {
		t.Errorf("unexpected flag values: %+v", lf)
	}
	if !strings.Contains(lf.VModule.String(), "sched=2") {
		t.Errorf("vmodule: got %q", lf.VModule.String())
	}
	l := klog.NewLogger("test")
	if err := l.ConfigureFromLoggingFlags(&lf); err != nil {
		t.Fatal(err)
	}
	if got, want := l.LogDir(), "/tmp/k"; got != want {
		t.Errorf("LogDir() = %q, want %q", got, want)
	}
}

func TestVIDiscards(t *testing.T) {
	l := klog.NewLogger("test")
	l.Configure(klog.Level(1))
	if _, ok := l.VI(1).(*klog.Logger); !ok {
		t.Errorf("VI(1) should log")
	}
	if _, ok := l.VI(2).(*klog.Logger); ok {
		t.Errorf("VI(2) should discard")
	}
}
