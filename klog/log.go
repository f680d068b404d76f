// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package klog is the kernel's leveled logger.  It wraps llog in the same
// manner as vlog and adds kernel-panic reporting: contract violations are
// reported with Panicf, which logs at ERROR level, naming the function that
// detected the violation, and then panics.
package klog

import (
	"errors"
	"fmt"
	"os"
	"path"
	"runtime"
	"sync"

	"v.io/x/lib/llog"
)

const (
	initialMaxStackBufSize = 128 * 1024
	defaultMaxStackBufSize = 4192 * 1024
	stackSkip              = 1
)

// Logger is a leveled logger for one kernel instance.
type Logger struct {
	log             *llog.Log
	mu              sync.Mutex // guards updates to the vars below.
	autoFlush       bool
	maxStackBufSize int
	logDir          string
	configured      bool
}

var (
	// Log is the logger used by kernel components that are not given one.
	Log = NewLogger("pintos")

	// ErrConfigured is returned by Configure when the logger has already
	// been configured and OverridePriorConfiguration was not supplied.
	ErrConfigured = errors.New("logger has already been configured")
)

// NewLogger creates a new logger.  Until configured otherwise it writes to
// standard error only.
func NewLogger(name string) *Logger {
	l := &Logger{
		log:             llog.NewLogger(name, stackSkip),
		maxStackBufSize: defaultMaxStackBufSize,
	}
	l.log.SetLogToStderr(true)
	return l
}

func (l *Logger) maybeFlush() {
	if l.autoFlush {
		l.log.Flush()
	}
}

// Configure configures all future logging.  ErrConfigured is returned if
// Configure has already been called, unless the OverridePriorConfiguration
// option is included.
func (l *Logger) Configure(opts ...LoggingOpts) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	override := false
	for _, o := range opts {
		if v, ok := o.(OverridePriorConfiguration); ok {
			override = bool(v)
		}
	}
	if l.configured && !override {
		return ErrConfigured
	}
	for _, o := range opts {
		switch v := o.(type) {
		case AlsoLogToStderr:
			l.log.SetAlsoLogToStderr(bool(v))
		case Level:
			l.log.SetV(llog.Level(v))
		case LogDir:
			l.logDir = string(v)
			l.log.SetLogDir(l.logDir)
		case LogToStderr:
			l.log.SetLogToStderr(bool(v))
		case MaxStackBufSize:
			if sz := int(v); sz > initialMaxStackBufSize {
				l.maxStackBufSize = sz
				l.log.SetMaxStackBufSize(sz)
			}
		case ModuleSpec:
			l.log.SetVModule(v.ModuleSpec)
		case StderrThreshold:
			l.log.SetStderrThreshold(llog.Severity(v))
		case AutoFlush:
			l.autoFlush = bool(v)
		}
	}
	l.configured = true
	return nil
}

// LogDir returns the directory where the log files are written.
func (l *Logger) LogDir() string {
	if len(l.logDir) != 0 {
		return l.logDir
	}
	return os.TempDir()
}

// Info logs to the INFO log.
// Arguments are handled in the manner of fmt.Print; a newline is appended if missing.
func (l *Logger) Info(args ...interface{}) {
	l.log.Print(llog.InfoLog, args...)
	l.maybeFlush()
}

// Infof logs to the INFO log.
// Arguments are handled in the manner of fmt.Printf; a newline is appended if missing.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.log.Printf(llog.InfoLog, format, args...)
	l.maybeFlush()
}

// InfoStack logs the current goroutine's stack if the all parameter
// is false, or the stacks of all goroutines if it's true.
func (l *Logger) InfoStack(all bool) {
	n := initialMaxStackBufSize
	var trace []byte
	for n <= l.maxStackBufSize {
		trace = make([]byte, n)
		nbytes := runtime.Stack(trace, all)
		if nbytes < len(trace) {
			l.log.Printf(llog.InfoLog, "%s", trace[:nbytes])
			return
		}
		n *= 2
	}
	l.log.Printf(llog.InfoLog, "%s", trace)
	l.maybeFlush()
}

// Stats returns the number of lines and bytes written per severity level.
func (l *Logger) Stats() LevelStats {
	return LevelStats(l.log.Stats())
}

// V returns true if the configured logging level is greater than or equal
// to level.
func (l *Logger) V(level Level) bool {
	return l.log.V(llog.Level(level))
}

type discardInfo struct{}

func (*discardInfo) Info(args ...interface{})                 {}
func (*discardInfo) Infof(format string, args ...interface{}) {}
func (*discardInfo) InfoStack(all bool)                       {}

// VI is like V, except that it returns an InfoLog that either logs (if level
// is enabled) or discards its arguments.  This allows for l.VI(2).Infof
// style usage.
func (l *Logger) VI(level Level) InfoLog {
	if l.log.V(llog.Level(level)) {
		return l
	}
	return &discardInfo{}
}

// FlushLog flushes all pending log I/O.
func (l *Logger) FlushLog() {
	l.log.Flush()
}

// Error logs to the ERROR and INFO logs.
// Arguments are handled in the manner of fmt.Print; a newline is appended if missing.
func (l *Logger) Error(args ...interface{}) {
	l.log.Print(llog.ErrorLog, args...)
	l.maybeFlush()
}

// Errorf logs to the ERROR and INFO logs.
// Arguments are handled in the manner of fmt.Printf; a newline is appended if missing.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log.Printf(llog.ErrorLog, format, args...)
	l.maybeFlush()
}

// Panicf reports a kernel panic: it logs "Kernel PANIC in f(): msg" to the
// ERROR log, where f is the function that called Panicf, and then panics
// with an error wrapping ErrPanic and carrying the same text.
func (l *Logger) Panicf(format string, args ...interface{}) {
	l.panicDepth(1, format, args...)
}

func (l *Logger) panicDepth(depth int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	err := &PanicError{Func: callerFuncName(depth + 1), Msg: msg}
	l.log.Printf(llog.ErrorLog, "%v", err)
	l.log.Flush()
	panic(err)
}

// callerFuncName returns the short name of the function depth frames above
// its caller.
func callerFuncName(depth int) string {
	pc, _, _, ok := runtime.Caller(depth + 1)
	if !ok {
		return "?"
	}
	if f := runtime.FuncForPC(pc); f != nil {
		return path.Base(f.Name())
	}
	return "?"
}

// ErrPanic is wrapped by every PanicError.
var ErrPanic = errors.New("kernel panic")

// A PanicError is the value a kernel panic panics with.
type PanicError struct {
	Func string // function that detected the violation, e.g. "threads.(*Lock).Acquire"
	Msg  string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("Kernel PANIC in %s(): %s", e.Func, e.Msg)
}

func (e *PanicError) Unwrap() error { return ErrPanic }
