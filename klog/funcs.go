// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package klog

import (
	"v.io/x/lib/llog"
)

// Info logs to the INFO log of Log.
func Info(args ...interface{}) {
	Log.log.Print(llog.InfoLog, args...)
	Log.maybeFlush()
}

// Infof logs to the INFO log of Log.
func Infof(format string, args ...interface{}) {
	Log.log.Printf(llog.InfoLog, format, args...)
	Log.maybeFlush()
}

// V returns true if the configured logging level of Log is greater than or
// equal to level.
func V(level Level) bool {
	return Log.log.V(llog.Level(level))
}

// VI is like V, except that it returns an InfoLog that either logs (if level
// is enabled) or discards its arguments.
func VI(level Level) InfoLog {
	return Log.VI(level)
}

// Error logs to the ERROR and INFO logs of Log.
func Error(args ...interface{}) {
	Log.log.Print(llog.ErrorLog, args...)
	Log.maybeFlush()
}

// Errorf logs to the ERROR and INFO logs of Log.
func Errorf(format string, args ...interface{}) {
	Log.log.Printf(llog.ErrorLog, format, args...)
	Log.maybeFlush()
}

// Panicf reports a kernel panic on Log, naming the caller of Panicf.
func Panicf(format string, args ...interface{}) {
	Log.panicDepth(1, format, args...)
}

// FlushLog flushes all pending log I/O of Log.
func FlushLog() {
	Log.FlushLog()
}
