// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package klog

// LoggingOpts are the options accepted by Logger.Configure.
type LoggingOpts interface {
	LoggingOpt()
}

type AutoFlush bool
type AlsoLogToStderr bool
type LogDir string
type LogToStderr bool
type MaxStackBufSize int
type OverridePriorConfiguration bool

// If true, logs are written to standard error as well as to files.
func (AlsoLogToStderr) LoggingOpt() {}

// Enable V-leveled logging at the specified level.
func (Level) LoggingOpt() {}

// Log files will be written to this directory instead of the
// default temporary directory.
func (LogDir) LoggingOpt() {}

// If true, logs are written to standard error instead of to files.
func (LogToStderr) LoggingOpt() {}

// Set the max size (bytes) of the buffer used for stack traces.
// A min of 128K is enforced.
func (MaxStackBufSize) LoggingOpt() {}

// Per-file V levels, see ModuleSpec.
func (ModuleSpec) LoggingOpt() {}

// Log events at or above this severity are logged to standard
// error as well as to files.
func (StderrThreshold) LoggingOpt() {}

// If true, enables automatic flushing of log output on every call.
func (AutoFlush) LoggingOpt() {}

// If true, Configure may be called again.
func (OverridePriorConfiguration) LoggingOpt() {}
