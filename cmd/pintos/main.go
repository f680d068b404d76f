// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pintos boots the kernel and runs its built-in tests.
package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"v.io/x/lib/cmdline"
	"v.io/x/lib/textutil"
	"v.io/x/lib/timing"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/kernel"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/klog"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/selftest"
)

var (
	cfg          = kernel.DefaultConfig()
	loggingFlags klog.LoggingFlags
	flagStats    bool
	flagTiming   bool
)

func init() {
	klog.RegisterLoggingFlags(flag.CommandLine, &loggingFlags, "")
	if err := cfg.RegisterFlags(&cmdRun.Flags); err != nil {
		panic(err)
	}
	cmdRun.Flags.BoolVar(&flagStats, "stats", true, "Print timer and thread statistics at power off.")
	cmdRun.Flags.BoolVar(&flagTiming, "timing", false, "Print how long each test took to stderr.")
}

func main() {
	cmdline.Main(cmdRoot)
}

var cmdRoot = &cmdline.Command{
	Name:  "pintos",
	Short: "boots the kernel and runs its built-in tests",
	Long: `
Command pintos boots a simulated single-CPU kernel and runs its built-in
thread, timer and synchronization tests on the initial thread.
`,
	Children: []*cmdline.Command{cmdRun, cmdList},
}

var cmdRun = &cmdline.Command{
	Runner: cmdline.RunnerFunc(runRun),
	Name:   "run",
	Short:  "Run tests",
	Long: `
Run boots a fresh kernel for each named test, runs the test and powers the
kernel off.
`,
	ArgsName: "<test> ...",
	ArgsLong: `<test> is the name of a built-in test; see "pintos list".`,
}

var cmdList = &cmdline.Command{
	Runner: cmdline.RunnerFunc(runList),
	Name:   "list",
	Short:  "List tests",
	Long:   "List prints the names of the built-in tests.",
}

func runRun(env *cmdline.Env, args []string) error {
	if len(args) == 0 {
		return env.UsageErrorf("run: no test named")
	}
	if err := klog.Log.ConfigureFromLoggingFlags(&loggingFlags); err != nil && !errors.Is(err, klog.ErrConfigured) {
		return err
	}
	defer klog.Log.FlushLog()
	timer := timing.NewTimer("pintos run")
	var failed []string
	for _, name := range args {
		timer.Push(name)
		timer.Push("boot")
		k, err := kernel.New(cfg)
		if err != nil {
			return err
		}
		timer.Pop()
		fmt.Fprintf(env.Stdout, "Executing '%s':\n", name)
		err = k.Run(func(k *kernel.Kernel) error {
			timer.Push("run")
			defer timer.Pop()
			return selftest.Run(k, env.Stdout, name)
		})
		timer.Pop()
		if err != nil {
			fmt.Fprintf(env.Stderr, "%v\n", err)
			failed = append(failed, name)
		} else {
			fmt.Fprintf(env.Stdout, "Execution of '%s' complete.\n", name)
		}
		if flagStats {
			k.PrintStats(env.Stdout)
		}
	}
	timer.Finish()
	if flagTiming {
		if err := (timing.IntervalPrinter{}).Print(env.Stderr, timer.Intervals, timer.Now()); err != nil {
			return err
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d tests failed: %s", len(failed), len(args), strings.Join(failed, ", "))
	}
	return nil
}

func runList(env *cmdline.Env, args []string) error {
	if len(args) != 0 {
		return env.UsageErrorf("list: unexpected arguments")
	}
	w := textutil.NewUTF8WrapWriter(env.Stdout, 80)
	fmt.Fprintln(w, strings.Join(selftest.Names(), " "))
	return w.Flush()
}
