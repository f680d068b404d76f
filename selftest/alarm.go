// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package selftest

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/threads"
)

// sleepTest is shared by every thread of testSleep.
type sleepTest struct {
	start      int64 // tick the sleeps are measured from
	iterations int

	outputLock threads.Lock // protects the fields below
	output     []int        // thread ids in wake order
	lateness   []float64    // ticks each wakeup came after its deadline
}

type sleepThread struct {
	test       *sleepTest
	id         int
	duration   int64 // ticks to sleep each time
	iterations int   // wakeups seen while checking
}

// testSleep creates threadCnt threads that each sleep iterations times,
// thread i for (i+1)*10 ticks at a time, and checks that they wake in the
// right order.
func testSleep(t *T, threadCnt, iterations int) error {
	k := t.Kernel
	if k.Config.MLFQS {
		return t.Failf("incompatible with the mlfqs scheduler")
	}
	t.Msgf("Creating %d threads to sleep %d times each.", threadCnt, iterations)
	t.Msgf("Thread 0 sleeps 10 ticks each time,")
	t.Msgf("thread 1 sleeps 20 ticks each time, and so on.")
	t.Msgf("If successful, product of iteration count and")
	t.Msgf("sleep duration will appear in nondescending order.")

	test := &sleepTest{start: k.Timer.Ticks() + 100, iterations: iterations}
	test.outputLock.Init(k.Sched)
	sleepers := make([]sleepThread, threadCnt)
	for i := range sleepers {
		st := &sleepers[i]
		st.test = test
		st.id = i
		st.duration = int64(i+1) * 10
		if _, err := k.Sched.Create(fmt.Sprintf("thread %d", i), threads.PriDefault, func(interface{}) { sleeper(t, st) }, nil); err != nil {
			return t.Failf("%v", err)
		}
	}

	// Wait long enough for all the threads to finish.
	k.Timer.Sleep(100 + int64(threadCnt*iterations)*10 + 100)

	// Acquire the output lock in case some rogue thread is still running.
	test.outputLock.Acquire()
	defer test.outputLock.Release()

	var product int64
	for _, id := range test.output {
		if id < 0 || id >= threadCnt {
			return t.Failf("bad thread id %d", id)
		}
		st := &sleepers[id]
		st.iterations++
		newProd := int64(st.iterations) * st.duration
		t.Msgf("thread %d: duration=%d, iteration=%d, product=%d", st.id, st.duration, st.iterations, newProd)
		if newProd < product {
			return t.Failf("thread %d woke up out of order (%d > %d)!", st.id, product, newProd)
		}
		product = newProd
	}
	for i := range sleepers {
		if sleepers[i].iterations != iterations {
			return t.Failf("thread %d woke up %d times instead of %d", i, sleepers[i].iterations, iterations)
		}
	}
	if len(test.lateness) > 0 {
		lo, hi := stats.Bounds(test.lateness)
		t.Msgf("wakeup lateness: mean %.2f, stddev %.2f, min %.0f, max %.0f ticks",
			stats.Mean(test.lateness), stats.StdDev(test.lateness), lo, hi)
	}
	return nil
}

// sleeper is the body of each testSleep thread.
func sleeper(t *T, st *sleepThread) {
	test := st.test
	tm := t.Kernel.Timer
	for i := 1; i <= test.iterations; i++ {
		sleepUntil := test.start + int64(i)*st.duration
		tm.Sleep(sleepUntil - tm.Ticks())
		late := tm.Ticks() - sleepUntil
		test.outputLock.Acquire()
		test.output = append(test.output, st.id)
		test.lateness = append(test.lateness, float64(late))
		test.outputLock.Release()
	}
}

// alarmSimultaneous creates three threads that each sleep 10 ticks five
// times, all starting at the same moment, and checks that each round of
// wakeups happens on a single tick.
func alarmSimultaneous(t *T) error {
	const threadCnt, iterations = 3, 5
	k := t.Kernel
	tm := k.Timer
	t.Msgf("Creating %d threads to sleep %d times each.", threadCnt, iterations)
	t.Msgf("Each thread sleeps 10 ticks each time.")
	t.Msgf("Within an iteration, all threads should wake up on the same tick.")

	start := tm.Ticks() + 100
	var (
		lock   threads.Lock
		output []int64
	)
	lock.Init(k.Sched)
	for i := 0; i < threadCnt; i++ {
		_, err := k.Sched.Create(fmt.Sprintf("thread %d", i), threads.PriDefault, func(interface{}) {
			for j := 1; j <= iterations; j++ {
				tm.Sleep(start + int64(j)*10 - tm.Ticks())
				lock.Acquire()
				output = append(output, tm.Ticks())
				lock.Release()
			}
		}, nil)
		if err != nil {
			return t.Failf("%v", err)
		}
	}

	// Wait long enough for all the threads to finish.
	tm.Sleep(100 + iterations*10 + 100)

	lock.Acquire()
	defer lock.Release()
	if got, want := len(output), threadCnt*iterations; got != want {
		return t.Failf("%d wakeups, want %d", got, want)
	}
	t.Msgf("iteration 0, thread 0: woke up after %d ticks", output[0]-start)
	for i := 1; i < len(output); i++ {
		t.Msgf("iteration %d, thread %d: woke up %d ticks later", i/threadCnt, i%threadCnt, output[i]-output[i-1])
	}
	for i, at := range output {
		if want := start + int64(i/threadCnt+1)*10; at != want {
			return t.Failf("wakeup %d at tick %d, want %d", i, at, want)
		}
	}
	return nil
}

// alarmZero checks that a sleep of zero ticks returns at once.
func alarmZero(t *T) error {
	tm := t.Kernel.Timer
	before := tm.Ticks()
	tm.Sleep(0)
	if d := tm.Elapsed(before); d != 0 {
		return t.Failf("sleep(0) took %d ticks", d)
	}
	t.Msgf("PASS")
	return nil
}

// alarmNegative checks that a negative sleep returns at once.
func alarmNegative(t *T) error {
	tm := t.Kernel.Timer
	before := tm.Ticks()
	tm.Sleep(-100)
	if d := tm.Elapsed(before); d != 0 {
		return t.Failf("sleep(-100) took %d ticks", d)
	}
	t.Msgf("PASS")
	return nil
}
