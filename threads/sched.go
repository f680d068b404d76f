// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package threads implements kernel threads for a single CPU: thread
// creation and destruction, a round-robin scheduler with timer preemption,
// a sleep queue, and the semaphores, locks and condition variables built on
// top of them.
//
// Each kernel thread runs on its own goroutine, but only the thread that
// holds the CPU ever runs; the others are parked in switchTo.  Scheduler
// state is therefore protected by disabling interrupts, as on a real
// uniprocessor, and never by a mutex.  A thread holding the CPU loses it
// only when it blocks, yields or exits, or when the timer interrupt is
// delivered at one of the controller's delivery points and the thread's
// time slice has run out.
//
// A Scheduler is set up in two steps.  Init adopts the calling goroutine as
// the initial thread "main"; Start creates the idle thread and enables
// interrupts:
//
//	ic := intr.New(nil)
//	s := threads.NewScheduler(ic, palloc.NewPool("kernel", 64))
//	if err := s.Init(); err != nil {
//		...
//	}
//	s.Start()
//	tid, err := s.Create("worker", threads.PriDefault, work, nil)
package threads

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/intr"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/klog"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/list"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/palloc"
)

// DefaultTimeSlice is the number of timer ticks a thread runs before it is
// preempted.
const DefaultTimeSlice = 4

var (
	// ErrNotImplemented is returned by the multilevel feedback queue
	// scheduler's operations, which are not implemented.
	ErrNotImplemented = errors.New("not implemented")

	// ErrPoweredOff is the value the initial thread panics with when the
	// machine is powered off while it waits for the CPU.
	ErrPoweredOff = intr.ErrPoweredOff
)

// An Option configures a Scheduler.
type Option func(*Scheduler)

// WithTimeSlice sets the number of ticks a thread may run before it is
// preempted.
func WithTimeSlice(ticks int) Option {
	return func(s *Scheduler) { s.timeSlice = ticks }
}

// WithMMU sets the MMU address spaces are activated on.
func WithMMU(m MMU) Option {
	return func(s *Scheduler) { s.mmu = m }
}

// WithLogger sets the logger used for scheduler events and kernel panics.
func WithLogger(l *klog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithMLFQS selects the multilevel feedback queue scheduler.
func WithMLFQS(on bool) Option {
	return func(s *Scheduler) { s.mlfqs = on }
}

// Stats counts the timer ticks spent in each kind of thread.
type Stats struct {
	IdleTicks   int64 // ticks spent in the idle thread
	KernelTicks int64 // ticks in kernel threads
	UserTicks   int64 // ticks in threads with an address space
}

// A Scheduler multiplexes one CPU between kernel threads.
type Scheduler struct {
	ic        *intr.Controller
	pages     PageAllocator
	mmu       MMU
	log       *klog.Logger
	timeSlice int
	mlfqs     bool

	// The fields below are protected by disabling interrupts.
	ready       list.List[*Thread] // threads in Ready state, not running
	all         list.List[*Thread] // every live thread
	destruction list.List[*Thread] // dying threads whose pages are still to be freed
	sleeping    list.List[*Thread] // threads blocked in SleepUntil
	cur         *Thread            // the thread holding the CPU
	idle        *Thread
	initial     *Thread
	sliceTicks  int // ticks since the last switch
	stats       Stats

	tidLock Lock
	nextTID TID // protected by tidLock
}

// NewScheduler returns a scheduler for the CPU whose interrupts ic
// controls.  Thread pages come from pages.
func NewScheduler(ic *intr.Controller, pages PageAllocator, opts ...Option) *Scheduler {
	s := &Scheduler{
		ic:        ic,
		pages:     pages,
		log:       klog.Log,
		timeSlice: DefaultTimeSlice,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Init initializes the threading system by turning the calling goroutine
// into the initial thread, "main".  Interrupts must be off.  The pages
// Create needs are not touched until Start.
func (s *Scheduler) Init() error {
	if s.mlfqs {
		return fmt.Errorf("threads: mlfqs scheduler: %w", ErrNotImplemented)
	}
	if s.ic.Level() != intr.Off {
		s.log.Panicf("interrupts must be off")
	}
	if s.timeSlice < 1 {
		s.log.Panicf("time slice %d is not positive", s.timeSlice)
	}
	s.ready.Init()
	s.all.Init()
	s.destruction.Init()
	s.sleeping.Init()

	t := new(Thread)
	t.init("main", PriDefault)
	t.initial = true
	t.status = Running
	s.all.PushBack(&t.allElem)
	s.cur = t
	s.initial = t

	s.tidLock.Init(s)
	t.tid = s.allocateTID()
	s.ic.OnYield(s.Yield)
	s.log.VI(2).Infof("threads: %v initialized", t)
	return nil
}

// Start starts preemptive thread scheduling by enabling interrupts.  It
// also creates the idle thread and returns once the idle thread has run.
func (s *Scheduler) Start() error {
	var started Semaphore
	started.Init(s, 0)
	if _, err := s.Create("idle", PriMin, s.idleLoop, &started); err != nil {
		return err
	}
	s.ic.Enable()
	started.Down()
	return nil
}

// idleLoop() is the body of the idle thread.  It runs only when no other
// thread is ready.  It is put on the ready list once, by Start, so that it
// can record itself and let Start return; after that it is never on the
// ready list and nextThreadToRun returns it as a special case.
func (s *Scheduler) idleLoop(aux interface{}) {
	started := aux.(*Semaphore)
	s.idle = s.cur
	started.Up()
	for {
		// Let someone else run.
		s.ic.Disable()
		s.Block()

		// Enable interrupts and wait for the next one.
		if err := s.ic.Halt(); err != nil {
			runtime.Goexit()
		}
	}
}

// Tick is called by the timer interrupt handler at each timer tick, in
// interrupt context.
func (s *Scheduler) Tick() {
	t := s.cur
	switch {
	case t == s.idle:
		s.stats.IdleTicks++
	case t.as != nil:
		s.stats.UserTicks++
	default:
		s.stats.KernelTicks++
	}

	// Enforce preemption.
	s.sliceTicks++
	if s.sliceTicks >= s.timeSlice {
		s.ic.YieldOnReturn()
	}
}

// Stats returns the tick counts so far.
func (s *Scheduler) Stats() Stats {
	return s.stats
}

// PrintStats prints thread statistics to w.
func (s *Scheduler) PrintStats(w io.Writer) {
	fmt.Fprintf(w, "Thread: %d idle ticks, %d kernel ticks, %d user ticks\n",
		s.stats.IdleTicks, s.stats.KernelTicks, s.stats.UserTicks)
}

// Create creates a new kernel thread named name with the given initial
// priority, which executes fn passing aux as the argument, and adds it to
// the ready queue.  It returns the thread identifier for the new thread,
// or TIDError and an error wrapping palloc.ErrNoMemory if no page is
// available.
//
// The new thread may be scheduled before Create returns, or may even exit
// before Create returns.  Conversely, the calling thread may run for any
// amount of time before the new thread is scheduled.  Use a semaphore or
// some other form of synchronization to ensure ordering.
func (s *Scheduler) Create(name string, priority int, fn ThreadFunc, aux interface{}) (TID, error) {
	if fn == nil {
		s.log.Panicf("nil thread function for %q", name)
	}
	if priority < PriMin || priority > PriMax {
		s.log.Panicf("priority %d out of range", priority)
	}
	page, err := s.pages.Get(palloc.Zero)
	if err != nil {
		return TIDError, fmt.Errorf("threads: create %q: %w", name, err)
	}
	t := new(Thread)
	t.init(name, priority)
	t.page = page
	t.tid = s.allocateTID()

	old := s.ic.Disable()
	s.all.PushBack(&t.allElem)
	s.ic.SetLevel(old)

	go s.kernelThread(t, fn, aux)
	s.log.VI(2).Infof("threads: created %v", t)
	s.Unblock(t)
	return t.tid, nil
}

// Block puts the current thread to sleep.  It will not be scheduled again
// until awoken by Unblock.
//
// Block must be called with interrupts turned off.  It is usually a better
// idea to use one of the synchronization primitives.
func (s *Scheduler) Block() {
	if s.ic.Context() {
		s.log.Panicf("blocking in interrupt context")
	}
	if s.ic.Level() != intr.Off {
		s.log.Panicf("interrupts must be off")
	}
	s.schedule(Blocked)
}

// Unblock transitions a blocked thread t to the ready-to-run state.  It is
// an error if t is not blocked.  (Use Yield to make the running thread
// ready.)
//
// Unblock does not preempt the running thread, so a caller that disabled
// interrupts may rely on unblocking a thread and updating other data
// atomically.
func (s *Scheduler) Unblock(t *Thread) {
	s.check(t)
	old := s.ic.Disable()
	if t.status != Blocked {
		s.log.Panicf("%v is %v, not blocked", t, t.status)
	}
	s.ready.PushBack(&t.elem)
	t.status = Ready
	s.ic.SetLevel(old)
}

// Current returns the running thread.
func (s *Scheduler) Current() *Thread {
	t := s.cur
	s.check(t)
	if t.status != Running {
		s.log.Panicf("current thread %v is %v", t, t.status)
	}
	return t
}

// CurrentTID returns the running thread's TID.
func (s *Scheduler) CurrentTID() TID {
	return s.Current().tid
}

// Name returns the name of the running thread.
func (s *Scheduler) Name() string {
	return s.Current().name
}

// Exit deschedules the current thread and destroys it.  It never returns.
// Deferred calls of the thread function run before the thread dies.  The
// initial thread may not exit; it returns from the kernel's main function
// instead.
func (s *Scheduler) Exit() {
	if s.ic.Context() {
		s.log.Panicf("exit in interrupt context")
	}
	t := s.Current()
	if t.initial {
		s.log.Panicf("the initial thread may not exit")
	}
	t.exiting = true
	runtime.Goexit()
}

// exit() takes the running thread off the registry and switches away from
// it for good.  The caller's goroutine must return as soon as exit does.
func (s *Scheduler) exit() {
	s.ic.Disable()
	t := s.Current()
	list.Remove(&t.allElem)
	s.log.VI(2).Infof("threads: %v exiting", t)
	s.schedule(Dying)
}

// Yield yields the CPU.  The current thread is not put to sleep and may be
// scheduled again immediately at the scheduler's whim.
func (s *Scheduler) Yield() {
	if s.ic.Context() {
		s.log.Panicf("yield in interrupt context")
	}
	old := s.ic.Disable()
	if t := s.Current(); t != s.idle {
		s.ready.PushBack(&t.elem)
	}
	s.schedule(Ready)
	s.ic.SetLevel(old)
}

// Priority returns the current thread's priority.
func (s *Scheduler) Priority() int {
	return s.Current().priority
}

// SetPriority sets the current thread's priority.  The round-robin
// scheduler records it but does not act on it.
func (s *Scheduler) SetPriority(priority int) {
	if priority < PriMin || priority > PriMax {
		s.log.Panicf("priority %d out of range", priority)
	}
	s.Current().priority = priority
}

// PowerOff powers the machine off.  Threads waiting for the CPU never get
// it again.  When called from the initial thread PowerOff returns and the
// caller should return from the kernel's main function; any other thread's
// goroutine exits.
func (s *Scheduler) PowerOff() {
	s.log.VI(1).Infof("threads: powering off")
	t := s.cur
	s.ic.PowerOff()
	if !t.initial {
		runtime.Goexit()
	}
}

// nextThreadToRun() chooses and returns the next thread to be scheduled.
// It returns a thread from the ready list, unless the ready list is empty,
// in which case it returns the idle thread.
func (s *Scheduler) nextThreadToRun() *Thread {
	if s.ready.Empty() {
		if s.idle == nil {
			s.log.Panicf("no thread to run")
		}
		return s.idle
	}
	return s.ready.PopFront().Value()
}

// schedule() sets the current thread's status to status and switches to
// the next thread to run, which may be the current thread itself.
// Interrupts must be off and the current thread must be running.
//
// It is not safe to call Printf or log until the switch completes.
func (s *Scheduler) schedule(status Status) {
	if s.ic.Level() != intr.Off {
		s.log.Panicf("interrupts must be off")
	}
	cur := s.cur
	if cur.status != Running {
		s.log.Panicf("%v is %v, not running", cur, cur.status)
	}
	s.drainDestruction()
	cur.status = status

	next := s.nextThreadToRun()
	s.check(next)
	next.status = Running
	s.sliceTicks = 0
	if s.mmu != nil {
		s.mmu.Activate(next.as)
	}
	if cur == next {
		return
	}
	// A dying thread is still running on its page, so the page is freed
	// at the next schedule, by whichever thread runs then.  The initial
	// thread has no page.
	if cur.status == Dying && cur != s.initial {
		s.destruction.PushBack(&cur.elem)
	}
	s.cur = next
	s.switchTo(cur, next)
}

// drainDestruction() frees the pages of threads that died on an earlier
// switch.
func (s *Scheduler) drainDestruction() {
	for !s.destruction.Empty() {
		t := s.destruction.PopFront().Value()
		s.pages.Free(t.page)
		t.page = nil
		t.magic = 0
	}
}

// check() panics unless t is a live thread.
func (s *Scheduler) check(t *Thread) {
	if !t.valid() {
		s.log.Panicf("invalid thread handle %p", t)
	}
}
