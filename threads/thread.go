// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package threads

import (
	"fmt"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/list"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/palloc"
)

// A TID identifies a kernel thread.  TIDs are assigned from 1 upwards and
// are never reused.
type TID int

// TIDError is returned by Create when no thread was created.
const TIDError TID = -1

// Status is the scheduling state of a thread.
type Status int

const (
	Running Status = iota // the thread holds the CPU
	Ready                 // not running but ready to run
	Blocked               // waiting for an event to trigger
	Dying                 // about to be destroyed
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Ready:
		return "ready"
	case Blocked:
		return "blocked"
	case Dying:
		return "dying"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Thread priorities.
const (
	PriMin     = 0  // lowest priority
	PriDefault = 31 // default priority
	PriMax     = 63 // highest priority
)

// threadMagic detects a stale or corrupted thread handle.
const threadMagic = 0xcd6abf4b

// nameMax bounds the length of a thread name, in bytes.
const nameMax = 15

// A ThreadFunc is the body of a kernel thread.
type ThreadFunc func(aux interface{})

// An AddressSpace is the user address space a thread runs in.  The
// scheduler does not look inside it; it only hands it to the MMU.
type AddressSpace interface{}

// An MMU installs address spaces.  Activate is called on every switch with
// the address space of the incoming thread, nil for a pure kernel thread.
type MMU interface {
	Activate(as AddressSpace)
}

// A PageAllocator supplies the memory block each new thread lives in.
// *palloc.Pool implements it.
type PageAllocator interface {
	Get(flags palloc.Flags) (*palloc.Page, error)
	Free(page *palloc.Page)
}

// A Thread is a kernel thread.
//
// The elem member has a dual purpose.  It can be an element of the ready
// list, of a semaphore's waiter list, of the sleep list, or of the
// destruction queue.  These are mutually exclusive: only a ready thread is
// on the ready list, only a blocked thread is on a waiter or the sleep
// list, and only a dying thread is on the destruction queue.
type Thread struct {
	tid      TID
	status   Status
	name     string
	priority int
	wakeTick int64 // tick to wake at, valid only while on the sleep list

	elem    list.Elem[*Thread] // ready, waiter, sleep or destruction list
	allElem list.Elem[*Thread] // registry of live threads

	resume  binarySemaphore // the thread's saved context, see switch.go
	page    *palloc.Page
	as      AddressSpace
	initial bool // the thread Init adopted
	exiting bool // Exit was called

	// Reserved for priority donation; the round-robin scheduler never
	// reads them.
	initialPriority int
	waitOnLock      *Lock
	donations       list.List[*Thread]
	donationElem    list.Elem[*Thread]

	magic uint32 // detects stale handles; must stay last
}

// init() sets up t as a blocked thread named name.
func (t *Thread) init(name string, priority int) {
	if len(name) > nameMax {
		name = name[:nameMax]
	}
	t.name = name
	t.status = Blocked
	t.priority = priority
	t.initialPriority = priority
	t.elem.Init(t)
	t.allElem.Init(t)
	t.donationElem.Init(t)
	t.donations.Init()
	t.resume.Init()
	t.magic = threadMagic
}

// valid() returns whether t looks like a live thread.
func (t *Thread) valid() bool {
	return t != nil && t.magic == threadMagic
}

// TID returns t's thread identifier.
func (t *Thread) TID() TID { return t.tid }

// Name returns t's name.
func (t *Thread) Name() string { return t.name }

// Status returns t's scheduling state.
func (t *Thread) Status() Status { return t.status }

// Priority returns t's priority.
func (t *Thread) Priority() int { return t.priority }

// AddressSpace returns the address space t runs in, or nil.
func (t *Thread) AddressSpace() AddressSpace { return t.as }

// SetAddressSpace sets the address space t runs in.  It takes effect the
// next time t is scheduled.
func (t *Thread) SetAddressSpace(as AddressSpace) { t.as = as }

func (t *Thread) String() string {
	return fmt.Sprintf("%s(%d)", t.name, t.tid)
}

// ThreadInfo is a snapshot of one thread for diagnostics.
type ThreadInfo struct {
	TID      TID
	Name     string
	Status   Status
	Priority int
}

// Lookup returns the live thread whose TID is tid, or nil.
func (s *Scheduler) Lookup(tid TID) *Thread {
	old := s.ic.Disable()
	defer s.ic.SetLevel(old)
	for e := s.all.Begin(); e != s.all.End(); e = e.Next() {
		if t := e.Value(); t.tid == tid {
			return t
		}
	}
	return nil
}

// Threads returns a snapshot of every live thread in creation order.
func (s *Scheduler) Threads() []ThreadInfo {
	old := s.ic.Disable()
	defer s.ic.SetLevel(old)
	var infos []ThreadInfo
	for e := s.all.Begin(); e != s.all.End(); e = e.Next() {
		t := e.Value()
		infos = append(infos, ThreadInfo{TID: t.tid, Name: t.name, Status: t.status, Priority: t.priority})
	}
	return infos
}

// allocateTID returns a TID to use for a new thread.
func (s *Scheduler) allocateTID() TID {
	s.tidLock.Acquire()
	s.nextTID++
	tid := s.nextTID
	s.tidLock.Release()
	return tid
}
