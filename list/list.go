// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package list implements an intrusive doubly-linked list.
//
// The links of a list live inside the structures that sit on it: a structure
// embeds an Elem and the list only relinks elements, it never allocates or
// frees them.  This lets a kernel thread move between the ready queue and the
// waiter queue of a semaphore without any allocation on the switch path.
//
// A List has two sentinel elements, the head just before the first element
// and the tail just after the last one.  An empty list looks like this:
//
//	      +------+     +------+
//	  <---| head |<--->| tail |--->
//	      +------+     +------+
//
// and a list with two elements in it looks like this:
//
//	      +------+     +-------+     +-------+     +------+
//	  <---| head |<--->|   1   |<--->|   2   |<--->| tail |<--->
//	      +------+     +-------+     +-------+     +------+
//
// The prev link of the head and the next link of the tail are nil; every
// other link of a list in use is non-nil.  That is how the operations below
// tell the head, interior elements and the tail apart before following a
// link; handing an element of the wrong role to an operation panics.
//
// Typical iteration, where l is a *List[*T]:
//
//	for e := l.Begin(); e != l.End(); e = e.Next() {
//		t := e.Value()
//		...
//	}
package list

// An Elem is a link embedded in a structure of type T so that the structure
// can be placed on a List[T].
type Elem[T any] struct {
	prev  *Elem[T]
	next  *Elem[T]
	owner T // the structure this Elem is embedded in; the zero T for sentinels.
}

// Init records the structure e is embedded in.  It must be called once,
// before e is first placed on a list.
func (e *Elem[T]) Init(owner T) {
	e.owner = owner
}

// Value returns the structure e is embedded in.
// Requires that e is an interior element.
func (e *Elem[T]) Value() T {
	if !e.isInterior() {
		panic("list: Value of a sentinel or detached element")
	}
	return e.owner
}

// Next returns the element after e.  If e is the last element of its list,
// Next returns the list's tail.
// Requires that e is a head or an interior element.
func (e *Elem[T]) Next() *Elem[T] {
	if !e.isHead() && !e.isInterior() {
		panic("list: Next of a tail or detached element")
	}
	return e.next
}

// Prev returns the element before e.  If e is the first element of its list,
// Prev returns the list's head.
// Requires that e is an interior element or a tail.
func (e *Elem[T]) Prev() *Elem[T] {
	if !e.isInterior() && !e.isTail() {
		panic("list: Prev of a head or detached element")
	}
	return e.prev
}

func (e *Elem[T]) isHead() bool {
	return e != nil && e.prev == nil && e.next != nil
}

func (e *Elem[T]) isInterior() bool {
	return e != nil && e.prev != nil && e.next != nil
}

func (e *Elem[T]) isTail() bool {
	return e != nil && e.prev != nil && e.next == nil
}

// A List is a doubly-linked list of structures of type T.
// A List must be initialized with Init before use and must not be copied
// afterwards, since its sentinels point at each other.
type List[T any] struct {
	head Elem[T]
	tail Elem[T]
}

// Init makes l empty.  Any elements l previously held are forgotten.
func (l *List[T]) Init() {
	l.head.prev = nil
	l.head.next = &l.tail
	l.tail.prev = &l.head
	l.tail.next = nil
}

// Begin returns the first element of l, or End() if l is empty.
func (l *List[T]) Begin() *Elem[T] {
	return l.head.next
}

// End returns l's tail.  It is the terminator for forward iteration, not an
// element.
func (l *List[T]) End() *Elem[T] {
	return &l.tail
}

// RBegin returns the last element of l, or REnd() if l is empty.
func (l *List[T]) RBegin() *Elem[T] {
	return l.tail.prev
}

// REnd returns l's head.  It is the terminator for reverse iteration.
func (l *List[T]) REnd() *Elem[T] {
	return &l.head
}

// Head returns l's head sentinel.
func (l *List[T]) Head() *Elem[T] {
	return &l.head
}

// Tail returns l's tail sentinel.
func (l *List[T]) Tail() *Elem[T] {
	return &l.tail
}

// Insert inserts elem just before before, which may be an interior element
// or a tail.  elem must not currently be on a list.
func Insert[T any](before, elem *Elem[T]) {
	if !before.isInterior() && !before.isTail() {
		panic("list: Insert before a head or detached element")
	}
	if elem == nil {
		panic("list: Insert of nil element")
	}
	elem.prev = before.prev
	elem.next = before
	before.prev.next = elem
	before.prev = elem
}

// Splice removes the elements first through last (exclusive) from their
// current list and inserts them just before before, which may be an interior
// element or a tail.  The run may come from any list, including the one
// before belongs to, as long as before is not inside it.  Splice takes
// constant time whatever the length of the run.
func Splice[T any](before, first, last *Elem[T]) {
	if !before.isInterior() && !before.isTail() {
		panic("list: Splice before a head or detached element")
	}
	if first == last {
		return
	}
	last = last.Prev()
	if !first.isInterior() || !last.isInterior() {
		panic("list: Splice of a run that is not interior")
	}

	// Cleanly remove first...last from its current list.
	first.prev.next = last.next
	last.next.prev = first.prev

	// Splice first...last into the new list.
	first.prev = before.prev
	last.next = before
	before.prev.next = first
	before.prev = last
}

// Remove removes elem from its list and returns the element that followed
// it.  elem's own links are left as they were, so it is an error to treat
// elem as being on a list afterwards, but iteration of the form
//
//	for e := l.Begin(); e != l.End(); e = list.Remove(e) { ... }
//
// works.
func Remove[T any](elem *Elem[T]) *Elem[T] {
	if !elem.isInterior() {
		panic("list: Remove of a sentinel or detached element")
	}
	elem.prev.next = elem.next
	elem.next.prev = elem.prev
	return elem.next
}

// PushFront inserts elem at the beginning of l.
func (l *List[T]) PushFront(elem *Elem[T]) {
	Insert(l.Begin(), elem)
}

// PushBack inserts elem at the end of l.
func (l *List[T]) PushBack(elem *Elem[T]) {
	Insert(l.End(), elem)
}

// PopFront removes and returns the first element of l.
// Requires that l is not empty.
func (l *List[T]) PopFront() *Elem[T] {
	front := l.Front()
	Remove(front)
	return front
}

// PopBack removes and returns the last element of l.
// Requires that l is not empty.
func (l *List[T]) PopBack() *Elem[T] {
	back := l.Back()
	Remove(back)
	return back
}

// Front returns the first element of l.
// Requires that l is not empty.
func (l *List[T]) Front() *Elem[T] {
	if l.Empty() {
		panic("list: Front of an empty list")
	}
	return l.head.next
}

// Back returns the last element of l.
// Requires that l is not empty.
func (l *List[T]) Back() *Elem[T] {
	if l.Empty() {
		panic("list: Back of an empty list")
	}
	return l.tail.prev
}

// Len returns the number of elements in l.  It runs in O(n) time.
func (l *List[T]) Len() int {
	n := 0
	for e := l.Begin(); e != l.End(); e = e.Next() {
		n++
	}
	return n
}

// Empty returns whether l has no elements.
func (l *List[T]) Empty() bool {
	return l.Begin() == l.End()
}

// Reverse reverses the order of l in place.
func (l *List[T]) Reverse() {
	if l.Empty() {
		return
	}
	for e := l.Begin(); e != l.End(); e = e.prev {
		e.prev, e.next = e.next, e.prev
	}
	l.head.next, l.tail.prev = l.tail.prev, l.head.next
	l.head.next.prev, l.tail.prev.next = &l.head, &l.tail
}
