// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package list

// A LessFunc reports whether a orders strictly before b.
type LessFunc[T any] func(a, b T) bool

func (less LessFunc[T]) elems(a, b *Elem[T]) bool {
	return less(a.Value(), b.Value())
}

// isSorted reports whether the elements a through b (exclusive) are in
// non-decreasing order under less.
func isSorted[T any](a, b *Elem[T], less LessFunc[T]) bool {
	if a != b {
		for a = a.Next(); a != b; a = a.Next() {
			if less.elems(a, a.Prev()) {
				return false
			}
		}
	}
	return true
}

// findEndOfRun returns the element just past the run of non-decreasing
// elements that starts at a and does not extend beyond b.
// Requires a != b.
func findEndOfRun[T any](a, b *Elem[T], less LessFunc[T]) *Elem[T] {
	if a == b {
		panic("list: empty run")
	}
	for {
		a = a.Next()
		if a == b || less.elems(a, a.Prev()) {
			return a
		}
	}
}

// inplaceMerge merges the sorted runs a0...a1b0 and a1b0...b1 (both
// exclusive) into a single sorted run ending just before b1.
func inplaceMerge[T any](a0, a1b0, b1 *Elem[T], less LessFunc[T]) {
	for a0 != a1b0 && a1b0 != b1 {
		if !less.elems(a1b0, a0) {
			a0 = a0.Next()
		} else {
			a1b0 = a1b0.Next()
			Splice(a0, a1b0.Prev(), a1b0)
		}
	}
}

// Sort sorts l in non-decreasing order under less using a natural
// iterative merge sort: O(n log n) time and O(1) space.  Equal elements may
// be reordered.
func (l *List[T]) Sort(less LessFunc[T]) {
	if less == nil {
		panic("list: Sort with nil less")
	}
	// Pass over the list repeatedly, merging adjacent runs of
	// non-decreasing elements, until only one run is left.
	for {
		runs := 0
		var b1 *Elem[T]
		for a0 := l.Begin(); a0 != l.End(); a0 = b1 {
			runs++
			a1b0 := findEndOfRun(a0, l.End(), less)
			if a1b0 == l.End() {
				break
			}
			b1 = findEndOfRun(a1b0, l.End(), less)
			inplaceMerge(a0, a1b0, b1, less)
		}
		if runs <= 1 {
			break
		}
	}
	if !isSorted(l.Begin(), l.End(), less) {
		panic("list: Sort produced an unsorted list")
	}
}

// InsertOrdered inserts elem in the proper position in l, which must be
// sorted under less.  elem goes after every element equal to it.
// It runs in O(n) average time.
func (l *List[T]) InsertOrdered(elem *Elem[T], less LessFunc[T]) {
	if elem == nil || less == nil {
		panic("list: InsertOrdered with nil argument")
	}
	v := elem.owner
	e := l.Begin()
	for ; e != l.End(); e = e.Next() {
		if less(v, e.Value()) {
			break
		}
	}
	Insert(e, elem)
}

// Unique walks l and removes from it every element that is equal under less
// to the element just before it.  If duplicates is non-nil, the removed
// elements are appended to it.
func (l *List[T]) Unique(duplicates *List[T], less LessFunc[T]) {
	if less == nil {
		panic("list: Unique with nil less")
	}
	if l.Empty() {
		return
	}
	elem := l.Begin()
	for next := elem.Next(); next != l.End(); next = elem.Next() {
		if !less.elems(elem, next) && !less.elems(next, elem) {
			Remove(next)
			if duplicates != nil {
				duplicates.PushBack(next)
			}
		} else {
			elem = next
		}
	}
}

// Max returns the element of l with the largest value under less, or End()
// if l is empty.  When several elements are maximal the earliest is
// returned.
func (l *List[T]) Max(less LessFunc[T]) *Elem[T] {
	max := l.Begin()
	if max != l.End() {
		for e := max.Next(); e != l.End(); e = e.Next() {
			if less.elems(max, e) {
				max = e
			}
		}
	}
	return max
}

// Min returns the element of l with the smallest value under less, or End()
// if l is empty.  When several elements are minimal the earliest is
// returned.
func (l *List[T]) Min(less LessFunc[T]) *Elem[T] {
	min := l.Begin()
	if min != l.End() {
		for e := min.Next(); e != l.End(); e = e.Next() {
			if less.elems(e, min) {
				min = e
			}
		}
	}
	return min
}
