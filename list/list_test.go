// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package list_test

import (
	"math/rand"
	"reflect"
	"sort"
	"testing"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/list"
)

// An item is a test structure with an embedded list element.  seq records
// insertion order so that stability can be checked.
type item struct {
	key  int
	seq  int
	elem list.Elem[*item]
}

func newItem(key, seq int) *item {
	it := &item{key: key, seq: seq}
	it.elem.Init(it)
	return it
}

func byKey(a, b *item) bool { return a.key < b.key }

// build() returns a list holding one item per key, in order.
func build(keys ...int) *list.List[*item] {
	l := new(list.List[*item])
	l.Init()
	for i, k := range keys {
		l.PushBack(&newItem(k, i).elem)
	}
	return l
}

// keys() returns the keys of l front to back.
func keys(l *list.List[*item]) []int {
	var ks []int
	for e := l.Begin(); e != l.End(); e = e.Next() {
		ks = append(ks, e.Value().key)
	}
	return ks
}

// checkLinks() verifies that l can be walked forwards and backwards, that
// both walks agree, and that no sentinel is reachable as data.
func checkLinks(t *testing.T, l *list.List[*item]) {
	t.Helper()
	var fwd, bwd []*list.Elem[*item]
	for e := l.Begin(); e != l.End(); e = e.Next() {
		if e == l.Head() {
			t.Fatalf("head reachable as an element")
		}
		fwd = append(fwd, e)
	}
	for e := l.RBegin(); e != l.REnd(); e = e.Prev() {
		if e == l.Tail() {
			t.Fatalf("tail reachable as an element")
		}
		bwd = append(bwd, e)
	}
	if len(fwd) != len(bwd) {
		t.Fatalf("forward walk has %d elements, backward walk %d", len(fwd), len(bwd))
	}
	for i := range fwd {
		if fwd[i] != bwd[len(bwd)-1-i] {
			t.Fatalf("forward and backward walks disagree at %d", i)
		}
	}
	if got, want := l.Len(), len(fwd); got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
}

func TestPushPop(t *testing.T) {
	l := build()
	if !l.Empty() || l.Len() != 0 {
		t.Fatalf("new list not empty")
	}
	for i := 0; i != 4; i++ {
		l.PushBack(&newItem(i, i).elem)
	}
	l.PushFront(&newItem(-1, 4).elem)
	checkLinks(t, l)
	if got, want := keys(l), []int{-1, 0, 1, 2, 3}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := l.PopFront().Value().key; got != -1 {
		t.Errorf("PopFront() = %d, want -1", got)
	}
	if got := l.PopBack().Value().key; got != 3 {
		t.Errorf("PopBack() = %d, want 3", got)
	}
	if got, want := l.Front().Value().key, 0; got != want {
		t.Errorf("Front() = %d, want %d", got, want)
	}
	if got, want := l.Back().Value().key, 2; got != want {
		t.Errorf("Back() = %d, want %d", got, want)
	}
	checkLinks(t, l)
}

func TestRemoveReturnsNext(t *testing.T) {
	l := build(1, 2, 3, 4, 5, 6)
	// Remove the even keys while iterating.
	for e := l.Begin(); e != l.End(); {
		if e.Value().key%2 == 0 {
			e = list.Remove(e)
		} else {
			e = e.Next()
		}
	}
	checkLinks(t, l)
	if got, want := keys(l), []int{1, 3, 5}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestReverse(t *testing.T) {
	for _, ks := range [][]int{nil, {1}, {1, 2}, {3, 1, 2, 5, 4}} {
		l := build(ks...)
		l.Reverse()
		checkLinks(t, l)
		var want []int
		for i := len(ks) - 1; i >= 0; i-- {
			want = append(want, ks[i])
		}
		if got := keys(l); !reflect.DeepEqual(got, want) {
			t.Errorf("Reverse(%v) = %v, want %v", ks, got, want)
		}
		l.Reverse()
		checkLinks(t, l)
		if got := keys(l); !reflect.DeepEqual(got, ks) {
			t.Errorf("Reverse(Reverse(%v)) = %v", ks, got)
		}
	}
}

func TestSplice(t *testing.T) {
	a := build(1, 2, 3, 4, 5)
	b := build(10, 20)
	// Move [2,4) from a to just before 20 in b.
	first := a.Begin().Next()
	last := first.Next().Next()
	list.Splice(b.RBegin(), first, last)
	checkLinks(t, a)
	checkLinks(t, b)
	if got, want := keys(a), []int{1, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("source: got %v, want %v", got, want)
	}
	if got, want := keys(b), []int{10, 2, 3, 20}; !reflect.DeepEqual(got, want) {
		t.Errorf("destination: got %v, want %v", got, want)
	}
	if got := a.Len() + b.Len(); got != 7 {
		t.Errorf("total elements %d, want 7", got)
	}

	// An empty run is a no-op.
	list.Splice(b.End(), a.Begin(), a.Begin())
	checkLinks(t, a)
	checkLinks(t, b)

	// Moving a whole list empties it.
	list.Splice(b.End(), a.Begin(), a.End())
	checkLinks(t, a)
	checkLinks(t, b)
	if !a.Empty() {
		t.Errorf("source not empty after moving everything: %v", keys(a))
	}
	if got, want := keys(b), []int{10, 2, 3, 20, 1, 4, 5}; !reflect.DeepEqual(got, want) {
		t.Errorf("destination: got %v, want %v", got, want)
	}
}

func TestSortRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, n := range []int{0, 1, 2, 3, 7, 64, 1000} {
		for trial := 0; trial != 10; trial++ {
			ks := make([]int, n)
			for i := range ks {
				ks[i] = rnd.Intn(n/2 + 1)
			}
			l := build(ks...)
			l.Sort(byKey)
			checkLinks(t, l)
			want := append([]int(nil), ks...)
			sort.Ints(want)
			got := keys(l)
			if len(got) != len(want) {
				t.Fatalf("Sort changed the length from %d to %d", len(want), len(got))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Fatalf("Sort(%v) = %v, want %v", ks, got, want)
				}
			}
		}
	}
}

func TestSortDescending(t *testing.T) {
	l := build(9, 8, 7, 6, 5, 4, 3, 2, 1, 0)
	l.Sort(byKey)
	checkLinks(t, l)
	if got, want := keys(l), []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestInsertOrderedIsStable(t *testing.T) {
	l := build(1, 3, 3, 5)
	it := newItem(3, 99)
	l.InsertOrdered(&it.elem, byKey)
	checkLinks(t, l)
	var seqs []int
	for e := l.Begin(); e != l.End(); e = e.Next() {
		seqs = append(seqs, e.Value().seq)
	}
	if want := []int{0, 1, 2, 99, 3}; !reflect.DeepEqual(seqs, want) {
		t.Fatalf("insertion order %v, want %v", seqs, want)
	}
	l.InsertOrdered(&newItem(0, 100).elem, byKey)
	l.InsertOrdered(&newItem(9, 101).elem, byKey)
	if got, want := keys(l), []int{0, 1, 3, 3, 3, 5, 9}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestUnique(t *testing.T) {
	l := build(1, 1, 2, 3, 3, 3, 1)
	dups := build()
	l.Unique(dups, byKey)
	checkLinks(t, l)
	checkLinks(t, dups)
	if got, want := keys(l), []int{1, 2, 3, 1}; !reflect.DeepEqual(got, want) {
		t.Errorf("unique: got %v, want %v", got, want)
	}
	if got, want := keys(dups), []int{1, 3, 3}; !reflect.DeepEqual(got, want) {
		t.Errorf("duplicates: got %v, want %v", got, want)
	}

	l = build(4, 4, 4)
	l.Unique(nil, byKey)
	if got, want := keys(l), []int{4}; !reflect.DeepEqual(got, want) {
		t.Errorf("unique without duplicates list: got %v, want %v", got, want)
	}
}

func TestMaxMinEarliest(t *testing.T) {
	l := build(2, 7, 1, 7, 1)
	if got := l.Max(byKey).Value(); got.key != 7 || got.seq != 1 {
		t.Errorf("Max() = %+v, want key 7 seq 1", got)
	}
	if got := l.Min(byKey).Value(); got.key != 1 || got.seq != 2 {
		t.Errorf("Min() = %+v, want key 1 seq 2", got)
	}
	empty := build()
	if empty.Max(byKey) != empty.End() || empty.Min(byKey) != empty.End() {
		t.Errorf("Max/Min of an empty list is not End()")
	}
}

// mustPanic() runs f and reports an error if it does not panic.
func mustPanic(t *testing.T, what string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s did not panic", what)
		}
	}()
	f()
}

func TestRoleViolations(t *testing.T) {
	l := build(1)
	mustPanic(t, "Value of head", func() { l.Head().Value() })
	mustPanic(t, "Value of tail", func() { l.End().Value() })
	mustPanic(t, "Next of tail", func() { l.End().Next() })
	mustPanic(t, "Prev of head", func() { l.REnd().Prev() })
	mustPanic(t, "Insert before head", func() { list.Insert(l.Head(), &newItem(0, 0).elem) })
	mustPanic(t, "Remove of tail", func() { list.Remove(l.Tail()) })
	mustPanic(t, "Front of empty", func() { build().Front() })
	mustPanic(t, "PopBack of empty", func() { build().PopBack() })
	mustPanic(t, "Value of detached", func() { newItem(0, 0).elem.Value() })
}
