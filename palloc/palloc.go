// Copyright 2026 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package palloc is the kernel's page allocator.  A Pool hands out
// fixed-size pages from a pool created at boot; every kernel thread other
// than the initial one lives in one page obtained from the kernel pool.
package palloc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/klog"
	"github.com/Jungle-Pintos-Team6/Jungle-PintOS/list"
)

// PageSize is the size of a page in bytes.
const PageSize = 4096

// ErrNoMemory is returned when a pool has no free page.
var ErrNoMemory = errors.New("out of pages")

// Flags modify Get.
type Flags uint

const (
	// Zero fills the page with zeros.
	Zero Flags = 1 << iota
	// Assert makes exhaustion a kernel panic rather than an error.
	Assert
)

// A Page is one page of a Pool.
type Page struct {
	index int
	data  []byte
	elem  list.Elem[*Page]
	inUse bool
	pool  *Pool
}

// Bytes returns the contents of the page.
func (p *Page) Bytes() []byte { return p.data }

// Index returns the page's position in its pool.
func (p *Page) Index() int { return p.index }

// A Pool is a fixed set of pages.  Its methods may be called from any
// goroutine.
type Pool struct {
	name  string
	mem   []byte
	pages []Page
	log   *klog.Logger

	mu    sync.Mutex
	free  list.List[*Page] // guarded by mu
	inUse int              // guarded by mu
}

// NewPool returns a pool of n pages called name.
func NewPool(name string, n int) *Pool {
	if n < 0 {
		n = 0
	}
	p := &Pool{
		name:  name,
		mem:   make([]byte, n*PageSize),
		pages: make([]Page, n),
		log:   klog.Log,
	}
	p.free.Init()
	for i := range p.pages {
		pg := &p.pages[i]
		pg.index = i
		pg.data = p.mem[i*PageSize : (i+1)*PageSize : (i+1)*PageSize]
		pg.pool = p
		pg.elem.Init(pg)
		p.free.PushBack(&pg.elem)
	}
	return p
}

// Name returns the name the pool was created with.
func (p *Pool) Name() string { return p.name }

// Get returns a free page.  If none is free it returns an error wrapping
// ErrNoMemory, or panics if flags include Assert.
func (p *Pool) Get(flags Flags) (*Page, error) {
	p.mu.Lock()
	if p.free.Empty() {
		p.mu.Unlock()
		if flags&Assert != 0 {
			p.log.Panicf("%s pool: out of pages", p.name)
		}
		return nil, fmt.Errorf("%s pool: %w", p.name, ErrNoMemory)
	}
	pg := p.free.PopFront().Value()
	pg.inUse = true
	p.inUse++
	p.mu.Unlock()
	if flags&Zero != 0 {
		for i := range pg.data {
			pg.data[i] = 0
		}
	}
	return pg, nil
}

// Free returns pg to the pool.  Freeing a page twice, or a page of another
// pool, is a kernel panic.
func (p *Pool) Free(pg *Page) {
	if pg == nil {
		return
	}
	if pg.pool != p {
		p.log.Panicf("page %d does not belong to %s pool", pg.index, p.name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if !pg.inUse {
		p.log.Panicf("%s pool: page %d freed twice", p.name, pg.index)
	}
	pg.inUse = false
	p.inUse--
	p.free.PushFront(&pg.elem)
}

// Len returns the number of pages in the pool.
func (p *Pool) Len() int { return len(p.pages) }

// InUse returns the number of pages handed out and not yet freed.
func (p *Pool) InUse() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inUse
}

// Available returns the number of free pages.
func (p *Pool) Available() int {
	return p.Len() - p.InUse()
}
