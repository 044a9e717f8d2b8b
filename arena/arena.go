// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package arena implements the bump-allocated pool that backs every
// Value, Array, Table, and matcher Node in mongory-core.
//
// An Arena hands out 8-byte-aligned, zero-initialized byte slices from
// a chain of growing chunks. Nothing is freed individually: the whole
// arena is reset to empty or released at once. This trades
// segment/freelist machinery built for a long-lived, concurrently-read
// transactional store for a simpler contract: a scratch pool owned by
// one goroutine for the lifetime of a compile or a handful of matches.
package arena

import (
	"unsafe"

	"github.com/mongoryhq/mongory-core-go/mongoryerr"
)

const (
	initialChunkSize = 2 * 1024 // 2 KiB
	alignment        = 8
)

type chunk struct {
	buf  []byte
	used int
}

// Arena is a bump-allocated memory pool. The zero value is not usable;
// construct one with New.
type Arena struct {
	chunks  []*chunk
	cur     int // index of the chunk new allocations are attempted against
	adopted [][]byte // foreign allocations kept alive by Trace, released on Free
	err     *mongoryerr.Error
	freed   bool
	gen     uint64
}

// New creates an empty arena with an initial 2 KiB chunk.
func New() *Arena {
	a := &Arena{}
	a.chunks = append(a.chunks, &chunk{buf: make([]byte, initialChunkSize)})
	return a
}

// Error returns the arena's last-error slot, or nil if no operation on
// this arena has failed since construction or the last Reset.
func (a *Arena) Error() *mongoryerr.Error {
	return a.err
}

func (a *Arena) setError(err *mongoryerr.Error) {
	// Once set, subsequent failures don't overwrite it.
	if a.err == nil {
		a.err = err
	}
}

// Fail records err on the arena's error slot following the same
// once-only policy as internal allocation failures. Exported so the
// value and matcher packages can report validation failures
// (unsupported foreign writes, bad condition shapes) onto the same
// arena the caller already checks after a builder call.
func (a *Arena) Fail(err *mongoryerr.Error) {
	a.setError(err)
}

func align(n int) int {
	if r := n % alignment; r != 0 {
		return n + (alignment - r)
	}
	return n
}

// Alloc returns a zero-initialized, 8-byte-aligned region of n bytes.
// It never moves a previously returned region. On failure (use after
// Free, an error already recorded on the arena, or a negative n) it
// sets the arena's error and returns nil.
func (a *Arena) Alloc(n int) []byte {
	if a.freed {
		a.setError(mongoryerr.New(mongoryerr.UnsupportedOperation, "arena: use after free"))
		return nil
	}
	if a.err != nil {
		return nil
	}
	if n < 0 {
		a.setError(mongoryerr.New(mongoryerr.InvalidArgument, "arena: negative allocation size %d", n))
		return nil
	}
	if n == 0 {
		return a.chunks[a.cur].buf[:0]
	}

	c := a.chunks[a.cur]
	start := align(c.used)
	if start+n > len(c.buf) {
		a.grow(n)
		c = a.chunks[a.cur]
		start = align(c.used)
	}

	region := c.buf[start : start+n]
	c.used = start + n
	return region
}

// grow appends a new chunk sized at least double the previous chunk,
// or the requested allocation, whichever is larger, and makes it
// current.
func (a *Arena) grow(requested int) {
	prev := a.chunks[len(a.chunks)-1]
	size := len(prev.buf) * 2
	if requested > size {
		size = requested
	}
	a.chunks = append(a.chunks, &chunk{buf: make([]byte, size)})
	a.cur = len(a.chunks) - 1
}

// AllocString copies s into the arena and returns the arena-owned
// copy. Callers must not retain s past this call if they relied on
// arena-only lifetime, but Go's GC makes that a performance note, not
// a safety one.
func (a *Arena) AllocString(s string) string {
	if s == "" {
		return ""
	}
	region := a.Alloc(len(s))
	if region == nil {
		return ""
	}
	copy(region, s)
	// Reinterpret the arena-owned bytes as a string without copying:
	// the region's lifetime is the arena's, so the string truly is
	// arena-owned rather than merely sharing its contents.
	return unsafe.String(unsafe.SliceData(region), len(region))
}

// Reset marks every chunk as empty and re-winds allocation to the
// first chunk. Capacity is retained; all pointers previously handed
// out become invalid to use.
func (a *Arena) Reset() {
	for _, c := range a.chunks {
		// Zero the used bytes so later Allocs hand out zeroed memory.
		clear(c.buf[:c.used])
		c.used = 0
	}
	a.cur = 0
	a.err = nil
	a.adopted = nil
	a.gen++
}

// Free releases every chunk and marks the arena unusable.
func (a *Arena) Free() {
	a.chunks = nil
	a.adopted = nil
	a.freed = true
	a.gen++
}

// Trace adopts a foreign allocation so that the arena holds a
// reference to it until Free or Reset — the case where a host binding
// wants byte slices it allocated outside the arena released on the
// same schedule.
func (a *Arena) Trace(b []byte) {
	a.adopted = append(a.adopted, b)
}

// Used returns the total number of bytes bump-allocated across all
// chunks, a diagnostic of arena usage.
func (a *Arena) Used() int {
	total := 0
	for _, c := range a.chunks {
		total += c.used
	}
	return total
}

// Gen returns the arena's current generation. It increments on every
// Reset and Free. Value captures the generation at construction time
// (see value.Value.Stale) so it can detect — not prevent, Go's GC already
// keeps the backing memory alive — that they were built against a
// since-reset arena. This surfaces the hazard of an array_record built
// in one match's scratch arena going dangling on the next reset,
// instead of it silently reading as stale data.
func (a *Arena) Gen() uint64 {
	return a.gen
}
