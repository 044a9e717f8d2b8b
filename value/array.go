// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import (
	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/mongoryerr"
)

var (
	errUnsupportedForeignWrite = mongoryerr.New(mongoryerr.UnsupportedOperation, "value: foreign-backed array/table is read-only")
	errNegativeIndex           = mongoryerr.New(mongoryerr.OutOfBounds, "value: negative array index")
)

// ForeignArray is the shallow, read-only storage contract a host
// binding implements to expose a foreign collection type without
// copying it into the arena. Push/Set have no meaning for a
// foreign-backed Array; Get/Len degrade to these two calls.
type ForeignArray interface {
	GetAtIndex(i int) *Value
	Count() int
}

// Array is an ordered sequence of Value references, backed by a plain
// Go slice so indexed Get is O(1). The normal variant stores items
// directly; the foreign variant delegates reads to a ForeignArray and
// rejects writes.
type Array struct {
	a       *arena.Arena
	items   []*Value
	foreign ForeignArray
}

// NewArray constructs an empty, arena-backed Array.
func NewArray(a *arena.Arena) *Array {
	return &Array{a: a}
}

// NewForeignArray constructs a read-only Array backed by a host
// collection.
func NewForeignArray(a *arena.Arena, f ForeignArray) *Array {
	return &Array{a: a, foreign: f}
}

// Len returns the number of elements.
func (arr *Array) Len() int {
	if arr.foreign != nil {
		return arr.foreign.Count()
	}
	return len(arr.items)
}

// get is the internal zero-alloc accessor used by Compare/ToString; it
// reports whether i was in range.
func (arr *Array) get(i int) (*Value, bool) {
	if i < 0 || i >= arr.Len() {
		return nil, false
	}
	if arr.foreign != nil {
		return arr.foreign.GetAtIndex(i), true
	}
	return arr.items[i], true
}

// Get returns the element at index i, or Absent if out of range.
// Negative indices count from the end: Get(-1) on a length-3 array
// returns the element at index 2.
func (arr *Array) Get(i int) *Value {
	if i < 0 {
		i = arr.Len() + i
	}
	v, ok := arr.get(i)
	if !ok {
		return Absent
	}
	return v
}

// Push appends v, amortized O(1). Unsupported on a foreign-backed
// array.
func (arr *Array) Push(v *Value) *mongoryerr.Error {
	if arr.foreign != nil {
		arr.a.Fail(errUnsupportedForeignWrite)
		return errUnsupportedForeignWrite
	}
	arr.items = append(arr.items, v)
	return nil
}

// Set stores v at index i, O(1). An out-of-range i zero-fills
// (Null-fills, in this value model) intermediate slots and extends
// the count to i+1. Unsupported on a foreign-backed array.
func (arr *Array) Set(i int, v *Value) *mongoryerr.Error {
	if arr.foreign != nil {
		arr.a.Fail(errUnsupportedForeignWrite)
		return errUnsupportedForeignWrite
	}
	if i < 0 {
		arr.a.Fail(errNegativeIndex)
		return errNegativeIndex
	}
	for len(arr.items) <= i {
		arr.items = append(arr.items, NewNull(arr.a))
	}
	arr.items[i] = v
	return nil
}

// ForEach visits each element in order, stopping early if fn returns
// false.
func (arr *Array) ForEach(fn func(i int, v *Value) bool) {
	for i := 0; i < arr.Len(); i++ {
		v, _ := arr.get(i)
		if !fn(i, v) {
			return
		}
	}
}
