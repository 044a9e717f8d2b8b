// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import (
	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/mongoryerr"
)

// ForeignTable is the shallow, read-only storage contract a host
// binding implements to expose a foreign map type.
type ForeignTable interface {
	GetByKey(key string) (*Value, bool)
	Count() int
	// Keys returns every key, for iteration (table_condition walks the
	// condition table's keys; explain/ToString need them too). Order
	// is unspecified.
	Keys() []string
}

// tableEntry is one chained-bucket slot: a linked sibling chain,
// backing real hash buckets instead of a single unordered chain,
// since Table needs O(1) average get.
type tableEntry struct {
	key  string
	val  *Value
	next int32 // index of next entry in the same bucket chain, -1 = end
}

// Table is a string-keyed map to Value references, arena-backed,
// chained-hash-bucketed with prime capacities and load-factor-0.75
// rehashing.
type Table struct {
	a       *arena.Arena
	buckets []int32 // bucket head index into entries, -1 = empty
	entries []tableEntry
	count   int
	foreign ForeignTable
}

var tablePrimes = []int{7, 17, 37, 79, 163, 331, 673, 1361, 2729, 5471, 10949, 21911, 43853, 87719, 175447, 350899, 701819, 1403641, 2807303}

func nextPrimeAtLeast(n int) int {
	for _, p := range tablePrimes {
		if p >= n {
			return p
		}
	}
	// Fall back to a simple trial-division search past the precomputed
	// table; tables this large are outside any realistic condition or
	// record document.
	if n < 2 {
		n = 2
	}
	if n%2 == 0 {
		n++
	}
	for !isPrime(n) {
		n += 2
	}
	return n
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for i := 2; i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// NewTable constructs an empty, arena-backed Table.
func NewTable(a *arena.Arena) *Table {
	cap0 := tablePrimes[0]
	buckets := make([]int32, cap0)
	for i := range buckets {
		buckets[i] = -1
	}
	return &Table{a: a, buckets: buckets}
}

// NewForeignTable constructs a read-only Table backed by a host map.
func NewForeignTable(a *arena.Arena, f ForeignTable) *Table {
	return &Table{a: a, foreign: f}
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t.foreign != nil {
		return t.foreign.Count()
	}
	return t.count
}

func hashKey(key string) uint64 {
	// FNV-1a. Field-name and condition keys are short, so a dependency
	// like cespare/xxhash (tuned for large inputs) buys nothing here.
	const (
		offset64 = 14695981039346656037
		prime64  = 1099511628211
	)
	h := uint64(offset64)
	for i := 0; i < len(key); i++ {
		h ^= uint64(key[i])
		h *= prime64
	}
	return h
}

func (t *Table) bucketFor(key string) int {
	return int(hashKey(key) % uint64(len(t.buckets)))
}

// Get returns the value stored under key, or Absent if not present.
func (t *Table) Get(key string) *Value {
	if t.foreign != nil {
		if v, ok := t.foreign.GetByKey(key); ok {
			return v
		}
		return Absent
	}
	if len(t.buckets) == 0 {
		return Absent
	}
	idx := t.buckets[t.bucketFor(key)]
	for idx != -1 {
		e := &t.entries[idx]
		if e.key == key {
			return e.val
		}
		idx = e.next
	}
	return Absent
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	return !t.Get(key).IsAbsent()
}

// Set inserts or updates key -> v. Unsupported on a foreign-backed
// table. Keys are interned on insert so repeated field names across
// records and compiled conditions share one backing string.
func (t *Table) Set(key string, v *Value) *mongoryerr.Error {
	if t.foreign != nil {
		t.a.Fail(errUnsupportedForeignWrite)
		return errUnsupportedForeignWrite
	}
	bucket := t.bucketFor(key)
	idx := t.buckets[bucket]
	for idx != -1 {
		e := &t.entries[idx]
		if e.key == key {
			e.val = v
			return nil
		}
		idx = e.next
	}

	t.entries = append(t.entries, tableEntry{key: internKey(key), val: v, next: t.buckets[bucket]})
	t.buckets[bucket] = int32(len(t.entries) - 1)
	t.count++

	if float64(t.count) > 0.75*float64(len(t.buckets)) {
		t.rehash()
	}
	return nil
}

// Del removes key, if present.
func (t *Table) Del(key string) {
	if t.foreign != nil {
		t.a.Fail(errUnsupportedForeignWrite)
		return
	}
	if len(t.buckets) == 0 {
		return
	}
	bucket := t.bucketFor(key)
	idx := t.buckets[bucket]
	prev := int32(-1)
	for idx != -1 {
		e := &t.entries[idx]
		if e.key == key {
			if prev == -1 {
				t.buckets[bucket] = e.next
			} else {
				t.entries[prev].next = e.next
			}
			e.key = ""
			e.val = nil
			t.count--
			return
		}
		prev = idx
		idx = e.next
	}
}

// rehash allocates a fresh bucket vector sized at the next prime of at
// least double the current capacity and relinks every live entry into
// it, rather than growing the backing array in place.
func (t *Table) rehash() {
	newCap := nextPrimeAtLeast(len(t.buckets) * 2)
	newBuckets := make([]int32, newCap)
	for i := range newBuckets {
		newBuckets[i] = -1
	}
	for i := range t.entries {
		e := &t.entries[i]
		if e.val == nil {
			continue // tombstoned by Del
		}
		b := int(hashKey(e.key) % uint64(newCap))
		e.next = newBuckets[b]
		newBuckets[b] = int32(i)
	}
	t.buckets = newBuckets
}

// Keys returns every key in unspecified order.
func (t *Table) Keys() []string {
	if t.foreign != nil {
		return t.foreign.Keys()
	}
	keys := make([]string, 0, t.count)
	for i := range t.entries {
		if t.entries[i].val != nil {
			keys = append(keys, t.entries[i].key)
		}
	}
	return keys
}

// ForEach visits every key/value pair, stopping early if fn returns
// false.
func (t *Table) ForEach(fn func(key string, v *Value) bool) {
	if t.foreign != nil {
		for _, k := range t.foreign.Keys() {
			v, _ := t.foreign.GetByKey(k)
			if !fn(k, v) {
				return
			}
		}
		return
	}
	for i := range t.entries {
		if t.entries[i].val == nil {
			continue
		}
		if !fn(t.entries[i].key, t.entries[i].val) {
			return
		}
	}
}
