// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package regexstd is the default regex adapter, built on the standard
// library's RE2-based regexp package. mongory's regex contract is a
// plain match(pattern, input) bool with no capture groups or timeouts,
// so RE2 is the narrowest engine that satisfies it; registered by
// mongory.Init unless the host passes its own adapter in
// Options.RegexAdapter.
package regexstd

import (
	"regexp"
	"sync"

	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/value"
)

// Adapter implements registry.RegexAdapter over regexp.Regexp,
// caching compiled patterns since the same condition is matched
// against many records.
type Adapter struct {
	mu    sync.Mutex
	cache map[string]*regexp.Regexp
}

// New constructs a ready-to-use Adapter.
func New() *Adapter {
	return &Adapter{cache: make(map[string]*regexp.Regexp)}
}

func (a *Adapter) compiled(pattern string) *regexp.Regexp {
	a.mu.Lock()
	defer a.mu.Unlock()
	if re, ok := a.cache[pattern]; ok {
		return re
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		a.cache[pattern] = nil
		return nil
	}
	a.cache[pattern] = re
	return re
}

// Match implements registry.RegexAdapter. pattern's regex compiles
// from its Str or Opaque (pre-compiled *regexp.Regexp) payload; input
// must be a Str value, a contract enforced by the caller.
func (a *Adapter) Match(_ *arena.Arena, pattern, input *value.Value) bool {
	re := a.regexpFor(pattern)
	if re == nil {
		return false
	}
	return re.MatchString(input.Str())
}

// Stringify renders pattern's text between slashes, the default
// rendering for a compiled regex engine.
func (a *Adapter) Stringify(_ *arena.Arena, pattern *value.Value) string {
	return "/" + pattern.Str() + "/"
}

func (a *Adapter) regexpFor(pattern *value.Value) *regexp.Regexp {
	if re, ok := pattern.Opaque().(*regexp.Regexp); ok && re != nil {
		return re
	}
	return a.compiled(pattern.Str())
}
