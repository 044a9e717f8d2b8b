// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package registry holds the process-wide operator table and the
// adapter set a host binding installs to bridge foreign values, regex
// engines, and custom predicates into the matcher compiler. Every
// operator is registered into this map at init time, keyed by name,
// and looked up by the compiler during condition compilation.
package registry

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/mongoryerr"
	"github.com/mongoryhq/mongory-core-go/value"
)

// CompiledMatcher is the type-erased return value of an operator
// compiler function. It is declared as `any` here, rather than as
// *matcher.Node, so this package never imports matcher — matcher
// imports registry to look operators up, and a two-way import would
// cycle. Compile asserts the concrete type back on the matcher side.
type CompiledMatcher = any

// CompilerFunc compiles one operator's condition into a matcher node.
// ctx is the opaque external context threaded through from the
// top-level Compile call (host-binding state; unused by the core
// operators).
type CompilerFunc func(a *arena.Arena, cond *value.Value, ctx any) (CompiledMatcher, *mongoryerr.Error)

// RegexAdapter bridges the compiler/evaluator to a concrete regex
// engine. The zero adapter (installed before Init registers the
// default) always fails to match and stringifies as "//".
type RegexAdapter interface {
	Match(a *arena.Arena, pattern, input *value.Value) bool
	Stringify(a *arena.Arena, pattern *value.Value) string
}

// ValueConverter bridges foreign host objects in and out of the value
// model. Bindings that never hold foreign pointers can leave every
// field nil; DeepConvert/ShallowConvert/Recover are then simply never
// invoked.
type ValueConverter struct {
	DeepConvert    func(a *arena.Arena, ptr any) *value.Value
	ShallowConvert func(a *arena.Arena, ptr any) *value.Value
	Recover        func(v *value.Value) any
}

// CustomMatcherAdapter lets a host register predicates under operator
// names the core doesn't know about.
type CustomMatcherAdapter struct {
	// Lookup reports whether key (a "$"-prefixed operator name) is
	// handled by this adapter.
	Lookup func(key string) bool
	// Build compiles key's condition into an opaque external matcher
	// handle plus a display name used by explain/trace.
	Build func(a *arena.Arena, key string, cond *value.Value, ctx any) (name string, external any, err *mongoryerr.Error)
	// Match evaluates a previously built external matcher against v.
	Match func(external any, v *value.Value) bool
}

type defaultRegexAdapter struct{}

func (defaultRegexAdapter) Match(*arena.Arena, *value.Value, *value.Value) bool { return false }
func (defaultRegexAdapter) Stringify(*arena.Arena, *value.Value) string         { return "//" }

// Registry is the process-wide operator table and adapter set. There
// is exactly one instance, Global; tests needing isolation use
// Snapshot/Restore rather than constructing a second instance, since
// every compiled matcher resolves operators through Global.
type Registry struct {
	mu         sync.RWMutex
	operators  map[string]CompilerFunc
	regex      RegexAdapter
	converter  ValueConverter
	custom     CustomMatcherAdapter
	traceColor bool
	logger     *logrus.Logger
}

// Global is the single process-wide registry instance.
var Global = newRegistry()

func newRegistry() *Registry {
	return &Registry{
		operators: make(map[string]CompilerFunc),
		regex:     defaultRegexAdapter{},
		logger:    logrus.New(),
	}
}

// SetLogger installs the logger used for registry diagnostics
// (the duplicate-registration warning). Never called on
// the match hot path.
func (r *Registry) SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.New()
	}
	r.mu.Lock()
	r.logger = l
	r.mu.Unlock()
}

// Register installs fn under name (expected to start with "$"),
// logging a warning on overwrite rather than failing, since re-Init or
// a test fixture re-registering a builtin is a normal occurrence, not
// an error condition.
func (r *Registry) Register(name string, fn CompilerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.operators[name]; exists {
		r.logger.WithField("operator", name).Warn("registry: overwriting already-registered operator")
	}
	r.operators[name] = fn
}

// Lookup returns the compiler function registered for name, if any.
func (r *Registry) Lookup(name string) (CompilerFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.operators[name]
	return fn, ok
}

// SetRegexAdapter installs the active regex adapter and wires its
// Stringify method into the value package's stringification hook, so
// Value.ToString renders regex payloads consistently with whatever
// engine the operator compiler will actually use to match them.
func (r *Registry) SetRegexAdapter(ra RegexAdapter) {
	if ra == nil {
		ra = defaultRegexAdapter{}
	}
	r.mu.Lock()
	r.regex = ra
	r.mu.Unlock()
	value.SetRegexStringifyHook(func(pattern string) string {
		a := arena.New()
		defer a.Free()
		return ra.Stringify(a, value.NewString(a, pattern))
	})
}

// RegexAdapter returns the active regex adapter.
func (r *Registry) RegexAdapter() RegexAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.regex
}

// SetValueConverter installs the active value converter.
func (r *Registry) SetValueConverter(vc ValueConverter) {
	r.mu.Lock()
	r.converter = vc
	r.mu.Unlock()
}

// ValueConverter returns the active value converter.
func (r *Registry) ValueConverter() ValueConverter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.converter
}

// SetCustomMatcherAdapter installs the active custom-matcher adapter.
func (r *Registry) SetCustomMatcherAdapter(cma CustomMatcherAdapter) {
	r.mu.Lock()
	r.custom = cma
	r.mu.Unlock()
}

// CustomMatcherAdapter returns the active custom-matcher adapter. Its
// funcs are nil until a host installs one; callers must check before
// invoking them.
func (r *Registry) CustomMatcherAdapter() CustomMatcherAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.custom
}

// SetTraceColorful toggles ANSI coloring of trace output.
func (r *Registry) SetTraceColorful(on bool) {
	r.mu.Lock()
	r.traceColor = on
	r.mu.Unlock()
}

// TraceColorful reports whether trace output should be colorized.
func (r *Registry) TraceColorful() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.traceColor
}

// snapshot is an opaque save of Global's mutable state, returned by
// Snapshot and consumed by Restore.
type snapshot struct {
	operators  map[string]CompilerFunc
	regex      RegexAdapter
	converter  ValueConverter
	custom     CustomMatcherAdapter
	traceColor bool
}

// Snapshot captures Global's current state so a test can register
// scratch operators/adapters and undo the change with Restore,
// avoiding cross-test leakage through the process-wide registry.
func Snapshot() *snapshot {
	Global.mu.RLock()
	defer Global.mu.RUnlock()
	ops := make(map[string]CompilerFunc, len(Global.operators))
	for k, v := range Global.operators {
		ops[k] = v
	}
	return &snapshot{
		operators:  ops,
		regex:      Global.regex,
		converter:  Global.converter,
		custom:     Global.custom,
		traceColor: Global.traceColor,
	}
}

// Restore replaces Global's state with a previously captured snapshot.
func Restore(s *snapshot) {
	Global.mu.Lock()
	defer Global.mu.Unlock()
	Global.operators = s.operators
	Global.regex = s.regex
	Global.converter = s.converter
	Global.custom = s.custom
	Global.traceColor = s.traceColor
}
