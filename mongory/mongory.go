// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package mongory is the top-level embedding API: the surface a host
// binding or CLI actually calls. It wires the arena, value, registry,
// and matcher packages together behind Init/Compile/Match/Explain/
// Trace.
package mongory

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/explain"
	"github.com/mongoryhq/mongory-core-go/matcher"
	"github.com/mongoryhq/mongory-core-go/mongoryerr"
	"github.com/mongoryhq/mongory-core-go/regexstd"
	"github.com/mongoryhq/mongory-core-go/registry"
	"github.com/mongoryhq/mongory-core-go/trace"
	"github.com/mongoryhq/mongory-core-go/value"
)

// Options configures Init. The zero value is the default: the stdlib
// regexp-backed regex adapter, trace output uncolored.
type Options struct {
	TraceColorful bool
	RegexAdapter  registry.RegexAdapter // nil => regexstd.New()
	Logger        *logrus.Logger        // nil => logrus.New()
}

var (
	initOnce sync.Once
	logger   = logrus.New()
)

// Init registers the builtin operators and the default regex adapter,
// and applies opts. Safe to call more than once; later calls only
// re-apply opts; the operator table itself is idempotent to
// re-registration (see registry.Register).
func Init(opts Options) {
	initOnce.Do(func() {
		matcher.RegisterBuiltins()
	})
	if opts.RegexAdapter == nil {
		opts.RegexAdapter = regexstd.New()
	}
	registry.Global.SetRegexAdapter(opts.RegexAdapter)
	registry.Global.SetTraceColorful(opts.TraceColorful)
	if opts.Logger != nil {
		logger = opts.Logger
		registry.Global.SetLogger(opts.Logger)
	}
}

// SetLogger overrides the diagnostic logger used for registry
// warnings (duplicate operator registration) and for Compile's
// debug-level failure messages. Never invoked on the match hot path.
func SetLogger(l *logrus.Logger) {
	if l == nil {
		l = logrus.New()
	}
	logger = l
	registry.Global.SetLogger(l)
}

// Cleanup releases a. Provided for symmetry with Init, completing the
// embedding API's init/cleanup pair; the registry is process-wide and
// is not touched by Cleanup.
func Cleanup(a *arena.Arena) {
	a.Free()
}

// Matcher is a compiled condition, tagged with a UUID (ID) so trace
// and explain output from different compiles can be told apart in
// logs.
type Matcher struct {
	Node *matcher.Node
	ID   uuid.UUID
}

// Compile compiles condition into a Matcher. ctx is opaque
// host-binding state threaded through to custom operator/field
// resolution; core operators ignore it.
func Compile(a *arena.Arena, condition *value.Value, ctx any) (*Matcher, *mongoryerr.Error) {
	n, err := matcher.Compile(a, condition, ctx)
	if err != nil {
		logger.WithError(err).WithField("condition", condition.ToString()).Debug("mongory: compile failed")
		return nil, err
	}
	return &Matcher{Node: n, ID: uuid.New()}, nil
}

// Match evaluates m against v.
func (m *Matcher) Match(v *value.Value) bool {
	return m.Node.Match(v)
}

// Explain writes m's tree to w.
func (m *Matcher) Explain(w io.Writer) error {
	return explain.Print(w, m.Node)
}

// TraceSession is a live trace over a Matcher, returned by
// TraceEnable.
type TraceSession struct {
	session *trace.Session
	matcher *Matcher
}

// TraceEnable starts recording match outcomes for m.
func (m *Matcher) TraceEnable() *TraceSession {
	return &TraceSession{session: trace.Enable(m.Node), matcher: m}
}

// Disable stops recording and restores m's untraced match functions.
func (s *TraceSession) Disable() {
	s.session.Disable()
}

// Print writes the recorded trace to w, colorized per the active
// registry setting (SetTraceColorful).
func (s *TraceSession) Print(w io.Writer) error {
	return s.session.Print(w, registry.Global.TraceColorful())
}

// Trace is the one-shot convenience: enable, match, print to stdout,
// disable.
func (m *Matcher) Trace(v *value.Value) bool {
	sess := m.TraceEnable()
	result := m.Match(v)
	if err := sess.Print(os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "mongory: trace print failed: %v\n", err)
	}
	sess.Disable()
	return result
}

// --- adapter setters ---

// SetRegexAdapter installs the regex engine used by $regex.
func SetRegexAdapter(ra registry.RegexAdapter) {
	registry.Global.SetRegexAdapter(ra)
}

// SetValueConverter installs the deep/shallow/recover converter
// bindings use to bridge foreign objects.
func SetValueConverter(vc registry.ValueConverter) {
	registry.Global.SetValueConverter(vc)
}

// SetCustomMatcherAdapter installs host-registered predicate support.
func SetCustomMatcherAdapter(cma registry.CustomMatcherAdapter) {
	registry.Global.SetCustomMatcherAdapter(cma)
}

// SetTraceColorful toggles ANSI coloring of trace output.
func SetTraceColorful(on bool) {
	registry.Global.SetTraceColorful(on)
}
