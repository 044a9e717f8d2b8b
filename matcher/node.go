// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package matcher compiles table/array/scalar conditions into a tree
// of match nodes and evaluates that tree against record values.
// Siblings are ordered by a priority every composite node sums from
// its children, so cheap predicates run before expensive ones.
package matcher

import (
	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/traverse"
	"github.com/mongoryhq/mongory-core-go/value"
)

// Kind discriminates the node variants a compiled tree can contain.
type Kind int

const (
	KindAlwaysTrue Kind = iota
	KindAlwaysFalse
	KindAnd
	KindOr
	KindNot
	KindField
	KindLiteral
	KindEq
	KindNe
	KindCompare
	KindIn
	KindNin
	KindExists
	KindPresent
	KindRegex
	KindElemMatch
	KindEvery
	KindSize
	KindCustom
)

// CompareOp selects which ordering $gt/$gte/$lt/$lte checks for.
type CompareOp int

const (
	OpGT CompareOp = iota
	OpGTE
	OpLT
	OpLTE
)

// matchFunc is the active dispatch function for a node. Tracing swaps
// it out for a wrapper and keeps the original in origMatch so
// trace_disable can restore it.
type matchFunc func(n *Node, v *value.Value) bool

// Node is a compiled matcher tree node. Every compile-time variant
// (And/Or/Field/Literal/leaf operators) is represented by one struct
// with a Kind tag rather than a Go interface-per-variant: one
// allocation-friendly shape instead of many small interface
// implementations, the same rationale as value.Value.
type Node struct {
	kind     Kind
	name     string
	priority float64

	cond         *value.Value // the compiled condition, for explain/trace display
	ctx          any          // external context passed through from Compile
	compileArena *arena.Arena // the arena this node's subtree was compiled into

	field string // KindField's key

	children []*Node // KindAnd/KindOr/KindElemMatch/KindEvery

	delegate *Node // KindLiteral's plain delegate; KindNot/KindSize's wrapped literal

	arrayRecord      *Node
	arrayRecordArena *arena.Arena // the arena array_record was built against

	cmpOp  CompareOp
	target *value.Value // KindEq/KindNe/KindCompare/KindRegex's comparand
	set    []*value.Value // KindIn/KindNin membership set

	external    any
	customMatch func(external any, v *value.Value) bool

	match     matchFunc
	origMatch matchFunc

	level      int            // depth from the compiled tree's root; set when trace is enabled
	traceStack *[]TraceRecord // shared across the whole tree once trace is enabled
}

// TraceRecord is one entry in a trace session's flat, level-tagged
// stack. Defined here (not in package trace) so Node can append to it
// without importing trace, which itself needs to import matcher to
// walk a compiled tree.
type TraceRecord struct {
	Level     int
	Name      string
	Field     string
	HasField  bool
	Condition string
	Record    string
	Matched   bool
}

// Priority returns the node's compile-time priority, used to order
// siblings ascending (cheapest first) when a composite is built.
func (n *Node) Priority() float64 { return n.priority }

// Match evaluates the node against v using the currently active
// dispatch function (the compiled one, or trace's wrapper once
// enabled).
func (n *Node) Match(v *value.Value) bool {
	return n.match(n, v)
}

// --- traverse.Node implementation ---

// Name returns the node's display name ("Field", "And", "$eq", ...).
func (n *Node) Name() string { return n.name }

// ConditionString renders the node's condition as explain/trace would.
func (n *Node) ConditionString() string {
	if n.cond == nil {
		return "null"
	}
	return n.cond.ToString()
}

// FieldName returns (key, true) for a Field node, else ("", false).
func (n *Node) FieldName() (string, bool) {
	if n.kind == KindField {
		return n.field, true
	}
	return "", false
}

// IsComposite reports whether Children should be walked.
func (n *Node) IsComposite() bool {
	switch n.kind {
	case KindAnd, KindOr, KindElemMatch, KindEvery:
		return true
	default:
		return false
	}
}

// Children exposes the node's composite children as traverse.Node
// values.
func (n *Node) Children() []traverse.Node {
	out := make([]traverse.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// IsLiteral reports whether ArrayRecord/Delegate should be walked.
// Field and $not/$size also wrap a single delegate the same way
// Literal does, so they report true here too, or their subtrees would
// be invisible to explain and trace.
func (n *Node) IsLiteral() bool {
	switch n.kind {
	case KindLiteral, KindField, KindNot, KindSize:
		return true
	default:
		return false
	}
}

// ArrayRecord returns the lazily built array specialization, if any
// match call against an array value has already triggered it.
func (n *Node) ArrayRecord() (traverse.Node, bool) {
	if n.arrayRecord == nil {
		return nil, false
	}
	return n.arrayRecord, true
}

// Delegate returns the wrapped matcher for Field/Literal/Not/Size
// nodes.
func (n *Node) Delegate() traverse.Node {
	if n.delegate == nil {
		return nil
	}
	return n.delegate
}
