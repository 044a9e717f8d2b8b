// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package matcher

import (
	"github.com/mongoryhq/mongory-core-go/traverse"
	"github.com/mongoryhq/mongory-core-go/value"
)

// EnableTrace swaps every node's match function in n's subtree for a
// wrapper that records an outcome onto a stack shared by the whole
// tree, and returns that stack. Disabling restores the original match
// functions.
func (n *Node) EnableTrace() *[]TraceRecord {
	stack := &[]TraceRecord{}
	attachTrace(n, stack, 0)
	return stack
}

// DisableTrace restores every node's original match function and
// detaches the trace stack.
func (n *Node) DisableTrace() {
	traverse.Walk(n, &traverse.Context{Callback: func(tn traverse.Node, _ *traverse.Context) bool {
		nd := tn.(*Node)
		if nd.origMatch != nil {
			nd.match = nd.origMatch
			nd.origMatch = nil
		}
		nd.traceStack = nil
		if nd.arrayRecord != nil && nd.delegate != nil {
			// Walk descends into arrayRecord rather than delegate once it
			// is built; a delegate wrapped before that still needs restoring.
			nd.delegate.DisableTrace()
		}
		return true
	}})
}

func attachTrace(root *Node, stack *[]TraceRecord, baseLevel int) {
	traverse.Walk(root, &traverse.Context{Level: baseLevel, Callback: func(tn traverse.Node, ctx *traverse.Context) bool {
		nd := tn.(*Node)
		nd.level = ctx.Level
		nd.traceStack = stack
		nd.origMatch = nd.match
		nd.match = tracedMatchFn
		return true
	}})
}

// tracedMatchFn records n's entry before recursing into its children
// (origMatch for a composite/literal node calls back into the already-
// wrapped children's tracedMatchFn), so the stack fills root-first in
// the same order the evaluator descends, not children-before-parent.
// The record is pushed with a placeholder result and patched in place
// once origMatch returns.
func tracedMatchFn(n *Node, v *value.Value) bool {
	idx := len(*n.traceStack)
	rec := TraceRecord{
		Level:     n.level,
		Name:      n.name,
		Condition: n.ConditionString(),
		Record:    v.ToString(),
	}
	if f, ok := n.FieldName(); ok {
		rec.Field = f
		rec.HasField = true
	}
	*n.traceStack = append(*n.traceStack, rec)

	result := n.origMatch(n, v)
	(*n.traceStack)[idx].Matched = result
	return result
}
