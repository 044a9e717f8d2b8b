// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package traverse implements the tree-walking substrate shared by
// explain and trace. Both need to visit a compiled matcher tree in the
// same order the evaluator would short-circuit through it, carrying an
// opaque accumulator (explain keeps its tree-drawing prefix stack in
// it) down through the walk.
//
// Explain depends only on this package's Node interface, not on the
// matcher package's concrete node type, and the matcher package walks
// its own trees (for trace enable/disable) through Walk, so matcher can
// depend on traverse without a cycle.
package traverse

// Node is the subset of a compiled matcher node that a traversal needs.
// matcher.Node implements it directly.
type Node interface {
	// Name is the display name used by explain/trace ("Field", "And",
	// "$eq", ...).
	Name() string
	// ConditionString renders the node's condition the way
	// Value.ToString would.
	ConditionString() string
	// FieldName returns the field key and true for Field nodes, else
	// ("", false).
	FieldName() (string, bool)
	// IsComposite reports whether Children should be walked (And/Or/
	// ElemMatch/Every).
	IsComposite() bool
	Children() []Node
	// IsLiteral reports whether ArrayRecord/Delegate should be walked.
	IsLiteral() bool
	// ArrayRecord returns the lazily-built array specialization, if one
	// has been built yet.
	ArrayRecord() (Node, bool)
	// Delegate returns the literal's plain-value delegate matcher.
	Delegate() Node
}

// Context is threaded through a traversal. Level is the node's depth
// from the root; Index/Total locate the node among its siblings (both
// 0 at the root, where there are no siblings). Acc is caller-owned:
// explain stores a tree-drawing prefix stack in it; trace's walks
// leave it nil and capture the shared outcome stack in the callback.
type Context struct {
	Level    int
	Index    int
	Total    int
	Acc      any
	Callback func(n Node, ctx *Context) bool
}

// Walk visits n, then its children or delegate, stopping early if the
// callback returns false at any point. The three node shapes:
//
//   - Leaf (neither composite nor literal): callback only.
//   - Composite: callback on n, then each child with a fresh Context
//     at Level+1, Index set to the child's position, Total set to the
//     sibling count.
//   - Literal: callback on n, then descend into ArrayRecord if one has
//     been built, else Delegate, with a singleton Context (Total: 1).
func Walk(n Node, ctx *Context) bool {
	if !ctx.Callback(n, ctx) {
		return false
	}
	switch {
	case n.IsComposite():
		children := n.Children()
		for i, c := range children {
			childCtx := &Context{Level: ctx.Level + 1, Index: i, Total: len(children), Acc: ctx.Acc, Callback: ctx.Callback}
			if !Walk(c, childCtx) {
				return false
			}
		}
	case n.IsLiteral():
		childCtx := &Context{Level: ctx.Level + 1, Index: 0, Total: 1, Acc: ctx.Acc, Callback: ctx.Callback}
		if ar, ok := n.ArrayRecord(); ok {
			return Walk(ar, childCtx)
		}
		if d := n.Delegate(); d != nil {
			return Walk(d, childCtx)
		}
	}
	return true
}
