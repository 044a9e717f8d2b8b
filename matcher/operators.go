// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package matcher

import (
	"math"
	"strconv"

	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/mongoryerr"
	"github.com/mongoryhq/mongory-core-go/registry"
	"github.com/mongoryhq/mongory-core-go/value"
)

// newLeaf allocates a node with the bookkeeping every variant needs
// (kind, display name, priority, condition, owning arena). Callers
// fill in the variant-specific fields and the match function.
func newLeaf(kind Kind, name string, priority float64, cond *value.Value, a *arena.Arena) *Node {
	return &Node{kind: kind, name: name, priority: priority, cond: cond, compileArena: a}
}

func alwaysTrueNode(a *arena.Arena, cond *value.Value) *Node {
	n := newLeaf(KindAlwaysTrue, "always_true", 1, cond, a)
	n.match = func(*Node, *value.Value) bool { return true }
	return n
}

func alwaysFalseNode(a *arena.Arena, cond *value.Value) *Node {
	n := newLeaf(KindAlwaysFalse, "always_false", 1, cond, a)
	n.match = func(*Node, *value.Value) bool { return false }
	return n
}

func andNodeFrom(a *arena.Arena, cond *value.Value, children []*Node) *Node {
	sortByPriority(children)
	sum := 2.0
	for _, c := range children {
		sum += c.priority
	}
	n := newLeaf(KindAnd, "And", sum, cond, a)
	n.children = children
	n.match = andMatchFn
	return n
}

func orNodeFrom(a *arena.Arena, cond *value.Value, children []*Node) *Node {
	sortByPriority(children)
	sum := 2.0
	for _, c := range children {
		sum += c.priority
	}
	n := newLeaf(KindOr, "Or", sum, cond, a)
	n.children = children
	n.match = orMatchFn
	return n
}

// --- match functions ---

func fieldMatchFn(n *Node, v *value.Value) bool {
	if v.IsAbsent() {
		return false
	}
	switch v.Kind() {
	case value.KindTable:
		sub := v.Table().Get(n.field)
		sub = maybeShallowConvert(sub)
		return n.delegate.Match(sub)
	case value.KindArray:
		idx, convErr := strconv.Atoi(n.field)
		if convErr != nil {
			return false
		}
		sub := v.Array().Get(idx)
		if sub.IsAbsent() {
			return false
		}
		sub = maybeShallowConvert(sub)
		return n.delegate.Match(sub)
	default:
		return false
	}
}

func maybeShallowConvert(v *value.Value) *value.Value {
	if v.IsAbsent() || v.Kind() != value.KindPointer {
		return v
	}
	vc := registry.Global.ValueConverter()
	if vc.ShallowConvert == nil {
		return v
	}
	if converted := vc.ShallowConvert(v.Arena(), v.Pointer()); converted != nil {
		return converted
	}
	return v
}

func literalMatchFn(n *Node, v *value.Value) bool {
	if v.Kind() == value.KindArray {
		ar := n.ensureArrayRecord()
		if ar == nil {
			return false
		}
		return ar.Match(v)
	}
	return n.delegate.Match(v)
}

func customMatchFn(n *Node, v *value.Value) bool {
	return n.customMatch(n.external, v)
}

func andMatchFn(n *Node, v *value.Value) bool {
	for _, c := range n.children {
		if !c.Match(v) {
			return false
		}
	}
	return true
}

func orMatchFn(n *Node, v *value.Value) bool {
	for _, c := range n.children {
		if c.Match(v) {
			return true
		}
	}
	return false
}

func eqMatchFn(n *Node, v *value.Value) bool {
	return v.Compare(n.target) == 0
}

func neMatchFn(n *Node, v *value.Value) bool {
	return v.Compare(n.target) != 0
}

func compareMatchFn(n *Node, v *value.Value) bool {
	r := v.Compare(n.target)
	if r.IsIncomparable() {
		return false
	}
	switch n.cmpOp {
	case OpGT:
		return r > 0
	case OpGTE:
		return r >= 0
	case OpLT:
		return r < 0
	case OpLTE:
		return r <= 0
	default:
		return false
	}
}

func inMatchFn(n *Node, v *value.Value) bool {
	if v.Kind() == value.KindArray {
		arr := v.Array()
		for i := 0; i < arr.Len(); i++ {
			ev := arr.Get(i)
			for _, s := range n.set {
				if ev.Compare(s) == 0 {
					return true
				}
			}
		}
		return false
	}
	for _, s := range n.set {
		if v.Compare(s) == 0 {
			return true
		}
	}
	return false
}

func ninMatchFn(n *Node, v *value.Value) bool {
	return !inMatchFn(n, v)
}

func existsMatchFn(n *Node, v *value.Value) bool {
	return !v.IsAbsent() == n.target.Bool()
}

func presentMatchFn(n *Node, v *value.Value) bool {
	return v.Truthy() == n.target.Bool()
}

func regexMatchFn(n *Node, v *value.Value) bool {
	if v.Kind() != value.KindStr {
		return false
	}
	ra := registry.Global.RegexAdapter()
	return ra.Match(n.compileArena, n.target, v)
}

func notMatchFn(n *Node, v *value.Value) bool {
	return !n.delegate.Match(v)
}

func sizeMatchFn(n *Node, v *value.Value) bool {
	if v.Kind() != value.KindArray {
		return false
	}
	length := value.NewInt64(n.compileArena, int64(v.Array().Len()))
	return n.delegate.Match(length)
}

func elemMatchMatchFn(n *Node, v *value.Value) bool {
	if v.Kind() != value.KindArray || v.Array().Len() == 0 {
		return false
	}
	arr := v.Array()
	for i := 0; i < arr.Len(); i++ {
		el := arr.Get(i)
		if allMatch(n.children, el) {
			return true
		}
	}
	return false
}

func everyMatchFn(n *Node, v *value.Value) bool {
	if v.Kind() != value.KindArray || v.Array().Len() == 0 {
		return false
	}
	arr := v.Array()
	for i := 0; i < arr.Len(); i++ {
		if !allMatch(n.children, arr.Get(i)) {
			return false
		}
	}
	return true
}

func allMatch(nodes []*Node, v *value.Value) bool {
	for _, n := range nodes {
		if !n.Match(v) {
			return false
		}
	}
	return true
}

// --- operator compiler functions (registered with registry.Global) ---

func eqLeaf(a *arena.Arena, cond *value.Value, _ any) (*Node, *mongoryerr.Error) {
	n := newLeaf(KindEq, "$eq", 1, cond, a)
	n.target = cond
	n.match = eqMatchFn
	return n, nil
}

func neLeaf(a *arena.Arena, cond *value.Value, _ any) (*Node, *mongoryerr.Error) {
	n := newLeaf(KindNe, "$ne", 1, cond, a)
	n.target = cond
	n.match = neMatchFn
	return n, nil
}

func compareLeaf(op CompareOp, name string) func(*arena.Arena, *value.Value, any) (*Node, *mongoryerr.Error) {
	return func(a *arena.Arena, cond *value.Value, _ any) (*Node, *mongoryerr.Error) {
		n := newLeaf(KindCompare, name, 2, cond, a)
		n.target = cond
		n.cmpOp = op
		n.match = compareMatchFn
		return n, nil
	}
}

func inLeaf(a *arena.Arena, cond *value.Value, _ any) (*Node, *mongoryerr.Error) {
	if cond.Kind() != value.KindArray {
		err := mongoryerr.New(mongoryerr.InvalidType, "matcher: $in requires an array condition, got %v", cond.Kind())
		a.Fail(err)
		return nil, err
	}
	arr := cond.Array()
	set := make([]*value.Value, arr.Len())
	for i := 0; i < arr.Len(); i++ {
		set[i] = arr.Get(i)
	}
	priority := 1 + math.Log(float64(len(set)+1))/math.Log(1.5)
	n := newLeaf(KindIn, "$in", priority, cond, a)
	n.set = set
	n.match = inMatchFn
	return n, nil
}

func ninLeaf(a *arena.Arena, cond *value.Value, ctx any) (*Node, *mongoryerr.Error) {
	n, err := inLeaf(a, cond, ctx)
	if err != nil {
		return nil, err
	}
	n.name = "$nin"
	n.match = ninMatchFn
	return n, nil
}

func existsLeaf(a *arena.Arena, cond *value.Value, _ any) (*Node, *mongoryerr.Error) {
	if cond.Kind() != value.KindBool {
		err := mongoryerr.New(mongoryerr.InvalidType, "matcher: $exists requires a bool condition, got %v", cond.Kind())
		a.Fail(err)
		return nil, err
	}
	n := newLeaf(KindExists, "$exists", 2, cond, a)
	n.target = cond
	n.match = existsMatchFn
	return n, nil
}

func presentLeaf(a *arena.Arena, cond *value.Value, _ any) (*Node, *mongoryerr.Error) {
	if cond.Kind() != value.KindBool {
		err := mongoryerr.New(mongoryerr.InvalidType, "matcher: $present requires a bool condition, got %v", cond.Kind())
		a.Fail(err)
		return nil, err
	}
	n := newLeaf(KindPresent, "$present", 2, cond, a)
	n.target = cond
	n.match = presentMatchFn
	return n, nil
}

func regexLeaf(a *arena.Arena, cond *value.Value, _ any) (*Node, *mongoryerr.Error) {
	if cond.Kind() != value.KindStr && cond.Kind() != value.KindRegex {
		err := mongoryerr.New(mongoryerr.InvalidType, "matcher: $regex requires a string or regex condition, got %v", cond.Kind())
		a.Fail(err)
		return nil, err
	}
	n := newLeaf(KindRegex, "$regex", 20, cond, a)
	n.target = cond
	n.match = regexMatchFn
	return n, nil
}

func andOperator(a *arena.Arena, cond *value.Value, ctx any) (*Node, *mongoryerr.Error) {
	children, err := compileConjunctArray(a, cond, ctx)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return alwaysTrueNode(a, cond), nil
	}
	return andNodeFrom(a, cond, children), nil
}

func orOperator(a *arena.Arena, cond *value.Value, ctx any) (*Node, *mongoryerr.Error) {
	if cond.Kind() != value.KindArray {
		err := mongoryerr.New(mongoryerr.InvalidType, "matcher: $or requires an array of tables, got %v", cond.Kind())
		a.Fail(err)
		return nil, err
	}
	var children []*Node
	arr := cond.Array()
	for i := 0; i < arr.Len(); i++ {
		sub := arr.Get(i)
		if sub.Kind() != value.KindTable {
			err := mongoryerr.New(mongoryerr.InvalidType, "matcher: $or element %d must be a table, got %v", i, sub.Kind())
			a.Fail(err)
			return nil, err
		}
		node, err := tableCondition(a, sub, ctx)
		if err != nil {
			return nil, err
		}
		children = append(children, node)
	}
	if len(children) == 0 {
		return alwaysFalseNode(a, cond), nil
	}
	return orNodeFrom(a, cond, children), nil
}

// compileConjunctArray implements $and's "compile each table and
// flatten its children into one And": unlike $or, each array element's
// own children are merged into a single flat list rather than kept as
// a nested sub-matcher.
func compileConjunctArray(a *arena.Arena, cond *value.Value, ctx any) ([]*Node, *mongoryerr.Error) {
	if cond.Kind() != value.KindArray {
		err := mongoryerr.New(mongoryerr.InvalidType, "matcher: $and requires an array of tables, got %v", cond.Kind())
		a.Fail(err)
		return nil, err
	}
	var all []*Node
	arr := cond.Array()
	for i := 0; i < arr.Len(); i++ {
		sub := arr.Get(i)
		if sub.Kind() != value.KindTable {
			err := mongoryerr.New(mongoryerr.InvalidType, "matcher: $and element %d must be a table, got %v", i, sub.Kind())
			a.Fail(err)
			return nil, err
		}
		subChildren, err := compileTableChildren(a, sub, ctx)
		if err != nil {
			return nil, err
		}
		all = append(all, subChildren...)
	}
	return all, nil
}

func elemMatchOperator(a *arena.Arena, cond *value.Value, ctx any) (*Node, *mongoryerr.Error) {
	if cond.Kind() != value.KindTable {
		err := mongoryerr.New(mongoryerr.InvalidType, "matcher: $elemMatch requires a table condition, got %v", cond.Kind())
		a.Fail(err)
		return nil, err
	}
	children, err := compileTableChildren(a, cond, ctx)
	if err != nil {
		return nil, err
	}
	sum := 3.0
	for _, c := range children {
		sum += c.priority
	}
	n := newLeaf(KindElemMatch, "$elemMatch", sum, cond, a)
	n.children = children
	n.match = elemMatchMatchFn
	return n, nil
}

func everyOperator(a *arena.Arena, cond *value.Value, ctx any) (*Node, *mongoryerr.Error) {
	if cond.Kind() != value.KindTable {
		err := mongoryerr.New(mongoryerr.InvalidType, "matcher: $every requires a table condition, got %v", cond.Kind())
		a.Fail(err)
		return nil, err
	}
	children, err := compileTableChildren(a, cond, ctx)
	if err != nil {
		return nil, err
	}
	sum := 3.0
	for _, c := range children {
		sum += c.priority
	}
	n := newLeaf(KindEvery, "$every", sum, cond, a)
	n.children = children
	n.match = everyMatchFn
	return n, nil
}

func notOperator(a *arena.Arena, cond *value.Value, ctx any) (*Node, *mongoryerr.Error) {
	delegate, err := literal(a, cond, ctx)
	if err != nil {
		return nil, err
	}
	n := newLeaf(KindNot, "$not", 1+delegate.priority, cond, a)
	n.delegate = delegate
	n.match = notMatchFn
	return n, nil
}

func sizeOperator(a *arena.Arena, cond *value.Value, ctx any) (*Node, *mongoryerr.Error) {
	delegate, err := literal(a, cond, ctx)
	if err != nil {
		return nil, err
	}
	n := newLeaf(KindSize, "$size", 1+delegate.priority, cond, a)
	n.delegate = delegate
	n.match = sizeMatchFn
	return n, nil
}
