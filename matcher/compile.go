// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package matcher

import (
	"sort"
	"strconv"
	"strings"

	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/mongoryerr"
	"github.com/mongoryhq/mongory-core-go/registry"
	"github.com/mongoryhq/mongory-core-go/value"
)

// Compile is the compiler entry point: the top-level condition must be
// a table, compiled the same way every nested table condition is.
func Compile(a *arena.Arena, cond *value.Value, ctx any) (*Node, *mongoryerr.Error) {
	return tableCondition(a, cond, ctx)
}

func sortByPriority(nodes []*Node) {
	// A stable sort keyed by floor(priority*10000) so priorities within
	// 1/10000 of each other are treated as ties and keep their original
	// (declaration) order, rather than direct float comparison
	// reordering two predicates a caller wrote as equally cheap.
	sort.SliceStable(nodes, func(i, j int) bool {
		return priorityKey(nodes[i]) < priorityKey(nodes[j])
	})
}

func priorityKey(n *Node) int64 {
	return int64(n.priority * 10000)
}

// compileTableChildren compiles every (key, sub) pair of cond's table
// into a node, resolving each key as a registered operator, a custom
// operator, or a field name, in that order. Children come back sorted
// ascending by priority.
func compileTableChildren(a *arena.Arena, cond *value.Value, ctx any) ([]*Node, *mongoryerr.Error) {
	if cond.Kind() != value.KindTable {
		err := mongoryerr.New(mongoryerr.InvalidType, "matcher: table condition expected, got %v", cond.Kind())
		a.Fail(err)
		return nil, err
	}

	var children []*Node
	var compileErr *mongoryerr.Error

	cond.Table().ForEach(func(key string, sub *value.Value) bool {
		if strings.HasPrefix(key, "$") {
			if fn, ok := registry.Global.Lookup(key); ok {
				m, err := fn(a, sub, ctx)
				if err != nil {
					compileErr = err
					return false
				}
				children = append(children, m.(*Node))
				return true
			}
			if cma := registry.Global.CustomMatcherAdapter(); cma.Lookup != nil && cma.Lookup(key) {
				name, external, err := cma.Build(a, key, sub, ctx)
				if err != nil {
					compileErr = err
					return false
				}
				n := newLeaf(KindCustom, name, 20, sub, a)
				n.external = external
				n.customMatch = cma.Match
				n.match = customMatchFn
				children = append(children, n)
				return true
			}
			// Unknown "$"-key with no adapter claiming it: falls through
			// to being treated as an ordinary field name.
		}
		fnode, err := field(a, key, sub, ctx)
		if err != nil {
			compileErr = err
			return false
		}
		children = append(children, fnode)
		return true
	})

	if compileErr != nil {
		return nil, compileErr
	}
	sortByPriority(children)
	return children, nil
}

// tableCondition compiles a table condition into a single node: empty
// becomes always_true, a single child is returned directly, otherwise
// the children are wrapped in an And.
func tableCondition(a *arena.Arena, cond *value.Value, ctx any) (*Node, *mongoryerr.Error) {
	children, err := compileTableChildren(a, cond, ctx)
	if err != nil {
		return nil, err
	}
	switch len(children) {
	case 0:
		return alwaysTrueNode(a, cond), nil
	case 1:
		return children[0], nil
	default:
		sum := 2.0
		for _, c := range children {
			sum += c.priority
		}
		n := newLeaf(KindAnd, "And", sum, cond, a)
		n.children = children
		n.match = andMatchFn
		return n, nil
	}
}

// field compiles one table entry into a Field node wrapping
// literal(sub).
func field(a *arena.Arena, key string, sub *value.Value, ctx any) (*Node, *mongoryerr.Error) {
	delegate, err := literal(a, sub, ctx)
	if err != nil {
		return nil, err
	}
	n := newLeaf(KindField, "Field", delegate.priority, sub, a)
	n.field = key
	n.delegate = delegate
	n.match = fieldMatchFn
	return n, nil
}

// literal chooses a delegate matcher by the kind of cond and wraps it
// in a Literal node whose array_record slot is filled lazily the first
// time it is asked to match an array-valued input.
func literal(a *arena.Arena, cond *value.Value, ctx any) (*Node, *mongoryerr.Error) {
	var delegate *Node
	var err *mongoryerr.Error

	switch cond.Kind() {
	case value.KindTable:
		delegate, err = tableCondition(a, cond, ctx)
	case value.KindRegex:
		delegate, err = regexLeaf(a, cond, ctx)
	case value.KindNull:
		eqNull, e1 := eqLeaf(a, cond, ctx)
		if e1 != nil {
			err = e1
			break
		}
		existsFalse, e2 := existsLeaf(a, value.NewBool(a, false), ctx)
		if e2 != nil {
			err = e2
			break
		}
		delegate = orNodeFrom(a, cond, []*Node{eqNull, existsFalse})
	default:
		delegate, err = eqLeaf(a, cond, ctx)
	}

	if err != nil {
		a.Fail(err)
		return nil, err
	}

	n := newLeaf(KindLiteral, "Literal", delegate.priority, cond, a)
	n.delegate = delegate
	n.ctx = ctx
	n.match = literalMatchFn
	return n, nil
}

// ensureArrayRecord lazily builds and caches n's array-input
// specialization. It is pinned to n.compileArena (the arena the
// surrounding matcher tree was compiled into), never to a scratch
// arena that might be reset between match calls — a scratch-arena
// build would leave n.arrayRecord dangling the next time that arena is
// reset.
func (n *Node) ensureArrayRecord() *Node {
	if n.arrayRecord != nil {
		return n.arrayRecord
	}
	ar, err := arrayRecord(n.compileArena, n.cond, n.ctx)
	if err != nil {
		n.compileArena.Fail(err)
		return nil
	}
	n.arrayRecord = ar
	n.arrayRecordArena = n.compileArena
	if n.traceStack != nil {
		// n itself was already being traced when this array-input
		// specialization was built on demand; wrap the freshly compiled
		// subtree into the same trace session instead of leaving it
		// silently unobserved.
		attachTrace(ar, n.traceStack, n.level+1)
	}
	return ar
}

// arrayRecord builds the array-input specialization of cond (see
// literalMatchFn). Every branch synthesizes an ordinary table
// condition and recompiles it through tableCondition, so the
// specialization is just more compiled matcher tree rather than a
// separate evaluation path.
func arrayRecord(a *arena.Arena, cond *value.Value, ctx any) (*Node, *mongoryerr.Error) {
	switch cond.Kind() {
	case value.KindTable:
		direct := value.NewTable(a)
		element := value.NewTable(a)
		cond.Table().ForEach(func(key string, sub *value.Value) bool {
			switch {
			case key == "$elemMatch":
				if sub.Kind() == value.KindTable {
					sub.Table().ForEach(func(k2 string, v2 *value.Value) bool {
						element.Set(k2, v2)
						return true
					})
				}
			case strings.HasPrefix(key, "$"):
				direct.Set(key, sub)
			default:
				if _, convErr := strconv.Atoi(key); convErr == nil {
					direct.Set(key, sub)
				} else {
					element.Set(key, sub)
				}
			}
			return true
		})
		if element.Len() > 0 {
			direct.Set("$elemMatch", value.NewTableValue(element))
		}
		return tableCondition(a, value.NewTableValue(direct), ctx)

	case value.KindArray:
		eqCond := operatorTable(a, "$eq", cond)
		elemCond := operatorTable(a, "$elemMatch", operatorTable(a, "$eq", cond))
		arr := value.NewArray(a)
		arr.Push(eqCond)
		arr.Push(elemCond)
		outer := operatorTable(a, "$or", value.NewArrayValue(arr))
		return tableCondition(a, outer, ctx)

	case value.KindRegex:
		outer := operatorTable(a, "$elemMatch", operatorTable(a, "$regex", cond))
		return tableCondition(a, outer, ctx)

	default:
		outer := operatorTable(a, "$elemMatch", operatorTable(a, "$eq", cond))
		return tableCondition(a, outer, ctx)
	}
}

// operatorTable builds the one-key table value {op: val}, the
// synthetic condition shape the array-record branches compile
// through.
func operatorTable(a *arena.Arena, op string, val *value.Value) *value.Value {
	t := value.NewTable(a)
	t.Set(op, val)
	return value.NewTableValue(t)
}
