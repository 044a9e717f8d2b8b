// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package matcher

import (
	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/mongoryerr"
	"github.com/mongoryhq/mongory-core-go/registry"
	"github.com/mongoryhq/mongory-core-go/value"
)

type operatorFunc func(a *arena.Arena, cond *value.Value, ctx any) (*Node, *mongoryerr.Error)

// wrap type-erases an operatorFunc's *Node result to registry.CompiledMatcher
// (an any) so registry.Register's signature doesn't have to know about
// this package's concrete node type.
func wrap(fn operatorFunc) registry.CompilerFunc {
	return func(a *arena.Arena, cond *value.Value, ctx any) (registry.CompiledMatcher, *mongoryerr.Error) {
		return fn(a, cond, ctx)
	}
}

// RegisterBuiltins installs the fixed operator set into the global
// registry. Safe to call more than once (Register logs, not errors, on
// overwrite) so tests that Snapshot/Restore around scratch operators
// can call it again after Restore.
func RegisterBuiltins() {
	registry.Global.Register("$eq", wrap(eqLeaf))
	registry.Global.Register("$ne", wrap(neLeaf))
	registry.Global.Register("$gt", wrap(compareLeaf(OpGT, "$gt")))
	registry.Global.Register("$gte", wrap(compareLeaf(OpGTE, "$gte")))
	registry.Global.Register("$lt", wrap(compareLeaf(OpLT, "$lt")))
	registry.Global.Register("$lte", wrap(compareLeaf(OpLTE, "$lte")))
	registry.Global.Register("$in", wrap(inLeaf))
	registry.Global.Register("$nin", wrap(ninLeaf))
	registry.Global.Register("$exists", wrap(existsLeaf))
	registry.Global.Register("$present", wrap(presentLeaf))
	registry.Global.Register("$regex", wrap(regexLeaf))
	registry.Global.Register("$and", wrap(andOperator))
	registry.Global.Register("$or", wrap(orOperator))
	registry.Global.Register("$elemMatch", wrap(elemMatchOperator))
	registry.Global.Register("$every", wrap(everyOperator))
	registry.Global.Register("$not", wrap(notOperator))
	registry.Global.Register("$size", wrap(sizeOperator))
}
