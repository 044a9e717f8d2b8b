// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package explain renders a compiled matcher tree as an ASCII
// tree-drawing, one line per node, to help a host understand why a
// compiled matcher is shaped the way it is.
package explain

import (
	"fmt"
	"io"

	"github.com/mongoryhq/mongory-core-go/traverse"
)

// Print writes root's tree to w using ├─/└─/│  /    tree-drawing
// prefixes. One line per node: Field nodes print their field name and
// condition, every other node prints its display name and condition.
func Print(w io.Writer, root traverse.Node) error {
	stack := make([]bool, 0, 8)
	var walkErr error
	ctx := &traverse.Context{Acc: &stack, Callback: func(n traverse.Node, c *traverse.Context) bool {
		s := c.Acc.(*[]bool)
		*s = (*s)[:c.Level]

		isLast := c.Total == 0 || c.Index == c.Total-1
		line := lineFor(n, *s, c.Level, isLast)
		if _, err := fmt.Fprintln(w, line); err != nil {
			walkErr = err
			return false
		}

		*s = append(*s, isLast)
		return true
	}}
	traverse.Walk(root, ctx)
	return walkErr
}

func lineFor(n traverse.Node, ancestors []bool, level int, isLast bool) string {
	text := displayText(n)
	if level == 0 {
		return text
	}
	prefix := ""
	for _, last := range ancestors {
		if last {
			prefix += "   "
		} else {
			prefix += "│  "
		}
	}
	connector := "├─ "
	if isLast {
		connector = "└─ "
	}
	return prefix + connector + text
}

func displayText(n traverse.Node) string {
	if field, ok := n.FieldName(); ok {
		return fmt.Sprintf("Field: %q, to match: %s", field, n.ConditionString())
	}
	return fmt.Sprintf("%s: %s", n.Name(), n.ConditionString())
}
