// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package trace prints the per-node outcome of a traced match call.
// The recording itself happens inside matcher.Node (EnableTrace wraps
// every node's match function with one that appends an outcome record
// to a shared, level-tagged stack); this package only formats and
// prints that stack.
package trace

import (
	"fmt"
	"io"

	"github.com/mongoryhq/mongory-core-go/matcher"
)

const (
	colorMatched  = "\x1b[30;42m"
	colorDismatch = "\x1b[30;41m"
	colorReset    = "\x1b[0m"
)

// Session tracks one enabled trace over a compiled matcher tree.
type Session struct {
	root  *matcher.Node
	stack *[]matcher.TraceRecord
}

// Enable wraps root's subtree so every Match call records an outcome.
func Enable(root *matcher.Node) *Session {
	return &Session{root: root, stack: root.EnableTrace()}
}

// Disable restores root's subtree to its untraced match functions.
func (s *Session) Disable() {
	s.root.DisableTrace()
}

// Records returns the outcomes recorded so far, in evaluation order.
// Each node's record is pushed onto the stack before its children are
// evaluated and only patched with the result afterward, so the stack
// fills root-first in tree (pre-order, level-tagged) order — no
// separate reconstruction pass is needed before printing.
func (s *Session) Records() []matcher.TraceRecord {
	return *s.stack
}

// Print writes one line per recorded outcome, indented by 2*level
// spaces, optionally ANSI-colorizing the result marker.
func (s *Session) Print(w io.Writer, colorful bool) error {
	for _, rec := range *s.stack {
		if _, err := fmt.Fprintln(w, formatRecord(rec, colorful)); err != nil {
			return err
		}
	}
	return nil
}

func formatRecord(rec matcher.TraceRecord, colorful bool) string {
	result := "Dismatch"
	color := colorDismatch
	if rec.Matched {
		result = "Matched"
		color = colorMatched
	}
	if colorful {
		result = color + result + colorReset
	}

	indent := ""
	for i := 0; i < rec.Level; i++ {
		indent += "  "
	}

	if rec.HasField {
		return fmt.Sprintf("%s%s: %s, field: %q, condition: %s, record: %s",
			indent, rec.Name, result, rec.Field, rec.Condition, rec.Record)
	}
	return fmt.Sprintf("%s%s: %s, condition: %s, record: %s",
		indent, rec.Name, result, rec.Condition, rec.Record)
}
