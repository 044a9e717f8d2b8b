// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package trace_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/matcher"
	"github.com/mongoryhq/mongory-core-go/trace"
	"github.com/mongoryhq/mongory-core-go/value"
)

func init() {
	matcher.RegisterBuiltins()
}

func TestTraceRecordsEachNodeOnce(t *testing.T) {
	a := arena.New()
	tab := value.NewTable(a)
	tab.Set("age", value.NewInt64(a, 30))
	n, err := matcher.Compile(a, value.NewTableValue(tab), nil)
	require.Nil(t, err)

	rec := value.NewTable(a)
	rec.Set("age", value.NewInt64(a, 30))

	sess := trace.Enable(n)
	require.True(t, n.Match(value.NewTableValue(rec)))
	sess.Disable()

	records := sess.Records()
	require.NotEmpty(t, records)
	// Field, Literal, $eq: one record each.
	require.Len(t, records, 3)
	for _, r := range records {
		require.True(t, r.Matched)
	}
}

func TestTracePrintIncludesFieldAndColor(t *testing.T) {
	a := arena.New()
	tab := value.NewTable(a)
	tab.Set("age", value.NewInt64(a, 30))
	n, err := matcher.Compile(a, value.NewTableValue(tab), nil)
	require.Nil(t, err)

	rec := value.NewTable(a)
	rec.Set("age", value.NewInt64(a, 31))

	sess := trace.Enable(n)
	require.False(t, n.Match(value.NewTableValue(rec)))
	sess.Disable()

	var sb strings.Builder
	require.NoError(t, sess.Print(&sb, true))
	out := sb.String()
	require.Contains(t, out, "field: \"age\"")
	require.Contains(t, out, "\x1b[30;41m")
}

func TestTraceOrdersRootBeforeChildren(t *testing.T) {
	a := arena.New()
	inner := value.NewTable(a)
	inner.Set("$gte", value.NewInt64(a, 18))
	inner.Set("$lte", value.NewInt64(a, 65))
	tab := value.NewTable(a)
	tab.Set("age", value.NewTableValue(inner))
	n, err := matcher.Compile(a, value.NewTableValue(tab), nil)
	require.Nil(t, err)

	rec := value.NewTable(a)
	rec.Set("age", value.NewInt64(a, 30))

	sess := trace.Enable(n)
	require.True(t, n.Match(value.NewTableValue(rec)))
	sess.Disable()

	records := sess.Records()
	require.True(t, len(records) >= 3)
	// The Field node is the root of this subtree and must be recorded
	// before its And/$gte/$lte descendants, not after.
	require.Equal(t, "Field", records[0].Name)
	require.Equal(t, 0, records[0].Level)
	for _, r := range records[1:] {
		require.Greater(t, r.Level, 0)
	}
}

func TestDisableRestoresUntracedBehavior(t *testing.T) {
	a := arena.New()
	tab := value.NewTable(a)
	tab.Set("age", value.NewInt64(a, 30))
	n, err := matcher.Compile(a, value.NewTableValue(tab), nil)
	require.Nil(t, err)

	sess := trace.Enable(n)
	sess.Disable()

	require.Empty(t, sess.Records())
	rec := value.NewTable(a)
	rec.Set("age", value.NewInt64(a, 30))
	require.True(t, n.Match(value.NewTableValue(rec)))
	require.Empty(t, sess.Records())
}
