// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package explain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/explain"
	"github.com/mongoryhq/mongory-core-go/matcher"
	"github.com/mongoryhq/mongory-core-go/value"
)

func init() {
	matcher.RegisterBuiltins()
}

func TestPrintOneLinePerNode(t *testing.T) {
	a := arena.New()
	tab := value.NewTable(a)
	tab.Set("age", value.NewInt64(a, 30))
	tab.Set("name", value.NewString(a, "ann"))
	n, err := matcher.Compile(a, value.NewTableValue(tab), nil)
	require.Nil(t, err)

	var sb strings.Builder
	require.NoError(t, explain.Print(&sb, n))

	out := sb.String()
	require.Contains(t, out, "And:")
	require.Contains(t, out, `Field: "age"`)
	require.Contains(t, out, `Field: "name"`)
	require.Contains(t, out, "$eq: 30")
	require.Contains(t, out, `$eq: "ann"`)
	// And + (Field, Literal, $eq) for each of the two fields.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
}

func TestPrintSingleFieldShowsFullSubtree(t *testing.T) {
	a := arena.New()
	tab := value.NewTable(a)
	tab.Set("age", value.NewInt64(a, 30))
	n, err := matcher.Compile(a, value.NewTableValue(tab), nil)
	require.Nil(t, err)

	var sb strings.Builder
	require.NoError(t, explain.Print(&sb, n))
	out := sb.String()
	require.Contains(t, out, `Field: "age"`)
	require.Contains(t, out, "Literal: 30")
	require.Contains(t, out, "$eq: 30")
	require.Equal(t, 3, strings.Count(out, "\n"))
}

func TestPrintNestedStructureUnderFieldIsVisible(t *testing.T) {
	a := arena.New()
	inner := value.NewTable(a)
	inner.Set("$gte", value.NewInt64(a, 18))
	inner.Set("$lte", value.NewInt64(a, 65))
	tab := value.NewTable(a)
	tab.Set("age", value.NewTableValue(inner))
	n, err := matcher.Compile(a, value.NewTableValue(tab), nil)
	require.Nil(t, err)

	var sb strings.Builder
	require.NoError(t, explain.Print(&sb, n))
	out := sb.String()
	require.Contains(t, out, `Field: "age"`)
	require.Contains(t, out, "And:")
	require.Contains(t, out, "$gte: 18")
	require.Contains(t, out, "$lte: 65")
	// Field, Literal, And, $gte, $lte.
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
}
