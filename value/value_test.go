// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/mongoryhq/mongory-core-go/arena"
)

func TestCompareSelf(t *testing.T) {
	a := arena.New()
	vals := []*Value{
		NewNull(a),
		NewBool(a, true),
		NewInt64(a, 42),
		NewDouble(a, 3.14),
		NewString(a, "hi"),
	}
	for _, v := range vals {
		require.Equal(t, CompareResult(0), v.Compare(v), "kind %v", v.Kind())
	}
}

func TestCompareAntisymmetric(t *testing.T) {
	a := arena.New()
	x := NewInt64(a, 1)
	y := NewInt64(a, 2)
	require.Equal(t, -1, x.Compare(y).Sign())
	require.Equal(t, 1, y.Compare(x).Sign())
}

func TestCompareIntDoublePromotion(t *testing.T) {
	a := arena.New()
	require.Equal(t, CompareResult(0), NewInt64(a, 2).Compare(NewDouble(a, 2.0)))
	require.Equal(t, -1, NewInt64(a, 1).Compare(NewDouble(a, 1.5)).Sign())
}

func TestCompareCrossKindIncomparable(t *testing.T) {
	a := arena.New()
	require.True(t, NewString(a, "x").Compare(NewBool(a, true)).IsIncomparable())
	require.True(t, NewTableValue(NewTable(a)).Compare(NewTableValue(NewTable(a))).IsIncomparable())
}

func TestCompareArraysByLengthThenElement(t *testing.T) {
	a := arena.New()
	short := NewArray(a)
	short.Push(NewInt64(a, 1))
	long := NewArray(a)
	long.Push(NewInt64(a, 1))
	long.Push(NewInt64(a, 2))

	require.Equal(t, -1, NewArrayValue(short).Compare(NewArrayValue(long)).Sign())

	a1 := NewArray(a)
	a1.Push(NewInt64(a, 1))
	a1.Push(NewInt64(a, 2))
	a2 := NewArray(a)
	a2.Push(NewInt64(a, 1))
	a2.Push(NewInt64(a, 3))
	require.Equal(t, -1, NewArrayValue(a1).Compare(NewArrayValue(a2)).Sign())
}

func TestToStringFormats(t *testing.T) {
	a := arena.New()
	require.Equal(t, "null", NewNull(a).ToString())
	require.Equal(t, "true", NewBool(a, true).ToString())
	require.Equal(t, "false", NewBool(a, false).ToString())
	require.Equal(t, "42", NewInt64(a, 42).ToString())
	require.Equal(t, `"hi"`, NewString(a, "hi").ToString())

	arr := NewArray(a)
	arr.Push(NewInt64(a, 1))
	arr.Push(NewInt64(a, 2))
	require.Equal(t, "[1,2]", NewArrayValue(arr).ToString())

	tab := NewTable(a)
	tab.Set("k", NewInt64(a, 1))
	require.Equal(t, `{"k":1}`, NewTableValue(tab).ToString())
}

func TestToStringEscapesStrings(t *testing.T) {
	a := arena.New()
	require.Equal(t, `"a\"b"`, NewString(a, `a"b`).ToString())
}

func TestRegexDefaultStringify(t *testing.T) {
	a := arena.New()
	require.Equal(t, `//`, NewRegex(a, "^a.*", nil).ToString())
}

func TestArrayNegativeIndexing(t *testing.T) {
	a := arena.New()
	arr := NewArray(a)
	arr.Push(NewInt64(a, 0))
	arr.Push(NewInt64(a, 1))
	arr.Push(NewInt64(a, 2))

	require.Equal(t, int64(2), arr.Get(-1).Int64())
	require.True(t, arr.Get(-4).IsAbsent())
}

func TestArraySetZeroFills(t *testing.T) {
	a := arena.New()
	arr := NewArray(a)
	require.Nil(t, arr.Set(3, NewInt64(a, 9)))
	require.Equal(t, 4, arr.Len())
	require.Equal(t, KindNull, arr.Get(0).Kind())
	require.Equal(t, int64(9), arr.Get(3).Int64())
}

func TestTableRehashAtLoadFactor(t *testing.T) {
	a := arena.New()
	tab := NewTable(a)
	initialCap := len(tab.buckets)
	n := int(0.75*float64(initialCap)) + 1
	for i := 0; i < n; i++ {
		tab.Set(string(rune('a'+i%26))+string(rune(i)), NewInt64(a, int64(i)))
	}
	require.Greater(t, len(tab.buckets), initialCap)
	// All entries survive rehash.
	require.Equal(t, n, tab.Len())
}

func TestTableGetAbsentForMissingKey(t *testing.T) {
	a := arena.New()
	tab := NewTable(a)
	require.True(t, tab.Get("missing").IsAbsent())
}

func TestArrayForEachVisitsEveryElementInOrder(t *testing.T) {
	a := arena.New()
	arr := NewArray(a)
	arr.Push(NewInt64(a, 10))
	arr.Push(NewInt64(a, 20))
	arr.Push(NewInt64(a, 30))

	var got []int64
	arr.ForEach(func(_ int, v *Value) bool {
		got = append(got, v.Int64())
		return true
	})

	want := []int64{10, 20, 30}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ForEach order mismatch (-want +got):\n%s", diff)
	}
}

func TestTableDel(t *testing.T) {
	a := arena.New()
	tab := NewTable(a)
	tab.Set("k", NewInt64(a, 1))
	tab.Del("k")
	require.True(t, tab.Get("k").IsAbsent())
	require.Equal(t, 0, tab.Len())
}
