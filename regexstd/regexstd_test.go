// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package regexstd_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/regexstd"
	"github.com/mongoryhq/mongory-core-go/value"
)

func TestMatchAndMiss(t *testing.T) {
	a := arena.New()
	ra := regexstd.New()
	pattern := value.NewRegex(a, "^a.*z$", nil)
	require.True(t, ra.Match(a, pattern, value.NewString(a, "abcz")))
	require.False(t, ra.Match(a, pattern, value.NewString(a, "zzza")))
}

func TestInvalidPatternNeverMatches(t *testing.T) {
	a := arena.New()
	ra := regexstd.New()
	pattern := value.NewRegex(a, "[", nil)
	require.False(t, ra.Match(a, pattern, value.NewString(a, "[")))
}

func TestStringify(t *testing.T) {
	a := arena.New()
	ra := regexstd.New()
	require.Equal(t, "/^a/", ra.Stringify(a, value.NewRegex(a, "^a", nil)))
}
