// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package registry_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/mongoryerr"
	"github.com/mongoryhq/mongory-core-go/registry"
	"github.com/mongoryhq/mongory-core-go/value"
)

func TestRegisterAndLookup(t *testing.T) {
	snap := registry.Snapshot()
	defer registry.Restore(snap)

	called := false
	registry.Global.Register("$probe", func(a *arena.Arena, cond *value.Value, ctx any) (registry.CompiledMatcher, *mongoryerr.Error) {
		called = true
		return cond, nil
	})

	fn, ok := registry.Global.Lookup("$probe")
	require.True(t, ok)

	a := arena.New()
	defer a.Free()
	_, err := fn(a, value.NewInt64(a, 1), nil)
	require.Nil(t, err)
	require.True(t, called)
}

func TestLookupMissingOperator(t *testing.T) {
	snap := registry.Snapshot()
	defer registry.Restore(snap)

	_, ok := registry.Global.Lookup("$does-not-exist")
	require.False(t, ok)
}

func TestSnapshotRestoreIsolatesRegistrations(t *testing.T) {
	snap := registry.Snapshot()
	registry.Global.Register("$scratch", func(a *arena.Arena, cond *value.Value, ctx any) (registry.CompiledMatcher, *mongoryerr.Error) {
		return cond, nil
	})
	_, ok := registry.Global.Lookup("$scratch")
	require.True(t, ok)

	registry.Restore(snap)
	_, ok = registry.Global.Lookup("$scratch")
	require.False(t, ok)
}

type fakeRegexAdapter struct{}

func (fakeRegexAdapter) Match(*arena.Arena, *value.Value, *value.Value) bool { return true }
func (fakeRegexAdapter) Stringify(_ *arena.Arena, pattern *value.Value) string {
	return "<<" + pattern.Str() + ">>"
}

func TestSetRegexAdapterWiresValueStringify(t *testing.T) {
	snap := registry.Snapshot()
	defer registry.Restore(snap)

	registry.Global.SetRegexAdapter(fakeRegexAdapter{})
	require.Equal(t, fakeRegexAdapter{}, registry.Global.RegexAdapter())

	a := arena.New()
	defer a.Free()
	re := value.NewRegex(a, "abc", nil)
	require.Equal(t, "<<abc>>", re.ToString())
}

func TestSetTraceColorfulToggles(t *testing.T) {
	snap := registry.Snapshot()
	defer registry.Restore(snap)

	registry.Global.SetTraceColorful(true)
	require.True(t, registry.Global.TraceColorful())
	registry.Global.SetTraceColorful(false)
	require.False(t, registry.Global.TraceColorful())
}
