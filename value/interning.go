// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import "unique"

// internKey canonicalizes a table key via unique.Handle[string] so
// that repeated field names across many compiled matchers and records
// share one backing string. Applied narrowly to Table keys rather than
// every string Value, since the hot strings here are field names
// repeated across records, not arbitrary string payloads.
func internKey(s string) string {
	return unique.Make(s).Value()
}
