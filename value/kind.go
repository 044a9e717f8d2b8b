// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package value implements the tagged-union document type shared by
// conditions and records: Value, Array, and Table, with a ten-kind
// discriminator and real comparison/stringification semantics rather
// than an escape hatch to interface{}.
package value

// Kind identifies which payload a Value carries.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt64
	KindDouble
	KindStr
	KindArray
	KindTable
	KindRegex
	KindPointer
	KindOpaque

	// kindAbsent is never constructed directly by callers; it backs the
	// package-level Absent sentinel used for missing field lookups.
	kindAbsent
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt64:
		return "Int64"
	case KindDouble:
		return "Double"
	case KindStr:
		return "Str"
	case KindArray:
		return "Array"
	case KindTable:
		return "Table"
	case KindRegex:
		return "Regex"
	case KindPointer:
		return "Pointer"
	case KindOpaque:
		return "Opaque"
	case kindAbsent:
		return "Absent"
	default:
		return "Unknown"
	}
}
