// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unsafe"

	"github.com/mongoryhq/mongory-core-go/arena"
)

// Value is a tagged sum of {Null, Bool, Int64, Double, Str, Array,
// Table, Regex, Pointer, Opaque}. Kind is immutable after
// construction; the payload fields that don't apply to the current
// Kind are simply unused (Go has no packed union, so this trades a
// union for a fixed struct with a type tag, cache-friendliness over
// byte-exact union layout, which Go cannot express without unsafe
// tricks this package has no need for).
type Value struct {
	kind Kind
	a    *arena.Arena
	gen  uint64

	b   bool
	i   int64
	f   float64
	s   string
	arr *Array
	tab *Table
	ptr unsafe.Pointer
	op  any
}

// Absent is the sentinel returned for a missing field lookup or any
// other "no such value" outcome. It is a dedicated sentinel rather
// than a nil *Value so that every method on Value can be called on it
// without a nil check at every call site.
var Absent = &Value{kind: kindAbsent}

// IsAbsent reports whether v is the Absent sentinel.
func (v *Value) IsAbsent() bool { return v == Absent || v == nil || v.kind == kindAbsent }

// Kind returns the value's kind.
func (v *Value) Kind() Kind { return v.kind }

// Arena returns the arena this value was constructed against.
func (v *Value) Arena() *arena.Arena { return v.a }

// Stale reports whether the owning arena has been Reset or Freed since
// this value was constructed — see arena.Arena.Gen.
func (v *Value) Stale() bool { return v.a != nil && v.a.Gen() != v.gen }

func alloc(a *arena.Arena, kind Kind) *Value {
	return &Value{kind: kind, a: a, gen: genOf(a)}
}

func genOf(a *arena.Arena) uint64 {
	if a == nil {
		return 0
	}
	return a.Gen()
}

// NewNull constructs a Null value.
func NewNull(a *arena.Arena) *Value {
	return alloc(a, KindNull)
}

// NewBool constructs a Bool value.
func NewBool(a *arena.Arena, b bool) *Value {
	v := alloc(a, KindBool)
	v.b = b
	return v
}

// NewInt64 constructs an Int64 value.
func NewInt64(a *arena.Arena, i int64) *Value {
	v := alloc(a, KindInt64)
	v.i = i
	return v
}

// NewDouble constructs a Double value.
func NewDouble(a *arena.Arena, f float64) *Value {
	v := alloc(a, KindDouble)
	v.f = f
	return v
}

// NewString constructs a Str value. s is copied into the arena.
func NewString(a *arena.Arena, s string) *Value {
	v := alloc(a, KindStr)
	if a != nil {
		v.s = a.AllocString(s)
	} else {
		v.s = s
	}
	return v
}

// NewRegex constructs a Regex value. pattern is copied into the
// arena; compiled is an opaque handle the regex adapter may stash
// (e.g. a pre-compiled *regexp.Regexp) to avoid recompiling per match.
func NewRegex(a *arena.Arena, pattern string, compiled any) *Value {
	v := alloc(a, KindRegex)
	if a != nil {
		v.s = a.AllocString(pattern)
	} else {
		v.s = pattern
	}
	v.op = compiled
	return v
}

// NewPointer constructs a Pointer value wrapping an opaque host
// pointer, used by bindings to defer conversion of a foreign object
// until it is actually read.
func NewPointer(a *arena.Arena, p unsafe.Pointer) *Value {
	v := alloc(a, KindPointer)
	v.ptr = p
	return v
}

// NewOpaque constructs an Opaque value carrying an arbitrary host
// payload with no defined compare/to-string beyond the defaults.
func NewOpaque(a *arena.Arena, payload any) *Value {
	v := alloc(a, KindOpaque)
	v.op = payload
	return v
}

// NewArrayValue wraps an already-built Array as a Value.
func NewArrayValue(arr *Array) *Value {
	v := alloc(arr.a, KindArray)
	v.arr = arr
	return v
}

// NewTableValue wraps an already-built Table as a Value.
func NewTableValue(tab *Table) *Value {
	v := alloc(tab.a, KindTable)
	v.tab = tab
	return v
}

// Bool returns the payload of a Bool value (zero value if called on
// any other kind).
func (v *Value) Bool() bool { return v.b }

// Int64 returns the payload of an Int64 value.
func (v *Value) Int64() int64 { return v.i }

// Double returns the payload of a Double value.
func (v *Value) Double() float64 { return v.f }

// Str returns the payload of a Str or Regex value (the regex pattern
// text, for Regex).
func (v *Value) Str() string { return v.s }

// Array returns the payload of an Array value, or nil.
func (v *Value) Array() *Array { return v.arr }

// Table returns the payload of a Table value, or nil.
func (v *Value) Table() *Table { return v.tab }

// Pointer returns the payload of a Pointer value.
func (v *Value) Pointer() unsafe.Pointer { return v.ptr }

// Opaque returns the payload of an Opaque or Regex (compiled handle)
// value.
func (v *Value) Opaque() any { return v.op }

// Truthy implements the $present operator's notion of presence: not
// absent, not null, not an empty string/array/table, and for booleans
// equal to the boolean's own value.
func (v *Value) Truthy() bool {
	switch v.kind {
	case kindAbsent, KindNull:
		return false
	case KindBool:
		return v.b
	case KindStr:
		return v.s != ""
	case KindArray:
		return v.arr.Len() > 0
	case KindTable:
		return v.tab.Len() > 0
	default:
		return true
	}
}

// CompareResult is the four-arm result of Compare: a negative,
// zero, or positive int, or the CompareIncomparable sentinel.
type CompareResult int

// CompareIncomparable is returned when two kinds have no defined
// ordering between them. It is math.MinInt32, far outside the -1/0/1
// range real comparisons produce, so it cannot be mistaken for one of
// them; a caller that tests only the sign without IsIncomparable reads
// it as "less than".
const CompareIncomparable CompareResult = math.MinInt32

// IsIncomparable reports whether r is the CompareIncomparable
// sentinel.
func (r CompareResult) IsIncomparable() bool { return r == CompareIncomparable }

// Sign normalizes a non-incomparable result to exactly -1, 0, or 1.
func (r CompareResult) Sign() int {
	switch {
	case r < 0:
		return -1
	case r > 0:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) CompareResult {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int64) CompareResult {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Compare implements the cross-kind compare contract:
//
//   - identical numeric/string kinds compare directly;
//   - Int64 vs Double promotes both operands to Double;
//   - Array vs Array compares by length first, then element-wise, with
//     null ordered before any non-null element (shorter arrays sort as
//     less than longer ones, not a lexicographic-from-start rule);
//   - every other cross-kind pairing, and Table in any pairing, is
//     CompareIncomparable.
func (v *Value) Compare(o *Value) CompareResult {
	if v.IsAbsent() || o.IsAbsent() {
		return CompareIncomparable
	}
	if v.kind == o.kind {
		switch v.kind {
		case KindNull:
			return 0
		case KindBool:
			switch {
			case v.b == o.b:
				return 0
			case v.b:
				return 1
			default:
				return -1
			}
		case KindInt64:
			return cmpInt(v.i, o.i)
		case KindDouble:
			return cmpFloat(v.f, o.f)
		case KindStr:
			switch {
			case v.s < o.s:
				return -1
			case v.s > o.s:
				return 1
			default:
				return 0
			}
		case KindArray:
			return compareArrays(v.arr, o.arr)
		case KindPointer:
			if v.ptr == o.ptr {
				return 0
			}
			return CompareIncomparable
		default:
			return CompareIncomparable
		}
	}

	// Int64 <-> Double promotes to Double.
	if v.kind == KindInt64 && o.kind == KindDouble {
		return cmpFloat(float64(v.i), o.f)
	}
	if v.kind == KindDouble && o.kind == KindInt64 {
		return cmpFloat(v.f, float64(o.i))
	}

	return CompareIncomparable
}

func compareArrays(a, b *Array) CompareResult {
	if a.Len() != b.Len() {
		if a.Len() < b.Len() {
			return -1
		}
		return 1
	}
	for i := 0; i < a.Len(); i++ {
		ev, ok := a.get(i)
		if !ok {
			ev = Absent
		}
		ov, ok := b.get(i)
		if !ok {
			ov = Absent
		}
		if ev.IsAbsent() && ov.IsAbsent() {
			continue
		}
		if ev.Kind() == KindNull && ov.Kind() == KindNull {
			continue
		}
		if ev.Kind() == KindNull && ov.Kind() != KindNull {
			return -1
		}
		if ov.Kind() == KindNull && ev.Kind() != KindNull {
			return 1
		}
		r := ev.Compare(ov)
		if r.IsIncomparable() {
			return CompareIncomparable
		}
		if r != 0 {
			return r
		}
	}
	return 0
}

// regexStringifyHook renders a regex pattern to its string form. It
// defaults to the bare "//" placeholder and is overridden by
// registry.SetRegexAdapter so that this package never has to import
// the registry (which would create an import cycle, since the
// registry itself operates on Values).
var regexStringifyHook = func(pattern string) string { return "//" }

// SetRegexStringifyHook installs the active regex adapter's stringify
// function. Exported so the registry package can wire itself up
// without this package depending on it.
func SetRegexStringifyHook(f func(pattern string) string) {
	if f == nil {
		f = func(string) string { return "//" }
	}
	regexStringifyHook = f
}

// ToString renders v in a JSON-ish stringification: not guaranteed
// byte-exact for doubles, but structurally round-trippable for
// Null/Bool/Int64/Str.
func (v *Value) ToString() string {
	var sb strings.Builder
	v.writeString(&sb)
	return sb.String()
}

func (v *Value) writeString(sb *strings.Builder) {
	switch v.kind {
	case kindAbsent:
		sb.WriteString("null") // absent has no wire form; render as null for diagnostics
	case KindNull:
		sb.WriteString("null")
	case KindBool:
		if v.b {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case KindInt64:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindDouble:
		sb.WriteString(strconv.FormatFloat(v.f, 'f', -1, 64))
	case KindStr:
		sb.WriteByte('"')
		sb.WriteString(escapeString(v.s))
		sb.WriteByte('"')
	case KindArray:
		sb.WriteByte('[')
		for i := 0; i < v.arr.Len(); i++ {
			if i > 0 {
				sb.WriteByte(',')
			}
			ev, _ := v.arr.get(i)
			ev.writeString(sb)
		}
		sb.WriteByte(']')
	case KindTable:
		sb.WriteByte('{')
		first := true
		v.tab.ForEach(func(k string, tv *Value) bool {
			if !first {
				sb.WriteByte(',')
			}
			first = false
			sb.WriteByte('"')
			sb.WriteString(escapeString(k))
			sb.WriteString(`":`)
			tv.writeString(sb)
			return true
		})
		sb.WriteByte('}')
	case KindRegex:
		sb.WriteString(regexStringifyHook(v.s))
	case KindPointer:
		sb.WriteString(fmt.Sprintf("0x%x", uintptr(v.ptr)))
	case KindOpaque:
		sb.WriteString(fmt.Sprintf("%v", v.op))
	default:
		sb.WriteString("null")
	}
}

func escapeString(s string) string {
	needsEscape := false
	for _, r := range s {
		if r == '"' || r == '\\' || r < 0x20 {
			needsEscape = true
			break
		}
	}
	if !needsEscape {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if r < 0x20 {
				sb.WriteString(fmt.Sprintf(`\u%04x`, r))
			} else {
				sb.WriteRune(r)
			}
		}
	}
	return sb.String()
}
