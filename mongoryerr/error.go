// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package mongoryerr defines the error taxonomy shared by the arena,
// value, and matcher-compiler packages.
package mongoryerr

import "fmt"

// Kind classifies an Error. The zero value, None, means "no error".
type Kind int

const (
	None Kind = iota
	Memory
	InvalidType
	OutOfBounds
	UnsupportedOperation
	InvalidArgument
	IO
	Parse
	Unknown
)

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Memory:
		return "memory"
	case InvalidType:
		return "invalid_type"
	case OutOfBounds:
		return "out_of_bounds"
	case UnsupportedOperation:
		return "unsupported_operation"
	case InvalidArgument:
		return "invalid_argument"
	case IO:
		return "io"
	case Parse:
		return "parse"
	default:
		return "unknown"
	}
}

// Error is the uniform error shape produced by every package in this
// module: a classification plus a short message. It implements the
// standard error interface so callers can use errors.Is/As normally,
// but most internal code checks Kind directly.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New constructs an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrAllocFailed is a shared sentinel for an allocation failure (out
// of process memory), comparable by pointer identity. The arena
// package does not return it: its own failures (negative size, use
// after Free) are reported with freshly built errors.
var ErrAllocFailed = &Error{Kind: Memory, Message: "arena: allocation failed"}
