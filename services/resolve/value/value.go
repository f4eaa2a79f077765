// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package value defines the tagged result type produced by the resolution
// engine, plus the typed accessors callers branch on.
package value

import (
	"fmt"
	"strings"
)

// Kind tags a Value.
type Kind int

const (
	// KindUnresolved marks a value the engine could not determine
	// statically. It is a first-class outcome, not an error.
	KindUnresolved Kind = iota
	KindInt
	KindIntList
	KindStr
	KindBool
)

// String returns a short name for logging.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindIntList:
		return "int_list"
	case KindStr:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unresolved"
	}
}

// Value is the result of resolving one argument expression.
//
// Description:
//
//	Value is a tagged union over Int(i64), IntList, Str, Bool, and
//	Unresolved. Each accessor reports presence only when the tag
//	matches; callers branch on the bool rather than handling errors.
//
// Thread Safety:
//
//	Values are immutable after construction and safe to share.
type Value struct {
	kind Kind
	i    int64
	list []int64
	s    string
	b    bool
}

// Unresolved returns the not-statically-known value.
func Unresolved() Value {
	return Value{kind: KindUnresolved}
}

// Int returns a resolved single-integer value.
func Int(v int64) Value {
	return Value{kind: KindInt, i: v}
}

// IntList returns a resolved ordered integer sequence. The slice is
// copied; callers may reuse their backing array.
func IntList(vs []int64) Value {
	list := make([]int64, len(vs))
	copy(list, vs)
	return Value{kind: KindIntList, list: list}
}

// Str returns a resolved string value (escape sequences already decoded).
func Str(s string) Value {
	return Value{kind: KindStr, s: s}
}

// Bool returns a resolved boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the value's tag.
func (v Value) Kind() Kind {
	return v.kind
}

// IsResolved reports whether the engine determined a concrete value.
func (v Value) IsResolved() bool {
	return v.kind != KindUnresolved
}

// AsInt returns the integer and true when the value is a single integer.
func (v Value) AsInt() (int64, bool) {
	if v.kind != KindInt {
		return 0, false
	}
	return v.i, true
}

// AsIntList returns the integer sequence and true when the value is an
// integer list. The returned slice is a copy.
func (v Value) AsIntList() ([]int64, bool) {
	if v.kind != KindIntList {
		return nil, false
	}
	out := make([]int64, len(v.list))
	copy(out, v.list)
	return out, true
}

// AsStr returns the decoded string and true when the value is a string.
func (v Value) AsStr() (string, bool) {
	if v.kind != KindStr {
		return "", false
	}
	return v.s, true
}

// AsBool returns the boolean and true when the value is a boolean.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Equal reports whether two values have the same tag and content.
// IntList comparison is order-sensitive.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindIntList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	case KindStr:
		return v.s == o.s
	case KindBool:
		return v.b == o.b
	default:
		return true
	}
}

// String renders the value for logs and debug output.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return fmt.Sprintf("int(%d)", v.i)
	case KindIntList:
		parts := make([]string, len(v.list))
		for i, n := range v.list {
			parts[i] = fmt.Sprintf("%d", n)
		}
		return "int_list[" + strings.Join(parts, ", ") + "]"
	case KindStr:
		return fmt.Sprintf("string(%q)", v.s)
	case KindBool:
		return fmt.Sprintf("bool(%t)", v.b)
	default:
		return "unresolved"
	}
}
