// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"math"
	"strconv"
	"strings"

	"github.com/AleutianAI/argscan/services/resolve/ir"
)

// rustIntSuffixes are the type suffixes an integer literal may carry,
// longest first so "isize" wins over "i8".
var rustIntSuffixes = []string{
	"usize", "isize",
	"u128", "i128",
	"u64", "i64", "u32", "i32", "u16", "i16",
	"u8", "i8",
}

// rustFloatSuffixes are the type suffixes a float literal may carry.
var rustFloatSuffixes = []string{"f64", "f32"}

// parseIntLiteral parses a raw integer token per the source language.
//
// All four languages share digit-separator underscores and the 0x, 0o
// and 0b base prefixes. Go additionally treats a bare leading zero as
// octal; JavaScript legacy octal works the same way and its literals
// may carry a trailing "n"; Rust literals may carry a type suffix.
func parseIntLiteral(lang ir.Language, raw string) (int64, bool) {
	s := raw
	switch lang {
	case ir.LangGo:
		// strconv's base-0 mode matches Go's own literal grammar,
		// underscores and leading-zero octal included.
		n, err := strconv.ParseInt(s, 0, 64)
		return n, err == nil

	case ir.LangJavaScript:
		s = strings.TrimSuffix(s, "n")
		s = strings.ReplaceAll(s, "_", "")
		if base, digits, ok := splitBasePrefix(s); ok {
			n, err := strconv.ParseInt(digits, base, 64)
			return n, err == nil
		}
		if len(s) > 1 && s[0] == '0' && allOctalDigits(s[1:]) {
			n, err := strconv.ParseInt(s[1:], 8, 64)
			return n, err == nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil

	case ir.LangPython:
		s = strings.ReplaceAll(s, "_", "")
		if base, digits, ok := splitBasePrefix(s); ok {
			n, err := strconv.ParseInt(digits, base, 64)
			return n, err == nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil

	case ir.LangRust:
		s = stripSuffix(s, rustIntSuffixes)
		s = strings.ReplaceAll(s, "_", "")
		if base, digits, ok := splitBasePrefix(s); ok {
			n, err := strconv.ParseInt(digits, base, 64)
			return n, err == nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		return n, err == nil

	default:
		return 0, false
	}
}

// parseFloatAsInt parses a raw float token and converts it to an
// integer when its fractional part is zero and it fits in int64.
func parseFloatAsInt(lang ir.Language, raw string) (int64, bool) {
	s := raw
	if lang == ir.LangRust {
		s = stripSuffix(s, rustFloatSuffixes)
	}
	s = strings.ReplaceAll(s, "_", "")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// The int64 range check must happen in float space before the
	// conversion truncates.
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

// splitBasePrefix recognizes the 0x, 0o and 0b prefixes in any case.
func splitBasePrefix(s string) (base int, digits string, ok bool) {
	if len(s) < 3 || s[0] != '0' {
		return 0, "", false
	}
	switch s[1] {
	case 'x', 'X':
		return 16, s[2:], true
	case 'o', 'O':
		return 8, s[2:], true
	case 'b', 'B':
		return 2, s[2:], true
	}
	return 0, "", false
}

func allOctalDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '7' {
			return false
		}
	}
	return len(s) > 0
}

// stripSuffix removes the first matching suffix, but never the whole
// token ("u8" alone is not a number).
func stripSuffix(s string, suffixes []string) string {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) && len(s) > len(suf) {
			return s[:len(s)-len(suf)]
		}
	}
	return s
}
