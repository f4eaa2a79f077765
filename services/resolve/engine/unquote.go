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
	"strconv"
	"strings"

	"github.com/AleutianAI/argscan/services/resolve/ir"
)

// decodeString decodes a raw string token, quotes and prefixes
// included, into its value per the source language's escape rules.
func decodeString(lang ir.Language, raw string) (string, bool) {
	switch lang {
	case ir.LangGo:
		return decodeGoString(raw)
	case ir.LangJavaScript:
		return decodeJSString(raw)
	case ir.LangPython:
		return decodePythonString(raw)
	case ir.LangRust:
		return decodeRustString(raw)
	default:
		return "", false
	}
}

func decodeGoString(raw string) (string, bool) {
	if len(raw) >= 2 && raw[0] == '`' && raw[len(raw)-1] == '`' {
		return raw[1 : len(raw)-1], true
	}
	s, err := strconv.Unquote(raw)
	if err != nil {
		return "", false
	}
	return s, true
}

func decodeJSString(raw string) (string, bool) {
	if len(raw) < 2 {
		return "", false
	}
	quote := raw[0]
	if quote != '\'' && quote != '"' && quote != '`' {
		return "", false
	}
	if raw[len(raw)-1] != quote {
		return "", false
	}
	body := raw[1 : len(raw)-1]
	if !strings.ContainsRune(body, '\\') {
		return body, true
	}

	var b strings.Builder
	rs := []rune(body)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '\\' {
			b.WriteRune(rs[i])
			continue
		}
		i++
		if i >= len(rs) {
			return "", false
		}
		switch rs[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// Line continuation contributes nothing.
		case 'x':
			r, n, ok := hexRune(rs[i+1:], 2)
			if !ok {
				return "", false
			}
			b.WriteRune(r)
			i += n
		case 'u':
			if i+1 < len(rs) && rs[i+1] == '{' {
				r, n, ok := bracedHexRune(rs[i+1:])
				if !ok {
					return "", false
				}
				b.WriteRune(r)
				i += n
			} else {
				r, n, ok := hexRune(rs[i+1:], 4)
				if !ok {
					return "", false
				}
				b.WriteRune(r)
				i += n
			}
		default:
			// Unknown escapes are identity in JavaScript: \q is q.
			b.WriteRune(rs[i])
		}
	}
	return b.String(), true
}

func decodePythonString(raw string) (string, bool) {
	s := raw
	isRaw := false
	for len(s) > 0 {
		switch s[0] {
		case 'r', 'R':
			isRaw = true
		case 'b', 'B', 'u', 'U', 'f', 'F':
			// Prefix carries no content.
		default:
			goto prefixDone
		}
		s = s[1:]
	}
prefixDone:
	if len(s) < 2 {
		return "", false
	}
	quote := s[0]
	if quote != '\'' && quote != '"' {
		return "", false
	}

	var body string
	triple := string(quote) + string(quote) + string(quote)
	if strings.HasPrefix(s, triple) {
		if len(s) < 6 || !strings.HasSuffix(s, triple) {
			return "", false
		}
		body = s[3 : len(s)-3]
	} else {
		if s[len(s)-1] != quote {
			return "", false
		}
		body = s[1 : len(s)-1]
	}

	if isRaw || !strings.ContainsRune(body, '\\') {
		return body, true
	}

	var b strings.Builder
	rs := []rune(body)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '\\' {
			b.WriteRune(rs[i])
			continue
		}
		i++
		if i >= len(rs) {
			return "", false
		}
		switch rs[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case '\n':
			// Backslash-newline is a line continuation.
		case 'x':
			r, n, ok := hexRune(rs[i+1:], 2)
			if !ok {
				return "", false
			}
			b.WriteRune(r)
			i += n
		case 'u':
			r, n, ok := hexRune(rs[i+1:], 4)
			if !ok {
				return "", false
			}
			b.WriteRune(r)
			i += n
		case 'U':
			r, n, ok := hexRune(rs[i+1:], 8)
			if !ok {
				return "", false
			}
			b.WriteRune(r)
			i += n
		case '0', '1', '2', '3', '4', '5', '6', '7':
			r, n := octalRune(rs[i:])
			b.WriteRune(r)
			i += n - 1
		default:
			// Python keeps unrecognized escapes verbatim.
			b.WriteByte('\\')
			b.WriteRune(rs[i])
		}
	}
	return b.String(), true
}

func decodeRustString(raw string) (string, bool) {
	s := raw
	if len(s) > 0 && (s[0] == 'b' || s[0] == 'B') {
		s = s[1:]
	}

	// Raw form: r"..." or r#"..."# with any number of hashes.
	if len(s) > 0 && s[0] == 'r' {
		s = s[1:]
		hashes := 0
		for hashes < len(s) && s[hashes] == '#' {
			hashes++
		}
		open := hashes + 1
		closeLen := 1 + hashes
		if len(s) < open+closeLen || s[hashes] != '"' {
			return "", false
		}
		if s[len(s)-closeLen] != '"' || strings.Count(s[len(s)-hashes:], "#") != hashes {
			return "", false
		}
		return s[open : len(s)-closeLen], true
	}

	// Char literals decode with the same escapes as strings.
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return decodeRustBody(s[1 : len(s)-1])
	}

	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", false
	}
	return decodeRustBody(s[1 : len(s)-1])
}

func decodeRustBody(body string) (string, bool) {
	if !strings.ContainsRune(body, '\\') {
		return body, true
	}
	var b strings.Builder
	rs := []rune(body)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '\\' {
			b.WriteRune(rs[i])
			continue
		}
		i++
		if i >= len(rs) {
			return "", false
		}
		switch rs[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		case '\n':
			// Backslash-newline trims the break and following indent.
			for i+1 < len(rs) && (rs[i+1] == ' ' || rs[i+1] == '\t') {
				i++
			}
		case 'x':
			r, n, ok := hexRune(rs[i+1:], 2)
			if !ok {
				return "", false
			}
			b.WriteRune(r)
			i += n
		case 'u':
			if i+1 >= len(rs) || rs[i+1] != '{' {
				return "", false
			}
			r, n, ok := bracedHexRune(rs[i+1:])
			if !ok {
				return "", false
			}
			b.WriteRune(r)
			i += n
		default:
			return "", false
		}
	}
	return b.String(), true
}

// hexRune reads exactly width hex digits and returns the rune plus the
// number of runes consumed.
func hexRune(rs []rune, width int) (rune, int, bool) {
	if len(rs) < width {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(string(rs[:width]), 16, 32)
	if err != nil {
		return 0, 0, false
	}
	return rune(v), width, true
}

// bracedHexRune reads a {H...} escape body starting at the opening
// brace and returns the rune plus runes consumed, braces included.
func bracedHexRune(rs []rune) (rune, int, bool) {
	if len(rs) == 0 || rs[0] != '{' {
		return 0, 0, false
	}
	end := -1
	for i := 1; i < len(rs); i++ {
		if rs[i] == '}' {
			end = i
			break
		}
	}
	if end <= 1 || end > 8 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(string(rs[1:end]), 16, 32)
	if err != nil || v > 0x10FFFF {
		return 0, 0, false
	}
	return rune(v), end + 1, true
}

// octalRune reads one to three octal digits.
func octalRune(rs []rune) (rune, int) {
	v := rune(0)
	n := 0
	for n < 3 && n < len(rs) && rs[n] >= '0' && rs[n] <= '7' {
		v = v*8 + (rs[n] - '0')
		n++
	}
	return v, n
}
