// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package syntax

import (
	"testing"

	"github.com/AleutianAI/argscan/services/resolve/ir"
)

// rustWrap embeds an argument expression in a minimal Rust call site.
func rustWrap(arg string) string {
	return "fn main() { sink(" + arg + "); }\n"
}

func TestRustCallee(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"identifier", "fn main() { foo(1); }", "foo"},
		{"scoped path", "fn main() { pbkdf2::derive(alg, iters, salt, pw, out); }", "pbkdf2::derive"},
		{"field access", "fn main() { hasher.update(data); }", "hasher.update"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, ir.LangRust, tt.src)
			if got := tree.Callee(firstCall(t, tree)); got != tt.want {
				t.Errorf("Callee() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRustNormalizeLiterals(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		kind ir.LiteralKind
	}{
		{"int", "100000", ir.LitInt},
		{"underscored int", "100_000", ir.LitInt},
		{"suffixed int", "4096u32", ir.LitInt},
		{"hex", "0x10", ir.LitInt},
		{"float", "1.5", ir.LitFloat},
		{"string", `"sha256"`, ir.LitStr},
		{"raw string", `r"sha256"`, ir.LitStr},
		{"char", "'a'", ir.LitStr},
		{"true", "true", ir.LitBool},
		{"false", "false", ir.LitBool},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, ir.LangRust, rustWrap(tt.arg))
			expr := tree.Normalize(firstArg(t, tree))
			wantLiteral(t, expr, tt.kind, tt.arg)
			lit := expr.(ir.Literal)
			if lit.Lang != ir.LangRust {
				t.Errorf("literal lang = %v, want LangRust", lit.Lang)
			}
		})
	}
}

func TestRustNormalizeUnary(t *testing.T) {
	tree := mustParse(t, ir.LangRust, rustWrap("-1"))
	operand := wantUnary(t, tree.Normalize(firstArg(t, tree)), ir.OpNeg)
	wantLiteral(t, operand, ir.LitInt, "1")

	tree = mustParse(t, ir.LangRust, rustWrap("!true"))
	operand = wantUnary(t, tree.Normalize(firstArg(t, tree)), ir.OpNot)
	wantLiteral(t, operand, ir.LitBool, "true")
}

func TestRustNormalizeOpaqueShapes(t *testing.T) {
	tests := []struct {
		name string
		arg  string
	}{
		{"identifier", "iterations"},
		{"call", "key_len()"},
		{"binary expression", "8 * 4"},
		{"reference", "&salt"},
		{"mutable reference", "&mut out"},
		{"dereference", "*p"},
		{"array repeat", "[0u8; 32]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, ir.LangRust, rustWrap(tt.arg))
			wantOpaque(t, tree.Normalize(firstArg(t, tree)))
		})
	}
}

func TestRustNormalizeArray(t *testing.T) {
	tree := mustParse(t, ir.LangRust, rustWrap("[1, 2, 3]"))
	elems := wantComposite(t, tree.Normalize(firstArg(t, tree)), 3)
	wantLiteral(t, elems[0], ir.LitInt, "1")
	wantLiteral(t, elems[1], ir.LitInt, "2")
	wantLiteral(t, elems[2], ir.LitInt, "3")
}

func TestRustNormalizeTuple(t *testing.T) {
	tree := mustParse(t, ir.LangRust, rustWrap("(1, 2)"))
	elems := wantComposite(t, tree.Normalize(firstArg(t, tree)), 2)
	wantLiteral(t, elems[0], ir.LitInt, "1")
	wantLiteral(t, elems[1], ir.LitInt, "2")
}

func TestRustNormalizeParenUnwrap(t *testing.T) {
	tree := mustParse(t, ir.LangRust, rustWrap("(64)"))
	wantLiteral(t, tree.Normalize(firstArg(t, tree)), ir.LitInt, "64")
}
