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
	"testing"

	"github.com/AleutianAI/argscan/services/resolve/ir"
	"github.com/AleutianAI/argscan/services/resolve/value"
)

func intLit(lang ir.Language, raw string) ir.Literal {
	return ir.Literal{Lang: lang, Kind: ir.LitInt, Raw: raw}
}

func wantValue(t *testing.T, got, want value.Value) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("resolved to %v, want %v", got, want)
	}
}

func TestResolveIntLiterals(t *testing.T) {
	tests := []struct {
		name string
		lang ir.Language
		raw  string
		want value.Value
	}{
		{"go decimal", ir.LangGo, "100000", value.Int(100000)},
		{"go underscores", ir.LangGo, "100_000", value.Int(100000)},
		{"go hex", ir.LangGo, "0x1000", value.Int(4096)},
		{"go leading zero octal", ir.LangGo, "0777", value.Int(511)},
		{"go 0o octal", ir.LangGo, "0o777", value.Int(511)},
		{"go binary", ir.LangGo, "0b101", value.Int(5)},
		{"js decimal", ir.LangJavaScript, "1000", value.Int(1000)},
		{"js hex", ir.LangJavaScript, "0xFF", value.Int(255)},
		{"js legacy octal", ir.LangJavaScript, "0777", value.Int(511)},
		{"js bigint suffix", ir.LangJavaScript, "1000n", value.Int(1000)},
		{"js underscores", ir.LangJavaScript, "1_000", value.Int(1000)},
		{"python decimal", ir.LangPython, "100000", value.Int(100000)},
		{"python underscores", ir.LangPython, "100_000", value.Int(100000)},
		{"python hex", ir.LangPython, "0x10", value.Int(16)},
		{"python octal", ir.LangPython, "0o17", value.Int(15)},
		{"python binary", ir.LangPython, "0b101", value.Int(5)},
		{"rust decimal", ir.LangRust, "100000", value.Int(100000)},
		{"rust u32 suffix", ir.LangRust, "4096u32", value.Int(4096)},
		{"rust usize suffix", ir.LangRust, "32usize", value.Int(32)},
		{"rust suffix with separator", ir.LangRust, "100_000_u64", value.Int(100000)},
		{"rust hex", ir.LangRust, "0xFF", value.Int(255)},
		{"overflow", ir.LangGo, "9223372036854775808", value.Unresolved()},
		{"max int64", ir.LangGo, "9223372036854775807", value.Int(9223372036854775807)},
		{"garbage", ir.LangGo, "12ab", value.Unresolved()},
		{"empty", ir.LangGo, "", value.Unresolved()},
		{"unknown language", ir.LangUnknown, "42", value.Unresolved()},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantValue(t, e.Resolve(intLit(tt.lang, tt.raw)), tt.want)
		})
	}
}

func TestResolveFloatLiterals(t *testing.T) {
	tests := []struct {
		name string
		lang ir.Language
		raw  string
		want value.Value
	}{
		{"whole float", ir.LangPython, "1000.0", value.Int(1000)},
		{"bare exponent", ir.LangJavaScript, "1e3", value.Int(1000)},
		{"fractional", ir.LangPython, "1.5", value.Unresolved()},
		{"rust f64 suffix", ir.LangRust, "4096.0f64", value.Int(4096)},
		{"huge", ir.LangPython, "1e300", value.Unresolved()},
		{"garbage", ir.LangGo, "1.2.3", value.Unresolved()},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit := ir.Literal{Lang: tt.lang, Kind: ir.LitFloat, Raw: tt.raw}
			wantValue(t, e.Resolve(lit), tt.want)
		})
	}
}

func TestResolveBoolLiterals(t *testing.T) {
	e := New()
	tests := []struct {
		lang ir.Language
		raw  string
		want value.Value
	}{
		{ir.LangGo, "true", value.Bool(true)},
		{ir.LangGo, "false", value.Bool(false)},
		{ir.LangPython, "True", value.Bool(true)},
		{ir.LangPython, "False", value.Bool(false)},
		{ir.LangRust, "true", value.Bool(true)},
		{ir.LangGo, "yes", value.Unresolved()},
	}
	for _, tt := range tests {
		lit := ir.Literal{Lang: tt.lang, Kind: ir.LitBool, Raw: tt.raw}
		wantValue(t, e.Resolve(lit), tt.want)
	}
}

func TestResolveUnary(t *testing.T) {
	e := New()
	tests := []struct {
		name string
		expr ir.Expr
		want value.Value
	}{
		{
			"negation",
			ir.Unary{Op: ir.OpNeg, Operand: intLit(ir.LangGo, "42")},
			value.Int(-42),
		},
		{
			"plus is identity",
			ir.Unary{Op: ir.OpPlus, Operand: intLit(ir.LangGo, "42")},
			value.Int(42),
		},
		{
			"double negation",
			ir.Unary{Op: ir.OpNeg, Operand: ir.Unary{Op: ir.OpNeg, Operand: intLit(ir.LangGo, "7")}},
			value.Int(7),
		},
		{
			"bitwise complement",
			ir.Unary{Op: ir.OpBitNot, Operand: intLit(ir.LangGo, "0")},
			value.Int(-1),
		},
		{
			"not on bool",
			ir.Unary{Op: ir.OpNot, Operand: ir.Literal{Lang: ir.LangGo, Kind: ir.LitBool, Raw: "true"}},
			value.Bool(false),
		},
		{
			"not on int",
			ir.Unary{Op: ir.OpNot, Operand: intLit(ir.LangRust, "5")},
			value.Unresolved(),
		},
		{
			"negation of string",
			ir.Unary{Op: ir.OpNeg, Operand: ir.Literal{Lang: ir.LangGo, Kind: ir.LitStr, Raw: `"x"`}},
			value.Unresolved(),
		},
		{
			"negation of opaque",
			ir.Unary{Op: ir.OpNeg, Operand: ir.Opaque{}},
			value.Unresolved(),
		},
		{
			"negation overflow at min int64",
			ir.Unary{Op: ir.OpNeg, Operand: intLit(ir.LangGo, "9223372036854775808")},
			value.Unresolved(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantValue(t, e.Resolve(tt.expr), tt.want)
		})
	}
}

func TestResolveComposite(t *testing.T) {
	e := New()
	tests := []struct {
		name string
		expr ir.Composite
		want value.Value
	}{
		{
			"all ints",
			ir.Composite{Elems: []ir.Expr{
				intLit(ir.LangGo, "1"),
				intLit(ir.LangGo, "2"),
				intLit(ir.LangGo, "3"),
			}},
			value.IntList([]int64{1, 2, 3}),
		},
		{
			"negated element",
			ir.Composite{Elems: []ir.Expr{
				ir.Unary{Op: ir.OpNeg, Operand: intLit(ir.LangGo, "1")},
				intLit(ir.LangGo, "2"),
			}},
			value.IntList([]int64{-1, 2}),
		},
		{
			"empty",
			ir.Composite{},
			value.IntList(nil),
		},
		{
			"one opaque element poisons the list",
			ir.Composite{Elems: []ir.Expr{
				intLit(ir.LangGo, "1"),
				ir.Opaque{},
				intLit(ir.LangGo, "3"),
			}},
			value.Unresolved(),
		},
		{
			"string element poisons the list",
			ir.Composite{Elems: []ir.Expr{
				intLit(ir.LangGo, "1"),
				ir.Literal{Lang: ir.LangGo, Kind: ir.LitStr, Raw: `"two"`},
			}},
			value.Unresolved(),
		},
		{
			"nested composite poisons the list",
			ir.Composite{Elems: []ir.Expr{
				intLit(ir.LangGo, "1"),
				ir.Composite{Elems: []ir.Expr{intLit(ir.LangGo, "2")}},
			}},
			value.Unresolved(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantValue(t, e.Resolve(tt.expr), tt.want)
		})
	}
}

func TestResolveOpaqueAndNil(t *testing.T) {
	e := New()
	wantValue(t, e.Resolve(ir.Opaque{}), value.Unresolved())
	wantValue(t, e.Resolve(nil), value.Unresolved())
}

func TestResolveDepthGuard(t *testing.T) {
	// A chain of double negations deeper than the limit must degrade
	// instead of recursing without bound.
	var expr ir.Expr = intLit(ir.LangGo, "1")
	for i := 0; i < DefaultMaxDepth+10; i++ {
		expr = ir.Unary{Op: ir.OpNeg, Operand: ir.Unary{Op: ir.OpNeg, Operand: expr}}
	}
	wantValue(t, New().Resolve(expr), value.Unresolved())

	shallow := ir.Unary{Op: ir.OpNeg, Operand: intLit(ir.LangGo, "1")}
	wantValue(t, New(WithMaxDepth(1)).Resolve(shallow), value.Int(-1))
	deeper := ir.Unary{Op: ir.OpNeg, Operand: shallow}
	wantValue(t, New(WithMaxDepth(1)).Resolve(deeper), value.Unresolved())
}

func TestResolveDeterministic(t *testing.T) {
	e := New()
	expr := ir.Composite{Elems: []ir.Expr{
		ir.Unary{Op: ir.OpNeg, Operand: intLit(ir.LangRust, "100_000u64")},
		intLit(ir.LangRust, "0xFF"),
	}}
	first := e.Resolve(expr)
	for i := 0; i < 10; i++ {
		wantValue(t, e.Resolve(expr), first)
	}
}

func TestResolveCrossLanguageEquivalence(t *testing.T) {
	e := New()
	langs := []ir.Language{ir.LangGo, ir.LangJavaScript, ir.LangPython, ir.LangRust}
	for _, lang := range langs {
		wantValue(t, e.Resolve(intLit(lang, "42")), value.Int(42))
	}
}
