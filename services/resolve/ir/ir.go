// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ir defines the language-agnostic expression representation the
// resolution engine consumes.
//
// A per-language normalizer (services/resolve/syntax) maps raw tree-sitter
// nodes onto a small closed variant set: Literal, Unary, Composite, and
// Opaque. The variant set is deliberately closed — adding a variant is a
// compile-time-visible change across every resolver — and carries owned
// copies of the raw text it needs, so the engine has no per-language or
// tree-sitter dependency.
package ir

// Language identifies a supported source language.
type Language int

const (
	LangUnknown Language = iota
	LangGo
	LangJavaScript
	LangPython
	LangRust
)

// ParseLanguage maps a language name (or common alias) to a Language.
//
// Returns LangUnknown and false for unsupported names.
func ParseLanguage(name string) (Language, bool) {
	switch name {
	case "go", "golang":
		return LangGo, true
	case "javascript", "js", "typescript", "ts":
		return LangJavaScript, true
	case "python", "py":
		return LangPython, true
	case "rust", "rs":
		return LangRust, true
	default:
		return LangUnknown, false
	}
}

// String returns the canonical lowercase language name.
func (l Language) String() string {
	switch l {
	case LangGo:
		return "go"
	case LangJavaScript:
		return "javascript"
	case LangPython:
		return "python"
	case LangRust:
		return "rust"
	default:
		return "unknown"
	}
}

// LiteralKind classifies a Literal's raw text so the engine knows which
// per-language parsing rules apply.
type LiteralKind int

const (
	LitInt LiteralKind = iota
	LitFloat
	LitStr
	LitBool
)

// String returns a short name for logging.
func (k LiteralKind) String() string {
	switch k {
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitStr:
		return "string"
	case LitBool:
		return "bool"
	default:
		return "invalid"
	}
}

// UnaryOp is a unary prefix operator, normalized across languages.
//
// Operators without static value semantics (Go/Rust address-of and
// dereference) are never produced; the normalizer emits Opaque for them.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPlus
	OpNot
	OpBitNot
)

// String returns the conventional operator spelling.
func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpPlus:
		return "+"
	case OpNot:
		return "!"
	case OpBitNot:
		return "^"
	default:
		return "invalid"
	}
}

// Expr is a normalized argument expression.
//
// Description:
//
//	Expr is a sealed interface: the only implementations are Literal,
//	Unary, Composite, and Opaque, all in this package. Exhaustive
//	switches over these four types are the dispatch mechanism of the
//	resolution engine.
//
// Thread Safety:
//
//	Expr values are immutable after normalization and safe to share
//	across goroutines.
type Expr interface {
	isExpr()
}

// Literal is a directly-written constant. Raw holds the exact source
// text of the token, including quotes, prefixes, and digit separators;
// Lang selects the numeric and escape rules used to decode it.
type Literal struct {
	Lang Language
	Kind LiteralKind
	Raw  string
}

// Unary is a unary prefix operation over a normalized operand.
type Unary struct {
	Op      UnaryOp
	Operand Expr
}

// Composite is an array/list/tuple/slice literal. Element order matches
// source order and is significant.
type Composite struct {
	Elems []Expr
}

// Opaque is any expression the normalizer does not decompose: identifiers,
// calls, binary operations, member access, interpolated strings, and every
// other dynamic construct. It always resolves to Unresolved.
type Opaque struct{}

func (Literal) isExpr()   {}
func (Unary) isExpr()     {}
func (Composite) isExpr() {}
func (Opaque) isExpr()    {}
