// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine resolves expression IR into static values.
//
// Resolution is pure and deterministic: the same expression always
// yields the same value, nothing is read from the environment, and
// nothing fails. Every shape the engine cannot prove a value for
// degrades to the Unresolved value instead of returning an error.
package engine

import (
	"github.com/AleutianAI/argscan/services/resolve/ir"
	"github.com/AleutianAI/argscan/services/resolve/value"
)

// DefaultMaxDepth bounds recursion over nested expressions. Anything
// deeper resolves to Unresolved.
const DefaultMaxDepth = 256

// Engine resolves expression IR to values.
//
// Thread Safety:
//
//	Immutable after construction; safe for concurrent use.
type Engine struct {
	maxDepth int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDepth sets the expression recursion limit. Non-positive
// values are ignored.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve evaluates an expression to a static value.
//
// Description:
//
//	Literals parse according to their source language's lexical rules.
//	Unary operations apply to resolved operands when the operator and
//	operand type fit. Composites resolve all-or-nothing: an integer
//	list only when every element resolves to an integer. Opaque
//	expressions, nil expressions, unsupported combinations, and
//	nesting beyond the depth limit all yield Unresolved.
func (e *Engine) Resolve(expr ir.Expr) value.Value {
	return e.resolve(expr, 0)
}

func (e *Engine) resolve(expr ir.Expr, depth int) value.Value {
	if depth > e.maxDepth {
		return value.Unresolved()
	}

	switch x := expr.(type) {
	case ir.Literal:
		return resolveLiteral(x)

	case ir.Unary:
		return applyUnary(x.Op, e.resolve(x.Operand, depth+1))

	case ir.Composite:
		return e.resolveComposite(x, depth)

	case ir.Opaque:
		return value.Unresolved()

	default:
		// Covers a nil interface and any future variant.
		return value.Unresolved()
	}
}

// resolveComposite applies the all-or-nothing rule: every element must
// resolve to an integer or the whole composite is Unresolved.
func (e *Engine) resolveComposite(c ir.Composite, depth int) value.Value {
	ints := make([]int64, 0, len(c.Elems))
	for _, elem := range c.Elems {
		v := e.resolve(elem, depth+1)
		n, ok := v.AsInt()
		if !ok {
			return value.Unresolved()
		}
		ints = append(ints, n)
	}
	return value.IntList(ints)
}
