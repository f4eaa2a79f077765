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
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"github.com/AleutianAI/argscan/services/resolve/ir"
)

// Rust tree-sitter node kinds.
const (
	rustNodeCallExpression = "call_expression"
	rustNodeIdentifier     = "identifier"
	rustNodeScopedIdent    = "scoped_identifier"
	rustNodeFieldExpr      = "field_expression"
	rustNodeIntegerLiteral = "integer_literal"
	rustNodeFloatLiteral   = "float_literal"
	rustNodeStringLiteral  = "string_literal"
	rustNodeRawString      = "raw_string_literal"
	rustNodeCharLiteral    = "char_literal"
	rustNodeBooleanLiteral = "boolean_literal"
	rustNodeUnaryExpr      = "unary_expression"
	rustNodeReferenceExpr  = "reference_expression"
	rustNodeArrayExpr      = "array_expression"
	rustNodeTupleExpr      = "tuple_expression"
	rustNodeParenExpr      = "parenthesized_expression"
)

type rustGrammar struct{}

func (rustGrammar) language() ir.Language {
	return ir.LangRust
}

func (rustGrammar) sitterLanguage() *sitter.Language {
	return rust.GetLanguage()
}

func (rustGrammar) isCall(kind string) bool {
	return kind == rustNodeCallExpression
}

func (rustGrammar) callee(n *sitter.Node, src []byte) string {
	funcNode := n.ChildByFieldName("function")
	if funcNode == nil && n.ChildCount() > 0 {
		funcNode = n.Child(0)
	}
	if funcNode == nil {
		return ""
	}

	switch funcNode.Type() {
	case rustNodeIdentifier, rustNodeScopedIdent, rustNodeFieldExpr:
		// pbkdf2::derive(...) and hasher.update(...) keep their path form.
		return nodeText(funcNode, src)
	default:
		text := nodeText(funcNode, src)
		if len(text) > 100 {
			text = text[:100]
		}
		return text
	}
}

func (rustGrammar) arguments(n *sitter.Node) []*sitter.Node {
	return callArguments(n, "arguments")
}

func (g rustGrammar) normalize(n *sitter.Node, src []byte, depth, maxDepth int) ir.Expr {
	if n == nil || depth > maxDepth {
		return ir.Opaque{}
	}

	switch n.Type() {
	case rustNodeParenExpr:
		return g.normalize(n.NamedChild(0), src, depth+1, maxDepth)

	case rustNodeIntegerLiteral:
		return ir.Literal{Lang: ir.LangRust, Kind: ir.LitInt, Raw: nodeText(n, src)}

	case rustNodeFloatLiteral:
		return ir.Literal{Lang: ir.LangRust, Kind: ir.LitFloat, Raw: nodeText(n, src)}

	case rustNodeStringLiteral, rustNodeRawString, rustNodeCharLiteral:
		return ir.Literal{Lang: ir.LangRust, Kind: ir.LitStr, Raw: nodeText(n, src)}

	case rustNodeBooleanLiteral:
		return ir.Literal{Lang: ir.LangRust, Kind: ir.LitBool, Raw: nodeText(n, src)}

	case rustNodeUnaryExpr:
		opTok := firstUnnamedChild(n)
		operand := n.NamedChild(0)
		if opTok == nil || operand == nil {
			return ir.Opaque{}
		}
		var op ir.UnaryOp
		switch nodeText(opTok, src) {
		case "-":
			op = ir.OpNeg
		case "!":
			op = ir.OpNot
		default:
			// *ptr dereference has no static value.
			return ir.Opaque{}
		}
		return ir.Unary{Op: op, Operand: g.normalize(operand, src, depth+1, maxDepth)}

	case rustNodeReferenceExpr:
		// &x and &mut x borrow runtime storage.
		return ir.Opaque{}

	case rustNodeArrayExpr:
		// [0u8; 32] repeat form uses a length field; element listing does not.
		if n.ChildByFieldName("length") != nil {
			return ir.Opaque{}
		}
		children := namedChildren(n)
		elems := make([]ir.Expr, 0, len(children))
		for _, child := range children {
			elems = append(elems, g.normalize(child, src, depth+1, maxDepth))
		}
		return ir.Composite{Elems: elems}

	case rustNodeTupleExpr:
		children := namedChildren(n)
		elems := make([]ir.Expr, 0, len(children))
		for _, child := range children {
			elems = append(elems, g.normalize(child, src, depth+1, maxDepth))
		}
		return ir.Composite{Elems: elems}

	default:
		return ir.Opaque{}
	}
}
