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
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/AleutianAI/argscan/services/resolve/ir"
)

// JavaScript tree-sitter node kinds.
const (
	jsNodeCallExpression   = "call_expression"
	jsNodeIdentifier       = "identifier"
	jsNodeMemberExpression = "member_expression"
	jsNodeNumber           = "number"
	jsNodeString           = "string"
	jsNodeTemplateString   = "template_string"
	jsNodeTemplateSubst    = "template_substitution"
	jsNodeTrue             = "true"
	jsNodeFalse            = "false"
	jsNodeUnaryExpression  = "unary_expression"
	jsNodeArray            = "array"
	jsNodeParenExpression  = "parenthesized_expression"
)

type jsGrammar struct{}

func (jsGrammar) language() ir.Language {
	return ir.LangJavaScript
}

func (jsGrammar) sitterLanguage() *sitter.Language {
	return javascript.GetLanguage()
}

func (jsGrammar) isCall(kind string) bool {
	return kind == jsNodeCallExpression
}

func (jsGrammar) callee(n *sitter.Node, src []byte) string {
	funcNode := n.ChildByFieldName("function")
	if funcNode == nil && n.ChildCount() > 0 {
		funcNode = n.Child(0)
	}
	if funcNode == nil {
		return ""
	}

	switch funcNode.Type() {
	case jsNodeIdentifier, jsNodeMemberExpression:
		return nodeText(funcNode, src)
	default:
		text := nodeText(funcNode, src)
		if len(text) > 100 {
			text = text[:100]
		}
		return text
	}
}

func (jsGrammar) arguments(n *sitter.Node) []*sitter.Node {
	return callArguments(n, "arguments")
}

func (g jsGrammar) normalize(n *sitter.Node, src []byte, depth, maxDepth int) ir.Expr {
	if n == nil || depth > maxDepth {
		return ir.Opaque{}
	}

	switch n.Type() {
	case jsNodeParenExpression:
		return g.normalize(n.NamedChild(0), src, depth+1, maxDepth)

	case jsNodeNumber:
		// The grammar has a single "number" kind; classify by token text.
		raw := nodeText(n, src)
		kind := ir.LitInt
		if jsNumberIsFloat(raw) {
			kind = ir.LitFloat
		}
		return ir.Literal{Lang: ir.LangJavaScript, Kind: kind, Raw: raw}

	case jsNodeString:
		return ir.Literal{Lang: ir.LangJavaScript, Kind: ir.LitStr, Raw: nodeText(n, src)}

	case jsNodeTemplateString:
		// A template literal with substitutions is dynamic.
		for _, child := range namedChildren(n) {
			if child.Type() == jsNodeTemplateSubst {
				return ir.Opaque{}
			}
		}
		return ir.Literal{Lang: ir.LangJavaScript, Kind: ir.LitStr, Raw: nodeText(n, src)}

	case jsNodeTrue, jsNodeFalse:
		return ir.Literal{Lang: ir.LangJavaScript, Kind: ir.LitBool, Raw: nodeText(n, src)}

	case jsNodeUnaryExpression:
		operand := n.ChildByFieldName("argument")
		opTok := n.ChildByFieldName("operator")
		if opTok == nil {
			opTok = firstUnnamedChild(n)
		}
		if operand == nil || opTok == nil {
			return ir.Opaque{}
		}
		var op ir.UnaryOp
		switch nodeText(opTok, src) {
		case "-":
			op = ir.OpNeg
		case "+":
			op = ir.OpPlus
		case "!":
			op = ir.OpNot
		case "~":
			op = ir.OpBitNot
		default:
			// typeof, void, delete are dynamic.
			return ir.Opaque{}
		}
		return ir.Unary{Op: op, Operand: g.normalize(operand, src, depth+1, maxDepth)}

	case jsNodeArray:
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

// jsNumberIsFloat reports whether a number token is fractional or uses
// scientific notation. Prefixed forms (0x, 0o, 0b) are always integers.
func jsNumberIsFloat(raw string) bool {
	if len(raw) > 1 && raw[0] == '0' {
		switch raw[1] {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			return false
		}
	}
	return strings.ContainsAny(raw, ".eE")
}
