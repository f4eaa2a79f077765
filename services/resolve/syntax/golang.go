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
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/AleutianAI/argscan/services/resolve/ir"
)

// Go tree-sitter node kinds.
const (
	goNodeCallExpression   = "call_expression"
	goNodeIdentifier       = "identifier"
	goNodeSelectorExpr     = "selector_expression"
	goNodeIntLiteral       = "int_literal"
	goNodeFloatLiteral     = "float_literal"
	goNodeInterpretedStr   = "interpreted_string_literal"
	goNodeRawStr           = "raw_string_literal"
	goNodeTrue             = "true"
	goNodeFalse            = "false"
	goNodeUnaryExpression  = "unary_expression"
	goNodeCompositeLiteral = "composite_literal"
	goNodeLiteralValue     = "literal_value"
	goNodeLiteralElement   = "literal_element"
	goNodeKeyedElement     = "keyed_element"
	goNodeParenExpression  = "parenthesized_expression"
)

type goGrammar struct{}

func (goGrammar) language() ir.Language {
	return ir.LangGo
}

func (goGrammar) sitterLanguage() *sitter.Language {
	return golang.GetLanguage()
}

func (goGrammar) isCall(kind string) bool {
	return kind == goNodeCallExpression
}

func (goGrammar) callee(n *sitter.Node, src []byte) string {
	funcNode := n.ChildByFieldName("function")
	if funcNode == nil && n.ChildCount() > 0 {
		funcNode = n.Child(0)
	}
	if funcNode == nil {
		return ""
	}

	switch funcNode.Type() {
	case goNodeIdentifier, goNodeSelectorExpr:
		// pbkdf2.Key(...) keeps its qualified form.
		return nodeText(funcNode, src)
	default:
		text := nodeText(funcNode, src)
		if len(text) > 100 {
			text = text[:100]
		}
		return text
	}
}

func (goGrammar) arguments(n *sitter.Node) []*sitter.Node {
	return callArguments(n, "arguments")
}

func (g goGrammar) normalize(n *sitter.Node, src []byte, depth, maxDepth int) ir.Expr {
	if n == nil || depth > maxDepth {
		return ir.Opaque{}
	}

	switch n.Type() {
	case goNodeParenExpression:
		return g.normalize(n.NamedChild(0), src, depth+1, maxDepth)

	case goNodeIntLiteral:
		return ir.Literal{Lang: ir.LangGo, Kind: ir.LitInt, Raw: nodeText(n, src)}

	case goNodeFloatLiteral:
		return ir.Literal{Lang: ir.LangGo, Kind: ir.LitFloat, Raw: nodeText(n, src)}

	case goNodeInterpretedStr, goNodeRawStr:
		return ir.Literal{Lang: ir.LangGo, Kind: ir.LitStr, Raw: nodeText(n, src)}

	case goNodeTrue, goNodeFalse:
		return ir.Literal{Lang: ir.LangGo, Kind: ir.LitBool, Raw: nodeText(n, src)}

	case goNodeUnaryExpression:
		operand := n.ChildByFieldName("operand")
		opTok := firstUnnamedChild(n)
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
		case "^":
			op = ir.OpBitNot
		default:
			// &x, *x, <-ch carry no static value.
			return ir.Opaque{}
		}
		return ir.Unary{Op: op, Operand: g.normalize(operand, src, depth+1, maxDepth)}

	case goNodeCompositeLiteral:
		body := n.ChildByFieldName("body")
		if body == nil {
			for _, child := range namedChildren(n) {
				if child.Type() == goNodeLiteralValue {
					body = child
					break
				}
			}
		}
		if body == nil {
			return ir.Opaque{}
		}
		return g.normalizeLiteralValue(body, src, depth, maxDepth)

	default:
		return ir.Opaque{}
	}
}

// normalizeLiteralValue maps a literal_value body onto a Composite.
// Keyed elements (struct and map literals) have no positional sequence
// semantics, so their presence makes the whole node Opaque.
func (g goGrammar) normalizeLiteralValue(body *sitter.Node, src []byte, depth, maxDepth int) ir.Expr {
	elems := make([]ir.Expr, 0, body.NamedChildCount())
	for _, child := range namedChildren(body) {
		switch child.Type() {
		case goNodeKeyedElement:
			return ir.Opaque{}
		case goNodeLiteralElement:
			elems = append(elems, g.normalize(child.NamedChild(0), src, depth+1, maxDepth))
		default:
			elems = append(elems, g.normalize(child, src, depth+1, maxDepth))
		}
	}
	return ir.Composite{Elems: elems}
}
