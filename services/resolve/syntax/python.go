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
	"github.com/smacker/go-tree-sitter/python"

	"github.com/AleutianAI/argscan/services/resolve/ir"
)

// Python tree-sitter node kinds.
const (
	pyNodeCall          = "call"
	pyNodeIdentifier    = "identifier"
	pyNodeAttribute     = "attribute"
	pyNodeInteger       = "integer"
	pyNodeFloat         = "float"
	pyNodeString        = "string"
	pyNodeInterpolation = "interpolation"
	pyNodeTrue          = "true"
	pyNodeFalse         = "false"
	pyNodeUnaryOperator = "unary_operator"
	pyNodeNotOperator   = "not_operator"
	pyNodeList          = "list"
	pyNodeTuple         = "tuple"
	pyNodeParenExpr     = "parenthesized_expression"
)

type pyGrammar struct{}

func (pyGrammar) language() ir.Language {
	return ir.LangPython
}

func (pyGrammar) sitterLanguage() *sitter.Language {
	return python.GetLanguage()
}

func (pyGrammar) isCall(kind string) bool {
	return kind == pyNodeCall
}

func (pyGrammar) callee(n *sitter.Node, src []byte) string {
	funcNode := n.ChildByFieldName("function")
	if funcNode == nil && n.ChildCount() > 0 {
		funcNode = n.Child(0)
	}
	if funcNode == nil {
		return ""
	}

	switch funcNode.Type() {
	case pyNodeIdentifier, pyNodeAttribute:
		// hashlib.pbkdf2_hmac(...) keeps its dotted form.
		return nodeText(funcNode, src)
	default:
		text := nodeText(funcNode, src)
		if len(text) > 100 {
			text = text[:100]
		}
		return text
	}
}

func (pyGrammar) arguments(n *sitter.Node) []*sitter.Node {
	return callArguments(n, "arguments")
}

func (g pyGrammar) normalize(n *sitter.Node, src []byte, depth, maxDepth int) ir.Expr {
	if n == nil || depth > maxDepth {
		return ir.Opaque{}
	}

	switch n.Type() {
	case pyNodeParenExpr:
		return g.normalize(n.NamedChild(0), src, depth+1, maxDepth)

	case pyNodeInteger:
		return ir.Literal{Lang: ir.LangPython, Kind: ir.LitInt, Raw: nodeText(n, src)}

	case pyNodeFloat:
		return ir.Literal{Lang: ir.LangPython, Kind: ir.LitFloat, Raw: nodeText(n, src)}

	case pyNodeString:
		// An f-string with interpolation is dynamic; plain strings
		// (including r/b/u prefixed) are literals.
		if pyStringHasInterpolation(n) {
			return ir.Opaque{}
		}
		return ir.Literal{Lang: ir.LangPython, Kind: ir.LitStr, Raw: nodeText(n, src)}

	case pyNodeTrue, pyNodeFalse:
		return ir.Literal{Lang: ir.LangPython, Kind: ir.LitBool, Raw: nodeText(n, src)}

	case pyNodeUnaryOperator:
		operand := n.ChildByFieldName("argument")
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
		case "~":
			op = ir.OpBitNot
		default:
			return ir.Opaque{}
		}
		return ir.Unary{Op: op, Operand: g.normalize(operand, src, depth+1, maxDepth)}

	case pyNodeNotOperator:
		operand := n.ChildByFieldName("argument")
		if operand == nil {
			operand = n.NamedChild(0)
		}
		if operand == nil {
			return ir.Opaque{}
		}
		return ir.Unary{Op: ir.OpNot, Operand: g.normalize(operand, src, depth+1, maxDepth)}

	case pyNodeList, pyNodeTuple:
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

// pyStringHasInterpolation reports whether any part of a string node is
// an f-string interpolation.
func pyStringHasInterpolation(n *sitter.Node) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if child := n.NamedChild(i); child != nil && child.Type() == pyNodeInterpolation {
			return true
		}
	}
	return false
}
