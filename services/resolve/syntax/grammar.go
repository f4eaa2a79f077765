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

	"github.com/AleutianAI/argscan/services/resolve/ir"
)

// grammar is the per-language contract: call-shape queries plus
// normalization of raw nodes into the expression IR. One implementation
// per supported language; everything downstream is language-independent.
type grammar interface {
	language() ir.Language
	sitterLanguage() *sitter.Language
	isCall(kind string) bool
	callee(n *sitter.Node, src []byte) string
	arguments(n *sitter.Node) []*sitter.Node
	normalize(n *sitter.Node, src []byte, depth, maxDepth int) ir.Expr
}

// grammarFor returns the grammar for a language.
func grammarFor(lang ir.Language) (grammar, bool) {
	switch lang {
	case ir.LangGo:
		return goGrammar{}, true
	case ir.LangJavaScript:
		return jsGrammar{}, true
	case ir.LangPython:
		return pyGrammar{}, true
	case ir.LangRust:
		return rustGrammar{}, true
	default:
		return nil, false
	}
}

// nodeText extracts a node's span from the source bytes.
func nodeText(n *sitter.Node, src []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}

// namedChildren returns a node's named children in source order,
// excluding comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// callArguments collects the named children of a call's argument-list
// field in written order. Comments are excluded; nothing else is
// filtered, so keyword arguments keep their written position (they
// normalize to Opaque downstream).
func callArguments(call *sitter.Node, field string) []*sitter.Node {
	if call == nil {
		return nil
	}
	args := call.ChildByFieldName(field)
	if args == nil {
		return nil
	}
	return namedChildren(args)
}

// firstUnnamedChild returns the first unnamed (anonymous) child, which
// for unary expressions is the operator token.
func firstUnnamedChild(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child != nil && !child.IsNamed() {
			return child
		}
	}
	return nil
}
