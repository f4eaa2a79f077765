// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package syntax wraps the external tree-sitter parsers behind a uniform,
// read-only adapter for the four supported languages (Go, JavaScript,
// Python, Rust), and normalizes raw syntax nodes into the language-agnostic
// expression IR.
//
// Adding a language means implementing the grammar contract in this
// package; the scanner, engine, and value model require no change.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/AleutianAI/argscan/services/resolve/ir"
)

var syntaxTracer = otel.Tracer("aleutian.resolve.syntax")

const (
	// DefaultMaxFileSize is the largest source file Parse accepts
	// unless overridden with WithMaxFileSize.
	DefaultMaxFileSize = 10 * 1024 * 1024

	// WarnFileSize triggers a warning log for unusually large files.
	WarnFileSize = 1 * 1024 * 1024

	// DefaultMaxExpressionDepth bounds normalization recursion.
	DefaultMaxExpressionDepth = 256
)

var (
	// ErrFileTooLarge is returned when content exceeds the configured
	// maximum file size.
	ErrFileTooLarge = errors.New("syntax: file exceeds maximum size")

	// ErrInvalidContent is returned when content is not valid UTF-8.
	ErrInvalidContent = errors.New("syntax: content is not valid UTF-8")

	// ErrUnsupportedLanguage is returned for languages without a
	// registered grammar.
	ErrUnsupportedLanguage = errors.New("syntax: unsupported language")
)

// Option configures Parse.
type Option func(*parseOptions)

type parseOptions struct {
	maxFileSize        int64
	maxExpressionDepth int
}

// WithMaxFileSize sets the maximum file size Parse will accept.
// Non-positive values are ignored.
func WithMaxFileSize(bytes int64) Option {
	return func(o *parseOptions) {
		if bytes > 0 {
			o.maxFileSize = bytes
		}
	}
}

// WithMaxExpressionDepth sets the normalization recursion cap.
// Non-positive values are ignored.
func WithMaxExpressionDepth(depth int) Option {
	return func(o *parseOptions) {
		if depth > 0 {
			o.maxExpressionDepth = depth
		}
	}
}

// Tree is a parsed source file: a read-only view over one tree-sitter
// parse tree plus the grammar for its language.
//
// Description:
//
//	Tree exposes node inspection (Kind,
//	Children, Text), call-shape queries (IsCall, Callee, Arguments),
//	and per-language normalization into the expression IR. It never
//	mutates the underlying parse tree.
//
// Lifecycle:
//
//	The caller owns the Tree and must call Close when done to release
//	the tree-sitter tree. All methods are invalid after Close.
//
// Thread Safety:
//
//	Safe for concurrent reads; Close must not race with readers.
type Tree struct {
	lang     ir.Language
	path     string
	source   []byte
	tree     *sitter.Tree
	grammar  grammar
	maxDepth int
}

// Parse parses source content for one language.
//
// Description:
//
//	Parse is the boundary to the external tree-sitter parser. It
//	validates size and UTF-8, parses, and wraps the result. Parsing is
//	error-tolerant: a file with syntax errors still yields a Tree
//	(HasSyntaxErrors reports the condition) so scanning degrades
//	per-node instead of failing the file.
//
// Inputs:
//   - ctx: Context for cancellation. Checked before and after parsing;
//     tree-sitter cannot be interrupted mid-parse.
//   - lang: One of ir.LangGo, ir.LangJavaScript, ir.LangPython, ir.LangRust.
//   - content: Raw source bytes. Must be valid UTF-8.
//   - path: File path for logging and spans only; no I/O is performed.
//
// Outputs:
//   - *Tree: The parsed adapter. Never nil on success; caller must Close.
//   - error: ErrUnsupportedLanguage, ErrFileTooLarge, ErrInvalidContent,
//     context errors, or a wrapped parser failure.
//
// Thread Safety:
//
//	Safe for concurrent use; each call creates its own parser instance.
func Parse(ctx context.Context, lang ir.Language, content []byte, path string, opts ...Option) (*Tree, error) {
	ctx, span := syntaxTracer.Start(ctx, "syntax.Parse")
	defer span.End()
	span.SetAttributes(
		attribute.String("language", lang.String()),
		attribute.String("file", path),
		attribute.Int("size_bytes", len(content)),
	)

	start := time.Now()

	g, ok := grammarFor(lang)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}

	o := parseOptions{
		maxFileSize:        DefaultMaxFileSize,
		maxExpressionDepth: DefaultMaxExpressionDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if err := ctx.Err(); err != nil {
		recordParseMetrics(ctx, lang.String(), time.Since(start), false)
		return nil, fmt.Errorf("parse canceled before start: %w", err)
	}

	if int64(len(content)) > o.maxFileSize {
		recordParseMetrics(ctx, lang.String(), time.Since(start), false)
		return nil, fmt.Errorf("%w: size %d exceeds limit %d", ErrFileTooLarge, len(content), o.maxFileSize)
	}

	if len(content) > WarnFileSize {
		slog.Warn("parsing large file",
			slog.String("file", path),
			slog.Int("size_bytes", len(content)))
	}

	if !utf8.Valid(content) {
		recordParseMetrics(ctx, lang.String(), time.Since(start), false)
		return nil, fmt.Errorf("%w", ErrInvalidContent)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(g.sitterLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		recordParseMetrics(ctx, lang.String(), time.Since(start), false)
		return nil, fmt.Errorf("tree-sitter parse failed: %w", err)
	}

	if err := ctx.Err(); err != nil {
		tree.Close()
		recordParseMetrics(ctx, lang.String(), time.Since(start), false)
		return nil, fmt.Errorf("parse canceled after tree-sitter: %w", err)
	}

	recordParseMetrics(ctx, lang.String(), time.Since(start), true)

	return &Tree{
		lang:     lang,
		path:     path,
		source:   content,
		tree:     tree,
		grammar:  g,
		maxDepth: o.maxExpressionDepth,
	}, nil
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// Language returns the tree's source language.
func (t *Tree) Language() ir.Language {
	return t.lang
}

// Path returns the file path supplied to Parse.
func (t *Tree) Path() string {
	return t.path
}

// Root returns the root node of the parse tree.
func (t *Tree) Root() *sitter.Node {
	if t.tree == nil {
		return nil
	}
	return t.tree.RootNode()
}

// HasSyntaxErrors reports whether the parse produced any error nodes.
// An erroneous tree is still scannable; affected nodes degrade to
// Opaque/skipped rather than failing the file.
func (t *Tree) HasSyntaxErrors() bool {
	root := t.Root()
	return root != nil && root.HasError()
}

// Kind returns a node's grammar kind.
func (t *Tree) Kind(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Type()
}

// Children returns a node's children in source order.
func (t *Tree) Children(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := 0; i < int(n.ChildCount()); i++ {
		if child := n.Child(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// Text returns the source text of a node's span.
func (t *Tree) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(t.source) || start > end {
		return ""
	}
	return string(t.source[start:end])
}

// IsCall reports whether a node is a call expression in this language.
func (t *Tree) IsCall(n *sitter.Node) bool {
	return n != nil && t.grammar.isCall(n.Type())
}

// Callee returns the best-effort name of the invoked function for a
// call node: an identifier's text, or the full text of a selector /
// member / attribute / path callee. Empty when the shape does not fit.
func (t *Tree) Callee(n *sitter.Node) string {
	if !t.IsCall(n) {
		return ""
	}
	return t.grammar.callee(n, t.source)
}

// Arguments returns a call node's argument nodes in left-to-right
// written order, comments excluded. Nil when the node is not a call.
func (t *Tree) Arguments(n *sitter.Node) []*sitter.Node {
	if !t.IsCall(n) {
		return nil
	}
	return t.grammar.arguments(n)
}

// Normalize maps a raw syntax node onto the expression IR.
//
// Description:
//
//	Normalization is total: literal tokens become ir.Literal, unary
//	prefix operations become ir.Unary, array/list/tuple literals
//	become ir.Composite, and everything else — identifiers, calls,
//	binary operations, interpolated strings, unknown shapes — becomes
//	ir.Opaque. Nesting beyond the configured expression depth also
//	degrades to Opaque. Normalize never fails.
func (t *Tree) Normalize(n *sitter.Node) ir.Expr {
	if n == nil {
		return ir.Opaque{}
	}
	return t.grammar.normalize(n, t.source, 0, t.maxDepth)
}
