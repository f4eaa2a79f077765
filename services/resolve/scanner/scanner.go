// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package scanner discovers call sites in parsed source trees.
//
// The scan is a bounded, iterative pre-order walk: call sites come back
// in source order (outer calls before the calls nested in their
// arguments), and pathological trees are cut off by depth and count
// limits instead of exhausting the stack.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/argscan/services/resolve/syntax"
)

var scannerTracer = otel.Tracer("aleutian.resolve.scanner")

const (
	// DefaultMaxDepth bounds tree descent during a scan.
	DefaultMaxDepth = 2048

	// DefaultMaxCallSites caps the number of call sites returned per
	// file.
	DefaultMaxCallSites = 10000

	// ctxCheckInterval is how many nodes are visited between context
	// cancellation checks.
	ctxCheckInterval = 100
)

// ErrNilTree is returned when Scan receives a nil or closed tree.
var ErrNilTree = errors.New("scanner: nil tree")

// Span is a call site's position in the source file. Lines and columns
// are zero-based, matching tree-sitter points; byte offsets are
// half-open.
type Span struct {
	StartLine   uint32
	StartColumn uint32
	EndLine     uint32
	EndColumn   uint32
	StartByte   uint32
	EndByte     uint32
}

// CallSite is one discovered call expression.
//
// Description:
//
//	Callee is the best-effort invoked name ("pbkdf2.Key",
//	"hashlib.pbkdf2_hmac"); it may be empty when the callee shape is
//	not a plain identifier or member path. Args are the raw argument
//	nodes in written order; they stay valid until the owning Tree is
//	closed.
type CallSite struct {
	Callee string
	Span   Span
	Node   *sitter.Node
	Args   []*sitter.Node
}

// BaseCallee returns the last segment of the callee path: "Key" for
// "pbkdf2.Key", "derive" for "ring::pbkdf2::derive". Rule layers match
// on this when the qualifier is an alias or changes between files.
func (c CallSite) BaseCallee() string {
	callee := c.Callee
	if i := strings.LastIndex(callee, "::"); i >= 0 {
		callee = callee[i+2:]
	}
	if i := strings.LastIndex(callee, "."); i >= 0 {
		callee = callee[i+1:]
	}
	return callee
}

// Option configures a scan.
type Option func(*scanOptions)

type scanOptions struct {
	maxDepth     int
	maxCallSites int
}

// WithMaxDepth sets the tree descent limit. Non-positive values are
// ignored.
func WithMaxDepth(depth int) Option {
	return func(o *scanOptions) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithMaxCallSites caps the number of call sites returned.
// Non-positive values are ignored.
func WithMaxCallSites(n int) Option {
	return func(o *scanOptions) {
		if n > 0 {
			o.maxCallSites = n
		}
	}
}

type stackEntry struct {
	node  *sitter.Node
	depth int
}

// Scan walks a parsed tree and returns its call sites in source order.
//
// Description:
//
//	Scan performs an iterative pre-order traversal. A call node is
//	recorded and then its subtree is still descended, so calls nested
//	in argument position appear after their enclosing call. Nodes
//	below the depth limit are skipped with a warning rather than
//	failing the file.
//
// Inputs:
//   - ctx: Context for cancellation. Checked periodically during the walk.
//   - tree: A parsed syntax.Tree. Must not be closed.
//   - opts: Optional depth and call-site caps.
//
// Outputs:
//   - []CallSite: Discovered call sites in source order. Empty, not nil,
//     when the file has no calls.
//   - error: ErrNilTree or a context error.
//
// Thread Safety:
//
//	Safe for concurrent use on distinct trees. Concurrent scans of one
//	tree are safe as long as no goroutine closes it.
func Scan(ctx context.Context, tree *syntax.Tree, opts ...Option) ([]CallSite, error) {
	ctx, span := scannerTracer.Start(ctx, "scanner.Scan")
	defer span.End()

	if tree == nil || tree.Root() == nil {
		return nil, ErrNilTree
	}
	span.SetAttributes(
		attribute.String("language", tree.Language().String()),
		attribute.String("file", tree.Path()),
	)

	o := scanOptions{
		maxDepth:     DefaultMaxDepth,
		maxCallSites: DefaultMaxCallSites,
	}
	for _, opt := range opts {
		opt(&o)
	}

	sites := make([]CallSite, 0, 16)
	stack := []stackEntry{{node: tree.Root(), depth: 0}}
	visited := 0
	truncated := false

	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		visited++
		if visited%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("scan canceled after %d nodes: %w", visited, err)
			}
		}

		n := entry.node
		if n == nil {
			continue
		}
		if entry.depth > o.maxDepth {
			truncated = true
			continue
		}

		if tree.IsCall(n) {
			if len(sites) >= o.maxCallSites {
				truncated = true
				break
			}
			sites = append(sites, CallSite{
				Callee: tree.Callee(n),
				Span: Span{
					StartLine:   n.StartPoint().Row,
					StartColumn: n.StartPoint().Column,
					EndLine:     n.EndPoint().Row,
					EndColumn:   n.EndPoint().Column,
					StartByte:   n.StartByte(),
					EndByte:     n.EndByte(),
				},
				Node: n,
				Args: tree.Arguments(n),
			})
		}

		// Reverse push keeps pre-order source order on the LIFO stack.
		for i := int(n.ChildCount()) - 1; i >= 0; i-- {
			if child := n.Child(i); child != nil {
				stack = append(stack, stackEntry{node: child, depth: entry.depth + 1})
			}
		}
	}

	if truncated {
		slog.Warn("scan truncated by limits",
			slog.String("file", tree.Path()),
			slog.Int("call_sites", len(sites)),
			slog.Int("nodes_visited", visited))
	}
	slog.Debug("scan complete",
		slog.String("file", tree.Path()),
		slog.String("language", tree.Language().String()),
		slog.Int("call_sites", len(sites)))

	span.SetAttributes(attribute.Int("call_sites", len(sites)))
	recordScanMetrics(ctx, tree.Language().String(), len(sites), truncated)

	return sites, nil
}

// ScanTrees scans multiple trees concurrently.
//
// Description:
//
//	Results are returned in input order regardless of completion
//	order. The first scan error cancels the remaining scans.
//
// Inputs:
//   - ctx: Context for cancellation, propagated to every scan.
//   - trees: Parsed trees. A nil entry fails the batch with ErrNilTree.
//   - concurrency: Maximum simultaneous scans. Values below 1 mean
//     unlimited.
//
// Outputs:
//   - [][]CallSite: Per-tree call sites, index-aligned with trees.
//   - error: The first scan failure, or a context error.
func ScanTrees(ctx context.Context, trees []*syntax.Tree, concurrency int, opts ...Option) ([][]CallSite, error) {
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	results := make([][]CallSite, len(trees))
	for i, tree := range trees {
		g.Go(func() error {
			sites, err := Scan(ctx, tree, opts...)
			if err != nil {
				return fmt.Errorf("scanning tree %d: %w", i, err)
			}
			results[i] = sites
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
