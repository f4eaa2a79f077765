// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package resolve statically resolves call-argument expressions in
// source files.
//
// The Analyzer binds the pipeline end to end: parse a file with the
// language's tree-sitter grammar, scan the tree for call sites,
// normalize each argument into the expression IR, and resolve the IR
// to static values. Callers hand in file content; no file discovery or
// I/O happens here.
package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/argscan/services/resolve/config"
	"github.com/AleutianAI/argscan/services/resolve/engine"
	"github.com/AleutianAI/argscan/services/resolve/ir"
	"github.com/AleutianAI/argscan/services/resolve/scanner"
	"github.com/AleutianAI/argscan/services/resolve/syntax"
	"github.com/AleutianAI/argscan/services/resolve/value"
)

var resolveTracer = otel.Tracer("aleutian.resolve")

// ResolvedCall is one call site with its arguments resolved.
type ResolvedCall struct {
	// Callee is the best-effort invoked name; may be empty.
	Callee string

	// Span is the call expression's position in the file.
	Span scanner.Span

	// Args holds one value per written argument, in order. Arguments
	// the engine cannot prove are the Unresolved value.
	Args []value.Value
}

// FileReport is the analysis result for one file.
type FileReport struct {
	Path         string
	Language     ir.Language
	SyntaxErrors bool
	Calls        []ResolvedCall
}

// FileInput is one file to analyze.
type FileInput struct {
	Path     string
	Language ir.Language
	Content  []byte
}

// Analyzer runs the parse-scan-resolve pipeline.
//
// Thread Safety: Immutable after construction; safe for concurrent use.
type Analyzer struct {
	engine *engine.Engine
	limits *config.Limits
}

// NewAnalyzer creates an Analyzer using the configured limits.
//
// Inputs:
//   - ctx: Context for limit loading and tracing.
//
// Outputs:
//   - *Analyzer: Ready for concurrent use.
//   - error: Non-nil if the limits configuration fails to load.
func NewAnalyzer(ctx context.Context) (*Analyzer, error) {
	limits, err := config.GetLimits(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading limits: %w", err)
	}
	return &Analyzer{
		engine: engine.New(engine.WithMaxDepth(limits.MaxExpressionDepth)),
		limits: limits,
	}, nil
}

// AnalyzeFile parses one file and resolves the arguments of every call
// site it contains.
//
// Description:
//
//	Failures are file-granular: an unparseable file returns an error,
//	while anything unprovable inside a parseable file degrades to an
//	Unresolved value. A file with syntax errors is still analyzed and
//	flagged in the report.
//
// Inputs:
//   - ctx: Context for cancellation, checked at each pipeline stage.
//   - in: File path, language, and content. Content is read, never written.
//
// Outputs:
//   - *FileReport: Call sites in source order with resolved arguments.
//   - error: Parse or scan failure, or a context error.
//
// Thread Safety: Safe for concurrent use.
func (a *Analyzer) AnalyzeFile(ctx context.Context, in FileInput) (*FileReport, error) {
	ctx, span := resolveTracer.Start(ctx, "resolve.AnalyzeFile")
	defer span.End()
	span.SetAttributes(
		attribute.String("file", in.Path),
		attribute.String("language", in.Language.String()),
	)

	tree, err := syntax.Parse(ctx, in.Language, in.Content, in.Path,
		syntax.WithMaxFileSize(a.limits.MaxFileSize),
		syntax.WithMaxExpressionDepth(a.limits.MaxExpressionDepth),
	)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", in.Path, err)
	}
	defer tree.Close()

	sites, err := scanner.Scan(ctx, tree,
		scanner.WithMaxDepth(a.limits.MaxScanDepth),
		scanner.WithMaxCallSites(a.limits.MaxCallSitesPerFile),
	)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", in.Path, err)
	}

	report := &FileReport{
		Path:         in.Path,
		Language:     in.Language,
		SyntaxErrors: tree.HasSyntaxErrors(),
		Calls:        make([]ResolvedCall, 0, len(sites)),
	}

	resolved := 0
	for _, site := range sites {
		call := ResolvedCall{
			Callee: site.Callee,
			Span:   site.Span,
			Args:   make([]value.Value, len(site.Args)),
		}
		for i, arg := range site.Args {
			call.Args[i] = a.engine.Resolve(tree.Normalize(arg))
			if call.Args[i].IsResolved() {
				resolved++
			}
		}
		report.Calls = append(report.Calls, call)
	}

	slog.Debug("file analyzed",
		slog.String("file", in.Path),
		slog.String("language", in.Language.String()),
		slog.Int("call_sites", len(report.Calls)),
		slog.Int("resolved_args", resolved),
		slog.Bool("syntax_errors", report.SyntaxErrors))
	span.SetAttributes(
		attribute.Int("call_sites", len(report.Calls)),
		attribute.Int("resolved_args", resolved),
	)

	return report, nil
}

// AnalyzeFiles analyzes a batch of files concurrently.
//
// Description:
//
//	Each file runs the full pipeline independently. Reports come back
//	index-aligned with inputs; the first failure cancels the rest.
//
// Inputs:
//   - ctx: Context for cancellation, propagated to every file.
//   - inputs: Files to analyze.
//   - concurrency: Maximum simultaneous files. Values below 1 mean
//     unlimited.
//
// Outputs:
//   - []*FileReport: Per-file reports, index-aligned with inputs.
//   - error: The first file failure, or a context error.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, inputs []FileInput, concurrency int) ([]*FileReport, error) {
	ctx, span := resolveTracer.Start(ctx, "resolve.AnalyzeFiles")
	defer span.End()
	span.SetAttributes(attribute.Int("files", len(inputs)))

	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	reports := make([]*FileReport, len(inputs))
	for i, in := range inputs {
		g.Go(func() error {
			report, err := a.AnalyzeFile(ctx, in)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
