// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package scanner

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	metricsOnce       sync.Once
	scanCounter       metric.Int64Counter
	callSiteHistogram metric.Int64Histogram
)

func initMetrics() {
	meter := otel.Meter("aleutian.resolve.scanner")
	var err error

	scanCounter, err = meter.Int64Counter("argscan.scan.total",
		metric.WithDescription("Number of file scans"))
	if err != nil {
		slog.Warn("failed to create scan counter", slog.String("error", err.Error()))
	}

	callSiteHistogram, err = meter.Int64Histogram("argscan.scan.call_sites",
		metric.WithDescription("Call sites discovered per file"))
	if err != nil {
		slog.Warn("failed to create call site histogram", slog.String("error", err.Error()))
	}
}

func recordScanMetrics(ctx context.Context, language string, callSites int, truncated bool) {
	metricsOnce.Do(initMetrics)

	attrs := metric.WithAttributes(
		attribute.String("language", language),
		attribute.Bool("truncated", truncated),
	)
	if scanCounter != nil {
		scanCounter.Add(ctx, 1, attrs)
	}
	if callSiteHistogram != nil {
		callSiteHistogram.Record(ctx, int64(callSites), attrs)
	}
}
