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
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	metricsOnce   sync.Once
	parseCounter  metric.Int64Counter
	parseDuration metric.Float64Histogram
)

// initParseMetrics creates the instruments lazily so the package works
// with or without a configured meter provider.
func initParseMetrics() {
	meter := otel.Meter("aleutian.resolve.syntax")

	var err error
	parseCounter, err = meter.Int64Counter("argscan.parse.total",
		metric.WithDescription("Number of parse attempts by language and outcome"))
	if err != nil {
		slog.Warn("failed to create parse counter", slog.String("error", err.Error()))
	}

	parseDuration, err = meter.Float64Histogram("argscan.parse.duration",
		metric.WithDescription("Parse duration in seconds"),
		metric.WithUnit("s"))
	if err != nil {
		slog.Warn("failed to create parse histogram", slog.String("error", err.Error()))
	}
}

// recordParseMetrics records one parse attempt.
func recordParseMetrics(ctx context.Context, language string, elapsed time.Duration, success bool) {
	metricsOnce.Do(initParseMetrics)

	attrs := metric.WithAttributes(
		attribute.String("language", language),
		attribute.Bool("success", success),
	)
	if parseCounter != nil {
		parseCounter.Add(ctx, 1, attrs)
	}
	if parseDuration != nil {
		parseDuration.Record(ctx, elapsed.Seconds(), attrs)
	}
}
