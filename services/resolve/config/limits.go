// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config holds the resolution-engine resource limits.
//
// Limits are loaded from embedded YAML defaults and may be overridden by
// callers supplying their own YAML. All limits are denial-of-service
// guards: they bound work per file, never correctness.
package config

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"gopkg.in/yaml.v3"
)

var limitsTracer = otel.Tracer("aleutian.resolve.config")

//go:embed limits.yaml
var defaultLimitsYAML []byte

// MaxYAMLFileSize bounds override files fed to LoadLimits.
const MaxYAMLFileSize = 1 << 20 // 1 MiB

// Limits bounds the work the scanner and engine will do for one file.
//
// Description:
//
//	Every field is a hard cap. Exceeding a cap degrades the result
//	(skipped nodes, Unresolved values) rather than failing the scan.
//
// Thread Safety: Immutable after loading; safe for concurrent use.
type Limits struct {
	// MaxFileSize is the largest source file, in bytes, the parse
	// boundary accepts.
	MaxFileSize int64 `yaml:"max_file_size" validate:"required,gt=0"`

	// MaxExpressionDepth caps recursion when normalizing and resolving
	// nested expressions. Deeper expressions resolve to Unresolved.
	MaxExpressionDepth int `yaml:"max_expression_depth" validate:"required,gt=0,lte=4096"`

	// MaxScanDepth caps tree depth during the call-site walk. Nodes
	// below the cap are skipped.
	MaxScanDepth int `yaml:"max_scan_depth" validate:"required,gt=0,lte=65536"`

	// MaxCallSitesPerFile caps the call-site records produced for one
	// file. Further call sites are dropped with a warning.
	MaxCallSitesPerFile int `yaml:"max_call_sites_per_file" validate:"required,gt=0"`
}

var (
	limitsMu      sync.RWMutex
	cachedLimits  *Limits
	limitsLoadErr error
)

// GetLimits returns the cached default limits, loading the embedded YAML
// on first call.
//
// Thread Safety: Safe for concurrent use.
func GetLimits(ctx context.Context) (*Limits, error) {
	if ctx == nil {
		return nil, fmt.Errorf("GetLimits: ctx must not be nil")
	}

	limitsMu.RLock()
	if cachedLimits != nil || limitsLoadErr != nil {
		cfg, err := cachedLimits, limitsLoadErr
		limitsMu.RUnlock()
		return cfg, err
	}
	limitsMu.RUnlock()

	limitsMu.Lock()
	defer limitsMu.Unlock()

	if cachedLimits == nil && limitsLoadErr == nil {
		cachedLimits, limitsLoadErr = LoadLimits(ctx, defaultLimitsYAML)
	}
	return cachedLimits, limitsLoadErr
}

// ResetLimits clears the cached limits so tests can reload with
// different data.
func ResetLimits() {
	limitsMu.Lock()
	defer limitsMu.Unlock()
	cachedLimits = nil
	limitsLoadErr = nil
}

// LoadLimits parses and validates Limits from YAML bytes.
//
// Inputs:
//   - ctx: Context for tracing.
//   - data: Raw YAML bytes. Must be non-empty and under MaxYAMLFileSize.
//
// Outputs:
//   - *Limits: The validated limits. Never nil on success.
//   - error: Non-nil if parsing or validation fails.
func LoadLimits(ctx context.Context, data []byte) (*Limits, error) {
	_, span := limitsTracer.Start(ctx, "config.LoadLimits")
	defer span.End()

	if len(data) == 0 {
		return nil, fmt.Errorf("LoadLimits: empty YAML data")
	}
	if len(data) > MaxYAMLFileSize {
		return nil, fmt.Errorf("LoadLimits: YAML data exceeds maximum size (%d > %d)", len(data), MaxYAMLFileSize)
	}

	var cfg Limits
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("LoadLimits: parsing YAML: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("LoadLimits: validating limits: %w", err)
	}

	return &cfg, nil
}
