// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"
	"time"
)

const (
	MetricsOpOrderSync   = "order_sync"
	MetricsOpProductSync = "product_sync"

	MetricsStageTotal = "total"

	// Shared pipeline stages.
	MetricsStageFetchSnapshot     = "fetch_snapshot"
	MetricsStageExtractReferences = "extract_references"

	// Order sync stages.
	MetricsStageClassifyOrders  = "classify_orders"
	MetricsStageApplyOrders     = "apply_orders"
	MetricsStageApplyOrderItems = "apply_order_items"

	// Product sync stages.
	MetricsStageClassifyProducts = "classify_products"
	MetricsStageApplyProducts    = "apply_products"
	MetricsStageApplyReviews     = "apply_reviews"
)

// StageTiming describes one timed pipeline stage of a sync run.
type StageTiming struct {
	Operation string
	Stage     string
	Duration  time.Duration
	Count     int
	Error     bool
}

// StageMetricsRecorder receives per-stage timings from sync runs.
type StageMetricsRecorder interface {
	ObserveStage(ctx context.Context, timing StageTiming)
}

// StageMetricsRecorderFunc adapts a function to StageMetricsRecorder.
type StageMetricsRecorderFunc func(ctx context.Context, timing StageTiming)

func (f StageMetricsRecorderFunc) ObserveStage(ctx context.Context, timing StageTiming) {
	f(ctx, timing)
}

func (s *SyncService) stageTimingEnabled() bool {
	if s == nil || s.config == nil {
		return false
	}
	return s.config.StageMetrics != nil || s.config.LogStageTimings
}

func (s *SyncService) stageStart() time.Time {
	if !s.stageTimingEnabled() {
		return time.Time{}
	}
	return time.Now()
}

func (s *SyncService) observeStage(ctx context.Context, op, stage string, start time.Time, count int, hadError bool) {
	if start.IsZero() || s == nil || s.config == nil {
		return
	}

	timing := StageTiming{
		Operation: op,
		Stage:     stage,
		Duration:  time.Since(start),
		Count:     count,
		Error:     hadError,
	}

	if s.config.StageMetrics != nil {
		s.config.StageMetrics.ObserveStage(ctx, timing)
	}
	if s.config.LogStageTimings && s.logger != nil {
		s.logger.Debug("Stage timing",
			"op", timing.Operation,
			"stage", timing.Stage,
			"duration", timing.Duration,
			"count", timing.Count,
			"error", timing.Error,
		)
	}
}
