// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	syncStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopsync_stage_duration_seconds",
			Help:    "Duration of sync pipeline stages",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"op", "stage"},
	)

	syncStageRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsync_stage_records_total",
			Help: "Total number of records processed per sync stage",
		},
		[]string{"op", "stage"},
	)

	syncStageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsync_stage_errors_total",
			Help: "Total number of sync stage failures",
		},
		[]string{"op", "stage"},
	)

	syncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopsync_runs_total",
			Help: "Total number of sync runs by outcome",
		},
		[]string{"op", "status"},
	)
)

// PrometheusStageRecorder returns a StageMetricsRecorder backed by
// process-global Prometheus collectors, for exposure via promhttp.
func PrometheusStageRecorder() StageMetricsRecorder {
	return StageMetricsRecorderFunc(func(_ context.Context, timing StageTiming) {
		syncStageDuration.WithLabelValues(timing.Operation, timing.Stage).Observe(timing.Duration.Seconds())
		syncStageRecords.WithLabelValues(timing.Operation, timing.Stage).Add(float64(timing.Count))
		if timing.Error {
			syncStageErrors.WithLabelValues(timing.Operation, timing.Stage).Inc()
		}
	})
}

// recordRunOutcome counts a completed run by outcome.
func recordRunOutcome(op string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	syncRunsTotal.WithLabelValues(op, status).Inc()
}
