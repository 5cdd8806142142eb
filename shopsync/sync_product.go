// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductSyncSummary is the per-run outcome telemetry for a product sync.
type ProductSyncSummary struct {
	RunID           uuid.UUID     `json:"run_id"`
	StartedAt       time.Time     `json:"started_at"`
	Duration        time.Duration `json:"duration"`
	TotalProducts   int           `json:"total_products"`
	ProductsCreated int           `json:"products_created"`
	ProductsUpdated int           `json:"products_updated"`
	UsersSeen       int           `json:"users_seen"`
	Reviews         int           `json:"reviews"`
}

// productSyncRun carries the state threaded through the product pipeline stages.
type productSyncRun struct {
	svc   *SyncService
	runID uuid.UUID

	snapshot []ProductSnapshot
	users    []UserEntity
	reviews  []reviewInput

	productsToCreate []ProductSnapshot
	productsToUpdate []ProductSnapshot
}

// stages returns the product pipeline in dependency order: master data
// (users and products, Transaction A) commits before dependent reviews
// (Transaction B) are written.
func (r *productSyncRun) stages() []syncStage {
	return []syncStage{
		{name: MetricsStageFetchSnapshot, run: r.fetchSnapshot},
		{name: MetricsStageExtractReferences, run: r.extractReferences},
		{name: MetricsStageClassifyProducts, run: r.classifyProducts},
		{name: MetricsStageApplyProducts, run: r.applyProducts},
		{name: MetricsStageApplyReviews, run: r.applyReviews},
	}
}

// SyncProducts runs one full product reconciliation cycle against the
// current external snapshot. Any stage failure aborts the run; re-running
// with an unchanged snapshot produces no net writes.
func (s *SyncService) SyncProducts(ctx context.Context) (*ProductSyncSummary, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	run := &productSyncRun{svc: s, runID: uuid.New()}
	startedAt := time.Now()
	totalStart := s.stageStart()

	s.logger.Info("Starting product sync", "run_id", run.runID)

	err := s.runStages(ctx, MetricsOpProductSync, run.runID, run.stages())
	s.observeStage(ctx, MetricsOpProductSync, MetricsStageTotal, totalStart, len(run.snapshot), err != nil)
	recordRunOutcome(MetricsOpProductSync, err)
	if err != nil {
		return nil, err
	}

	summary := &ProductSyncSummary{
		RunID:           run.runID,
		StartedAt:       startedAt,
		Duration:        time.Since(startedAt),
		TotalProducts:   len(run.snapshot),
		ProductsCreated: len(run.productsToCreate),
		ProductsUpdated: len(run.productsToUpdate),
		UsersSeen:       len(run.users),
		Reviews:         len(run.reviews),
	}

	s.mu.Lock()
	s.lastProductRun = summary
	s.mu.Unlock()

	s.logger.Info("Product sync completed",
		"run_id", summary.RunID,
		"total_products", summary.TotalProducts,
		"created", summary.ProductsCreated,
		"updated", summary.ProductsUpdated,
		"users", summary.UsersSeen,
		"reviews", summary.Reviews,
		"duration", summary.Duration,
	)

	return summary, nil
}

func (r *productSyncRun) fetchSnapshot(ctx context.Context) (int, error) {
	snapshot, err := r.svc.source.FetchProducts(ctx)
	if err != nil {
		return 0, err
	}
	// Duplicate product ids within one snapshot resolve to the last occurrence.
	r.snapshot = dedupeLastWins(snapshot, func(p ProductSnapshot) int64 { return p.ProductID })
	return len(r.snapshot), nil
}

func (r *productSyncRun) extractReferences(ctx context.Context) (int, error) {
	r.users = extractReviewerRefs(r.snapshot)
	r.reviews = extractReviews(r.snapshot)
	return len(r.users), nil
}

func (r *productSyncRun) classifyProducts(ctx context.Context) (int, error) {
	ids := make([]int64, len(r.snapshot))
	for i, p := range r.snapshot {
		ids[i] = p.ProductID
	}

	existing, err := r.svc.existingProductIDs(ctx, r.svc.pool, uniqueSortedIDs(ids))
	if err != nil {
		return 0, err
	}

	r.productsToCreate, r.productsToUpdate = partitionByKey(r.snapshot,
		func(p ProductSnapshot) int64 { return p.ProductID }, existing)
	return len(r.snapshot), nil
}

// applyProducts is Transaction A: ensure reviewer users exist, then create
// new products and update existing ones (including overwriting placeholders
// synthesized by earlier order syncs).
func (r *productSyncRun) applyProducts(ctx context.Context) (int, error) {
	s := r.svc
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.createUsers(ctx, tx, r.users); err != nil {
			return err
		}
		if err := s.createProducts(ctx, tx, r.productsToCreate); err != nil {
			return err
		}
		return s.updateProducts(ctx, tx, r.productsToUpdate)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Product rows reconciled",
		"run_id", r.runID,
		"created", len(r.productsToCreate),
		"updated", len(r.productsToUpdate),
		"users", len(r.users),
	)
	return len(r.snapshot), nil
}

// applyReviews is Transaction B: reviews ride the store's native upsert on
// (user_id, product_id), so no existence classification is needed first.
func (r *productSyncRun) applyReviews(ctx context.Context) (int, error) {
	if len(r.reviews) == 0 {
		return 0, nil
	}
	s := r.svc

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return s.upsertReviews(ctx, tx, r.reviews)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Reviews reconciled", "run_id", r.runID, "reviews", len(r.reviews))
	return len(r.reviews), nil
}
