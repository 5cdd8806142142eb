// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// OrderSyncSummary is the per-run outcome telemetry for an order sync.
type OrderSyncSummary struct {
	RunID         uuid.UUID     `json:"run_id"`
	StartedAt     time.Time     `json:"started_at"`
	Duration      time.Duration `json:"duration"`
	TotalOrders   int           `json:"total_orders"`
	OrdersCreated int           `json:"orders_created"`
	OrdersUpdated int           `json:"orders_updated"`
	UsersSeen     int           `json:"users_seen"`
	TotalItems    int           `json:"total_items"`
	ItemsCreated  int           `json:"items_created"`
	ItemsUpdated  int           `json:"items_updated"`
}

// orderSyncRun carries the state threaded through the order pipeline stages.
type orderSyncRun struct {
	svc   *SyncService
	runID uuid.UUID

	snapshot []OrderSnapshot
	users    []UserEntity

	ordersToCreate []OrderSnapshot
	ordersToUpdate []OrderSnapshot

	items        []orderItemInput
	itemsCreated int
	itemsUpdated int
}

// stages returns the pipeline in dependency order: fetch, reference
// extraction, classification, then two transactional write phases. Users
// and orders commit first; line item reconciliation queries live order
// rows, so it runs in its own transaction after.
func (r *orderSyncRun) stages() []syncStage {
	return []syncStage{
		{name: MetricsStageFetchSnapshot, run: r.fetchSnapshot},
		{name: MetricsStageExtractReferences, run: r.extractReferences},
		{name: MetricsStageClassifyOrders, run: r.classifyOrders},
		{name: MetricsStageApplyOrders, run: r.applyOrders},
		{name: MetricsStageApplyOrderItems, run: r.applyOrderItems},
	}
}

// SyncOrders runs one full order reconciliation cycle against the current
// external snapshot. Any stage failure aborts the run; re-running with an
// unchanged snapshot produces no net writes.
func (s *SyncService) SyncOrders(ctx context.Context) (*OrderSyncSummary, error) {
	if err := s.checkClosed(); err != nil {
		return nil, err
	}

	run := &orderSyncRun{svc: s, runID: uuid.New()}
	startedAt := time.Now()
	totalStart := s.stageStart()

	s.logger.Info("Starting order sync", "run_id", run.runID)

	err := s.runStages(ctx, MetricsOpOrderSync, run.runID, run.stages())
	s.observeStage(ctx, MetricsOpOrderSync, MetricsStageTotal, totalStart, len(run.snapshot), err != nil)
	recordRunOutcome(MetricsOpOrderSync, err)
	if err != nil {
		return nil, err
	}

	summary := &OrderSyncSummary{
		RunID:         run.runID,
		StartedAt:     startedAt,
		Duration:      time.Since(startedAt),
		TotalOrders:   len(run.snapshot),
		OrdersCreated: len(run.ordersToCreate),
		OrdersUpdated: len(run.ordersToUpdate),
		UsersSeen:     len(run.users),
		TotalItems:    len(run.items),
		ItemsCreated:  run.itemsCreated,
		ItemsUpdated:  run.itemsUpdated,
	}

	s.mu.Lock()
	s.lastOrderRun = summary
	s.mu.Unlock()

	s.logger.Info("Order sync completed",
		"run_id", summary.RunID,
		"total_orders", summary.TotalOrders,
		"created", summary.OrdersCreated,
		"updated", summary.OrdersUpdated,
		"users", summary.UsersSeen,
		"total_items", summary.TotalItems,
		"items_created", summary.ItemsCreated,
		"items_updated", summary.ItemsUpdated,
		"duration", summary.Duration,
	)

	return summary, nil
}

func (r *orderSyncRun) fetchSnapshot(ctx context.Context) (int, error) {
	snapshot, err := r.svc.source.FetchOrders(ctx)
	if err != nil {
		return 0, err
	}
	// Duplicate order ids within one snapshot resolve to the last occurrence.
	r.snapshot = dedupeLastWins(snapshot, func(o OrderSnapshot) int64 { return o.OrderID })
	return len(r.snapshot), nil
}

func (r *orderSyncRun) extractReferences(ctx context.Context) (int, error) {
	r.users = extractOrderUserRefs(r.snapshot)
	r.items = extractOrderItems(r.snapshot)
	return len(r.users), nil
}

func (r *orderSyncRun) classifyOrders(ctx context.Context) (int, error) {
	ids := make([]int64, len(r.snapshot))
	for i, o := range r.snapshot {
		ids[i] = o.OrderID
	}

	existing, err := r.svc.existingOrderIDs(ctx, r.svc.pool, uniqueSortedIDs(ids))
	if err != nil {
		return 0, err
	}

	r.ordersToCreate, r.ordersToUpdate = partitionByKey(r.snapshot,
		func(o OrderSnapshot) int64 { return o.OrderID }, existing)
	return len(r.snapshot), nil
}

// applyOrders is Transaction A: ensure referenced users exist, then create
// new orders and update existing ones. Committed before item reconciliation.
func (r *orderSyncRun) applyOrders(ctx context.Context) (int, error) {
	s := r.svc
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if err := s.createUsers(ctx, tx, r.users); err != nil {
			return err
		}
		if err := s.createOrders(ctx, tx, r.ordersToCreate); err != nil {
			return err
		}
		return s.updateOrders(ctx, tx, r.ordersToUpdate)
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Order rows reconciled",
		"run_id", r.runID,
		"created", len(r.ordersToCreate),
		"updated", len(r.ordersToUpdate),
		"users", len(r.users),
	)
	return len(r.snapshot), nil
}

// applyOrderItems is Transaction B: guarantee every referenced product
// exists (synthesizing placeholders for unknown ids), classify line items by
// their (order_id, product_id) natural key, then create and update them with
// prices stamped from the current product price map.
func (r *orderSyncRun) applyOrderItems(ctx context.Context) (int, error) {
	if len(r.items) == 0 {
		return 0, nil
	}
	s := r.svc

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		productIDs := make([]int64, len(r.items))
		orderIDs := make([]int64, len(r.items))
		for i, it := range r.items {
			productIDs[i] = it.ProductID
			orderIDs[i] = it.OrderID
		}

		prices, err := s.ensureProductsExist(ctx, tx, productIDs)
		if err != nil {
			return err
		}

		existing, err := s.existingItemKeys(ctx, tx, uniqueSortedIDs(orderIDs))
		if err != nil {
			return err
		}

		toCreate, toUpdate := partitionByKey(r.items, func(it orderItemInput) itemKey {
			return itemKey{OrderID: it.OrderID, ProductID: it.ProductID}
		}, existing)

		if err := s.createOrderItems(ctx, tx, toCreate, prices); err != nil {
			return err
		}
		if err := s.updateOrderItems(ctx, tx, toUpdate, prices); err != nil {
			return err
		}

		r.itemsCreated = len(toCreate)
		r.itemsUpdated = len(toUpdate)
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("Order items reconciled",
		"run_id", r.runID,
		"created", r.itemsCreated,
		"updated", r.itemsUpdated,
	)
	return len(r.items), nil
}
