// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// existingOrderIDs returns which of ids already have an order row, via one
// bulk existence query.
func (s *SyncService) existingOrderIDs(ctx context.Context, q Querier, ids []int64) (map[int64]struct{}, error) {
	if len(ids) == 0 {
		return map[int64]struct{}{}, nil
	}
	existing, err := queryIDSet(ctx, q, `SELECT id FROM orders WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing orders: %w", err)
	}
	return existing, nil
}

// createOrders bulk-inserts new order rows in chunks, one multi-row insert
// per batch. Duplicate ids are skipped rather than failing the batch.
func (s *SyncService) createOrders(ctx context.Context, q Querier, orders []OrderSnapshot) error {
	if len(orders) == 0 {
		return nil
	}

	return batchProcess(orders, s.config.BatchSize, func(batch []OrderSnapshot, index, total int) error {
		ids := make([]int64, len(batch))
		userIDs := make([]int64, len(batch))
		totals := make([]float64, len(batch))
		statuses := make([]string, len(batch))
		for i, o := range batch {
			ids[i] = o.OrderID
			userIDs[i] = o.UserID
			totals[i] = o.TotalPrice
			statuses[i] = o.Status
		}

		_, err := q.Exec(ctx, `
			INSERT INTO orders (id, user_id, total_price, status)
			SELECT * FROM unnest($1::bigint[], $2::bigint[], $3::double precision[], $4::text[])
			ON CONFLICT (id) DO NOTHING`,
			ids, userIDs, totals, statuses)
		if err != nil {
			return fmt.Errorf("failed to create orders batch %d/%d: %w", index+1, total, err)
		}

		s.logger.Info("Created orders batch", "batch", index+1, "total", total, "size", len(batch))
		return nil
	})
}

// updateOrders updates existing order rows in chunks. Rows within a chunk
// are independent, so their updates are pipelined through a single
// pgx.Batch round trip rather than issued one by one.
func (s *SyncService) updateOrders(ctx context.Context, q Querier, orders []OrderSnapshot) error {
	if len(orders) == 0 {
		return nil
	}

	return batchProcess(orders, s.config.BatchSize, func(batch []OrderSnapshot, index, total int) error {
		b := &pgx.Batch{}
		for _, o := range batch {
			b.Queue(`
				UPDATE orders
				SET user_id = $2, total_price = $3, status = $4, updated_at = now()
				WHERE id = $1`,
				o.OrderID, o.UserID, o.TotalPrice, o.Status)
		}
		if err := q.SendBatch(ctx, b).Close(); err != nil {
			return fmt.Errorf("failed to update orders batch %d/%d: %w", index+1, total, err)
		}

		s.logger.Info("Updated orders batch", "batch", index+1, "total", total, "size", len(batch))
		return nil
	})
}
