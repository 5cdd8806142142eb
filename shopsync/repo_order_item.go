// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// existingItemKeys returns the set of (order_id, product_id) pairs that
// already have a row, for all the given orders. One bulk query keyed on the
// order ids; the pair index is built locally.
func (s *SyncService) existingItemKeys(ctx context.Context, q Querier, orderIDs []int64) (map[itemKey]struct{}, error) {
	if len(orderIDs) == 0 {
		return map[itemKey]struct{}{}, nil
	}

	rows, err := q.Query(ctx, `SELECT order_id, product_id FROM order_items WHERE order_id = ANY($1)`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing order items: %w", err)
	}
	defer rows.Close()

	keys := make(map[itemKey]struct{})
	for rows.Next() {
		var k itemKey
		if err := rows.Scan(&k.OrderID, &k.ProductID); err != nil {
			return nil, fmt.Errorf("failed to scan order item key: %w", err)
		}
		keys[k] = struct{}{}
	}
	return keys, rows.Err()
}

// createOrderItems bulk-inserts new line items in chunks. Price is stamped
// from the current product price map at write time; an unknown product id
// stamps 0, though ensureProductsExist should have made that impossible.
func (s *SyncService) createOrderItems(ctx context.Context, q Querier, items []orderItemInput, prices map[int64]float64) error {
	if len(items) == 0 {
		return nil
	}

	return batchProcess(items, s.config.BatchSize, func(batch []orderItemInput, index, total int) error {
		orderIDs := make([]int64, len(batch))
		productIDs := make([]int64, len(batch))
		quantities := make([]int32, len(batch))
		itemPrices := make([]float64, len(batch))
		for i, it := range batch {
			orderIDs[i] = it.OrderID
			productIDs[i] = it.ProductID
			quantities[i] = int32(it.Quantity)
			itemPrices[i] = prices[it.ProductID]
		}

		_, err := q.Exec(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, price)
			SELECT * FROM unnest($1::bigint[], $2::bigint[], $3::int[], $4::double precision[])
			ON CONFLICT (order_id, product_id) DO NOTHING`,
			orderIDs, productIDs, quantities, itemPrices)
		if err != nil {
			return fmt.Errorf("failed to create order items batch %d/%d: %w", index+1, total, err)
		}

		s.logger.Info("Created items batch", "batch", index+1, "total", total, "size", len(batch))
		return nil
	})
}

// updateOrderItems refreshes quantity and price for existing (order, product)
// pairs, pipelined per chunk. Price is re-stamped from the current price map,
// not preserved from the original write.
func (s *SyncService) updateOrderItems(ctx context.Context, q Querier, items []orderItemInput, prices map[int64]float64) error {
	if len(items) == 0 {
		return nil
	}

	return batchProcess(items, s.config.BatchSize, func(batch []orderItemInput, index, total int) error {
		b := &pgx.Batch{}
		for _, it := range batch {
			b.Queue(`
				UPDATE order_items
				SET quantity = $3, price = $4, updated_at = now()
				WHERE order_id = $1 AND product_id = $2`,
				it.OrderID, it.ProductID, it.Quantity, prices[it.ProductID])
		}
		if err := q.SendBatch(ctx, b).Close(); err != nil {
			return fmt.Errorf("failed to update order items batch %d/%d: %w", index+1, total, err)
		}

		s.logger.Info("Updated items batch", "batch", index+1, "total", total, "size", len(batch))
		return nil
	})
}
