// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// existingProductIDs returns which of ids already have a product row.
func (s *SyncService) existingProductIDs(ctx context.Context, q Querier, ids []int64) (map[int64]struct{}, error) {
	if len(ids) == 0 {
		return map[int64]struct{}{}, nil
	}
	existing, err := queryIDSet(ctx, q, `SELECT id FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing products: %w", err)
	}
	return existing, nil
}

// createProducts bulk-inserts new product rows in chunks, skipping ids that
// gained a row since classification (e.g. a placeholder written by a
// concurrent order sync). Skipped rows converge on the next run, when the
// same product classifies as an update.
func (s *SyncService) createProducts(ctx context.Context, q Querier, products []ProductSnapshot) error {
	if len(products) == 0 {
		return nil
	}

	return batchProcess(products, s.config.BatchSize, func(batch []ProductSnapshot, index, total int) error {
		ids := make([]int64, len(batch))
		names := make([]string, len(batch))
		descriptions := make([]string, len(batch))
		prices := make([]float64, len(batch))
		units := make([]string, len(batch))
		images := make([]string, len(batch))
		discounts := make([]float64, len(batch))
		availabilities := make([]bool, len(batch))
		brands := make([]string, len(batch))
		categories := make([]string, len(batch))
		ratings := make([]float64, len(batch))
		for i, p := range batch {
			ids[i] = p.ProductID
			names[i] = p.Name
			descriptions[i] = p.Description
			prices[i] = p.Price
			units[i] = p.Unit
			images[i] = p.Image
			discounts[i] = p.Discount
			availabilities[i] = p.Availability
			brands[i] = p.Brand
			categories[i] = p.Category
			ratings[i] = p.Rating
		}

		_, err := q.Exec(ctx, `
			INSERT INTO products (id, name, description, price, unit, image, discount, availability, brand, category, rating)
			SELECT * FROM unnest(
				$1::bigint[], $2::text[], $3::text[], $4::double precision[], $5::text[], $6::text[],
				$7::double precision[], $8::boolean[], $9::text[], $10::text[], $11::double precision[])
			ON CONFLICT (id) DO NOTHING`,
			ids, names, descriptions, prices, units, images, discounts, availabilities, brands, categories, ratings)
		if err != nil {
			return fmt.Errorf("failed to create products batch %d/%d: %w", index+1, total, err)
		}

		s.logger.Info("Created products batch", "batch", index+1, "total", total, "size", len(batch))
		return nil
	})
}

// updateProducts updates existing product rows in chunks, pipelined per
// chunk. This is also the path that overwrites placeholder rows once the
// real product data arrives.
func (s *SyncService) updateProducts(ctx context.Context, q Querier, products []ProductSnapshot) error {
	if len(products) == 0 {
		return nil
	}

	return batchProcess(products, s.config.BatchSize, func(batch []ProductSnapshot, index, total int) error {
		b := &pgx.Batch{}
		for _, p := range batch {
			b.Queue(`
				UPDATE products
				SET name = $2, description = $3, price = $4, unit = $5, image = $6, discount = $7,
				    availability = $8, brand = $9, category = $10, rating = $11, updated_at = now()
				WHERE id = $1`,
				p.ProductID, p.Name, p.Description, p.Price, p.Unit, p.Image, p.Discount,
				p.Availability, p.Brand, p.Category, p.Rating)
		}
		if err := q.SendBatch(ctx, b).Close(); err != nil {
			return fmt.Errorf("failed to update products batch %d/%d: %w", index+1, total, err)
		}

		s.logger.Info("Updated products batch", "batch", index+1, "total", total, "size", len(batch))
		return nil
	})
}

// ensureProductsExist guarantees a product row for every id, synthesizing
// placeholder rows for ids with no row yet, and returns the id -> price map
// used to stamp order item prices. The placeholder insert skips duplicates,
// so a race with a concurrent product sync cannot fail the write, and calling
// this twice with overlapping id sets performs no redundant writes.
func (s *SyncService) ensureProductsExist(ctx context.Context, q Querier, ids []int64) (map[int64]float64, error) {
	ids = uniqueSortedIDs(ids)
	if len(ids) == 0 {
		return map[int64]float64{}, nil
	}

	existing, err := s.existingProductIDs(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	var missing []int64
	for _, id := range ids {
		if _, ok := existing[id]; !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		err := batchProcess(missing, s.config.BatchSize, func(batch []int64, index, total int) error {
			names := make([]string, len(batch))
			descriptions := make([]string, len(batch))
			brands := make([]string, len(batch))
			categories := make([]string, len(batch))
			for i, id := range batch {
				ph := placeholderProduct(id)
				names[i] = ph.Name
				descriptions[i] = ph.Description
				brands[i] = ph.Brand
				categories[i] = ph.Category
			}

			_, err := q.Exec(ctx, `
				INSERT INTO products (id, name, description, price, image, brand, category)
				SELECT t.id, t.name, t.description, 0, '', t.brand, t.category
				FROM unnest($1::bigint[], $2::text[], $3::text[], $4::text[], $5::text[])
					AS t(id, name, description, brand, category)
				ON CONFLICT (id) DO NOTHING`,
				batch, names, descriptions, brands, categories)
			if err != nil {
				return fmt.Errorf("failed to create missing products batch %d/%d: %w", index+1, total, err)
			}

			s.logger.Info("Created missing products batch", "batch", index+1, "total", total, "size", len(batch))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	// Re-read prices now that every id has a row.
	rows, err := q.Query(ctx, `SELECT id, price FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query product prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[int64]float64, len(ids))
	for rows.Next() {
		var id int64
		var price float64
		if err := rows.Scan(&id, &price); err != nil {
			return nil, fmt.Errorf("failed to scan product price: %w", err)
		}
		prices[id] = price
	}
	return prices, rows.Err()
}
