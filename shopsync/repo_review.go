// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// upsertReviews writes reviews through the store's native upsert on the
// (user_id, product_id) uniqueness constraint: one insert-or-update
// statement per review, pipelined per chunk. Resubmission of a review
// refreshes rating and comment in place.
func (s *SyncService) upsertReviews(ctx context.Context, q Querier, reviews []reviewInput) error {
	if len(reviews) == 0 {
		return nil
	}

	return batchProcess(reviews, s.config.BatchSize, func(batch []reviewInput, index, total int) error {
		b := &pgx.Batch{}
		for _, r := range batch {
			b.Queue(`
				INSERT INTO product_reviews (user_id, product_id, rating, comment)
				VALUES ($1, $2, $3, $4)
				ON CONFLICT (user_id, product_id)
				DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment`,
				r.UserID, r.ProductID, r.Rating, r.Comment)
		}
		if err := q.SendBatch(ctx, b).Close(); err != nil {
			return fmt.Errorf("failed to upsert reviews batch %d/%d: %w", index+1, total, err)
		}

		s.logger.Info("Upserted reviews batch", "batch", index+1, "total", total, "size", len(batch))
		return nil
	})
}
