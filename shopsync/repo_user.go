// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"
	"fmt"
)

// createUsers bulk-inserts user rows in chunks with skip-duplicate semantics.
// No existence check runs first: the conflict-skipping insert is itself the
// existence guarantee for users, which also makes it safe when the order and
// product syncs touch the same user ids concurrently.
func (s *SyncService) createUsers(ctx context.Context, q Querier, users []UserEntity) error {
	if len(users) == 0 {
		return nil
	}

	return batchProcess(users, s.config.BatchSize, func(batch []UserEntity, index, total int) error {
		ids := make([]int64, len(batch))
		names := make([]string, len(batch))
		emails := make([]string, len(batch))
		for i, u := range batch {
			ids[i] = u.ID
			names[i] = u.Name
			emails[i] = u.Email
		}

		_, err := q.Exec(ctx, `
			INSERT INTO users (id, name, email)
			SELECT * FROM unnest($1::bigint[], $2::text[], $3::text[])
			ON CONFLICT (id) DO NOTHING`,
			ids, names, emails)
		if err != nil {
			return fmt.Errorf("failed to create users batch %d/%d: %w", index+1, total, err)
		}

		s.logger.Info("Processed users batch", "batch", index+1, "total", total, "size", len(batch))
		return nil
	})
}
