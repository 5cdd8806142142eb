// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// initializeSchemaInTx creates the business tables if they don't exist.
// The unique constraints on order_items and product_reviews are what the
// natural-key reconciliation and the skip-duplicate inserts rely on.
func (s *SyncService) initializeSchemaInTx(ctx context.Context, tx pgx.Tx) error {
	migrations := []string{
		/*language=postgresql*/ `CREATE TABLE IF NOT EXISTS users (
			id         BIGINT      PRIMARY KEY,
			name       TEXT        NOT NULL,
			email      TEXT        NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		/*language=postgresql*/ `CREATE TABLE IF NOT EXISTS products (
			id           BIGINT           PRIMARY KEY,
			name         TEXT             NOT NULL,
			description  TEXT             NOT NULL DEFAULT '',
			price        DOUBLE PRECISION NOT NULL DEFAULT 0,
			unit         TEXT             NOT NULL DEFAULT '',
			image        TEXT             NOT NULL DEFAULT '',
			discount     DOUBLE PRECISION NOT NULL DEFAULT 0,
			availability BOOLEAN          NOT NULL DEFAULT TRUE,
			brand        TEXT             NOT NULL DEFAULT '',
			category     TEXT             NOT NULL DEFAULT '',
			rating       DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at   TIMESTAMPTZ      NOT NULL DEFAULT now(),
			updated_at   TIMESTAMPTZ      NOT NULL DEFAULT now()
		)`,

		/*language=postgresql*/ `CREATE TABLE IF NOT EXISTS orders (
			id          BIGINT           PRIMARY KEY,
			user_id     BIGINT           NOT NULL REFERENCES users(id),
			total_price DOUBLE PRECISION NOT NULL DEFAULT 0,
			status      TEXT             NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ      NOT NULL DEFAULT now(),
			updated_at  TIMESTAMPTZ      NOT NULL DEFAULT now()
		)`,

		/*language=postgresql*/ `CREATE TABLE IF NOT EXISTS order_items (
			id         BIGSERIAL        PRIMARY KEY,
			order_id   BIGINT           NOT NULL REFERENCES orders(id),
			product_id BIGINT           NOT NULL REFERENCES products(id),
			quantity   INT              NOT NULL DEFAULT 1,
			price      DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ      NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ      NOT NULL DEFAULT now(),
			UNIQUE (order_id, product_id)
		)`,

		/*language=postgresql*/ `CREATE TABLE IF NOT EXISTS product_reviews (
			id         BIGSERIAL        PRIMARY KEY,
			user_id    BIGINT           NOT NULL REFERENCES users(id),
			product_id BIGINT           NOT NULL REFERENCES products(id),
			rating     DOUBLE PRECISION NOT NULL DEFAULT 0,
			comment    TEXT             NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ      NOT NULL DEFAULT now(),
			UNIQUE (user_id, product_id)
		)`,

		`CREATE INDEX IF NOT EXISTS orders_user_idx ON orders(user_id)`,
		`CREATE INDEX IF NOT EXISTS order_items_order_idx ON order_items(order_id)`,
		`CREATE INDEX IF NOT EXISTS product_reviews_product_idx ON product_reviews(product_id)`,
	}

	for _, migration := range migrations {
		if _, err := tx.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}
