// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"time"
)

// Database entity models for the business tables.
// Primary keys on users, products and orders are external-assigned; only
// order_items and product_reviews use generated ids, and those rows are
// addressed by their natural key during reconciliation.

// UserEntity represents a row in the users table.
// Users are created lazily from foreign-key references in orders and reviews
// and are never updated afterwards.
type UserEntity struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
}

// ProductEntity represents a row in the products table.
type ProductEntity struct {
	ID           int64     `db:"id"`
	Name         string    `db:"name"`
	Description  string    `db:"description"`
	Price        float64   `db:"price"`
	Unit         string    `db:"unit"`
	Image        string    `db:"image"`
	Discount     float64   `db:"discount"`
	Availability bool      `db:"availability"`
	Brand        string    `db:"brand"`
	Category     string    `db:"category"`
	Rating       float64   `db:"rating"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// OrderEntity represents a row in the orders table.
type OrderEntity struct {
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	TotalPrice float64   `db:"total_price"`
	Status     string    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// OrderItemEntity represents a row in the order_items table.
// (order_id, product_id) is the stable natural key across sync runs; the
// generated id exists only because the store needs one. Price is a
// point-in-time capture of the product price at the moment of the write.
type OrderItemEntity struct {
	ID        int64     `db:"id"`
	OrderID   int64     `db:"order_id"`
	ProductID int64     `db:"product_id"`
	Quantity  int       `db:"quantity"`
	Price     float64   `db:"price"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ProductReviewEntity represents a row in the product_reviews table,
// unique on (user_id, product_id).
type ProductReviewEntity struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	ProductID int64     `db:"product_id"`
	Rating    float64   `db:"rating"`
	Comment   string    `db:"comment"`
	CreatedAt time.Time `db:"created_at"`
}

// orderItemInput is the flattened line-item form extracted from order
// snapshots, carrying only what reconciliation needs.
type orderItemInput struct {
	OrderID   int64
	ProductID int64
	Quantity  int
}

// reviewInput is the flattened review form extracted from product snapshots.
type reviewInput struct {
	UserID    int64
	ProductID int64
	Rating    float64
	Comment   string
}
