// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

// Wire models for the external snapshot API.
// A snapshot is a full point-in-time listing of a collection, not a changefeed;
// the reconciler diffs it against current database state.

// OrderSnapshot represents a single order as returned by the external order API.
type OrderSnapshot struct {
	OrderID    int64               `json:"order_id"`
	UserID     int64               `json:"user_id"`
	Items      []OrderItemSnapshot `json:"items"`
	TotalPrice float64             `json:"total_price"`
	Status     string              `json:"status"`
}

// OrderItemSnapshot represents a line item nested inside an order snapshot.
type OrderItemSnapshot struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// ProductSnapshot represents a single product as returned by the external product API.
type ProductSnapshot struct {
	ProductID    int64            `json:"product_id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        float64          `json:"price"`
	Unit         string           `json:"unit"`
	Image        string           `json:"image"`
	Discount     float64          `json:"discount"`
	Availability bool             `json:"availability"`
	Brand        string           `json:"brand"`
	Category     string           `json:"category"`
	Rating       float64          `json:"rating"`
	Reviews      []ReviewSnapshot `json:"reviews"`
}

// ReviewSnapshot represents a review nested inside a product snapshot.
type ReviewSnapshot struct {
	UserID  int64   `json:"user_id"`
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}
