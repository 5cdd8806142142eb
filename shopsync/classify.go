// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"fmt"
	"sort"
)

// Existence classification and reference extraction.
//
// The pattern throughout is one bulk existence query against the store
// followed by dispatch through a short-lived in-memory index keyed on the
// natural key. Composite natural keys are comparable structs so they can key
// maps directly.

// itemKey is the natural key for an order line item. At most one row per
// (order, product) pair is meaningful; a repeated line for the same product
// in a later snapshot updates quantity instead of adding a row.
type itemKey struct {
	OrderID   int64
	ProductID int64
}

func (k itemKey) String() string { return fmt.Sprintf("%d-%d", k.OrderID, k.ProductID) }

// reviewKey is the natural key for a product review: one review per user per
// product.
type reviewKey struct {
	UserID    int64
	ProductID int64
}

// partitionByKey splits records into create and update buckets by natural-key
// membership in the existing set. Records sharing a key all land in the same
// bucket; relative order within each bucket is preserved.
func partitionByKey[T any, K comparable](records []T, key func(T) K, existing map[K]struct{}) (toCreate, toUpdate []T) {
	for _, rec := range records {
		if _, ok := existing[key(rec)]; ok {
			toUpdate = append(toUpdate, rec)
		} else {
			toCreate = append(toCreate, rec)
		}
	}
	return toCreate, toUpdate
}

// dedupeLastWins collapses records sharing a natural key down to the last
// occurrence, preserving the position of each key's first appearance. This
// makes the "last occurrence wins" rule for duplicate keys within a single
// snapshot deterministic instead of an accident of batch iteration order.
func dedupeLastWins[T any, K comparable](records []T, key func(T) K) []T {
	if len(records) == 0 {
		return records
	}
	index := make(map[K]int, len(records))
	out := make([]T, 0, len(records))
	for _, rec := range records {
		k := key(rec)
		if pos, ok := index[k]; ok {
			out[pos] = rec
			continue
		}
		index[k] = len(out)
		out = append(out, rec)
	}
	return out
}

// uniqueSortedIDs deduplicates ids and returns them in ascending order, so
// downstream batching and logging are deterministic.
func uniqueSortedIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// placeholderUser synthesizes the minimal user row written for a user id the
// snapshot references but never defines. Name and email are templated from
// the id; the row is never updated after creation.
func placeholderUser(id int64) UserEntity {
	return UserEntity{
		ID:    id,
		Name:  fmt.Sprintf("User %d", id),
		Email: fmt.Sprintf("user%d@example.com", id),
	}
}

// placeholderProduct synthesizes the minimal product row written for a
// product id referenced by an order item when no product row exists yet. A
// later real product sync overwrites it.
func placeholderProduct(id int64) ProductEntity {
	return ProductEntity{
		ID:          id,
		Name:        fmt.Sprintf("Product %d", id),
		Description: "Auto-created product for order sync",
		Price:       0,
		Brand:       "Unknown",
		Category:    "Unknown",
	}
}

// extractOrderUserRefs collects the unique user ids referenced by the order
// snapshot, synthesized as placeholder user rows in ascending id order.
func extractOrderUserRefs(orders []OrderSnapshot) []UserEntity {
	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.UserID)
	}
	return usersFromIDs(uniqueSortedIDs(ids))
}

// extractReviewerRefs collects the unique user ids referenced by reviews in
// the product snapshot, synthesized as placeholder user rows.
func extractReviewerRefs(products []ProductSnapshot) []UserEntity {
	var ids []int64
	for _, p := range products {
		for _, r := range p.Reviews {
			ids = append(ids, r.UserID)
		}
	}
	return usersFromIDs(uniqueSortedIDs(ids))
}

func usersFromIDs(ids []int64) []UserEntity {
	users := make([]UserEntity, 0, len(ids))
	for _, id := range ids {
		users = append(users, placeholderUser(id))
	}
	return users
}

// extractOrderItems flattens line items from the full snapshot. Items are
// always fully resynced regardless of whether the parent order is new, and
// duplicates of the same (order, product) pair collapse to the last
// occurrence.
func extractOrderItems(orders []OrderSnapshot) []orderItemInput {
	var items []orderItemInput
	for _, o := range orders {
		for _, it := range o.Items {
			items = append(items, orderItemInput{
				OrderID:   o.OrderID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
			})
		}
	}
	return dedupeLastWins(items, func(it orderItemInput) itemKey {
		return itemKey{OrderID: it.OrderID, ProductID: it.ProductID}
	})
}

// extractReviews flattens reviews from the product snapshot, collapsing
// duplicates of the same (user, product) pair to the last occurrence.
func extractReviews(products []ProductSnapshot) []reviewInput {
	var reviews []reviewInput
	for _, p := range products {
		for _, r := range p.Reviews {
			reviews = append(reviews, reviewInput{
				UserID:    r.UserID,
				ProductID: p.ProductID,
				Rating:    r.Rating,
				Comment:   r.Comment,
			})
		}
	}
	return dedupeLastWins(reviews, func(r reviewInput) reviewKey {
		return reviewKey{UserID: r.UserID, ProductID: r.ProductID}
	})
}
