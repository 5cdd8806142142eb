package shopsync

import (
	"testing"
)

// Store contains orders {1,2}; snapshot brings {2,3}. Classification must
// yield toCreate={3}, toUpdate={2}.
func TestPartitionByKey_SplitsByExistence(t *testing.T) {
	snapshot := []OrderSnapshot{
		{OrderID: 2, UserID: 10},
		{OrderID: 3, UserID: 11},
	}
	existing := map[int64]struct{}{1: {}, 2: {}}

	toCreate, toUpdate := partitionByKey(snapshot, func(o OrderSnapshot) int64 { return o.OrderID }, existing)

	if len(toCreate) != 1 || toCreate[0].OrderID != 3 {
		t.Fatalf("expected toCreate={3}, got %v", toCreate)
	}
	if len(toUpdate) != 1 || toUpdate[0].OrderID != 2 {
		t.Fatalf("expected toUpdate={2}, got %v", toUpdate)
	}
}

func TestPartitionByKey_DuplicateKeysLandInSameBucket(t *testing.T) {
	snapshot := []OrderSnapshot{
		{OrderID: 5, Status: "pending"},
		{OrderID: 5, Status: "completed"},
	}

	toCreate, toUpdate := partitionByKey(snapshot, func(o OrderSnapshot) int64 { return o.OrderID }, map[int64]struct{}{})
	if len(toCreate) != 2 || len(toUpdate) != 0 {
		t.Fatalf("expected both copies in toCreate, got create=%d update=%d", len(toCreate), len(toUpdate))
	}
}

func TestDedupeLastWins(t *testing.T) {
	orders := []OrderSnapshot{
		{OrderID: 1, Status: "pending"},
		{OrderID: 2, Status: "pending"},
		{OrderID: 1, Status: "completed"},
	}

	out := dedupeLastWins(orders, func(o OrderSnapshot) int64 { return o.OrderID })

	if len(out) != 2 {
		t.Fatalf("expected 2 orders after dedupe, got %d", len(out))
	}
	if out[0].OrderID != 1 || out[0].Status != "completed" {
		t.Fatalf("expected last occurrence of order 1 to win, got %+v", out[0])
	}
	if out[1].OrderID != 2 {
		t.Fatalf("expected order 2 to keep its position, got %+v", out[1])
	}
}

func TestUniqueSortedIDs(t *testing.T) {
	ids := uniqueSortedIDs([]int64{5, 3, 5, 1, 3})
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 3 || ids[2] != 5 {
		t.Fatalf("expected [1 3 5], got %v", ids)
	}
}

func TestExtractOrderUserRefs_DeduplicatesAndSynthesizes(t *testing.T) {
	orders := []OrderSnapshot{
		{OrderID: 1, UserID: 7},
		{OrderID: 2, UserID: 3},
		{OrderID: 3, UserID: 7},
	}

	users := extractOrderUserRefs(orders)

	if len(users) != 2 {
		t.Fatalf("expected 2 unique users, got %d", len(users))
	}
	if users[0].ID != 3 || users[1].ID != 7 {
		t.Fatalf("expected ascending id order [3 7], got [%d %d]", users[0].ID, users[1].ID)
	}
	if users[1].Name != "User 7" || users[1].Email != "user7@example.com" {
		t.Fatalf("unexpected synthesized attributes: %+v", users[1])
	}
}

func TestExtractOrderItems_FlattensAndCollapsesDuplicatePairs(t *testing.T) {
	orders := []OrderSnapshot{
		{OrderID: 100, Items: []OrderItemSnapshot{
			{ProductID: 10, Quantity: 1},
			{ProductID: 20, Quantity: 2},
			{ProductID: 10, Quantity: 3}, // same (order, product) pair again
		}},
		{OrderID: 200, Items: []OrderItemSnapshot{
			{ProductID: 10, Quantity: 5},
		}},
	}

	items := extractOrderItems(orders)

	if len(items) != 3 {
		t.Fatalf("expected 3 items after dedupe, got %d", len(items))
	}
	if items[0].OrderID != 100 || items[0].ProductID != 10 || items[0].Quantity != 3 {
		t.Fatalf("expected last occurrence of (100,10) to win with qty 3, got %+v", items[0])
	}
	if items[2].OrderID != 200 || items[2].ProductID != 10 || items[2].Quantity != 5 {
		t.Fatalf("pairs are scoped per order; got %+v", items[2])
	}
}

func TestExtractReviews_KeyedOnUserAndProduct(t *testing.T) {
	products := []ProductSnapshot{
		{ProductID: 1, Reviews: []ReviewSnapshot{
			{UserID: 9, Rating: 2, Comment: "meh"},
			{UserID: 9, Rating: 5, Comment: "actually great"},
		}},
		{ProductID: 2, Reviews: []ReviewSnapshot{
			{UserID: 9, Rating: 4, Comment: "fine"},
		}},
	}

	reviews := extractReviews(products)

	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews after dedupe, got %d", len(reviews))
	}
	if reviews[0].Rating != 5 || reviews[0].Comment != "actually great" {
		t.Fatalf("expected resubmitted review to win, got %+v", reviews[0])
	}
}

func TestExtractReviewerRefs(t *testing.T) {
	products := []ProductSnapshot{
		{ProductID: 1, Reviews: []ReviewSnapshot{{UserID: 4}, {UserID: 2}}},
		{ProductID: 2, Reviews: []ReviewSnapshot{{UserID: 4}}},
		{ProductID: 3},
	}

	users := extractReviewerRefs(products)
	if len(users) != 2 || users[0].ID != 2 || users[1].ID != 4 {
		t.Fatalf("expected reviewers [2 4], got %+v", users)
	}
}

func TestPlaceholderProduct(t *testing.T) {
	p := placeholderProduct(999)
	if p.Name != "Product 999" {
		t.Fatalf("expected templated name, got %q", p.Name)
	}
	if p.Price != 0 || p.Brand != "Unknown" || p.Category != "Unknown" {
		t.Fatalf("unexpected placeholder attributes: %+v", p)
	}
}
