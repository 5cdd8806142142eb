package shopsync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetchOrders_DecodesSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"order_id": 1, "user_id": 10, "total_price": 99.5, "status": "pending",
			 "items": [{"product_id": 7, "quantity": 2}]}
		]`))
	}))
	defer srv.Close()

	source := NewHTTPSnapshotSource(srv.URL, "", time.Second, nil)
	orders, err := source.FetchOrders(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}
	o := orders[0]
	if o.OrderID != 1 || o.UserID != 10 || o.TotalPrice != 99.5 || o.Status != "pending" {
		t.Fatalf("unexpected order: %+v", o)
	}
	if len(o.Items) != 1 || o.Items[0].ProductID != 7 || o.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", o.Items)
	}
}

func TestFetchProducts_NonSuccessStatusIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	source := NewHTTPSnapshotSource("", srv.URL, time.Second, nil)
	_, err := source.FetchProducts(context.Background())
	if err == nil {
		t.Fatal("expected error for non-2xx status")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", fetchErr.StatusCode)
	}
	if !errors.Is(err, ErrFetch) {
		t.Fatal("expected error to match ErrFetch")
	}
}

func TestFetchOrders_MalformedBodyIsFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"`))
	}))
	defer srv.Close()

	source := NewHTTPSnapshotSource(srv.URL, "", time.Second, nil)
	_, err := source.FetchOrders(context.Background())
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected fetch error for malformed body, got %v", err)
	}
}
