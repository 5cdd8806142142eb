// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ErrFetch is the sentinel wrapped by every snapshot fetch failure.
var ErrFetch = errors.New("snapshot fetch failed")

// FetchError describes a failed snapshot fetch: a transport error, a
// non-2xx response or a malformed body. A fetch failure is fatal to the
// enclosing sync run; there is no retry within the run.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never produced a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrFetch
}

// Is reports ErrFetch for all fetch errors so callers can match the
// whole class with errors.Is.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// SnapshotFetcher retrieves full current-state snapshots from the external
// producer. Implementations perform no transformation beyond deserialization.
type SnapshotFetcher interface {
	FetchOrders(ctx context.Context) ([]OrderSnapshot, error)
	FetchProducts(ctx context.Context) ([]ProductSnapshot, error)
}

// HTTPSnapshotSource fetches snapshots over HTTP from configured endpoints.
type HTTPSnapshotSource struct {
	client     *http.Client
	orderURL   string
	productURL string
	logger     *slog.Logger
}

// NewHTTPSnapshotSource creates a snapshot source for the given endpoints.
func NewHTTPSnapshotSource(orderURL, productURL string, timeout time.Duration, logger *slog.Logger) *HTTPSnapshotSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPSnapshotSource{
		client:     &http.Client{Timeout: timeout},
		orderURL:   orderURL,
		productURL: productURL,
		logger:     logger,
	}
}

// FetchOrders retrieves the full order snapshot.
func (s *HTTPSnapshotSource) FetchOrders(ctx context.Context) ([]OrderSnapshot, error) {
	var orders []OrderSnapshot
	if err := s.fetchJSON(ctx, s.orderURL, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// FetchProducts retrieves the full product snapshot.
func (s *HTTPSnapshotSource) FetchProducts(ctx context.Context) ([]ProductSnapshot, error) {
	var products []ProductSnapshot
	if err := s.fetchJSON(ctx, s.productURL, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *HTTPSnapshotSource) fetchJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{URL: url, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}
