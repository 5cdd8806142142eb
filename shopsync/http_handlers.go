// Copyright 2025 Toly Pochkin
// SPDX-License-Identifier: Apache-2.0

package shopsync

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HTTPSyncHandlers provides thin operational HTTP endpoints around the sync
// service: health, manual run triggers and last-run status. There is no
// authentication layer here; deployments front these with their own.
type HTTPSyncHandlers struct {
	service *SyncService
	logger  *slog.Logger
}

// NewHTTPSyncHandlers creates a new instance of the operational handlers.
func NewHTTPSyncHandlers(service *SyncService, logger *slog.Logger) *HTTPSyncHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPSyncHandlers{service: service, logger: logger}
}

// Register attaches the handlers to mux.
func (h *HTTPSyncHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("POST /sync/orders", h.HandleOrderSync)
	mux.HandleFunc("POST /sync/products", h.HandleProductSync)
	mux.HandleFunc("GET /sync/status", h.HandleStatus)
}

// HandleHealth handles GET /health.
func (h *HTTPSyncHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// HandleOrderSync triggers a synchronous order sync run.
func (h *HTTPSyncHandlers) HandleOrderSync(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.SyncOrders(r.Context())
	if err != nil {
		h.logger.Error("Manual order sync failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "sync_failed", err.Error())
		return
	}
	h.writeJSON(w, summary)
}

// HandleProductSync triggers a synchronous product sync run.
func (h *HTTPSyncHandlers) HandleProductSync(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.SyncProducts(r.Context())
	if err != nil {
		h.logger.Error("Manual product sync failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "sync_failed", err.Error())
		return
	}
	h.writeJSON(w, summary)
}

// HandleStatus reports the most recent run summaries for both sync jobs.
func (h *HTTPSyncHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]any{
		"order_sync":   h.service.LastOrderRun(),
		"product_sync": h.service.LastProductRun(),
	})
}

func (h *HTTPSyncHandlers) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *HTTPSyncHandlers) writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}
