package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"ottica-backend/internal/services"
)

type StatusHandler struct {
	Service *services.StatusService
}

func NewStatusHandler(s *services.StatusService) *StatusHandler {
	return &StatusHandler{Service: s}
}

// UpdateSaleStatus moves one order to a new stato_ordine
func (h *StatusHandler) UpdateSaleStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		StatoOrdine string `json:"stato_ordine"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateSaleStatus(context.Background(), id, req.StatoOrdine); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// QuickDeliver handles the "<3 digits>c" scanner shortcut
func (h *StatusHandler) QuickDeliver(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.Service.QuickDeliver(context.Background(), req.Input)
	if err != nil {
		status := http.StatusNotFound
		if errors.Is(err, services.ErrQuickDeliverFormat) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// BulkReady moves every scanned tray's first open order to PRONTO
func (h *StatusHandler) BulkReady(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.Service.BulkReady(context.Background(), req.Input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
