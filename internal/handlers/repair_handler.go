package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"ottica-backend/internal/models"
	"ottica-backend/internal/services"
)

type RepairHandler struct {
	Service *services.RepairService
}

func NewRepairHandler(s *services.RepairService) *RepairHandler {
	return &RepairHandler{Service: s}
}

func (h *RepairHandler) ListRepairs(w http.ResponseWriter, r *http.Request) {
	repairs := h.Service.Views.Repairs.Snapshot()
	if repairs == nil {
		repairs = []models.Repair{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(repairs)
}

func (h *RepairHandler) CreateRepair(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRepairRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	repair, err := h.Service.CreateRepair(context.Background(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(repair)
}

// AppendNote adds a timestamped entry to the repair note log
func (h *RepairHandler) AppendNote(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Testo string `json:"testo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.AppendNote(context.Background(), id, req.Testo); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RepairHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req struct {
		Stato string `json:"stato"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateStatus(context.Background(), id, req.Stato); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RepairHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.MarkDelivered(context.Background(), id); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *RepairHandler) DeleteRepair(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.DeleteRepair(context.Background(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
