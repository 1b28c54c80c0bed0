package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"ottica-backend/internal/models"
	"ottica-backend/internal/services"
)

type LacHandler struct {
	Service *services.LacService
}

func NewLacHandler(s *services.LacService) *LacHandler {
	return &LacHandler{Service: s}
}

// ListClients returns every client with derived expiry, expiring first
func (h *LacHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	clients := h.Service.ListClients()
	if clients == nil {
		clients = []services.LacClientView{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(clients)
}

func (h *LacHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLacClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	client, err := h.Service.CreateClient(context.Background(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(client)
}

func (h *LacHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.CreateLacClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.UpdateClient(context.Background(), id, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *LacHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.DeleteClient(context.Background(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddLens appends a purchase to the client's lens history
func (h *LacHandler) AddLens(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.AddLensRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Service.AddLens(context.Background(), id, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
