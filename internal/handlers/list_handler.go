package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"ottica-backend/internal/models"
	"ottica-backend/internal/services"
)

type ListHandler struct {
	Service *services.ListService
}

func NewListHandler(s *services.ListService) *ListHandler {
	return &ListHandler{Service: s}
}

func (h *ListHandler) ListSellers(w http.ResponseWriter, r *http.Request) {
	sellers := h.Service.Views.Sellers.Snapshot()
	if sellers == nil {
		sellers = []models.Seller{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sellers)
}

func (h *ListHandler) AddSeller(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nome string `json:"nome"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	seller, err := h.Service.AddSeller(context.Background(), req.Nome)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(seller)
}

func (h *ListHandler) DeleteSeller(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.DeleteSeller(context.Background(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ListHandler) ListEmails(w http.ResponseWriter, r *http.Request) {
	emails := h.Service.Views.Emails.Snapshot()
	if emails == nil {
		emails = []models.AdminEmail{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(emails)
}

func (h *ListHandler) AddEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NomeContatto string `json:"nomeContatto"`
		Email        string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	contact, err := h.Service.AddEmail(context.Background(), req.NomeContatto, req.Email)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(contact)
}

func (h *ListHandler) DeleteEmail(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.Service.DeleteEmail(context.Background(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
