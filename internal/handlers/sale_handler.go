package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"ottica-backend/internal/models"
	"ottica-backend/internal/services"
)

type SaleHandler struct {
	Service *services.SaleService
}

func NewSaleHandler(s *services.SaleService) *SaleHandler {
	return &SaleHandler{Service: s}
}

// ListSales returns the current snapshot of open and delivered orders
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	sales := h.Service.Views.Sales.Snapshot()
	if sales == nil {
		sales = []models.Sale{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sales)
}

func (h *SaleHandler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sale, err := h.Service.CreateSale(context.Background(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sale)
}

// DeleteByNumero removes the order matching the 5-digit order number
func (h *SaleHandler) DeleteByNumero(w http.ResponseWriter, r *http.Request) {
	numero := mux.Vars(r)["numero"]

	sale, err := h.Service.DeleteByNumeroOrdine(context.Background(), numero)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sale)
}

// Archive snapshots delivered orders to PDF and removes them
func (h *SaleHandler) Archive(w http.ResponseWriter, r *http.Request) {
	result, err := h.Service.Archive(context.Background())
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=archivio_consegnati.pdf")
	w.Header().Set("X-Archived-Count", fmt.Sprintf("%d", result.ArchivedCount))
	w.Write(result.PDF)
}
