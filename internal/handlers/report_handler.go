package handlers

import (
	"encoding/json"
	"net/http"

	"ottica-backend/internal/models"
	"ottica-backend/internal/services"
)

type ReportHandler struct {
	Service *services.ReportService
}

func NewReportHandler(s *services.ReportService) *ReportHandler {
	return &ReportHandler{Service: s}
}

// FilterSales returns the filtered, date-descending sale list
func (h *ReportHandler) FilterSales(w http.ResponseWriter, r *http.Request) {
	var filter services.Filter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sales, err := h.Service.FilterSales(&filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if sales == nil {
		sales = []models.Sale{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sales)
}

// SearchLab runs the lab-bench order lookup
func (h *ReportHandler) SearchLab(w http.ResponseWriter, r *http.Request) {
	var query services.LabSearch
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sales, err := h.Service.SearchLab(&query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if sales == nil {
		sales = []models.Sale{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sales)
}

// Stats returns the today/current-month dashboard aggregates
func (h *ReportHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.Stats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// Cassetto totals open orders up to the cut-off date
func (h *ReportHandler) Cassetto(w http.ResponseWriter, r *http.Request) {
	cutoff := r.URL.Query().Get("data")
	if cutoff == "" {
		http.Error(w, "data parameter is required", http.StatusBadRequest)
		return
	}

	data, err := h.Service.Cassetto(cutoff)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// ExportPDF streams the filtered report as a PDF attachment
func (h *ReportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	var filter services.Filter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	pdf, err := h.Service.ExportPDF(&filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=report_vendite.pdf")
	w.Write(pdf)
}

// ExportXLSX streams the filtered report as a worksheet attachment
func (h *ReportHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	var filter services.Filter
	if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	data, err := h.Service.ExportXLSX(&filter)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=report_vendite.xlsx")
	w.Write(data)
}
