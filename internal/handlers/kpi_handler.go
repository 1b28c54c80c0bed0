package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"ottica-backend/internal/services"
	"ottica-backend/internal/sheet"
)

// maxSheetUpload bounds the accepted XLSX size (10 MB)
const maxSheetUpload = 10 << 20

type KPIHandler struct {
	Service *services.KPIService
}

func NewKPIHandler(s *services.KPIService) *KPIHandler {
	return &KPIHandler{Service: s}
}

// ImportSheet accepts the monthly XLSX upload for a period
func (h *KPIHandler) ImportSheet(w http.ResponseWriter, r *http.Request) {
	period := mux.Vars(r)["period"]

	if err := r.ParseMultipartForm(maxSheetUpload); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSheetUpload))
	if err != nil {
		http.Error(w, "Upload read failed", http.StatusBadRequest)
		return
	}

	parsed, err := h.Service.ImportSheet(context.Background(), period, data)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, sheet.ErrMarkerNotFound) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(parsed)
}

// GetSheet returns the stored record for a period
func (h *KPIHandler) GetSheet(w http.ResponseWriter, r *http.Request) {
	period := mux.Vars(r)["period"]

	m, err := h.Service.GetSheet(period)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(m)
}

// ExportSheet streams the period back as an importable XLSX
func (h *KPIHandler) ExportSheet(w http.ResponseWriter, r *http.Request) {
	period := mux.Vars(r)["period"]

	data, err := h.Service.ExportSheet(period)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=dati_mensili_%s.xlsx", period))
	w.Write(data)
}

// Objective returns today's sidebar targets
func (h *KPIHandler) Objective(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Service.DailyObjective())
}

// SendClosure builds the daily closure report and patches today's cells
func (h *KPIHandler) SendClosure(w http.ResponseWriter, r *http.Request) {
	var req services.ClosureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.Service.SendClosure(context.Background(), &req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
