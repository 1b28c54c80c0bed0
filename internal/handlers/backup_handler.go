package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"ottica-backend/internal/services"
	"ottica-backend/internal/timeutil"
)

// maxBackupUpload bounds the accepted restore payload (50 MB)
const maxBackupUpload = 50 << 20

type BackupHandler struct {
	Service *services.BackupService
}

func NewBackupHandler(s *services.BackupService) *BackupHandler {
	return &BackupHandler{Service: s}
}

// Export streams the full dataset as a downloadable JSON backup
func (h *BackupHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.Service.Export(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("backup_gestionale_%s.json", timeutil.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(data)
}

// Import wipes and restores every collection named in the uploaded backup
func (h *BackupHandler) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBackupUpload))
	if err != nil {
		http.Error(w, "Upload read failed", http.StatusBadRequest)
		return
	}

	// Detached from the request: a client disconnect must not cancel the
	// restore between the wipe batch and the restore batch
	if err := h.Service.Import(context.Background(), data); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Backup ripristinato con successo"})
}
