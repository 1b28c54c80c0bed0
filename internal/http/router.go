package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ottica-backend/internal/handlers"
	"ottica-backend/internal/middleware"
	"ottica-backend/internal/ws"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	saleHandler *handlers.SaleHandler,
	statusHandler *handlers.StatusHandler,
	repairHandler *handlers.RepairHandler,
	reportHandler *handlers.ReportHandler,
	kpiHandler *handlers.KPIHandler,
	listHandler *handlers.ListHandler,
	lacHandler *handlers.LacHandler,
	backupHandler *handlers.BackupHandler,
	healthHandler *handlers.HealthHandler,
	hub *ws.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Sale orders
	venditeAPI := r.PathPrefix("/api/vendite").Subrouter()
	venditeAPI.Use(authMiddleware.Authenticate)
	venditeAPI.HandleFunc("", saleHandler.ListSales).Methods("GET")
	venditeAPI.HandleFunc("", saleHandler.CreateSale).Methods("POST")
	venditeAPI.HandleFunc("/archivia", saleHandler.Archive).Methods("POST")
	venditeAPI.HandleFunc("/numero/{numero}", saleHandler.DeleteByNumero).Methods("DELETE")
	venditeAPI.HandleFunc("/{id}/stato", statusHandler.UpdateSaleStatus).Methods("PATCH")

	// Protected API routes - Lab scanner shortcuts
	consegnaAPI := r.PathPrefix("/api/consegna-rapida").Subrouter()
	consegnaAPI.Use(authMiddleware.Authenticate)
	consegnaAPI.HandleFunc("", statusHandler.QuickDeliver).Methods("POST")

	prontoAPI := r.PathPrefix("/api/pronto-multiplo").Subrouter()
	prontoAPI.Use(authMiddleware.Authenticate)
	prontoAPI.HandleFunc("", statusHandler.BulkReady).Methods("POST")

	// Protected API routes - Repairs
	riparazioniAPI := r.PathPrefix("/api/riparazioni").Subrouter()
	riparazioniAPI.Use(authMiddleware.Authenticate)
	riparazioniAPI.HandleFunc("", repairHandler.ListRepairs).Methods("GET")
	riparazioniAPI.HandleFunc("", repairHandler.CreateRepair).Methods("POST")
	riparazioniAPI.HandleFunc("/{id}/note", repairHandler.AppendNote).Methods("POST")
	riparazioniAPI.HandleFunc("/{id}/stato", repairHandler.UpdateStatus).Methods("PATCH")
	riparazioniAPI.HandleFunc("/{id}/consegnato", repairHandler.MarkDelivered).Methods("POST")
	riparazioniAPI.HandleFunc("/{id}", repairHandler.DeleteRepair).Methods("DELETE")

	// Protected API routes - Reports and statistics
	reportAPI := r.PathPrefix("/api/report").Subrouter()
	reportAPI.Use(authMiddleware.Authenticate)
	reportAPI.HandleFunc("/filtra", reportHandler.FilterSales).Methods("POST")
	reportAPI.HandleFunc("/laboratorio", reportHandler.SearchLab).Methods("POST")
	reportAPI.HandleFunc("/statistiche", reportHandler.Stats).Methods("GET")
	reportAPI.HandleFunc("/cassetto", reportHandler.Cassetto).Methods("GET")
	reportAPI.HandleFunc("/pdf", reportHandler.ExportPDF).Methods("POST")
	reportAPI.HandleFunc("/xlsx", reportHandler.ExportXLSX).Methods("POST")

	// Protected API routes - Monthly KPI sheets
	mensiliAPI := r.PathPrefix("/api/dati-mensili").Subrouter()
	mensiliAPI.Use(authMiddleware.Authenticate)
	mensiliAPI.HandleFunc("/{period}", kpiHandler.GetSheet).Methods("GET")
	mensiliAPI.HandleFunc("/{period}/import", kpiHandler.ImportSheet).Methods("POST")
	mensiliAPI.HandleFunc("/{period}/export", kpiHandler.ExportSheet).Methods("GET")

	obiettivoAPI := r.PathPrefix("/api/obiettivo").Subrouter()
	obiettivoAPI.Use(authMiddleware.Authenticate)
	obiettivoAPI.HandleFunc("", kpiHandler.Objective).Methods("GET")

	chiusuraAPI := r.PathPrefix("/api/chiusura").Subrouter()
	chiusuraAPI.Use(authMiddleware.Authenticate)
	chiusuraAPI.HandleFunc("", kpiHandler.SendClosure).Methods("POST")

	// Protected API routes - Admin lists
	venditoriAPI := r.PathPrefix("/api/venditori").Subrouter()
	venditoriAPI.Use(authMiddleware.Authenticate)
	venditoriAPI.HandleFunc("", listHandler.ListSellers).Methods("GET")
	venditoriAPI.HandleFunc("", listHandler.AddSeller).Methods("POST")
	venditoriAPI.HandleFunc("/{id}", listHandler.DeleteSeller).Methods("DELETE")

	emailAPI := r.PathPrefix("/api/email-amministrazioni").Subrouter()
	emailAPI.Use(authMiddleware.Authenticate)
	emailAPI.HandleFunc("", listHandler.ListEmails).Methods("GET")
	emailAPI.HandleFunc("", listHandler.AddEmail).Methods("POST")
	emailAPI.HandleFunc("/{id}", listHandler.DeleteEmail).Methods("DELETE")

	// Protected API routes - Contact-lens clients
	lacAPI := r.PathPrefix("/api/lac").Subrouter()
	lacAPI.Use(authMiddleware.Authenticate)
	lacAPI.HandleFunc("", lacHandler.ListClients).Methods("GET")
	lacAPI.HandleFunc("", lacHandler.CreateClient).Methods("POST")
	lacAPI.HandleFunc("/{id}", lacHandler.UpdateClient).Methods("PUT")
	lacAPI.HandleFunc("/{id}", lacHandler.DeleteClient).Methods("DELETE")
	lacAPI.HandleFunc("/{id}/lenti", lacHandler.AddLens).Methods("POST")

	// Protected API routes - Backup
	backupAPI := r.PathPrefix("/api/backup").Subrouter()
	backupAPI.Use(authMiddleware.Authenticate)
	backupAPI.HandleFunc("/export", backupHandler.Export).Methods("GET")
	backupAPI.HandleFunc("/import", backupHandler.Import).Methods("POST")

	// Protected live feed - pushes collection snapshots over WebSocket
	liveAPI := r.PathPrefix("/api/live").Subrouter()
	liveAPI.Use(authMiddleware.Authenticate)
	liveAPI.HandleFunc("", hub.HandleWS)

	// Health endpoint (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
