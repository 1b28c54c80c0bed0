package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"ottica-backend/internal/auth"
	"ottica-backend/internal/cache"
	"ottica-backend/internal/config"
	"ottica-backend/internal/db"
	"ottica-backend/internal/handlers"
	"ottica-backend/internal/health"
	h "ottica-backend/internal/http"
	"ottica-backend/internal/middleware"
	"ottica-backend/internal/repository"
	"ottica-backend/internal/services"
	"ottica-backend/internal/store"
	"ottica-backend/internal/ws"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to PostgreSQL and prepare the document table
	pool := db.Connect(cfg)
	defer pool.Close()

	st := store.NewPostgres(pool, cfg.Operator.UID)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("[Server] Schema setup failed: %v", err)
	}

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (login will use bcrypt only)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Build the live collection views
	views, err := repository.NewViews(st)
	if err != nil {
		log.Fatalf("[Server] Collection views failed: %v", err)
	}
	defer views.Close()

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize services
	saleService := services.NewSaleService(st, views)
	statusService := services.NewStatusService(st, views)
	repairService := services.NewRepairService(st, views)
	reportService := services.NewReportService(views)
	kpiService := services.NewKPIService(st, views)
	lacService := services.NewLacService(st, views)
	listService := services.NewListService(st, views)
	backupService := services.NewBackupService(st, cfg)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, jwtManager)
	saleHandler := handlers.NewSaleHandler(saleService)
	statusHandler := handlers.NewStatusHandler(statusService)
	repairHandler := handlers.NewRepairHandler(repairService)
	reportHandler := handlers.NewReportHandler(reportService)
	kpiHandler := handlers.NewKPIHandler(kpiService)
	listHandler := handlers.NewListHandler(listService)
	lacHandler := handlers.NewLacHandler(lacService)
	backupHandler := handlers.NewBackupHandler(backupService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// WebSocket hub pushes collection snapshots to connected clients
	hub := ws.NewHub(views)

	router := h.NewRouter(
		authHandler,
		saleHandler,
		statusHandler,
		repairHandler,
		reportHandler,
		kpiHandler,
		listHandler,
		lacHandler,
		backupHandler,
		healthHandler,
		hub,
		authMiddleware,
	)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[Server] Running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}
