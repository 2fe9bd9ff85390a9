package main

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/apex/log"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"crimesafenet/config"
	"crimesafenet/middleware"
	"crimesafenet/repository"
	"crimesafenet/routes"
	"crimesafenet/schema"
	"crimesafenet/service"
	"crimesafenet/worker"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn(".env file not found, using environment variables")
	}

	cfg := config.LoadConfig()

	// Initialize database connection (UTC for consistent timestamps)
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("failed to open database connection: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}
	log.Info("database connection established")

	// Bring the schema up to the current version before serving.
	if err := schema.Migrate(db); err != nil {
		log.Fatalf("schema migration failed: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	reportRepo := repository.NewReportRepository(db)
	evidenceRepo := repository.NewEvidenceRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)
	reportService := service.NewReportService(reportRepo, evidenceRepo)
	evidenceService := service.NewEvidenceService(
		evidenceRepo,
		reportRepo,
		cfg.Upload.BasePath,
		cfg.Upload.MaxUploadBytes(),
	)
	activityService := service.NewActivityService(activityRepo)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.Auth.JWTSecret)

	// Sweep temp files abandoned by disconnected uploads.
	janitorInterval := 10 * time.Minute
	if cfg.Upload.JanitorIntervalSeconds > 0 {
		janitorInterval = time.Duration(cfg.Upload.JanitorIntervalSeconds) * time.Second
	}
	janitor := worker.NewUploadJanitor(
		cfg.Upload.BasePath,
		service.TempFilePrefix,
		time.Hour,
		janitorInterval,
	)
	janitor.Start()
	defer janitor.Stop()

	// Setup routes
	router := routes.SetupRoutes(
		authService,
		reportService,
		evidenceService,
		activityService,
		authMiddleware,
		cfg.Upload.BasePath,
	)

	// Add CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Infof("server starting on %s", addr)
	log.Fatalf("server stopped: %v", http.ListenAndServe(addr, corsHandler(router)))
}
