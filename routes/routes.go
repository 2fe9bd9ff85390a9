package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"crimesafenet/handler"
	"crimesafenet/middleware"
	"crimesafenet/service"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	authService *service.AuthService,
	reportService *service.ReportService,
	evidenceService *service.EvidenceService,
	activityService *service.ActivityService,
	authMiddleware *middleware.AuthMiddleware,
	uploadDir string,
) *mux.Router {
	router := mux.NewRouter()

	authHandler := handler.NewAuthHandler(authService)
	reportHandler := handler.NewReportHandler(reportService)
	evidenceHandler := handler.NewEvidenceHandler(evidenceService)
	activityHandler := handler.NewActivityHandler(activityService)

	api := router.PathPrefix("/api").Subrouter()

	// Auth
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Reports. The citizen listing must be registered before /reports/{id}
	// so the literal segment wins the match.
	api.HandleFunc("/reports", reportHandler.ListReports).Methods("GET")
	api.Handle("/reports", authMiddleware.RequireAuth(http.HandlerFunc(reportHandler.CreateReport))).Methods("POST")
	api.Handle("/reports/citizen/{citizenId:[0-9]+}", authMiddleware.RequireAuth(http.HandlerFunc(reportHandler.ListCitizenReports))).Methods("GET")
	api.HandleFunc("/reports/{id:[0-9]+}", reportHandler.GetReport).Methods("GET")

	// Status changes are officer-only.
	api.Handle("/reports/{id:[0-9]+}/status",
		authMiddleware.RequireAuth(authMiddleware.RequireOfficer(http.HandlerFunc(reportHandler.UpdateStatus)))).Methods("PATCH")

	// Comments
	api.Handle("/reports/{id:[0-9]+}/update", authMiddleware.RequireAuth(http.HandlerFunc(reportHandler.AddComment))).Methods("POST")

	// Evidence
	api.Handle("/evidence/upload/{reportId:[0-9]+}", authMiddleware.RequireAuth(http.HandlerFunc(evidenceHandler.Upload))).Methods("POST")

	// Activity log
	api.HandleFunc("/activity/{reportId:[0-9]+}", activityHandler.ListForReport).Methods("GET")
	api.HandleFunc("/activity", activityHandler.ListRecent).Methods("GET")

	// Stored evidence files are served back at the path recorded in the store.
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadDir))))

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
