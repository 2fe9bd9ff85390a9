package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"crimesafenet/middleware"
	"crimesafenet/models"
	"crimesafenet/service"
)

// ReportHandler handles HTTP requests for the report lifecycle
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ListReports handles GET /api/reports
// Public listing with optional ?status= and ?assignedOfficerId= filters.
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	filter := models.ReportFilter{
		Status: r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("assignedOfficerId"); raw != "" {
		officerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid assignedOfficerId")
			return
		}
		filter.AssignedOfficerID = officerID
	}

	reports, err := h.reports.ListReports(filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reports)
}

// ListCitizenReports handles GET /api/reports/citizen/{citizenId}
// Visible only to the owning citizen or any officer.
func (h *ReportHandler) ListCitizenReports(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	citizenID, err := strconv.ParseInt(mux.Vars(r)["citizenId"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid citizen ID")
		return
	}

	reports, err := h.reports.ListReportsForCitizen(citizenID, claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reports)
}

// GetReport handles GET /api/reports/{id}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid report ID")
		return
	}

	detail, err := h.reports.GetReportDetail(reportID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, detail)
}

// CreateReport handles POST /api/reports
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	report, err := h.reports.CreateReport(claims.UserID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, report)
}

// UpdateStatus handles PATCH /api/reports/{id}/status
// Officer-only (enforced by both route middleware and the lifecycle engine).
func (h *ReportHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	reportID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid report ID")
		return
	}

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if req.Status == "" {
		respondWithError(w, http.StatusBadRequest, "Validation error", "Status required")
		return
	}

	report, err := h.reports.UpdateStatus(reportID, req.Status, claims.UserID, claims.Role)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// AddComment handles POST /api/reports/{id}/update
func (h *ReportHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	reportID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid report ID")
		return
	}

	var req models.AddCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	update, err := h.reports.AddComment(reportID, claims.UserID, req.Comment)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, update)
}
