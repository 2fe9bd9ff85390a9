package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"crimesafenet/service"
)

// ActivityHandler handles HTTP requests for the activity log read side
type ActivityHandler struct {
	activity *service.ActivityService
}

// NewActivityHandler creates a new activity handler
func NewActivityHandler(activity *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activity: activity}
}

// ListForReport handles GET /api/activity/{reportId}
func (h *ActivityHandler) ListForReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := strconv.ParseInt(mux.Vars(r)["reportId"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid report ID")
		return
	}

	entries, err := h.activity.ListForReport(reportID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

// ListRecent handles GET /api/activity?limit=
func (h *ActivityHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.activity.ListRecent(limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}
