package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"crimesafenet/middleware"
	"crimesafenet/service"
)

// multipartOverhead is slack on top of the file cap for the multipart
// framing and form fields.
const multipartOverhead = 1 << 20

// EvidenceHandler handles HTTP requests for evidence uploads
type EvidenceHandler struct {
	evidence *service.EvidenceService
}

// NewEvidenceHandler creates a new evidence handler
func NewEvidenceHandler(evidence *service.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{evidence: evidence}
}

// Upload handles POST /api/evidence/upload/{reportId} (multipart, field "file")
func (h *EvidenceHandler) Upload(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", "Authentication required")
		return
	}

	reportID, err := strconv.ParseInt(mux.Vars(r)["reportId"], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid report ID")
		return
	}

	// Cut oversized bodies off at the transport before buffering the form.
	r.Body = http.MaxBytesReader(w, r.Body, h.evidence.MaxBytes()+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondWithError(w, http.StatusBadRequest, "Validation error",
				"File exceeds the upload size limit")
			return
		}
		respondWithError(w, http.StatusBadRequest, "Validation error", "No file provided")
		return
	}
	defer file.Close()

	record, err := h.evidence.AttachEvidence(
		reportID,
		claims.UserID,
		file,
		header.Size,
		header.Header.Get("Content-Type"),
		header.Filename,
	)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, record)
}
