package service

import (
	"database/sql"
	"fmt"

	"github.com/apex/log"

	"crimesafenet/models"
	"crimesafenet/repository"
)

// ReportService is the report lifecycle engine and read-side query layer.
//
// Lifecycle rules:
//  1. Reports start as Reported, owned by the creating citizen.
//  2. Any of the three statuses may transition to any other; moving a report
//     backward (e.g. Resolved to Reported) is allowed.
//  3. Every mutation emits an activity log entry in the same transaction.
//  4. Status changes are officer-only and reassign the report to the acting
//     officer on every touch.
type ReportService struct {
	reports  *repository.ReportRepository
	evidence *repository.EvidenceRepository
}

// NewReportService creates a new report service
func NewReportService(reports *repository.ReportRepository, evidence *repository.EvidenceRepository) *ReportService {
	return &ReportService{
		reports:  reports,
		evidence: evidence,
	}
}

// CreateReport validates and persists a new report for the given citizen,
// recording REPORT_CREATED in the same transaction.
func (s *ReportService) CreateReport(citizenID int64, req *models.CreateReportRequest) (*models.ReportView, error) {
	if req.Title == "" || req.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrValidation)
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, fmt.Errorf("%w: latitude and longitude must be provided together", ErrValidation)
	}

	location := req.Location
	if location == "" {
		if req.Latitude != nil && req.Longitude != nil {
			location = fmt.Sprintf("Lat %v, Lng %v", *req.Latitude, *req.Longitude)
		} else {
			location = "Not specified"
		}
	}

	report := &models.Report{
		Title:       req.Title,
		Description: req.Description,
		Location:    location,
		Status:      models.StatusReported,
		CitizenID:   citizenID,
	}
	if req.Latitude != nil {
		report.Latitude = sql.NullFloat64{Float64: *req.Latitude, Valid: true}
	}
	if req.Longitude != nil {
		report.Longitude = sql.NullFloat64{Float64: *req.Longitude, Valid: true}
	}
	if req.CrimeType != "" {
		report.CrimeType = sql.NullString{String: req.CrimeType, Valid: true}
	}

	entry := &models.ActivityLogEntry{
		UserID:      citizenID,
		Action:      models.ActionReportCreated,
		Description: fmt.Sprintf("Report created: %s", req.Title),
	}

	if err := s.reports.Create(report, entry); err != nil {
		return nil, err
	}

	log.WithField("report_id", report.ID).WithField("citizen_id", citizenID).Info("report created")

	// Re-read so the response carries store-assigned timestamps.
	created, err := s.reports.GetByID(report.ID)
	if err != nil {
		return nil, err
	}
	view := models.NewReportView(created)
	return &view, nil
}

// GetReportDetail returns one report with its evidence, comments and
// citizen/officer attribution.
func (s *ReportService) GetReportDetail(reportID int64) (*models.ReportDetail, error) {
	view, err := s.reports.GetView(reportID)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, fmt.Errorf("%w: report not found", ErrNotFound)
	}

	evidence, err := s.evidence.ListByReport(reportID)
	if err != nil {
		return nil, err
	}
	updates, err := s.reports.ListUpdates(reportID)
	if err != nil {
		return nil, err
	}

	return &models.ReportDetail{
		ReportView: *view,
		Evidence:   evidence,
		Updates:    updates,
	}, nil
}

// UpdateStatus transitions a report to newStatus and assigns the acting
// officer, recording STATUS_UPDATED with the old and new values. The status
// enum is checked before any write, so an invalid status mutates nothing.
func (s *ReportService) UpdateStatus(reportID int64, newStatus string, actorID int64, actorRole models.Role) (*models.ReportView, error) {
	if actorRole != models.RoleOfficer {
		return nil, fmt.Errorf("%w: only officers can update report status", ErrForbidden)
	}
	status := models.ReportStatus(newStatus)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be one of Reported, Under Investigation, Resolved", ErrValidation)
	}

	report, err := s.reports.GetByID(reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w: report not found", ErrNotFound)
	}

	entry := &models.ActivityLogEntry{
		UserID:      actorID,
		ReportID:    sql.NullInt64{Int64: reportID, Valid: true},
		Action:      models.ActionStatusUpdated,
		Description: fmt.Sprintf("Status changed to %s", status),
		OldValue:    sql.NullString{String: string(report.Status), Valid: true},
		NewValue:    sql.NullString{String: string(status), Valid: true},
	}

	if err := s.reports.UpdateStatus(reportID, status, actorID, entry); err != nil {
		return nil, err
	}

	log.WithField("report_id", reportID).WithField("officer_id", actorID).
		Infof("status %s -> %s", report.Status, status)

	updated, err := s.reports.GetByID(reportID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: report not found", ErrNotFound)
	}
	view := models.NewReportView(updated)
	return &view, nil
}

// AddComment appends a comment to a report, recording COMMENT_ADDED with the
// comment text as description.
func (s *ReportService) AddComment(reportID, userID int64, comment string) (*models.ReportUpdateView, error) {
	if comment == "" {
		return nil, fmt.Errorf("%w: comment required", ErrValidation)
	}

	report, err := s.reports.GetByID(reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w: report not found", ErrNotFound)
	}

	update := &models.ReportUpdate{
		ReportID: reportID,
		UserID:   userID,
		Comment:  comment,
	}
	entry := &models.ActivityLogEntry{
		UserID:      userID,
		ReportID:    sql.NullInt64{Int64: reportID, Valid: true},
		Action:      models.ActionCommentAdded,
		Description: comment,
	}

	if err := s.reports.CreateUpdate(update, entry); err != nil {
		return nil, err
	}

	return s.reports.GetUpdateView(update.ID)
}

// ListReports returns reports matching the filter, enriched and newest first.
func (s *ReportService) ListReports(filter models.ReportFilter) ([]models.ReportView, error) {
	return s.reports.List(filter)
}

// ListReportsForCitizen returns a citizen's reports. Only the citizen
// themselves or an officer may read them.
func (s *ReportService) ListReportsForCitizen(citizenID, callerID int64, callerRole models.Role) ([]models.ReportView, error) {
	if callerID != citizenID && callerRole != models.RoleOfficer {
		return nil, fmt.Errorf("%w: not allowed to view these reports", ErrForbidden)
	}
	return s.reports.ListByCitizen(citizenID)
}
