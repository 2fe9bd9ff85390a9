package repository

import (
	"database/sql"
	"fmt"

	"crimesafenet/models"
)

// ReportRepository handles database operations for reports and their
// comments. Every mutation commits together with its activity log entry in
// a single transaction, so an audited change can never lose its audit row.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new report repository
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a report and its REPORT_CREATED activity entry atomically.
func (r *ReportRepository) Create(report *models.Report, entry *models.ActivityLogEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO reports (title, description, location, latitude, longitude, crime_type, citizen_id, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := tx.Exec(
		query,
		report.Title,
		report.Description,
		report.Location,
		report.Latitude,
		report.Longitude,
		report.CrimeType,
		report.CitizenID,
		report.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}

	reportID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get report ID: %w", err)
	}
	report.ID = reportID

	entry.ReportID = sql.NullInt64{Int64: reportID, Valid: true}
	if err := appendActivity(tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report creation: %w", err)
	}
	return nil
}

// GetByID retrieves a report by ID, or nil if absent.
func (r *ReportRepository) GetByID(reportID int64) (*models.Report, error) {
	query := `
		SELECT id, title, description, location, latitude, longitude, crime_type,
		       status, citizen_id, assigned_officer_id, created_at, updated_at
		FROM reports
		WHERE id = ?
	`

	report := &models.Report{}
	err := r.db.QueryRow(query, reportID).Scan(
		&report.ID,
		&report.Title,
		&report.Description,
		&report.Location,
		&report.Latitude,
		&report.Longitude,
		&report.CrimeType,
		&report.Status,
		&report.CitizenID,
		&report.AssignedOfficerID,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return report, nil
}

// UpdateStatus sets the report status, reassigns the acting officer and
// refreshes updated_at, committing atomically with the STATUS_UPDATED entry.
// Concurrent callers race at the row level; the last commit wins.
func (r *ReportRepository) UpdateStatus(
	reportID int64,
	newStatus models.ReportStatus,
	officerID int64,
	entry *models.ActivityLogEntry,
) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE reports
		SET status = ?, assigned_officer_id = ?, updated_at = NOW()
		WHERE id = ?
	`
	if _, err := tx.Exec(query, newStatus, officerID, reportID); err != nil {
		return fmt.Errorf("failed to update report status: %w", err)
	}

	if err := appendActivity(tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}
	return nil
}

// CreateUpdate inserts a comment and its COMMENT_ADDED entry atomically.
func (r *ReportRepository) CreateUpdate(update *models.ReportUpdate, entry *models.ActivityLogEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO report_updates (report_id, user_id, comment) VALUES (?, ?, ?)`,
		update.ReportID,
		update.UserID,
		update.Comment,
	)
	if err != nil {
		return fmt.Errorf("failed to create report update: %w", err)
	}

	updateID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get update ID: %w", err)
	}
	update.ID = updateID

	if err := appendActivity(tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit comment: %w", err)
	}
	return nil
}

const reportViewColumns = `
	r.id, r.title, r.description, r.location, r.latitude, r.longitude, r.crime_type,
	r.status, r.citizen_id, r.assigned_officer_id, r.created_at, r.updated_at,
	COALESCE(u.name, ''), COALESCE(u.email, ''), COALESCE(po.name, '')`

// List returns reports enriched with citizen and officer attribution,
// newest first, optionally filtered by status and assigned officer.
func (r *ReportRepository) List(filter models.ReportFilter) ([]models.ReportView, error) {
	query := `
		SELECT` + reportViewColumns + `
		FROM reports r
		LEFT JOIN users u ON r.citizen_id = u.id
		LEFT JOIN users po ON r.assigned_officer_id = po.id
	`
	var args []interface{}
	var conds []string

	if filter.Status != "" {
		conds = append(conds, "r.status = ?")
		args = append(args, filter.Status)
	}
	if filter.AssignedOfficerID != 0 {
		conds = append(conds, "r.assigned_officer_id = ?")
		args = append(args, filter.AssignedOfficerID)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY r.created_at DESC"

	return r.queryViews(query, args...)
}

// ListByCitizen returns one citizen's reports, newest first.
func (r *ReportRepository) ListByCitizen(citizenID int64) ([]models.ReportView, error) {
	query := `
		SELECT` + reportViewColumns + `
		FROM reports r
		LEFT JOIN users u ON r.citizen_id = u.id
		LEFT JOIN users po ON r.assigned_officer_id = po.id
		WHERE r.citizen_id = ?
		ORDER BY r.created_at DESC
	`
	return r.queryViews(query, citizenID)
}

// GetView returns one report enriched with citizen name/email/phone and
// officer name, or nil if absent.
func (r *ReportRepository) GetView(reportID int64) (*models.ReportView, error) {
	query := `
		SELECT` + reportViewColumns + `, COALESCE(u.phone, '')
		FROM reports r
		LEFT JOIN users u ON r.citizen_id = u.id
		LEFT JOIN users po ON r.assigned_officer_id = po.id
		WHERE r.id = ?
	`

	var report models.Report
	var view models.ReportView
	err := r.db.QueryRow(query, reportID).Scan(
		&report.ID, &report.Title, &report.Description, &report.Location,
		&report.Latitude, &report.Longitude, &report.CrimeType,
		&report.Status, &report.CitizenID, &report.AssignedOfficerID,
		&report.CreatedAt, &report.UpdatedAt,
		&view.CitizenName, &view.CitizenEmail, &view.OfficerName,
		&view.CitizenPhone,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report view: %w", err)
	}

	projected := models.NewReportView(&report)
	projected.CitizenName = view.CitizenName
	projected.CitizenEmail = view.CitizenEmail
	projected.CitizenPhone = view.CitizenPhone
	projected.OfficerName = view.OfficerName
	return &projected, nil
}

func (r *ReportRepository) queryViews(query string, args ...interface{}) ([]models.ReportView, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	views := []models.ReportView{}
	for rows.Next() {
		var report models.Report
		var citizenName, citizenEmail, officerName string

		err := rows.Scan(
			&report.ID, &report.Title, &report.Description, &report.Location,
			&report.Latitude, &report.Longitude, &report.CrimeType,
			&report.Status, &report.CitizenID, &report.AssignedOfficerID,
			&report.CreatedAt, &report.UpdatedAt,
			&citizenName, &citizenEmail, &officerName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}

		view := models.NewReportView(&report)
		view.CitizenName = citizenName
		view.CitizenEmail = citizenEmail
		view.OfficerName = officerName
		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reports: %w", err)
	}

	return views, nil
}

// ListUpdates returns a report's comments, newest first, with author names.
func (r *ReportRepository) ListUpdates(reportID int64) ([]models.ReportUpdateView, error) {
	query := `
		SELECT ru.id, ru.report_id, ru.user_id, ru.comment, ru.created_at, COALESCE(u.name, '')
		FROM report_updates ru
		LEFT JOIN users u ON ru.user_id = u.id
		WHERE ru.report_id = ?
		ORDER BY ru.id DESC
	`

	rows, err := r.db.Query(query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query report updates: %w", err)
	}
	defer rows.Close()

	updates := []models.ReportUpdateView{}
	for rows.Next() {
		var u models.ReportUpdateView
		if err := rows.Scan(&u.ID, &u.ReportID, &u.UserID, &u.Comment, &u.CreatedAt, &u.UserName); err != nil {
			return nil, fmt.Errorf("failed to scan report update: %w", err)
		}
		updates = append(updates, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report updates: %w", err)
	}

	return updates, nil
}

// GetUpdateView returns one comment with its author name, or nil if absent.
func (r *ReportRepository) GetUpdateView(updateID int64) (*models.ReportUpdateView, error) {
	query := `
		SELECT ru.id, ru.report_id, ru.user_id, ru.comment, ru.created_at, COALESCE(u.name, '')
		FROM report_updates ru
		LEFT JOIN users u ON ru.user_id = u.id
		WHERE ru.id = ?
	`

	var u models.ReportUpdateView
	err := r.db.QueryRow(query, updateID).Scan(&u.ID, &u.ReportID, &u.UserID, &u.Comment, &u.CreatedAt, &u.UserName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report update: %w", err)
	}
	return &u, nil
}
