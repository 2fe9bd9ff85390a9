package repository

import (
	"database/sql"
	"fmt"

	"crimesafenet/models"
)

// EvidenceRepository handles database operations for evidence records.
// Evidence is write-once: no update or delete statements exist here.
type EvidenceRepository struct {
	db *sql.DB
}

// NewEvidenceRepository creates a new evidence repository
func NewEvidenceRepository(db *sql.DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

// Create inserts an evidence record and its EVIDENCE_UPLOADED activity
// entry atomically.
func (r *EvidenceRepository) Create(evidence *models.Evidence, entry *models.ActivityLogEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO evidence (report_id, file_path, file_type, file_name, uploaded_by)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := tx.Exec(
		query,
		evidence.ReportID,
		evidence.FilePath,
		evidence.FileType,
		evidence.FileName,
		evidence.UploadedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create evidence record: %w", err)
	}

	evidenceID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get evidence ID: %w", err)
	}
	evidence.ID = evidenceID

	if err := appendActivity(tx, entry); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit evidence record: %w", err)
	}
	return nil
}

// ListByReport returns a report's evidence in upload order (oldest first).
func (r *EvidenceRepository) ListByReport(reportID int64) ([]models.Evidence, error) {
	query := `
		SELECT id, report_id, file_path, file_type, file_name, uploaded_by, created_at
		FROM evidence
		WHERE report_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence: %w", err)
	}
	defer rows.Close()

	records := []models.Evidence{}
	for rows.Next() {
		var e models.Evidence
		err := rows.Scan(
			&e.ID,
			&e.ReportID,
			&e.FilePath,
			&e.FileType,
			&e.FileName,
			&e.UploadedBy,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan evidence: %w", err)
		}
		records = append(records, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evidence: %w", err)
	}

	return records, nil
}
