package repository

import (
	"database/sql"
	"fmt"

	"crimesafenet/models"
)

// execer is satisfied by both *sql.DB and *sql.Tx so activity appends can
// join the transaction of the mutation they describe.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// ActivityRepository handles database operations for the append-only activity log
type ActivityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// appendActivity inserts one activity entry. Entries are immutable: there is
// no update or delete statement anywhere in this package.
func appendActivity(ex execer, entry *models.ActivityLogEntry) error {
	query := `
		INSERT INTO activity_log (user_id, report_id, action, description, old_value, new_value)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := ex.Exec(
		query,
		entry.UserID,
		entry.ReportID,
		entry.Action,
		entry.Description,
		entry.OldValue,
		entry.NewValue,
	)
	if err != nil {
		return fmt.Errorf("failed to append activity entry: %w", err)
	}

	entryID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get activity entry ID: %w", err)
	}

	entry.ID = entryID
	return nil
}

// Append writes a standalone activity entry outside any mutation transaction.
func (r *ActivityRepository) Append(entry *models.ActivityLogEntry) error {
	return appendActivity(r.db, entry)
}

// ListForReport returns the audit trail of one report, newest first.
// Ordering uses the autoincrement id so it reflects commit order rather
// than wall-clock capture time.
func (r *ActivityRepository) ListForReport(reportID int64) ([]models.ActivityView, error) {
	query := `
		SELECT a.id, a.user_id, a.report_id, a.action, a.description,
		       a.old_value, a.new_value, a.created_at, COALESCE(u.name, '')
		FROM activity_log a
		LEFT JOIN users u ON a.user_id = u.id
		WHERE a.report_id = ?
		ORDER BY a.id DESC
	`

	rows, err := r.db.Query(query, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity log: %w", err)
	}
	defer rows.Close()

	return scanActivityViews(rows, false)
}

// ListRecent returns the latest entries across all reports, newest first,
// each enriched with the actor name and report title.
func (r *ActivityRepository) ListRecent(limit int) ([]models.ActivityView, error) {
	query := `
		SELECT a.id, a.user_id, a.report_id, a.action, a.description,
		       a.old_value, a.new_value, a.created_at, COALESCE(u.name, ''), COALESCE(r.title, '')
		FROM activity_log a
		LEFT JOIN users u ON a.user_id = u.id
		LEFT JOIN reports r ON a.report_id = r.id
		ORDER BY a.id DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent activity: %w", err)
	}
	defer rows.Close()

	return scanActivityViews(rows, true)
}

func scanActivityViews(rows *sql.Rows, withTitle bool) ([]models.ActivityView, error) {
	views := []models.ActivityView{}
	for rows.Next() {
		var v models.ActivityView
		var reportID sql.NullInt64
		var oldValue, newValue sql.NullString

		dest := []interface{}{
			&v.ID, &v.UserID, &reportID, &v.Action, &v.Description,
			&oldValue, &newValue, &v.CreatedAt, &v.UserName,
		}
		if withTitle {
			dest = append(dest, &v.ReportTitle)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}

		if reportID.Valid {
			id := reportID.Int64
			v.ReportID = &id
		}
		if oldValue.Valid {
			s := oldValue.String
			v.OldValue = &s
		}
		if newValue.Valid {
			s := newValue.String
			v.NewValue = &s
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity log: %w", err)
	}

	return views, nil
}
