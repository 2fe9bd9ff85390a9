package models

import (
	"database/sql"
	"time"
)

// Role represents a user role. Roles are immutable after registration.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleOfficer Role = "officer"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleCitizen || r == RoleOfficer
}

// ReportStatus represents the triage state of a report.
// Any status may transition to any other; there is no terminal state.
type ReportStatus string

const (
	StatusReported           ReportStatus = "Reported"
	StatusUnderInvestigation ReportStatus = "Under Investigation"
	StatusResolved           ReportStatus = "Resolved"
)

// Valid reports whether s is one of the three triage statuses.
func (s ReportStatus) Valid() bool {
	return s == StatusReported || s == StatusUnderInvestigation || s == StatusResolved
}

// ActivityAction tags an activity log entry with the kind of lifecycle event it records.
type ActivityAction string

const (
	ActionReportCreated    ActivityAction = "REPORT_CREATED"
	ActionStatusUpdated    ActivityAction = "STATUS_UPDATED"
	ActionEvidenceUploaded ActivityAction = "EVIDENCE_UPLOADED"
	ActionCommentAdded     ActivityAction = "COMMENT_ADDED"
)

// EvidenceType is derived from the upload MIME type at ingestion.
type EvidenceType string

const (
	EvidenceImage EvidenceType = "image"
	EvidenceVideo EvidenceType = "video"
)

// User represents a registered identity (citizen or officer)
type User struct {
	ID           int64          `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	Role         Role           `db:"role" json:"role"`
	Location     sql.NullString `db:"location" json:"-"`
	Phone        sql.NullString `db:"phone" json:"-"`
	Verified     bool           `db:"verified" json:"verified"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// Report represents a citizen-submitted incident record
type Report struct {
	ID                int64           `db:"id" json:"id"`
	Title             string          `db:"title" json:"title"`
	Description       string          `db:"description" json:"description"`
	Location          string          `db:"location" json:"location"`
	Latitude          sql.NullFloat64 `db:"latitude" json:"-"`
	Longitude         sql.NullFloat64 `db:"longitude" json:"-"`
	CrimeType         sql.NullString  `db:"crime_type" json:"-"`
	Status            ReportStatus    `db:"status" json:"status"`
	CitizenID         int64           `db:"citizen_id" json:"citizen_id"`
	AssignedOfficerID sql.NullInt64   `db:"assigned_officer_id" json:"-"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// Evidence represents a media attachment on a report. Immutable once created.
type Evidence struct {
	ID         int64        `db:"id" json:"id"`
	ReportID   int64        `db:"report_id" json:"report_id"`
	FilePath   string       `db:"file_path" json:"file_path"`
	FileType   EvidenceType `db:"file_type" json:"file_type"`
	FileName   string       `db:"file_name" json:"file_name"`
	UploadedBy int64        `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// ActivityLogEntry is one append-only audit record. Entries are never
// mutated or deleted; ordering within a report follows the insert sequence.
type ActivityLogEntry struct {
	ID          int64          `db:"id" json:"id"`
	UserID      int64          `db:"user_id" json:"user_id"`
	ReportID    sql.NullInt64  `db:"report_id" json:"-"`
	Action      ActivityAction `db:"action" json:"action"`
	Description string         `db:"description" json:"description"`
	OldValue    sql.NullString `db:"old_value" json:"-"`
	NewValue    sql.NullString `db:"new_value" json:"-"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}

// ReportUpdate is a comment attached to a report. Append-only.
type ReportUpdate struct {
	ID        int64     `db:"id" json:"id"`
	ReportID  int64     `db:"report_id" json:"report_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Comment   string    `db:"comment" json:"comment"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
