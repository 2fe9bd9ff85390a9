package models

import "time"

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserView is the public projection of a user returned by auth endpoints.
type UserView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Location string `json:"location,omitempty"`
}

// AuthResponse carries a signed token plus the user it identifies.
type AuthResponse struct {
	Message string   `json:"message"`
	Token   string   `json:"token"`
	User    UserView `json:"user"`
}

// CreateReportRequest is the body of POST /api/reports
type CreateReportRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	CrimeType   string   `json:"crime_type,omitempty"`
}

// UpdateStatusRequest is the body of PATCH /api/reports/{id}/status
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// AddCommentRequest is the body of POST /api/reports/{id}/update
type AddCommentRequest struct {
	Comment string `json:"comment"`
}

// ReportFilter narrows report listings.
type ReportFilter struct {
	Status            string
	AssignedOfficerID int64 // 0 = any
}

// ReportView is a report as returned over the API, optionally enriched with
// citizen and officer attribution from the read-side joins.
type ReportView struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	Description       string       `json:"description"`
	Location          string       `json:"location"`
	Latitude          *float64     `json:"latitude"`
	Longitude         *float64     `json:"longitude"`
	CrimeType         string       `json:"crime_type,omitempty"`
	Status            ReportStatus `json:"status"`
	CitizenID         int64        `json:"citizen_id"`
	AssignedOfficerID *int64       `json:"assigned_officer_id"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	CitizenName       string       `json:"citizen_name,omitempty"`
	CitizenEmail      string       `json:"citizen_email,omitempty"`
	CitizenPhone      string       `json:"citizen_phone,omitempty"`
	OfficerName       string       `json:"officer_name,omitempty"`
}

// NewReportView projects a stored report into its API shape.
func NewReportView(r *Report) ReportView {
	v := ReportView{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Status:      r.Status,
		CitizenID:   r.CitizenID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.Latitude.Valid {
		lat := r.Latitude.Float64
		v.Latitude = &lat
	}
	if r.Longitude.Valid {
		lng := r.Longitude.Float64
		v.Longitude = &lng
	}
	if r.CrimeType.Valid {
		v.CrimeType = r.CrimeType.String
	}
	if r.AssignedOfficerID.Valid {
		id := r.AssignedOfficerID.Int64
		v.AssignedOfficerID = &id
	}
	return v
}

// ReportUpdateView is a comment enriched with its author's name.
type ReportUpdateView struct {
	ID        int64     `json:"id"`
	ReportID  int64     `json:"report_id"`
	UserID    int64     `json:"user_id"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"user_name,omitempty"`
}

// ReportDetail is the full single-report view: report, evidence and comments.
type ReportDetail struct {
	ReportView
	Evidence []Evidence         `json:"evidence"`
	Updates  []ReportUpdateView `json:"updates"`
}

// ActivityView is an activity log entry enriched for display.
type ActivityView struct {
	ID          int64          `json:"id"`
	UserID      int64          `json:"user_id"`
	ReportID    *int64         `json:"report_id"`
	Action      ActivityAction `json:"action"`
	Description string         `json:"description"`
	OldValue    *string        `json:"old_value"`
	NewValue    *string        `json:"new_value"`
	CreatedAt   time.Time      `json:"created_at"`
	UserName    string         `json:"user_name,omitempty"`
	ReportTitle string         `json:"report_title,omitempty"`
}

// ErrorResponse is the JSON error envelope returned by all handlers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
