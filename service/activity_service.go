package service

import (
	"crimesafenet/models"
	"crimesafenet/repository"
)

// DefaultRecentActivityLimit bounds the cross-report feed when the client
// does not ask for a specific size.
const DefaultRecentActivityLimit = 100

// ActivityService is the read side of the append-only activity log.
type ActivityService struct {
	activity *repository.ActivityRepository
}

// NewActivityService creates a new activity service
func NewActivityService(activity *repository.ActivityRepository) *ActivityService {
	return &ActivityService{activity: activity}
}

// ListForReport returns a report's audit trail, newest first.
func (s *ActivityService) ListForReport(reportID int64) ([]models.ActivityView, error) {
	return s.activity.ListForReport(reportID)
}

// ListRecent returns the latest entries across all reports, newest first.
// Non-positive limits fall back to the default.
func (s *ActivityService) ListRecent(limit int) ([]models.ActivityView, error) {
	if limit <= 0 {
		limit = DefaultRecentActivityLimit
	}
	return s.activity.ListRecent(limit)
}
