package service

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	"github.com/google/uuid"

	"crimesafenet/models"
	"crimesafenet/repository"
)

// allowedMimeTypes maps accepted upload MIME types to the derived evidence type.
var allowedMimeTypes = map[string]models.EvidenceType{
	"image/jpeg":      models.EvidenceImage,
	"image/png":       models.EvidenceImage,
	"video/mp4":       models.EvidenceVideo,
	"video/quicktime": models.EvidenceVideo,
}

// TempFilePrefix marks in-flight upload files in the evidence directory so
// the janitor can identify abandoned ones.
const TempFilePrefix = ".upload-"

// EvidenceService validates and stores media evidence. Bytes go to the
// local filesystem under a collision-resistant name; only the public path
// is recorded in the store.
type EvidenceService struct {
	evidence *repository.EvidenceRepository
	reports  *repository.ReportRepository
	basePath string
	maxBytes int64
}

// NewEvidenceService creates a new evidence service
func NewEvidenceService(
	evidence *repository.EvidenceRepository,
	reports *repository.ReportRepository,
	basePath string,
	maxBytes int64,
) *EvidenceService {
	return &EvidenceService{
		evidence: evidence,
		reports:  reports,
		basePath: basePath,
		maxBytes: maxBytes,
	}
}

// MaxBytes returns the upload size cap.
func (s *EvidenceService) MaxBytes() int64 {
	return s.maxBytes
}

// AttachEvidence validates the upload, writes the bytes to durable storage
// and records the evidence row plus its EVIDENCE_UPLOADED entry in one
// transaction. If the store write fails after the file landed, the file is
// removed so no orphan remains.
func (s *EvidenceService) AttachEvidence(
	reportID int64,
	uploaderID int64,
	file io.Reader,
	size int64,
	mimeType string,
	originalName string,
) (*models.Evidence, error) {
	fileType, ok := allowedMimeTypes[normalizeMime(mimeType)]
	if !ok {
		return nil, fmt.Errorf("%w: only jpeg, png, mp4 and quicktime uploads are accepted", ErrUnsupportedMediaType)
	}
	if size > s.maxBytes {
		return nil, fmt.Errorf("%w: file exceeds the %d MB limit", ErrPayloadTooLarge, s.maxBytes/(1024*1024))
	}

	report, err := s.reports.GetByID(reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, fmt.Errorf("%w: report not found", ErrNotFound)
	}

	storedName := fmt.Sprintf("%s-%s", uuid.New().String(), sanitizeFileName(originalName))
	finalPath := filepath.Join(s.basePath, storedName)

	if err := s.writeFile(file, finalPath); err != nil {
		return nil, err
	}

	evidence := &models.Evidence{
		ReportID:   reportID,
		FilePath:   "/uploads/" + storedName,
		FileType:   fileType,
		FileName:   originalName,
		UploadedBy: uploaderID,
	}
	entry := &models.ActivityLogEntry{
		UserID:      uploaderID,
		ReportID:    sql.NullInt64{Int64: reportID, Valid: true},
		Action:      models.ActionEvidenceUploaded,
		Description: fmt.Sprintf("Evidence uploaded: %s", originalName),
	}

	if err := s.evidence.Create(evidence, entry); err != nil {
		// Compensating cleanup: the row never landed, so the file must go too.
		if rmErr := os.Remove(finalPath); rmErr != nil {
			log.WithField("path", finalPath).Errorf("failed to remove orphaned upload: %v", rmErr)
		}
		return nil, err
	}

	log.WithField("report_id", reportID).WithField("evidence_id", evidence.ID).
		Infof("evidence stored: %s", storedName)

	return evidence, nil
}

// ListEvidence returns a report's evidence in upload order.
func (s *EvidenceService) ListEvidence(reportID int64) ([]models.Evidence, error) {
	return s.evidence.ListByReport(reportID)
}

// writeFile streams the upload into a temp file in the evidence directory
// and renames it into place, so readers never observe a partial file and an
// aborted copy leaves only a removable temp file.
func (s *EvidenceService) writeFile(file io.Reader, finalPath string) error {
	if err := os.MkdirAll(s.basePath, 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.basePath, TempFilePrefix+"*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	// Guard against callers whose declared size lied: never store more than
	// the cap regardless of what the reader yields.
	written, err := io.Copy(tmp, io.LimitReader(file, s.maxBytes+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write upload: %w", err)
	}
	if written > s.maxBytes {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: file exceeds the %d MB limit", ErrPayloadTooLarge, s.maxBytes/(1024*1024))
	}

	if err := os.Rename(tmp.Name(), finalPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to store upload: %w", err)
	}
	return nil
}

func normalizeMime(mimeType string) string {
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}

// sanitizeFileName strips any path components and characters that could
// break the public URL.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == string(filepath.Separator) || name == "" {
		name = "upload"
	}
	return name
}
