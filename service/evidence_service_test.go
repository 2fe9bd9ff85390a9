package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crimesafenet/models"
	"crimesafenet/repository"
)

func newEvidenceService(t *testing.T, maxBytes int64) (*EvidenceService, sqlmock.Sqlmock, string) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	dir := t.TempDir()
	svc := NewEvidenceService(
		repository.NewEvidenceRepository(db),
		repository.NewReportRepository(db),
		dir,
		maxBytes,
	)
	return svc, mock, dir
}

func listStoredFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestEvidenceService_AttachEvidence(t *testing.T) {
	t.Run("StoresFileAndRecord", func(t *testing.T) {
		svc, mock, dir := newEvidenceService(t, 1024)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description")).
			WithArgs(int64(1)).
			WillReturnRows(reportRows(1, models.StatusReported, nil, nil, nil))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evidence")).
			WithArgs(int64(1), sqlmock.AnyArg(), "image", "scene photo.jpg", int64(42)).
			WillReturnResult(sqlmock.NewResult(6, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activity_log")).
			WithArgs(int64(42), int64(1), "EVIDENCE_UPLOADED", "Evidence uploaded: scene photo.jpg", nil, nil).
			WillReturnResult(sqlmock.NewResult(7, 1))
		mock.ExpectCommit()

		body := strings.NewReader("jpegbytes")
		ev, err := svc.AttachEvidence(1, 42, body, int64(body.Len()), "image/jpeg", "scene photo.jpg")
		require.NoError(t, err)
		assert.Equal(t, int64(6), ev.ID)
		assert.Equal(t, models.EvidenceImage, ev.FileType)
		assert.True(t, strings.HasPrefix(ev.FilePath, "/uploads/"))
		assert.True(t, strings.HasSuffix(ev.FilePath, "-scene_photo.jpg"))

		stored := listStoredFiles(t, dir)
		require.Len(t, stored, 1)
		data, err := os.ReadFile(filepath.Join(dir, stored[0]))
		require.NoError(t, err)
		assert.Equal(t, "jpegbytes", string(data))

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MimeParametersIgnored", func(t *testing.T) {
		svc, mock, _ := newEvidenceService(t, 1024)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description")).
			WithArgs(int64(1)).
			WillReturnRows(reportRows(1, models.StatusReported, nil, nil, nil))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evidence")).
			WillReturnResult(sqlmock.NewResult(8, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activity_log")).
			WillReturnResult(sqlmock.NewResult(9, 1))
		mock.ExpectCommit()

		body := strings.NewReader("mp4bytes")
		ev, err := svc.AttachEvidence(1, 42, body, int64(body.Len()), "Video/MP4; codecs=avc1", "clip.mp4")
		require.NoError(t, err)
		assert.Equal(t, models.EvidenceVideo, ev.FileType)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UnsupportedMediaType", func(t *testing.T) {
		svc, mock, dir := newEvidenceService(t, 1024)

		_, err := svc.AttachEvidence(1, 42, strings.NewReader("%PDF"), 4, "application/pdf", "doc.pdf")
		assert.True(t, errors.Is(err, ErrUnsupportedMediaType))
		assert.Empty(t, listStoredFiles(t, dir))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeclaredSizeOverLimit", func(t *testing.T) {
		svc, mock, dir := newEvidenceService(t, 8)

		_, err := svc.AttachEvidence(1, 42, strings.NewReader("123456789"), 9, "image/png", "big.png")
		assert.True(t, errors.Is(err, ErrPayloadTooLarge))
		assert.Empty(t, listStoredFiles(t, dir))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ActualBytesOverLimit", func(t *testing.T) {
		svc, mock, dir := newEvidenceService(t, 8)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description")).
			WithArgs(int64(1)).
			WillReturnRows(reportRows(1, models.StatusReported, nil, nil, nil))

		// Declared size fits, the stream does not.
		_, err := svc.AttachEvidence(1, 42, strings.NewReader("123456789"), 4, "image/png", "lie.png")
		assert.True(t, errors.Is(err, ErrPayloadTooLarge))
		assert.Empty(t, listStoredFiles(t, dir))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ReportNotFound", func(t *testing.T) {
		svc, mock, dir := newEvidenceService(t, 1024)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description")).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := svc.AttachEvidence(99, 42, strings.NewReader("x"), 1, "image/jpeg", "a.jpg")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Empty(t, listStoredFiles(t, dir))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StoreFailureRemovesFile", func(t *testing.T) {
		svc, mock, dir := newEvidenceService(t, 1024)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description")).
			WithArgs(int64(1)).
			WillReturnRows(reportRows(1, models.StatusReported, nil, nil, nil))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evidence")).
			WillReturnError(fmt.Errorf("connection lost"))
		mock.ExpectRollback()

		_, err := svc.AttachEvidence(1, 42, strings.NewReader("x"), 1, "image/jpeg", "a.jpg")
		require.Error(t, err)
		assert.Empty(t, listStoredFiles(t, dir))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PathTraversalNameSanitized", func(t *testing.T) {
		svc, mock, dir := newEvidenceService(t, 1024)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, description")).
			WithArgs(int64(1)).
			WillReturnRows(reportRows(1, models.StatusReported, nil, nil, nil))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO evidence")).
			WillReturnResult(sqlmock.NewResult(10, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activity_log")).
			WillReturnResult(sqlmock.NewResult(11, 1))
		mock.ExpectCommit()

		ev, err := svc.AttachEvidence(1, 42, strings.NewReader("x"), 1, "image/jpeg", "../../etc/passwd")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(ev.FilePath, "-passwd"))

		// The file stayed inside the evidence directory.
		require.Len(t, listStoredFiles(t, dir), 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
