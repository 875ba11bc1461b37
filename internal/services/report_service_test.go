package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mamamaps/backend/internal/models"
)

func newTestReportService(t *testing.T) *LocalReportService {
	t.Helper()
	svc, err := NewLocalReportService(t.TempDir())
	require.NoError(t, err)
	return svc
}

func createTestReport(t *testing.T, svc *LocalReportService, reporterID string) *models.Report {
	t.Helper()
	report, err := svc.Create(context.Background(), reporterID, &models.CreateReportRequest{
		Type:      models.TypePothole,
		Latitude:  12.9716,
		Longitude: 77.5946,
		ImageURL:  "https://images.example.com/p.jpg",
	})
	require.NoError(t, err)
	return report
}

func TestLocalReportService_PersistsAcrossReload(t *testing.T) {
	dataDir := t.TempDir()

	svc, err := NewLocalReportService(dataDir)
	require.NoError(t, err)
	report := createTestReport(t, svc, "reporter-1")

	reloaded, err := NewLocalReportService(dataDir)
	require.NoError(t, err)

	got, err := reloaded.GetByID(context.Background(), report.ID)
	require.NoError(t, err)
	require.Equal(t, report.ID, got.ID)
	require.Equal(t, "reporter-1", got.ReporterID)
	require.True(t, got.ExpiresAt.Equal(report.ExpiresAt))
}

func TestLocalReportService_AdjustVerifiedCount(t *testing.T) {
	svc := newTestReportService(t)
	report := createTestReport(t, svc, "reporter-1")

	updated, err := svc.AdjustVerifiedCount(context.Background(), report.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, updated.VerifiedCount)

	updated, err = svc.AdjustVerifiedCount(context.Background(), report.ID, -1)
	require.NoError(t, err)
	require.Equal(t, 0, updated.VerifiedCount)

	// Denials keep decrementing; there is no floor.
	updated, err = svc.AdjustVerifiedCount(context.Background(), report.ID, -1)
	require.NoError(t, err)
	require.Equal(t, -1, updated.VerifiedCount)

	_, err = svc.AdjustVerifiedCount(context.Background(), "missing", 1)
	require.ErrorIs(t, err, ErrReportNotFound)
}

func TestLocalReportService_ListRecentNewestFirst(t *testing.T) {
	svc := newTestReportService(t)

	var ids []string
	for i := 0; i < 3; i++ {
		ids = append(ids, createTestReport(t, svc, "reporter-1").ID)
		time.Sleep(time.Millisecond)
	}

	got, err := svc.ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, ids[2], got[0].ID)
	require.Equal(t, ids[0], got[2].ID)

	limited, err := svc.ListRecent(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
}

func TestLocalReportService_DeleteByReporter(t *testing.T) {
	svc := newTestReportService(t)

	mine1 := createTestReport(t, svc, "reporter-1")
	mine2 := createTestReport(t, svc, "reporter-1")
	other := createTestReport(t, svc, "reporter-2")

	imageURLs, deleted, err := svc.DeleteByReporter(context.Background(), "reporter-1")
	require.NoError(t, err)
	require.EqualValues(t, 2, deleted)
	require.Len(t, imageURLs, 2)

	_, err = svc.GetByID(context.Background(), mine1.ID)
	require.ErrorIs(t, err, ErrReportNotFound)
	_, err = svc.GetByID(context.Background(), mine2.ID)
	require.ErrorIs(t, err, ErrReportNotFound)

	still, err := svc.GetByID(context.Background(), other.ID)
	require.NoError(t, err)
	require.Equal(t, "reporter-2", still.ReporterID)
}

func TestLocalReportService_PurgeExpiredBefore(t *testing.T) {
	svc := newTestReportService(t)
	fresh := createTestReport(t, svc, "reporter-1")

	// A fresh report expires ~24h out; a cutoff in the past touches nothing.
	purged, err := svc.PurgeExpiredBefore(context.Background(), time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	require.Zero(t, purged)

	// A cutoff beyond the expiry removes it.
	purged, err = svc.PurgeExpiredBefore(context.Background(), time.Now().UTC().Add(25*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, purged)

	_, err = svc.GetByID(context.Background(), fresh.ID)
	require.ErrorIs(t, err, ErrReportNotFound)
}
