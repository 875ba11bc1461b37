package trust

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mamamaps/backend/internal/models"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestNewReport(t *testing.T) {
	r, err := NewReport(models.TypeTrash, 12.9716, 77.5946, "https://img.example/1.jpg", "u1", t0)
	require.NoError(t, err)

	require.NotEmpty(t, r.ID)
	require.Equal(t, models.TypeTrash, r.Type)
	require.Equal(t, "u1", r.ReporterID)
	require.Equal(t, t0, r.CreatedAt)
	require.Equal(t, t0.Add(24*time.Hour), r.ExpiresAt)
	require.Equal(t, 0, r.VerifiedCount)
	require.Equal(t, models.ReportStatusActive, r.Status(t0))
}

func TestNewReport_Validation(t *testing.T) {
	tt := []struct {
		name       string
		reportType models.ReportType
		lat, lng   float64
		imageURL   string
		err        error
	}{
		{
			name:       "unknown type",
			reportType: "ufo",
			lat:        12.9716, lng: 77.5946,
			imageURL: "https://img.example/1.jpg",
			err:      ErrUnknownReportType,
		},
		{
			name:       "latitude out of range",
			reportType: models.TypePothole,
			lat:        91, lng: 77.5946,
			imageURL: "https://img.example/1.jpg",
			err:      ErrInvalidCoordinates,
		},
		{
			name:       "longitude out of range",
			reportType: models.TypePothole,
			lat:        12.9716, lng: -181,
			imageURL: "https://img.example/1.jpg",
			err:      ErrInvalidCoordinates,
		},
		{
			name:       "NaN latitude",
			reportType: models.TypePothole,
			lat:        math.NaN(), lng: 77.5946,
			imageURL: "https://img.example/1.jpg",
			err:      ErrInvalidCoordinates,
		},
		{
			name:       "missing image",
			reportType: models.TypePolicePresence,
			lat:        12.9716, lng: 77.5946,
			imageURL: "",
			err:      ErrMissingImage,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewReport(tc.reportType, tc.lat, tc.lng, tc.imageURL, "u1", t0)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestIsVisible_ExpiryBoundary(t *testing.T) {
	r, err := NewReport(models.TypeTrash, 12.9716, 77.5946, "https://img.example/1.jpg", "u1", t0)
	require.NoError(t, err)

	require.True(t, IsVisible(r, t0.Add(23*time.Hour+59*time.Minute+59*time.Second)))
	// Exactly at expiry the window is already closed.
	require.False(t, IsVisible(r, t0.Add(24*time.Hour)))
	require.False(t, IsVisible(r, t0.Add(24*time.Hour+time.Second)))
	require.Equal(t, models.ReportStatusExpired, r.Status(t0.Add(24*time.Hour)))
}

func TestFilterActive(t *testing.T) {
	mk := func(id string, createdAt time.Time) *models.Report {
		r, err := NewReport(models.TypeTrash, 12.9716, 77.5946, "https://img.example/1.jpg", "u1", createdAt)
		require.NoError(t, err)
		r.ID = id
		return r
	}

	now := t0.Add(30 * time.Hour)
	reports := []*models.Report{
		mk("newest", t0.Add(29*time.Hour)),
		mk("mid", t0.Add(10*time.Hour)),
		mk("stale", t0), // expired at now
		mk("old", t0.Add(7*time.Hour)),
	}

	active := FilterActive(reports, now)

	require.Len(t, active, 3)
	// Relative order of the survivors is preserved.
	require.Equal(t, "newest", active[0].ID)
	require.Equal(t, "mid", active[1].ID)
	require.Equal(t, "old", active[2].ID)

	// Idempotent: filtering twice equals filtering once.
	require.Equal(t, active, FilterActive(active, now))
}

func TestFilterActive_Empty(t *testing.T) {
	require.Empty(t, FilterActive(nil, t0))
	require.Empty(t, FilterActive([]*models.Report{}, t0))
}
