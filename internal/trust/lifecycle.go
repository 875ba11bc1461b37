package trust

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mamamaps/backend/internal/models"
)

// ActiveWindow is how long a report stays visible after creation.
const ActiveWindow = 24 * time.Hour

var (
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrMissingImage       = errors.New("image reference is required")
	ErrUnknownReportType  = errors.New("unknown report type")
)

// NewReport constructs a report at now. The expiry is fixed at creation and
// immutable afterwards; expired reports are never toggled, they simply stop
// passing IsVisible.
func NewReport(reportType models.ReportType, lat, lng float64, imageURL, reporterID string, now time.Time) (*models.Report, error) {
	if !reportType.Valid() {
		return nil, ErrUnknownReportType
	}
	if !models.ValidCoordinates(lat, lng) {
		return nil, ErrInvalidCoordinates
	}
	if imageURL == "" {
		return nil, ErrMissingImage
	}

	return &models.Report{
		ID:            uuid.New().String(),
		Type:          reportType,
		Latitude:      lat,
		Longitude:     lng,
		ImageURL:      imageURL,
		ReporterID:    reporterID,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ActiveWindow),
		VerifiedCount: 0,
	}, nil
}

// IsVisible reports whether the report is inside its active window.
// Exclusive at equality: a report expiring exactly at now is not visible.
func IsVisible(report *models.Report, now time.Time) bool {
	return report.ExpiresAt.After(now)
}

// FilterActive drops expired reports, preserving the input order. The input
// is assumed already sorted newest-first by the store query.
func FilterActive(reports []*models.Report, now time.Time) []*models.Report {
	active := make([]*models.Report, 0, len(reports))
	for _, r := range reports {
		if IsVisible(r, now) {
			active = append(active, r)
		}
	}
	return active
}
