package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/storage"
	"github.com/mamamaps/backend/internal/trust"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrUnauthorized   = errors.New("unauthorized")
)

// ReportService persists hazard reports. Expiry is never enforced here:
// callers filter visibility read-time via the trust package, and the
// retention worker purges long-expired documents out of band.
type ReportService interface {
	Create(ctx context.Context, reporterID string, req *models.CreateReportRequest) (*models.Report, error)
	GetByID(ctx context.Context, id string) (*models.Report, error)
	ListRecent(ctx context.Context, limit int) ([]*models.Report, error)
	ListByReporter(ctx context.Context, reporterID string, limit int) ([]*models.Report, error)
	AdjustVerifiedCount(ctx context.Context, id string, delta int) (*models.Report, error)
	DeleteByReporter(ctx context.Context, reporterID string) (imageURLs []string, deleted int64, err error)
	PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// LocalReportService keeps reports in memory, persisted to a JSON file.
// Used when the server runs without Mongo and by handler tests.
type LocalReportService struct {
	mu      sync.RWMutex
	store   *storage.JSONStore
	reports map[string]*models.Report
}

func NewLocalReportService(dataDir string) (*LocalReportService, error) {
	store, err := storage.NewJSONStore(dataDir, "reports.json")
	if err != nil {
		return nil, err
	}

	s := &LocalReportService{
		store:   store,
		reports: make(map[string]*models.Report),
	}

	var saved []*models.Report
	if err := store.Load(&saved); err != nil {
		return nil, err
	}
	for _, r := range saved {
		s.reports[r.ID] = r
	}

	return s, nil
}

func (s *LocalReportService) Create(ctx context.Context, reporterID string, req *models.CreateReportRequest) (*models.Report, error) {
	report, err := trust.NewReport(req.Type, req.Latitude, req.Longitude, req.ImageURL, reporterID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.reports[report.ID] = report
	s.mu.Unlock()

	s.persist()
	return report, nil
}

func (s *LocalReportService) GetByID(ctx context.Context, id string) (*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, exists := s.reports[id]
	if !exists {
		return nil, ErrReportNotFound
	}
	copy := *report
	return &copy, nil
}

func (s *LocalReportService) ListRecent(ctx context.Context, limit int) ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(func(*models.Report) bool { return true }, limit), nil
}

func (s *LocalReportService) ListByReporter(ctx context.Context, reporterID string, limit int) ([]*models.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked(func(r *models.Report) bool { return r.ReporterID == reporterID }, limit), nil
}

// listLocked returns copies sorted newest-first, matching the Mongo query
// the live variant runs.
func (s *LocalReportService) listLocked(match func(*models.Report) bool, limit int) []*models.Report {
	results := make([]*models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		if match(r) {
			copy := *r
			results = append(results, &copy)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (s *LocalReportService) AdjustVerifiedCount(ctx context.Context, id string, delta int) (*models.Report, error) {
	s.mu.Lock()
	report, exists := s.reports[id]
	if !exists {
		s.mu.Unlock()
		return nil, ErrReportNotFound
	}
	report.VerifiedCount += delta
	copy := *report
	s.mu.Unlock()

	s.persist()
	return &copy, nil
}

func (s *LocalReportService) DeleteByReporter(ctx context.Context, reporterID string) ([]string, int64, error) {
	s.mu.Lock()
	var imageURLs []string
	var deleted int64
	for id, r := range s.reports {
		if r.ReporterID == reporterID {
			if r.ImageURL != "" {
				imageURLs = append(imageURLs, r.ImageURL)
			}
			delete(s.reports, id)
			deleted++
		}
	}
	s.mu.Unlock()

	s.persist()
	return imageURLs, deleted, nil
}

func (s *LocalReportService) PurgeExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	var purged int64
	for id, r := range s.reports {
		if r.ExpiresAt.Before(cutoff) {
			delete(s.reports, id)
			purged++
		}
	}
	s.mu.Unlock()

	if purged > 0 {
		s.persist()
	}
	return purged, nil
}

func (s *LocalReportService) persist() {
	s.mu.RLock()
	saved := make([]*models.Report, 0, len(s.reports))
	for _, r := range s.reports {
		saved = append(saved, r)
	}
	s.mu.RUnlock()

	// Best-effort; the in-memory state remains authoritative.
	_ = s.store.Save(saved)
}
