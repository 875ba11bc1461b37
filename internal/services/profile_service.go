package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/storage"
)

var ErrProfileNotFound = errors.New("profile not found")

// ProfileService owns the per-user points/rank document. AddPoints is the
// single write path for points and reports_count; both service variants
// apply it as an atomic increment so concurrent awards commute.
type ProfileService interface {
	GetOrCreate(ctx context.Context, userID, email string) (*models.Profile, error)
	Upsert(ctx context.Context, userID, email string, req *models.UpsertProfileRequest) (*models.Profile, error)
	AddPoints(ctx context.Context, userID string, amount int, countsReport bool) (*models.Profile, error)
	Leaderboard(ctx context.Context, limit int) ([]models.Profile, error)
	Delete(ctx context.Context, userID string) (avatarURL string, err error)
}

// LocalProfileService is the JSON-file-backed variant.
type LocalProfileService struct {
	mu       sync.Mutex
	store    *storage.JSONStore
	profiles map[string]*models.Profile
}

func NewLocalProfileService(dataDir string) (*LocalProfileService, error) {
	store, err := storage.NewJSONStore(dataDir, "profiles.json")
	if err != nil {
		return nil, err
	}

	s := &LocalProfileService{
		store:    store,
		profiles: make(map[string]*models.Profile),
	}

	var saved []*models.Profile
	if err := store.Load(&saved); err != nil {
		return nil, err
	}
	for _, p := range saved {
		s.profiles[p.UserID] = p
	}

	return s, nil
}

func (s *LocalProfileService) GetOrCreate(ctx context.Context, userID, email string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof := s.getOrCreateLocked(userID, email)
	copy := *prof
	return &copy, nil
}

// getOrCreateLocked seeds a zeroed profile the first time an identity is
// observed.
func (s *LocalProfileService) getOrCreateLocked(userID, email string) *models.Profile {
	if prof, exists := s.profiles[userID]; exists {
		if email != "" && prof.Email == "" {
			prof.Email = email
			prof.UpdatedAt = time.Now().UTC()
			s.persistLocked()
		}
		return prof
	}

	now := time.Now().UTC()
	prof := &models.Profile{
		UserID:    userID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.profiles[userID] = prof
	s.persistLocked()
	return prof
}

func (s *LocalProfileService) Upsert(ctx context.Context, userID, email string, req *models.UpsertProfileRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof := s.getOrCreateLocked(userID, email)
	if req.DisplayName != nil {
		prof.DisplayName = *req.DisplayName
	}
	if req.Username != nil {
		prof.Username = *req.Username
	}
	if req.Phone != nil {
		prof.Phone = *req.Phone
	}
	if req.DOB != nil {
		prof.DOB = *req.DOB
	}
	if req.AvatarURL != nil {
		prof.AvatarURL = *req.AvatarURL
	}
	prof.UpdatedAt = time.Now().UTC()
	s.persistLocked()

	copy := *prof
	return &copy, nil
}

func (s *LocalProfileService) AddPoints(ctx context.Context, userID string, amount int, countsReport bool) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof := s.getOrCreateLocked(userID, "")
	prof.Points += amount
	if countsReport {
		prof.ReportsCount++
	}
	prof.UpdatedAt = time.Now().UTC()
	s.persistLocked()

	copy := *prof
	return &copy, nil
}

func (s *LocalProfileService) Leaderboard(ctx context.Context, limit int) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		results = append(results, *p)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Points != results[j].Points {
			return results[i].Points > results[j].Points
		}
		return results[i].UserID < results[j].UserID
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *LocalProfileService) Delete(ctx context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prof, exists := s.profiles[userID]
	if !exists {
		return "", nil
	}
	avatar := prof.AvatarURL
	delete(s.profiles, userID)
	s.persistLocked()
	return avatar, nil
}

func (s *LocalProfileService) persistLocked() {
	saved := make([]*models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		saved = append(saved, p)
	}
	_ = s.store.Save(saved)
}
