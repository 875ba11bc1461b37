package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/mamamaps/backend/internal/middleware"
	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/services"
)

func newProfileRouter(t *testing.T, dataDir string) (*chi.Mux, *services.LocalProfileService) {
	t.Helper()

	reports, err := services.NewLocalReportService(dataDir)
	require.NoError(t, err)
	profiles, err := services.NewLocalProfileService(dataDir)
	require.NoError(t, err)

	h := NewProfileHandler(profiles, reports)
	rh := NewReportHandler(reports, profiles)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			user := req.Header.Get("X-User")
			if user != "" {
				req = req.WithContext(middleware.WithUser(req.Context(), user, user+"@example.com"))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/api/profile", h.GetProfile)
	r.Put("/api/profile", h.UpsertProfile)
	r.Get("/api/profile/reports", h.MyReports)
	r.Get("/api/leaderboard", h.Leaderboard)
	r.Post("/api/reports", rh.CreateReport)

	return r, profiles
}

func TestGetProfile_CreatesOnFirstRead(t *testing.T) {
	router, _ := newProfileRouter(t, t.TempDir())

	rec, env := doJSON(t, router, http.MethodGet, "/api/profile", "officer-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var prof models.Profile
	require.NoError(t, json.Unmarshal(env.Data, &prof))
	require.Equal(t, "officer-1", prof.UserID)
	require.Equal(t, "officer-1@example.com", prof.Email)
	require.Zero(t, prof.Points)
	require.Equal(t, "Constable", prof.Rank)
}

func TestUpsertProfile(t *testing.T) {
	router, profiles := newProfileRouter(t, t.TempDir())

	name := "Ravi K"
	username := "ravik"
	rec, env := doJSON(t, router, http.MethodPut, "/api/profile", "officer-1", models.UpsertProfileRequest{
		DisplayName: &name,
		Username:    &username,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var prof models.Profile
	require.NoError(t, json.Unmarshal(env.Data, &prof))
	require.Equal(t, "Ravi K", prof.DisplayName)
	require.Equal(t, "ravik", prof.Username)

	// Points are not settable through the profile surface.
	_, err := profiles.AddPoints(context.Background(), "officer-1", 30, false)
	require.NoError(t, err)

	phone := "555-0100"
	rec, env = doJSON(t, router, http.MethodPut, "/api/profile", "officer-1", models.UpsertProfileRequest{
		Phone: &phone,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &prof))
	require.Equal(t, "Ravi K", prof.DisplayName)
	require.Equal(t, 30, prof.Points)
	require.Equal(t, "Head Constable", prof.Rank)
}

func TestLeaderboard_OrderAndRanks(t *testing.T) {
	router, profiles := newProfileRouter(t, t.TempDir())

	seed := map[string]int{
		"officer-low":  10,
		"officer-mid":  60,
		"officer-high": 450,
	}
	for id, points := range seed {
		_, err := profiles.AddPoints(context.Background(), id, points, false)
		require.NoError(t, err)
	}

	rec, env := doJSON(t, router, http.MethodGet, "/api/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []models.LeaderboardEntry
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 3)

	require.Equal(t, "officer-high", entries[0].UserID)
	require.Equal(t, "Commissioner", entries[0].Rank)
	require.Equal(t, "officer-mid", entries[1].UserID)
	require.Equal(t, "Sub Inspector", entries[1].Rank)
	require.Equal(t, "officer-low", entries[2].UserID)
	require.Equal(t, "Constable", entries[2].Rank)
}

func TestLeaderboard_Limit(t *testing.T) {
	router, profiles := newProfileRouter(t, t.TempDir())

	for _, id := range []string{"a", "b", "c"} {
		_, err := profiles.AddPoints(context.Background(), id, 5, false)
		require.NoError(t, err)
	}

	rec, env := doJSON(t, router, http.MethodGet, "/api/leaderboard?limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []models.LeaderboardEntry
	require.NoError(t, json.Unmarshal(env.Data, &entries))
	require.Len(t, entries, 2)
}

func TestMyReports_OnlyOwnAndActive(t *testing.T) {
	dataDir := t.TempDir()
	seedExpiredReport(t, dataDir, "expired-1") // owned by reporter-old
	router, _ := newProfileRouter(t, dataDir)

	mine := createReport(t, router, "officer-1")
	createReport(t, router, "someone-else")

	rec, env := doJSON(t, router, http.MethodGet, "/api/profile/reports", "officer-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var views []reportView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	require.Equal(t, mine.ID, views[0].ID)

	rec, env = doJSON(t, router, http.MethodGet, "/api/profile/reports", "reporter-old", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Empty(t, views)
}

func TestDisplayNameFallback(t *testing.T) {
	tests := []struct {
		name    string
		profile models.Profile
		want    string
	}{
		{"display name wins", models.Profile{DisplayName: "Ravi K", Username: "ravik", Email: "r@example.com"}, "Ravi K"},
		{"username next", models.Profile{Username: "ravik", Email: "r@example.com"}, "ravik"},
		{"email local part", models.Profile{Email: "ravi@example.com"}, "ravi"},
		{"default", models.Profile{}, "Officer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, displayNameFor(&tt.profile))
		})
	}
}
