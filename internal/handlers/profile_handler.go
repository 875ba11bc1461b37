package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mamamaps/backend/internal/middleware"
	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/services"
	"github.com/mamamaps/backend/internal/trust"
)

type ProfileHandler struct {
	profiles services.ProfileService
	reports  services.ReportService
}

func NewProfileHandler(profiles services.ProfileService, reports services.ReportService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, reports: reports}
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	email := middleware.GetUserEmail(r.Context())

	prof, err := h.profiles.GetOrCreate(r.Context(), userID, email)
	if err != nil {
		logrus.WithError(err).WithField("user", userID).Error("load profile")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load profile"))
		return
	}

	prof.Rank = trust.RankFor(prof.Points)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	email := middleware.GetUserEmail(r.Context())

	var req models.UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	prof, err := h.profiles.Upsert(r.Context(), userID, email, &req)
	if err != nil {
		logrus.WithError(err).WithField("user", userID).Error("upsert profile")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to save profile"))
		return
	}

	prof.Rank = trust.RankFor(prof.Points)
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(prof))
}

// MyReports returns the caller's recent, still-active reports, the strip
// shown on the profile screen.
func (h *ProfileHandler) MyReports(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	limit := parseIntQuery(r, "limit", 4)
	reports, err := h.reports.ListByReporter(r.Context(), userID, ListLimit)
	if err != nil {
		logrus.WithError(err).WithField("user", userID).Error("list own reports")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list reports"))
		return
	}

	now := time.Now().UTC()
	active := trust.FilterActive(reports, now)
	if len(active) > limit {
		active = active[:limit]
	}

	views := make([]reportView, 0, len(active))
	for _, rep := range active {
		views = append(views, newReportView(rep, now))
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(views))
}

func (h *ProfileHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)

	profiles, err := h.profiles.Leaderboard(r.Context(), limit)
	if err != nil {
		logrus.WithError(err).Error("load leaderboard")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to load leaderboard"))
		return
	}

	entries := make([]models.LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		entries = append(entries, models.LeaderboardEntry{
			UserID:       p.UserID,
			Username:     p.Username,
			DisplayName:  displayNameFor(&p),
			AvatarURL:    p.AvatarURL,
			Points:       p.Points,
			ReportsCount: p.ReportsCount,
			Rank:         trust.RankFor(p.Points),
		})
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(entries))
}

// displayNameFor picks the best available name, falling back to the email
// local part the way the header badge does.
func displayNameFor(p *models.Profile) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	if p.Username != "" {
		return p.Username
	}
	if at := strings.Index(p.Email, "@"); at > 0 {
		return p.Email[:at]
	}
	return "Officer"
}
