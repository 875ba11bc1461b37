package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/mamamaps/backend/internal/middleware"
	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/services"
	"github.com/mamamaps/backend/internal/trust"
)

// ListLimit caps the live reports feed, matching the map subscription.
const ListLimit = 100

type ReportHandler struct {
	reports  services.ReportService
	profiles services.ProfileService
}

func NewReportHandler(reports services.ReportService, profiles services.ProfileService) *ReportHandler {
	return &ReportHandler{
		reports:  reports,
		profiles: profiles,
	}
}

// reportView decorates a report with its derived status for the wire.
type reportView struct {
	*models.Report
	Status string `json:"status"`
}

func newReportView(r *models.Report, now time.Time) reportView {
	return reportView{Report: r, Status: r.Status(now)}
}

func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	report, err := h.reports.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, trust.ErrInvalidCoordinates),
			errors.Is(err, trust.ErrMissingImage),
			errors.Is(err, trust.ErrUnknownReportType):
			writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
		default:
			logrus.WithError(err).Error("create report")
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to create report"))
		}
		return
	}

	profile, err := h.profiles.AddPoints(r.Context(), userID, trust.SubmissionPoints, true)
	if err != nil {
		// The report exists; the missed award is worth a log line, not a 500.
		logrus.WithError(err).WithField("user", userID).Error("award submission points")
	}
	if profile != nil {
		profile.Rank = trust.RankFor(profile.Points)
	}

	logrus.WithField("report", report.ID).WithField("user", userID).Info("report created")
	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(map[string]interface{}{
		"report":  newReportView(report, time.Now().UTC()),
		"profile": profile,
	}))
}

// ListReports returns the active feed. Expiry is recomputed on every read;
// an expired report simply stops appearing here.
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.reports.ListRecent(r.Context(), ListLimit)
	if err != nil {
		logrus.WithError(err).Error("list reports")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to list reports"))
		return
	}

	now := time.Now().UTC()
	active := trust.FilterActive(reports, now)
	views := make([]reportView, 0, len(active))
	for _, rep := range active {
		views = append(views, newReportView(rep, now))
	}
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(views))
}

func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID := chi.URLParam(r, "reportId")

	report, err := h.reports.GetByID(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Report not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get report"))
		return
	}

	// Expired reports are gone from every consumer-facing query.
	now := time.Now().UTC()
	if !trust.IsVisible(report, now) {
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Report not found"))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(newReportView(report, now)))
}

// CheckVerify previews the verification decision for the caller's position,
// so the client can enable or disable the vote buttons.
func (h *ReportHandler) CheckVerify(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	reportID := chi.URLParam(r, "reportId")

	lat, okLat := parseFloatQuery(r, "lat")
	lng, okLng := parseFloatQuery(r, "lng")
	if !okLat || !okLng {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("lat and lng query parameters are required"))
		return
	}

	report, err := h.reports.GetByID(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Report not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get report"))
		return
	}

	ev, err := trust.Evaluate(report, lat, lng, userID, time.Now().UTC())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.VerifyReportResponse{
		Decision:       string(ev.Decision),
		DistanceMeters: ev.DistanceMeters,
	}))
}

// Verify applies a proximity-gated vote. Non-eligible decisions come back as
// successful responses with applied=false — they are outcomes, not errors.
func (h *ReportHandler) Verify(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}
	reportID := chi.URLParam(r, "reportId")

	var req models.VerifyReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid request body"))
		return
	}
	if errors := req.Validate(); len(errors) > 0 {
		writeJSON(w, http.StatusBadRequest, models.NewValidationErrorResponse(errors))
		return
	}

	report, err := h.reports.GetByID(r.Context(), reportID)
	if err != nil {
		if errors.Is(err, services.ErrReportNotFound) {
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Report not found"))
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to get report"))
		return
	}

	ev, err := trust.Evaluate(report, req.Latitude, req.Longitude, userID, time.Now().UTC())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse(err.Error()))
		return
	}

	if ev.Decision != trust.DecisionEligible {
		writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.VerifyReportResponse{
			Decision:       string(ev.Decision),
			DistanceMeters: ev.DistanceMeters,
		}))
		return
	}

	delta := trust.VerifiedCountDelta(req.Confirmed)
	updated, err := h.reports.AdjustVerifiedCount(r.Context(), reportID, delta)
	if err != nil {
		logrus.WithError(err).WithField("report", reportID).Error("adjust verified count")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to record verification"))
		return
	}

	// Both confirm and deny votes pay the same reward.
	if _, err := h.profiles.AddPoints(r.Context(), userID, trust.VerificationPoints, false); err != nil {
		logrus.WithError(err).WithField("user", userID).Error("award verification points")
	}

	logrus.WithField("report", reportID).WithField("user", userID).
		WithField("delta", delta).Info("report verified")
	writeJSON(w, http.StatusOK, models.NewSuccessResponse(models.VerifyReportResponse{
		Decision:       string(ev.Decision),
		DistanceMeters: ev.DistanceMeters,
		Applied:        true,
		VerifiedCount:  updated.VerifiedCount,
		PointsAwarded:  trust.VerificationPoints,
	}))
}
