package models

import (
	"math"
	"time"
)

// ReportType is the closed set of hazards users can report. Unknown types
// are rejected at the create boundary instead of falling through to a
// default map pin.
type ReportType string

const (
	TypePolicePresence ReportType = "police-presence"
	TypeTrash          ReportType = "trash"
	TypePothole        ReportType = "pothole"
)

func (t ReportType) Valid() bool {
	switch t {
	case TypePolicePresence, TypeTrash, TypePothole:
		return true
	}
	return false
}

const (
	ReportStatusActive  = "active"
	ReportStatusExpired = "expired"
)

// Report is a time-bounded, geolocated hazard annotation with an attached
// photo. Status is derived from ExpiresAt at read time and never stored.
type Report struct {
	ID            string     `json:"id"`
	Type          ReportType `json:"type"`
	Latitude      float64    `json:"latitude"`
	Longitude     float64    `json:"longitude"`
	ImageURL      string     `json:"image_url"`
	ReporterID    string     `json:"reporter_id"`
	CreatedAt     time.Time  `json:"created_at"`
	ExpiresAt     time.Time  `json:"expires_at"`
	VerifiedCount int        `json:"verified_count"`
}

// Status reports active/expired relative to now. Exclusive at the boundary:
// a report whose window elapses exactly at now is already expired.
func (r *Report) Status(now time.Time) string {
	if r.ExpiresAt.After(now) {
		return ReportStatusActive
	}
	return ReportStatusExpired
}

type CreateReportRequest struct {
	Type      ReportType `json:"type"`
	Latitude  float64    `json:"latitude"`
	Longitude float64    `json:"longitude"`
	ImageURL  string     `json:"image_url"`
}

type VerifyReportRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Confirmed bool    `json:"confirmed"`
}

// VerifyReportResponse carries the verifier-side outcome. Non-eligible
// decisions are valid terminal states, not errors; the client renders them
// as disabled affordances.
type VerifyReportResponse struct {
	Decision       string  `json:"decision"`
	DistanceMeters float64 `json:"distance_meters"`
	Applied        bool    `json:"applied"`
	VerifiedCount  int     `json:"verified_count,omitempty"`
	PointsAwarded  int     `json:"points_awarded,omitempty"`
}

func (r *CreateReportRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if !r.Type.Valid() {
		errors["type"] = "Unknown report type"
	}
	if !ValidCoordinates(r.Latitude, r.Longitude) {
		errors["location"] = "Location coordinates are required"
	}
	if r.ImageURL == "" {
		errors["image_url"] = "Image reference is required"
	}

	return errors
}

func (r *VerifyReportRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if !ValidCoordinates(r.Latitude, r.Longitude) {
		errors["location"] = "Location coordinates are required"
	}

	return errors
}

// ValidCoordinates reports whether lat/lng form a finite, in-range WGS84
// pair. NaN and infinities fail rather than being coerced.
func ValidCoordinates(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
