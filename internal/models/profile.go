package models

import (
	"time"
)

// Profile is the per-user document keyed by the auth subject id. Points and
// ReportsCount only ever move through ledger awards; Rank is derived from
// Points on read and never persisted.
type Profile struct {
	UserID       string    `json:"user_id" bson:"user_id"`
	Email        string    `json:"email" bson:"email"`
	Points       int       `json:"points" bson:"points"`
	ReportsCount int       `json:"reports_count" bson:"reports_count"`
	Rank         string    `json:"rank,omitempty" bson:"-"`
	DisplayName  string    `json:"display_name" bson:"display_name"`
	Username     string    `json:"username" bson:"username"`
	Phone        string    `json:"phone,omitempty" bson:"phone,omitempty"`
	DOB          string    `json:"dob,omitempty" bson:"dob,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty" bson:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// UpsertProfileRequest carries owner-editable metadata only. Points and
// reports_count are not settable through the profile surface.
type UpsertProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Username    *string `json:"username"`
	Phone       *string `json:"phone"`
	DOB         *string `json:"dob"`
	AvatarURL   *string `json:"avatar_url"`
}

// LeaderboardEntry is a profile trimmed to the public fields shown on the
// leaderboard screen.
type LeaderboardEntry struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	DisplayName  string `json:"display_name"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	Points       int    `json:"points"`
	ReportsCount int    `json:"reports_count"`
	Rank         string `json:"rank"`
}
