package models

import (
	"strings"
	"time"
)

// ChatMessage is one entry in the radio feed. Append-only: no edits, no
// deletes, no expiry.
type ChatMessage struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	SenderID        string    `json:"sender_id"`
	SenderName      string    `json:"sender_name"`
	SenderAvatarURL string    `json:"sender_avatar_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type PostMessageRequest struct {
	Text string `json:"text"`
}

func (r *PostMessageRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(r.Text) == "" {
		errors["text"] = "Message text is required"
	} else if len(r.Text) > 500 {
		errors["text"] = "Message must be at most 500 characters"
	}

	return errors
}
