package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/storage"
)

// ChatService is the radio feed: append-only, newest first. No edits, no
// deletes, no expiry.
type ChatService interface {
	Post(ctx context.Context, senderID, senderName, senderAvatarURL, text string) (*models.ChatMessage, error)
	ListRecent(ctx context.Context, limit int) ([]*models.ChatMessage, error)
}

// LocalChatService is the JSON-file-backed variant.
type LocalChatService struct {
	mu       sync.Mutex
	store    *storage.JSONStore
	messages []*models.ChatMessage
}

func NewLocalChatService(dataDir string) (*LocalChatService, error) {
	store, err := storage.NewJSONStore(dataDir, "chat.json")
	if err != nil {
		return nil, err
	}

	s := &LocalChatService{store: store}
	if err := store.Load(&s.messages); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *LocalChatService) Post(ctx context.Context, senderID, senderName, senderAvatarURL, text string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		ID:              uuid.New().String(),
		Text:            text,
		SenderID:        senderID,
		SenderName:      senderName,
		SenderAvatarURL: senderAvatarURL,
		CreatedAt:       time.Now().UTC(),
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	_ = s.store.Save(s.messages)
	s.mu.Unlock()

	copy := *msg
	return &copy, nil
}

func (s *LocalChatService) ListRecent(ctx context.Context, limit int) ([]*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]*models.ChatMessage, 0, len(s.messages))
	for _, m := range s.messages {
		copy := *m
		results = append(results, &copy)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
