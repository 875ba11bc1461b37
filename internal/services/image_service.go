package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/mamamaps/backend/internal/models"
)

var (
	ErrImageNotFound      = errors.New("image not found")
	ErrDeleteNotSupported = errors.New("image backend does not support deletion")
)

// ImageService hosts report photos and avatar uploads. The rest of the
// system only ever sees the returned URL; no image bytes cross the core.
type ImageService interface {
	Upload(ctx context.Context, userID, filename string, file io.Reader) (*models.ImageUploadResponse, error)
	Delete(ctx context.Context, userID, imageID string) error
}

// LocalImageService stores uploads on disk, served under /uploads/.
type LocalImageService struct {
	mu        sync.RWMutex
	uploadDir string
	images    map[string]*imageRecord // imageID -> image info
}

type imageRecord struct {
	ID       string
	Filename string
	Path     string
	UserID   string
}

func NewLocalImageService(uploadDir string) *LocalImageService {
	// Create upload directory if it doesn't exist
	os.MkdirAll(uploadDir, 0755)

	return &LocalImageService{
		uploadDir: uploadDir,
		images:    make(map[string]*imageRecord),
	}
}

func (s *LocalImageService) Upload(ctx context.Context, userID, filename string, file io.Reader) (*models.ImageUploadResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Generate unique ID for the image
	imageID := uuid.New().String()

	// Get file extension
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}

	newFilename := imageID + ext
	filePath := filepath.Join(s.uploadDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filePath) // Clean up on error
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	s.images[imageID] = &imageRecord{
		ID:       imageID,
		Filename: newFilename,
		Path:     filePath,
		UserID:   userID,
	}

	return &models.ImageUploadResponse{
		ID:       imageID,
		URL:      "/uploads/" + newFilename,
		Filename: newFilename,
	}, nil
}

func (s *LocalImageService) Delete(ctx context.Context, userID, imageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.images[imageID]
	if !exists {
		return ErrImageNotFound
	}

	// Only allow the owner to delete
	if record.UserID != userID {
		return ErrUnauthorized
	}

	if err := os.Remove(record.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	delete(s.images, imageID)
	return nil
}
