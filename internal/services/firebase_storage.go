package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"

	"github.com/mamamaps/backend/internal/models"
)

// FirebaseStorageImageService hosts images in the app's Firebase Storage
// bucket, minting the token-authenticated download URLs the Firebase client
// SDKs understand.
type FirebaseStorageImageService struct {
	gcs    *storage.Client
	bucket string
}

// NewFirebaseStorageImageService creates a storage client once at server
// startup.
func NewFirebaseStorageImageService(ctx context.Context, bucket string) (*FirebaseStorageImageService, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase storage: client: %w", err)
	}
	return &FirebaseStorageImageService{
		gcs:    client,
		bucket: bucket,
	}, nil
}

func (s *FirebaseStorageImageService) Upload(ctx context.Context, userID, filename string, file io.Reader) (*models.ImageUploadResponse, error) {
	imageID := uuid.New().String()
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	objectName := fmt.Sprintf("reports/%s%s", imageID, ext)
	token := newDownloadToken()

	w := s.gcs.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.Metadata = map[string]string{
		"userId":                        userID,
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := io.Copy(w, file); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("firebase storage: write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("firebase storage: finalize: %w", err)
	}

	return &models.ImageUploadResponse{
		ID:       imageID,
		URL:      firebaseDownloadURL(s.bucket, objectName, token),
		Filename: objectName,
	}, nil
}

func (s *FirebaseStorageImageService) Delete(ctx context.Context, userID, imageID string) error {
	// Uploads are keyed reports/<id>.<ext>; the extension is unknown here, so
	// probe the common ones.
	b := s.gcs.Bucket(s.bucket)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".webp", ".gif"} {
		obj := b.Object("reports/" + imageID + ext)
		attrs, err := obj.Attrs(ctx)
		if err == storage.ErrObjectNotExist {
			continue
		}
		if err != nil {
			return fmt.Errorf("firebase storage: attrs: %w", err)
		}
		if attrs.Metadata["userId"] != userID {
			return ErrUnauthorized
		}
		return obj.Delete(ctx)
	}
	return ErrImageNotFound
}

func newDownloadToken() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), os.Getpid())
}

func firebaseDownloadURL(bucket, objectName, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket,
		url.PathEscape(objectName),
		url.QueryEscape(token),
	)
}
