package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mamamaps/backend/internal/models"
)

// CloudinaryImageService uploads images through Cloudinary's unsigned upload
// API and returns the hosted secure URL. The upload is bounded so a stalled
// transfer surfaces as an error instead of hanging the submit flow.
type CloudinaryImageService struct {
	CloudName    string
	UploadPreset string
	HTTPClient   *http.Client
	Endpoint     string
}

type cloudinaryUploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewCloudinaryImageService(cloudName, uploadPreset string) *CloudinaryImageService {
	return &CloudinaryImageService{
		CloudName:    cloudName,
		UploadPreset: uploadPreset,
		Endpoint:     fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", cloudName),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (s *CloudinaryImageService) Upload(ctx context.Context, userID, filename string, file io.Reader) (*models.ImageUploadResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("cloudinary: read upload: %w", err)
	}
	if err := writer.WriteField("upload_preset", s.UploadPreset); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	client := s.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: upload: %w", err)
	}
	defer resp.Body.Close()

	var out cloudinaryUploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("cloudinary: decode response: %w", err)
	}
	if out.SecureURL == "" {
		msg := "unknown error"
		if out.Error != nil {
			msg = out.Error.Message
		}
		return nil, fmt.Errorf("cloudinary: upload failed: %s", msg)
	}

	id := out.PublicID
	if id == "" {
		id = uuid.New().String()
	}
	return &models.ImageUploadResponse{
		ID:       id,
		URL:      out.SecureURL,
		Filename: filename,
	}, nil
}

// Delete is unavailable for unsigned uploads; removal happens through the
// Cloudinary console or a signed admin-API job.
func (s *CloudinaryImageService) Delete(ctx context.Context, userID, imageID string) error {
	return ErrDeleteNotSupported
}
