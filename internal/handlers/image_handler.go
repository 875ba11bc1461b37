package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/mamamaps/backend/internal/middleware"
	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/services"
)

type ImageHandler struct {
	imageService services.ImageService
	maxSizeMB    int64
}

func NewImageHandler(imageService services.ImageService, maxSizeMB int64) *ImageHandler {
	return &ImageHandler{
		imageService: imageService,
		maxSizeMB:    maxSizeMB,
	}
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	// Limit request body size
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSizeMB*1024*1024)

	if err := r.ParseMultipartForm(h.maxSizeMB * 1024 * 1024); err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("File too large or invalid form data"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("No image file provided"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !isValidImageType(contentType) {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid image type. Allowed: JPEG, PNG, GIF, WebP"))
		return
	}

	response, err := h.imageService.Upload(r.Context(), userID, header.Filename, file)
	if err != nil {
		logrus.WithError(err).WithField("user", userID).Error("upload image")
		writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to upload image"))
		return
	}

	writeJSON(w, http.StatusCreated, models.NewSuccessResponse(response))
}

func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeJSON(w, http.StatusUnauthorized, models.NewErrorResponse("Unauthorized"))
		return
	}

	imageID := chi.URLParam(r, "imageId")

	err := h.imageService.Delete(r.Context(), userID, imageID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrImageNotFound):
			writeJSON(w, http.StatusNotFound, models.NewErrorResponse("Image not found"))
		case errors.Is(err, services.ErrUnauthorized):
			writeJSON(w, http.StatusForbidden, models.NewErrorResponse("Not authorized to delete this image"))
		case errors.Is(err, services.ErrDeleteNotSupported):
			writeJSON(w, http.StatusNotImplemented, models.NewErrorResponse("Image backend does not support deletion"))
		default:
			writeJSON(w, http.StatusInternalServerError, models.NewErrorResponse("Failed to delete image"))
		}
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"message": "Image deleted successfully"}))
}

func isValidImageType(contentType string) bool {
	validTypes := map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	return validTypes[contentType]
}
