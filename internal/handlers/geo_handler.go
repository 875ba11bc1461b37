package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mamamaps/backend/internal/models"
	"github.com/mamamaps/backend/internal/services"
)

type GeoHandler struct {
	geocoding *services.GeocodingService
}

func NewGeoHandler(geocoding *services.GeocodingService) *GeoHandler {
	return &GeoHandler{geocoding: geocoding}
}

// Places resolves a free-text search query to coordinates.
func (h *GeoHandler) Places(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Query parameter 'query' is required"))
		return
	}

	place, err := h.geocoding.FindPlace(r.Context(), query)
	if err != nil {
		h.writeGeoError(w, err, "find place")
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(place))
}

// Reverse resolves coordinates to the nearest formatted address.
func (h *GeoHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	lat, ok := parseFloatQuery(r, "lat")
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Query parameter 'lat' is required"))
		return
	}
	lng, ok := parseFloatQuery(r, "lng")
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Query parameter 'lng' is required"))
		return
	}
	if !models.ValidCoordinates(lat, lng) {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid coordinates"))
		return
	}

	address, err := h.geocoding.ReverseGeocode(r.Context(), lat, lng)
	if err != nil {
		h.writeGeoError(w, err, "reverse geocode")
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(map[string]string{"address": address}))
}

// Route returns the driving distance and duration between two points.
func (h *GeoHandler) Route(w http.ResponseWriter, r *http.Request) {
	originLat, ok := parseFloatQuery(r, "origin_lat")
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Query parameter 'origin_lat' is required"))
		return
	}
	originLng, ok := parseFloatQuery(r, "origin_lng")
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Query parameter 'origin_lng' is required"))
		return
	}
	destLat, ok := parseFloatQuery(r, "dest_lat")
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Query parameter 'dest_lat' is required"))
		return
	}
	destLng, ok := parseFloatQuery(r, "dest_lng")
	if !ok {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Query parameter 'dest_lng' is required"))
		return
	}
	if !models.ValidCoordinates(originLat, originLng) || !models.ValidCoordinates(destLat, destLng) {
		writeJSON(w, http.StatusBadRequest, models.NewErrorResponse("Invalid coordinates"))
		return
	}

	route, err := h.geocoding.Route(r.Context(), originLat, originLng, destLat, destLng)
	if err != nil {
		h.writeGeoError(w, err, "route")
		return
	}

	writeJSON(w, http.StatusOK, models.NewSuccessResponse(route))
}

func (h *GeoHandler) writeGeoError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, services.ErrGeocodingNotConfigured):
		writeJSON(w, http.StatusServiceUnavailable, models.NewErrorResponse("Geocoding is not configured"))
	case errors.Is(err, services.ErrNoResults):
		writeJSON(w, http.StatusNotFound, models.NewErrorResponse("No results found"))
	default:
		logrus.WithError(err).WithField("op", op).Error("maps api request failed")
		writeJSON(w, http.StatusBadGateway, models.NewErrorResponse("Geocoding request failed"))
	}
}
