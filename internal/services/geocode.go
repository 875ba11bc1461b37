package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	ErrGeocodingNotConfigured = errors.New("geocoding not configured")
	ErrNoResults              = errors.New("no results")
)

// GeocodingService wraps the Google Maps Web Service APIs. The trust core
// never talks to it; handlers resolve text to coordinates before anything
// reaches the core.
type GeocodingService struct {
	APIKey     string
	HTTPClient *http.Client

	GeocodeEndpoint    string
	DirectionsEndpoint string
}

type Place struct {
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type RouteInfo struct {
	DistanceText string `json:"distance"`
	DurationText string `json:"duration"`
}

func NewGeocodingService(apiKey string) *GeocodingService {
	return &GeocodingService{
		APIKey:             apiKey,
		GeocodeEndpoint:    "https://maps.googleapis.com/maps/api/geocode/json",
		DirectionsEndpoint: "https://maps.googleapis.com/maps/api/directions/json",
		HTTPClient: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// FindPlace resolves a free-text query to coordinates.
func (g *GeocodingService) FindPlace(ctx context.Context, query string) (*Place, error) {
	if g.APIKey == "" {
		return nil, ErrGeocodingNotConfigured
	}

	params := url.Values{}
	params.Set("address", query)
	params.Set("key", g.APIKey)

	var out geocodeResponse
	if err := g.getJSON(ctx, g.GeocodeEndpoint, params, &out); err != nil {
		return nil, err
	}
	if out.Status != "OK" || len(out.Results) == 0 {
		return nil, ErrNoResults
	}

	r := out.Results[0]
	return &Place{
		Name:      query,
		Address:   r.FormattedAddress,
		Latitude:  r.Geometry.Location.Lat,
		Longitude: r.Geometry.Location.Lng,
	}, nil
}

// ReverseGeocode resolves coordinates to the nearest formatted address.
func (g *GeocodingService) ReverseGeocode(ctx context.Context, lat, lng float64) (string, error) {
	if g.APIKey == "" {
		return "", ErrGeocodingNotConfigured
	}

	params := url.Values{}
	params.Set("latlng", formatLatLng(lat, lng))
	params.Set("key", g.APIKey)

	var out geocodeResponse
	if err := g.getJSON(ctx, g.GeocodeEndpoint, params, &out); err != nil {
		return "", err
	}
	if out.Status != "OK" || len(out.Results) == 0 {
		return "", ErrNoResults
	}
	return out.Results[0].FormattedAddress, nil
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		Legs []struct {
			Distance struct {
				Text string `json:"text"`
			} `json:"distance"`
			Duration struct {
				Text string `json:"text"`
			} `json:"duration"`
		} `json:"legs"`
	} `json:"routes"`
}

// Route computes a driving route and returns the human-readable distance and
// duration of its first leg, which is all the route card renders.
func (g *GeocodingService) Route(ctx context.Context, originLat, originLng, destLat, destLng float64) (*RouteInfo, error) {
	if g.APIKey == "" {
		return nil, ErrGeocodingNotConfigured
	}

	params := url.Values{}
	params.Set("origin", formatLatLng(originLat, originLng))
	params.Set("destination", formatLatLng(destLat, destLng))
	params.Set("mode", "driving")
	params.Set("key", g.APIKey)

	var out directionsResponse
	if err := g.getJSON(ctx, g.DirectionsEndpoint, params, &out); err != nil {
		return nil, err
	}
	if out.Status != "OK" || len(out.Routes) == 0 || len(out.Routes[0].Legs) == 0 {
		return nil, ErrNoResults
	}

	leg := out.Routes[0].Legs[0]
	return &RouteInfo{
		DistanceText: leg.Distance.Text,
		DurationText: leg.Duration.Text,
	}, nil
}

func (g *GeocodingService) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}

	client := g.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 8 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("maps api http %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func formatLatLng(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lng, 'f', -1, 64)
}
