package geolocation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/domain/providers"
	"github.com/zatekoja/nursinghomefinder/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/nursinghomefinder/pkg/errors"
)

const (
	googleGeocodeURL   = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultHTTPTimeout = 8 * time.Second
	reverseCachePrefix = "geo:reverse:"
)

// GoogleGeolocationProvider reverse geocodes through the Google Geocoding API
type GoogleGeolocationProvider struct {
	apiKey     string
	httpClient *http.Client
	cache      providers.StorageProvider
	baseURL    string
}

var _ providers.GeolocationProvider = (*GoogleGeolocationProvider)(nil)

// NewGoogleGeolocationProvider creates a new Google geolocation provider.
// cache may be nil.
func NewGoogleGeolocationProvider(apiKey string, cache providers.StorageProvider) *GoogleGeolocationProvider {
	return NewGoogleGeolocationProviderWithOptions(apiKey, cache, googleGeocodeURL, nil)
}

// NewGoogleGeolocationProviderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGoogleGeolocationProviderWithOptions(apiKey string, cache providers.StorageProvider, baseURL string, httpClient *http.Client) *GoogleGeolocationProvider {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleGeocodeURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleGeolocationProvider{
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
	}
}

// ReverseGeocode converts coordinates to an address
func (g *GoogleGeolocationProvider) ReverseGeocode(ctx context.Context, lat, lng float64) (*providers.GeocodedAddress, error) {
	cacheKey := reverseCachePrefix + hashKey(fmt.Sprintf("%.5f,%.5f", lat, lng))
	if g.cache != nil {
		if cached, err := g.cache.Get(ctx, cacheKey); err == nil && len(cached) > 0 {
			var address providers.GeocodedAddress
			if err := sonic.Unmarshal(cached, &address); err == nil && address.Coordinates.Valid() {
				return &address, nil
			}
		}
	}

	resp, err := g.doGeocodeRequest(ctx, url.Values{"latlng": []string{fmt.Sprintf("%f,%f", lat, lng)}})
	if err != nil {
		return nil, err
	}

	if len(resp.Results) == 0 {
		return nil, apperrors.NewGeolocationError("no results for coordinates", nil)
	}

	result := resp.Results[0]
	address := providers.GeocodedAddress{
		FormattedAddress: result.FormattedAddress,
		Street:           buildStreet(result.AddressComponents),
		City:             component(result.AddressComponents, "locality", "postal_town", "administrative_area_level_2"),
		State:            shortComponent(result.AddressComponents, "administrative_area_level_1"),
		ZipCode:          component(result.AddressComponents, "postal_code"),
		Country:          component(result.AddressComponents, "country"),
		Coordinates: entities.Coordinates{
			Lat: result.Geometry.Location.Lat,
			Lng: result.Geometry.Location.Lng,
		},
	}

	if g.cache != nil {
		if payload, err := sonic.Marshal(address); err == nil {
			if err := g.cache.Set(ctx, cacheKey, payload); err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to cache reverse geocode")
			}
		}
	}

	return &address, nil
}

func (g *GoogleGeolocationProvider) doGeocodeRequest(ctx context.Context, params url.Values) (*googleGeocodeResponse, error) {
	if g.apiKey == "" {
		return nil, apperrors.NewGeolocationError("google maps api key is required", nil)
	}

	ctx, span := observability.StartSpan(ctx, "geolocation.ReverseGeocode")
	defer span.End()

	params.Set("key", g.apiKey)
	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewGeolocationError("failed to build geocode request", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		observability.RecordError(span, err)
		return nil, apperrors.NewGeolocationError("geocode request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewGeolocationError(fmt.Sprintf("geocode request returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewGeolocationError("failed to read geocode response", err)
	}

	var payload googleGeocodeResponse
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, apperrors.NewGeolocationError("failed to decode geocode response", err)
	}

	if payload.Status != "OK" {
		if payload.ErrorMessage != "" {
			return nil, apperrors.NewGeolocationError(fmt.Sprintf("geocode request failed: %s - %s", payload.Status, payload.ErrorMessage), nil)
		}
		return nil, apperrors.NewGeolocationError(fmt.Sprintf("geocode request failed: %s", payload.Status), nil)
	}

	return &payload, nil
}

func hashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

func component(components []googleAddressComponent, primary string, fallback ...string) string {
	if comp, ok := findComponent(components, primary, fallback...); ok {
		return comp.LongName
	}
	return ""
}

// shortComponent prefers the abbreviated form, e.g. "IL" for Illinois
func shortComponent(components []googleAddressComponent, primary string) string {
	comp, ok := findComponent(components, primary)
	if !ok {
		return ""
	}
	if comp.ShortName != "" {
		return comp.ShortName
	}
	return comp.LongName
}

func findComponent(components []googleAddressComponent, primary string, fallback ...string) (googleAddressComponent, bool) {
	for _, want := range append([]string{primary}, fallback...) {
		for _, comp := range components {
			if containsType(comp.Types, want) {
				return comp, true
			}
		}
	}
	return googleAddressComponent{}, false
}

func buildStreet(components []googleAddressComponent) string {
	streetNumber := component(components, "street_number")
	route := component(components, "route")
	if streetNumber != "" && route != "" {
		return streetNumber + " " + route
	}
	if route != "" {
		return route
	}
	return streetNumber
}

func containsType(types []string, target string) bool {
	for _, t := range types {
		if t == target {
			return true
		}
	}
	return false
}

type googleGeocodeResponse struct {
	Status       string                `json:"status"`
	ErrorMessage string                `json:"error_message,omitempty"`
	Results      []googleGeocodeResult `json:"results"`
}

type googleGeocodeResult struct {
	FormattedAddress  string                   `json:"formatted_address"`
	AddressComponents []googleAddressComponent `json:"address_components"`
	Geometry          googleGeometry           `json:"geometry"`
}

type googleAddressComponent struct {
	LongName  string   `json:"long_name"`
	ShortName string   `json:"short_name"`
	Types     []string `json:"types"`
}

type googleGeometry struct {
	Location googleLocation `json:"location"`
}

type googleLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
