package geolocation

import (
	"fmt"
	"strings"

	"github.com/zatekoja/nursinghomefinder/internal/domain/providers"
	"github.com/zatekoja/nursinghomefinder/pkg/config"
)

// NewFromConfig builds the configured reverse geocoder. cache may be nil.
func NewFromConfig(cfg *config.GeolocationConfig, cache providers.StorageProvider) (providers.GeolocationProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "mock":
		return NewMockGeolocationProvider(), nil
	case "google":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("GEOLOCATION_API_KEY is required for the google provider")
		}
		return NewGoogleGeolocationProviderWithOptions(cfg.APIKey, cache, cfg.BaseURL, nil), nil
	default:
		return nil, fmt.Errorf("unknown geolocation provider %q", cfg.Provider)
	}
}
