package storage

import (
	"fmt"

	"github.com/zatekoja/nursinghomefinder/internal/domain/providers"
	redisclient "github.com/zatekoja/nursinghomefinder/internal/infrastructure/clients/redis"
	"github.com/zatekoja/nursinghomefinder/pkg/config"
)

// NewFromConfig builds the configured storage backend. The returned close
// function releases backend resources and is never nil.
func NewFromConfig(cfg *config.Config) (providers.StorageProvider, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Backend {
	case "memory":
		return NewMemoryStorage(), noop, nil
	case "", "file":
		s, err := NewFileStorage(cfg.Storage.Dir)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case "redis":
		client, err := redisclient.NewClient(&cfg.Redis)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisStorage(client), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
