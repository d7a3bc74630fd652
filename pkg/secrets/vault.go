// Package secrets loads credentials such as GEOLOCATION_API_KEY and
// SENTRY_DSN from a Vault KV secret into the environment before
// configuration is read.
package secrets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// VaultConfig describes where the secret lives
type VaultConfig struct {
	Enabled   bool
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	KVVersion int
	Timeout   time.Duration
	// Overwrite replaces variables that are already set
	Overwrite bool
}

// Result summarizes what was applied
type Result struct {
	Enabled bool
	Path    string
	Loaded  int
	Skipped int
}

// ConfigFromEnv reads VAULT_* variables. Vault is off unless VAULT_ENABLED=true.
func ConfigFromEnv() VaultConfig {
	cfg := VaultConfig{
		Enabled:   strings.EqualFold(os.Getenv("VAULT_ENABLED"), "true"),
		Addr:      os.Getenv("VAULT_ADDR"),
		Token:     os.Getenv("VAULT_TOKEN"),
		Namespace: os.Getenv("VAULT_NAMESPACE"),
		Mount:     envOr("VAULT_MOUNT", "secret"),
		Path:      os.Getenv("VAULT_PATH"),
		KVVersion: 2,
		Timeout:   5 * time.Second,
		Overwrite: strings.EqualFold(os.Getenv("VAULT_OVERWRITE"), "true"),
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_KV_VERSION")); err == nil {
		cfg.KVVersion = v
	}
	if ms, err := strconv.Atoi(os.Getenv("VAULT_TIMEOUT_MS")); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

// Apply fetches the secret and exports each field as an environment variable
func Apply(ctx context.Context, cfg VaultConfig) (Result, error) {
	res := Result{Enabled: cfg.Enabled, Path: cfg.Path}
	if !cfg.Enabled {
		return res, nil
	}
	if cfg.Addr == "" || cfg.Token == "" || cfg.Path == "" {
		return res, fmt.Errorf("vault configuration incomplete (VAULT_ADDR, VAULT_TOKEN, VAULT_PATH)")
	}

	body, err := fetch(ctx, cfg)
	if err != nil {
		return res, err
	}

	dataPath := "data.data"
	if cfg.KVVersion == 1 {
		dataPath = "data"
	}
	data := gjson.GetBytes(body, dataPath)
	if !data.IsObject() {
		return res, fmt.Errorf("vault response missing %s for KV v%d", dataPath, cfg.KVVersion)
	}

	var setErr error
	data.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if !cfg.Overwrite && os.Getenv(name) != "" {
			res.Skipped++
			return true
		}
		if setErr = os.Setenv(name, stringify(value)); setErr != nil {
			return false
		}
		res.Loaded++
		return true
	})
	return res, setErr
}

func fetch(ctx context.Context, cfg VaultConfig) ([]byte, error) {
	addr := strings.TrimRight(cfg.Addr, "/")
	mount := strings.Trim(cfg.Mount, "/")
	path := strings.TrimLeft(cfg.Path, "/")
	reqURL := fmt.Sprintf("%s/v1/%s/data/%s", addr, mount, path)
	if cfg.KVVersion == 1 {
		reqURL = fmt.Sprintf("%s/v1/%s/%s", addr, mount, path)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Vault-Token", cfg.Token)
	if cfg.Namespace != "" {
		req.Header.Set("X-Vault-Namespace", cfg.Namespace)
	}

	client := &http.Client{Timeout: cfg.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vault request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("vault fetch failed: %s %s", resp.Status, strings.TrimSpace(string(body)))
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("vault response is not valid JSON")
	}
	return body, nil
}

// stringify keeps strings verbatim and renders everything else as raw JSON
func stringify(v gjson.Result) string {
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Null:
		return ""
	default:
		return v.Raw
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
