package secrets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply_Disabled(t *testing.T) {
	res, err := Apply(context.Background(), VaultConfig{})
	require.NoError(t, err)
	assert.False(t, res.Enabled)
}

func TestApply_Incomplete(t *testing.T) {
	_, err := Apply(context.Background(), VaultConfig{Enabled: true, Addr: "http://vault"})
	assert.Error(t, err)
}

func TestApply_KV2(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/secret/data/nursinghome", r.URL.Path)
		assert.Equal(t, "token", r.Header.Get("X-Vault-Token"))
		_, _ = w.Write([]byte(`{"data": {"data": {
			"NHF_TEST_API_KEY": "abc123",
			"NHF_TEST_PAGE_SIZE": 9,
			"NHF_TEST_EXISTING": "from-vault"
		}}}`))
	}))
	defer server.Close()

	t.Setenv("NHF_TEST_EXISTING", "from-env")
	t.Cleanup(func() {
		_ = os.Unsetenv("NHF_TEST_API_KEY")
		_ = os.Unsetenv("NHF_TEST_PAGE_SIZE")
	})

	res, err := Apply(context.Background(), VaultConfig{
		Enabled:   true,
		Addr:      server.URL + "/",
		Token:     "token",
		Mount:     "secret",
		Path:      "nursinghome",
		KVVersion: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Loaded)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, "abc123", os.Getenv("NHF_TEST_API_KEY"))
	assert.Equal(t, "9", os.Getenv("NHF_TEST_PAGE_SIZE"))
	assert.Equal(t, "from-env", os.Getenv("NHF_TEST_EXISTING"))
}

func TestApply_KV1AndErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/kv/ok":
			_, _ = w.Write([]byte(`{"data": {"NHF_TEST_KV1": "yes"}}`))
		case "/v1/kv/shape":
			_, _ = w.Write([]byte(`{"nope": true}`))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()
	t.Cleanup(func() { _ = os.Unsetenv("NHF_TEST_KV1") })

	base := VaultConfig{Enabled: true, Addr: server.URL, Token: "t", Mount: "kv", KVVersion: 1}

	cfg := base
	cfg.Path = "ok"
	res, err := Apply(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Loaded)
	assert.Equal(t, "yes", os.Getenv("NHF_TEST_KV1"))

	cfg.Path = "shape"
	_, err = Apply(context.Background(), cfg)
	assert.Error(t, err)

	cfg.Path = "denied"
	_, err = Apply(context.Background(), cfg)
	assert.Error(t, err)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("VAULT_ENABLED", "TRUE")
	t.Setenv("VAULT_KV_VERSION", "1")
	t.Setenv("VAULT_TIMEOUT_MS", "250")
	t.Setenv("VAULT_MOUNT", "")

	cfg := ConfigFromEnv()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 1, cfg.KVVersion)
	assert.Equal(t, "secret", cfg.Mount)
	assert.Equal(t, int64(250), cfg.Timeout.Milliseconds())
}
