package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

func minimalConfig() *StructuredConfig {
	return &StructuredConfig{
		App:     App{TokenSignKey: "key", TokenIssuer: "issuer"},
		Storage: Storage{DB: DB{DSN: "postgres://localhost/notes"}},
	}
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestBuild_EmptyBuilderFailsValidation(t *testing.T) {
	cfg, err := newConfigBuilder().build()

	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestBuild_EarlierSourceWins(t *testing.T) {
	b := newConfigBuilder()
	first := minimalConfig()
	first.Server.HTTPAddress = "localhost:1111"
	b.configs = append(b.configs,
		first,
		&StructuredConfig{Server: Server{HTTPAddress: "localhost:2222"}, App: App{Version: "1.0.0"}},
	)

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, "localhost:1111", cfg.Server.HTTPAddress)
	assert.Equal(t, "1.0.0", cfg.App.Version, "later sources fill fields left empty")
}

func TestBuild_AppliesDefaults(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, minimalConfig())

	cfg, err := b.build()

	require.NoError(t, err)
	assert.Equal(t, DefaultHTTPAddress, cfg.Server.HTTPAddress)
	assert.Equal(t, DefaultRequestTimeout, cfg.Server.RequestTimeout)
	assert.Equal(t, DefaultAssetsDir, cfg.Storage.Assets.Dir)
	assert.Equal(t, DefaultRedisChannel, cfg.Realtime.RedisChannel)
	assert.Equal(t, DefaultSendBuffer, cfg.Realtime.SendBuffer)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

func TestWithJSON_NoPathIsNoop(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})

	b.withJSON()

	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_LoadsFile(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"app":     map[string]any{"token_sign_key": "k", "token_issuer": "i"},
		"storage": map[string]any{"db": map[string]any{"dsn": "postgres://json/notes"}},
		"server":  map[string]any{"request_timeout": "5s"},
	})

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})

	cfg, err := b.withJSON().build()

	require.NoError(t, err)
	assert.Equal(t, "postgres://json/notes", cfg.Storage.DB.DSN)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
}

func TestWithJSON_MissingFileSetsError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/does/not/exist.json"})

	_, err := b.withJSON().build()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading a json file")
}

// ── validate ──────────────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *StructuredConfig)
		wantErr error
	}{
		{name: "minimal config is valid", mutate: func(*StructuredConfig) {}},
		{name: "missing sign key", mutate: func(c *StructuredConfig) { c.App.TokenSignKey = "" }, wantErr: ErrInvalidAppConfigs},
		{name: "missing issuer", mutate: func(c *StructuredConfig) { c.App.TokenIssuer = "" }, wantErr: ErrInvalidAppConfigs},
		{name: "missing dsn", mutate: func(c *StructuredConfig) { c.Storage.DB.DSN = "" }, wantErr: ErrInvalidStorageConfigs},
		{
			name:    "s3 endpoint without bucket",
			mutate:  func(c *StructuredConfig) { c.Storage.Assets.S3 = S3{Endpoint: "minio:9000", AccessKey: "a", SecretKey: "s"} },
			wantErr: ErrInvalidStorageConfigs,
		},
		{name: "negative timeout", mutate: func(c *StructuredConfig) { c.Server.RequestTimeout = -time.Second }, wantErr: ErrInvalidServerConfigs},
		{name: "negative buffer", mutate: func(c *StructuredConfig) { c.Realtime.SendBuffer = -1 }, wantErr: ErrInvalidRealtimeConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minimalConfig()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

// ── GetStructuredConfig ───────────────────────────────────────────────────────

func TestGetStructuredConfig_FromEnv(t *testing.T) {
	withArgs(t)
	t.Setenv("APP_TOKEN_SIGN_KEY", "env-key")
	t.Setenv("APP_TOKEN_ISSUER", "env-issuer")
	t.Setenv("STORAGE_DB_DATABASE_URI", "postgres://env/notes")

	cfg, err := GetStructuredConfig()

	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.App.TokenSignKey)
	assert.Equal(t, "postgres://env/notes", cfg.Storage.DB.DSN)
	assert.Equal(t, DefaultHTTPAddress, cfg.Server.HTTPAddress)
}
