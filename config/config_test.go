package config

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"CALHEAT_DATA_DIR", "CALHEAT_SERVER_PORT", "CALHEAT_API_KEY", "CALHEAT_TIMEZONE", "CALHEAT_DEBUG"} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	// 空文字の環境変数はデフォルト値で置き換えられる
	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "", cfg.APIKey)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.False(t, cfg.Debug)
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("CALHEAT_DATA_DIR", "/var/lib/calheat")
	t.Setenv("CALHEAT_SERVER_PORT", "9090")
	t.Setenv("CALHEAT_API_KEY", "secret")
	t.Setenv("CALHEAT_TIMEZONE", "Asia/Tokyo")
	t.Setenv("CALHEAT_DEBUG", "true")

	cfg, err := Load(afero.NewMemMapFs(), "")
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/calheat", cfg.DataDir)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "secret", cfg.APIKey)
	assert.True(t, cfg.Debug)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CALHEAT_SERVER_PORT", "7070")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".env", []byte("CALHEAT_API_KEY=from-file\nCALHEAT_SERVER_PORT=1111\n"), 0644))

	cfg, err := Load(fs, ".env")
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.APIKey)
	// 環境変数が .env より優先される
	assert.Equal(t, "7070", cfg.Port)
}

func TestLoad_MissingDotEnv(t *testing.T) {
	clearEnv(t)
	_, err := Load(afero.NewMemMapFs(), ".env")
	assert.NoError(t, err)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	clearEnv(t)
	t.Setenv("CALHEAT_TIMEZONE", "Mars/Olympus")

	_, err := Load(afero.NewMemMapFs(), "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Port: "8080"}
	assert.True(t, errors.Is(cfg.Validate(), ErrAPIKeyRequired))

	cfg.APIKey = "secret"
	assert.NoError(t, cfg.Validate())
}
