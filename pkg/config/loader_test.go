package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alanquantic/voltdrive/pkg/config"
)

type mailConfig struct {
	Domain string `env:"TEST_MAIL_DOMAIN" envDefault:"mg.example.com"`
	Port   int    `env:"TEST_MAIL_PORT" envDefault:"587"`
	Strict bool   `env:"TEST_MAIL_STRICT" envDefault:"true"`
}

type requiredConfig struct {
	Key string `env:"TEST_REQUIRED_KEY,required"`
}

type dotenvConfig struct {
	Value string `env:"TEST_DOTENV_VALUE"`
}

func TestLoad_Defaults(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	var cfg mailConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "mg.example.com", cfg.Domain)
	assert.Equal(t, 587, cfg.Port)
	assert.True(t, cfg.Strict)
}

func TestLoad_FromEnvironment(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)
	t.Setenv("TEST_MAIL_DOMAIN", "mailer.voltdrive.mx")
	t.Setenv("TEST_MAIL_PORT", "2525")
	t.Setenv("TEST_MAIL_STRICT", "false")

	var cfg mailConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "mailer.voltdrive.mx", cfg.Domain)
	assert.Equal(t, 2525, cfg.Port)
	assert.False(t, cfg.Strict)
}

func TestLoad_CachesPerType(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)
	t.Setenv("TEST_MAIL_DOMAIN", "first.example.com")

	var first mailConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("TEST_MAIL_DOMAIN", "second.example.com")
	var second mailConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first.example.com", second.Domain, "cached value must be served")

	config.Reset()
	var third mailConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second.example.com", third.Domain)
}

func TestLoad_MissingRequired(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
	assert.Panics(t, func() { config.MustLoad(&cfg) })
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *mailConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestLoadEnv(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TEST_DOTENV_VALUE=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TEST_DOTENV_VALUE") })

	require.NoError(t, config.LoadEnv(path))

	var cfg dotenvConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from-file", cfg.Value)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	config.Reset()
	t.Cleanup(config.Reset)

	err := config.LoadEnv(filepath.Join(t.TempDir(), "absent.env"))
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	assert.Panics(t, func() { config.MustLoadEnv(filepath.Join(t.TempDir(), "absent.env")) })
}
