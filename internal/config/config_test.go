package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mapleads.db", cfg.Store.Path)
	assert.Equal(t, "models/gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, 1.0, cfg.Gemini.RequestsPerSec)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 25, cfg.Collector.DefaultTarget)
	assert.Equal(t, 500, cfg.Collector.MaxTarget)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MAPLEADS_GEMINI_API_KEY", "test-key")
	t.Setenv("MAPLEADS_STORE_PATH", "/tmp/leads.db")
	t.Setenv("MAPLEADS_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-key", cfg.Gemini.Key)
	assert.Equal(t, "/tmp/leads.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouting", Format: "json"})
	require.Error(t, err)
}
