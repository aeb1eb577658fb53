package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grnafinder/internal/classify"
)

func validConfig() Config {
	cfg := Default()
	cfg.Search.Genome = "/ref/genome.fa"
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 20, cfg.Guide.Length)
	assert.Equal(t, "high", cfg.Guide.Stringency)
	assert.Equal(t, 3, cfg.Search.Mismatches)
	assert.Equal(t, 0, cfg.Search.Bulge)
	assert.Equal(t, "cas-offinder", cfg.Search.CasOffinder)
	assert.Equal(t, "C", cfg.Search.Device)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.True(t, cfg.Output.Header)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		require.NoError(t, validConfig().Validate())
	})
	t.Run("length", func(t *testing.T) {
		cfg := validConfig()
		cfg.Guide.Length = 0
		require.Error(t, cfg.Validate())
	})
	t.Run("stringency", func(t *testing.T) {
		cfg := validConfig()
		cfg.Guide.Stringency = "medium"
		require.Error(t, cfg.Validate())
	})
	t.Run("genome required", func(t *testing.T) {
		cfg := validConfig()
		cfg.Search.Genome = ""
		require.Error(t, cfg.Validate())
	})
	t.Run("device", func(t *testing.T) {
		cfg := validConfig()
		cfg.Search.Device = "X"
		require.Error(t, cfg.Validate())
	})
	t.Run("format", func(t *testing.T) {
		cfg := validConfig()
		cfg.Output.Format = "xml"
		require.Error(t, cfg.Validate())
	})
	t.Run("negative mismatches", func(t *testing.T) {
		cfg := validConfig()
		cfg.Search.Mismatches = -1
		require.Error(t, cfg.Validate())
	})
}

func TestLoadLayersViper(t *testing.T) {
	v := viper.New()
	v.Set("guide.length", 16)
	v.Set("guide.stringency", "maximum")
	v.Set("search.genome", "/tmp/g.fa")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Guide.Length)
	assert.Equal(t, classify.Maximum, cfg.Stringency())
	// Unset keys keep their defaults.
	assert.Equal(t, 3, cfg.Search.Mismatches)
}

func TestLoadNil(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
