package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultValues(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.HTTP.Port)
	assert.Equal(t, "release", cfg.HTTP.Mode)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, "", cfg.Templates.File)
	assert.Equal(t, "first", cfg.Templates.Default)
	assert.Equal(t, 2.0, cfg.Export.Scale)
	assert.True(t, cfg.Export.SuppressBorder)
	assert.Equal(t, 12*time.Second, cfg.Remote.FetchTimeout)
	assert.Equal(t, "gg", cfg.RasterBackend)
	assert.Equal(t, "", cfg.FontDir)
}

func TestNewConfig_EnvironmentOverrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		expected func(*Config)
	}{
		{
			name:    "http override",
			envVars: map[string]string{"HTTP_PORT": "9090", "HTTP_MODE": "debug"},
			expected: func(cfg *Config) {
				assert.Equal(t, "9090", cfg.HTTP.Port)
				assert.Equal(t, "debug", cfg.HTTP.Mode)
			},
		},
		{
			name:    "bare PORT fallback",
			envVars: map[string]string{"PORT": "3000"},
			expected: func(cfg *Config) {
				assert.Equal(t, "3000", cfg.HTTP.Port)
			},
		},
		{
			name:    "HTTP_PORT wins over PORT",
			envVars: map[string]string{"PORT": "3000", "HTTP_PORT": "4000"},
			expected: func(cfg *Config) {
				assert.Equal(t, "4000", cfg.HTTP.Port)
			},
		},
		{
			name: "export and templates",
			envVars: map[string]string{
				"EXPORT_SCALE":           "3",
				"EXPORT_SUPPRESS_BORDER": "false",
				"TEMPLATE_DEFAULT":       "none",
				"TEMPLATE_FILE":          "/etc/eidqr/templates.toml",
				"RASTER_BACKEND":         "imaging",
			},
			expected: func(cfg *Config) {
				assert.Equal(t, 3.0, cfg.Export.Scale)
				assert.False(t, cfg.Export.SuppressBorder)
				assert.Equal(t, "none", cfg.Templates.Default)
				assert.Equal(t, "/etc/eidqr/templates.toml", cfg.Templates.File)
				assert.Equal(t, "imaging", cfg.RasterBackend)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			cfg, err := NewConfig()
			require.NoError(t, err)
			tt.expected(cfg)
		})
	}
}

func TestNewConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{"unknown template policy", map[string]string{"TEMPLATE_DEFAULT": "last"}},
		{"unknown backend", map[string]string{"RASTER_BACKEND": "html2canvas"}},
		{"zero scale", map[string]string{"EXPORT_SCALE": "0"}},
		{"bad duration", map[string]string{"SESSION_IDLE_TIMEOUT": "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			_, err := NewConfig()
			assert.Error(t, err)
		})
	}
}
