package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewManager_Defaults(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), m.Settings())
	assert.Empty(t, m.ConfigFile())
}

func TestNewManager_MissingDirectory(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestNewManager_NoFileInDirectory(t *testing.T) {
	m, err := NewManager(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), m.Settings())
}

func TestNewManager_ConfigFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "toml",
			file:    "minesweeper.toml",
			content: "board_size = 4\nmines = 3\nidle_timeout = \"10m\"\nsweep_interval = \"1m\"\n",
		},
		{
			name:    "json",
			file:    "minesweeper.json",
			content: `{"board_size": 4, "mines": 3, "idle_timeout": "10m", "sweep_interval": "1m"}`,
		},
		{
			name:    "yaml",
			file:    "minesweeper.yaml",
			content: "board_size: 4\nmines: 3\nidle_timeout: 10m\nsweep_interval: 1m\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, tt.file, tt.content)

			m, err := NewManager(dir)
			require.NoError(t, err)

			assert.Equal(t, Settings{
				BoardSize:     4,
				Mines:         3,
				IdleTimeout:   10 * time.Minute,
				SweepInterval: time.Minute,
			}, m.Settings())
			assert.Equal(t, path, m.ConfigFile())
		})
	}
}

func TestNewManager_DurationsInSeconds(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "toml",
			file:    "minesweeper.toml",
			content: "idle_timeout = 1800\nsweep_interval = 300\n",
		},
		{
			name:    "json",
			file:    "minesweeper.json",
			content: `{"idle_timeout": 1800, "sweep_interval": 300}`,
		},
		{
			name:    "yaml",
			file:    "minesweeper.yaml",
			content: "idle_timeout: 1800\nsweep_interval: 300\n",
		},
		{
			name:    "numeric strings",
			file:    "minesweeper.toml",
			content: "idle_timeout = \"1800\"\nsweep_interval = \"300\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			m, err := NewManager(dir)
			require.NoError(t, err)

			settings := m.Settings()
			assert.Equal(t, 30*time.Minute, settings.IdleTimeout)
			assert.Equal(t, 5*time.Minute, settings.SweepInterval)
		})
	}
}

func TestNewManager_EnvDurationInSeconds(t *testing.T) {
	t.Setenv("MINESWEEPER_IDLE_TIMEOUT", "1800")

	m, err := NewManager("")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, m.Settings().IdleTimeout)
}

func TestNewManager_BadDuration(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "minesweeper.toml", "idle_timeout = \"soon\"\n")

	_, err := NewManager(dir)
	assert.Error(t, err)
}

func TestNewManager_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "minesweeper.toml", "board_size = 4\nmines = 3\n")

	t.Setenv("MINESWEEPER_MINES", "7")
	t.Setenv("MINESWEEPER_IDLE_TIMEOUT", "1h")

	m, err := NewManager(dir)
	require.NoError(t, err)

	settings := m.Settings()
	assert.Equal(t, 4, settings.BoardSize)
	assert.Equal(t, 7, settings.Mines)
	assert.Equal(t, time.Hour, settings.IdleTimeout)
	assert.Equal(t, DefaultSettings().SweepInterval, settings.SweepInterval)
}

func TestNewManager_InvalidSettings(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"too many mines", "board_size = 3\nmines = 9\n"},
		{"zero size", "board_size = 0\nmines = 0\n"},
		{"negative mines", "mines = -1\n"},
		{"zero timeout", "idle_timeout = \"0s\"\n"},
		{"negative interval", "sweep_interval = \"-1m\"\n"},
		{"sub-second timeout", "idle_timeout = \"500ms\"\n"},
		{"zero interval in seconds", "sweep_interval = 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "minesweeper.toml", tt.content)

			_, err := NewManager(dir)
			assert.ErrorIs(t, err, ErrInvalidSettings)
		})
	}
}

func TestNewManager_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "minesweeper.toml", "board_size = = 4\n")

	_, err := NewManager(dir)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSettings)
}
