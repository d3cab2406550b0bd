package main

import (
	"bytes"
	"testing"

	"mpm/internal/domain"
	"mpm/internal/storage/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempDirs points the CLI at fresh directories with plain output
func useTempDirs(t *testing.T) {
	t.Helper()
	configDir = t.TempDir()
	dataDir = t.TempDir()
	jsonOutput = false
	noColor = true
	verbose = false
	t.Setenv(config.EnvCurseForgeAPIKey, "")
}

// run executes the root command with args and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	closeLogger()
	return buf.String(), err
}

func TestInitService_RegistersCurseForge(t *testing.T) {
	useTempDirs(t)

	svc, err := initService()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, svc.Close())
		closeLogger()
	})

	catalogs := svc.Catalogs()
	require.Len(t, catalogs, 1, "curseforge should be registered by default")
	assert.Equal(t, domain.SourceCurseForge, catalogs[0].ID())
	assert.Equal(t, "CurseForge", catalogs[0].Name())
	assert.False(t, svc.IsCatalogAuthenticated())
}

func TestGetServiceConfig_ExplicitDirs(t *testing.T) {
	configDir = "/tmp/mpm-config"
	dataDir = "/tmp/mpm-data"
	t.Cleanup(func() {
		configDir = ""
		dataDir = ""
	})

	cfg, err := getServiceConfig()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/mpm-config", cfg.ConfigDir)
	assert.Equal(t, "/tmp/mpm-data", cfg.DataDir)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"short string", "Sodium", 10, "Sodium"},
		{"exact length", "Sodium", 6, "Sodium"},
		{"long string", "Just Enough Items", 10, "Just En..."},
		{"tiny limit", "Sodium", 2, "So"},
		{"multibyte runes", "Ünïcödé Mod", 6, "Ünï..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncate(tt.input, tt.maxLen))
		})
	}
}

func TestColorEnabled(t *testing.T) {
	noColor = false
	t.Setenv("NO_COLOR", "")
	assert.True(t, colorEnabled())

	t.Setenv("NO_COLOR", "1")
	assert.False(t, colorEnabled())

	t.Setenv("NO_COLOR", "")
	noColor = true
	assert.False(t, colorEnabled())
	assert.Equal(t, "plain", colorGreen("plain"))
}
