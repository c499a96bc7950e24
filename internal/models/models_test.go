package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIdentifier(t *testing.T) {
	tests := []struct {
		name        string
		eco         Ecosystem
		id          string
		wantName    string
		wantVersion string
	}{
		{"pip bare", EcosystemPyPI, "requests", "requests", ""},
		{"pip pinned", EcosystemPyPI, "requests==2.31.0", "requests", "2.31.0"},
		{"pip range", EcosystemPyPI, "requests>=2.0", "requests", ""},
		{"npm bare", EcosystemNpm, "left-pad", "left-pad", ""},
		{"npm versioned", EcosystemNpm, "lodash@4.17.21", "lodash", "4.17.21"},
		{"npm scoped", EcosystemNpm, "@types/node", "@types/node", ""},
		{"npm scoped versioned", EcosystemNpm, "@types/node@20.1.0", "@types/node", "20.1.0"},
		{"go versioned", EcosystemGo, "github.com/pkg/errors@v0.9.1", "github.com/pkg/errors", "v0.9.1"},
		{"go bare", EcosystemGo, "github.com/pkg/errors", "github.com/pkg/errors", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, version := SplitIdentifier(tt.eco, tt.id)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantVersion, version)
		})
	}
}

func TestSummaryRecord(t *testing.T) {
	var s Summary
	s.Record(Attempt{Package: "a", Success: true})
	s.Record(Attempt{Package: "b", Success: false})
	s.Record(Attempt{Package: "c", Success: true})

	assert.Equal(t, []string{"a", "c"}, s.Succeeded)
	assert.Equal(t, []string{"b"}, s.Failed)
	assert.Equal(t, 3, s.Total())
}

func TestAdvisoryMalicious(t *testing.T) {
	assert.True(t, Advisory{ID: "MAL-2024-1234"}.Malicious())
	assert.False(t, Advisory{ID: "GHSA-xxxx-yyyy-zzzz"}.Malicious())
}

func TestConfigLoadFile(t *testing.T) {
	t.Run("missing optional file is ignored", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.LoadFile(filepath.Join(t.TempDir(), "nope.toml"), true)
		require.NoError(t, err)
		assert.Equal(t, DefaultInputFile, cfg.InputFile)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		cfg := DefaultConfig()
		err := cfg.LoadFile(filepath.Join(t.TempDir(), "nope.toml"), false)
		assert.Error(t, err)
	})

	t.Run("overlays values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tc.toml")
		content := `input_file = "list.txt"
timeout = "90s"
osv = true

[pip]
python = "/usr/bin/python3.12"
extra_args = ["--no-deps"]

[npm]
command = "/opt/node/bin/npm"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg := DefaultConfig()
		require.NoError(t, cfg.LoadFile(path, false))

		assert.Equal(t, "list.txt", cfg.InputFile)
		assert.Equal(t, 90*time.Second, cfg.Timeout)
		assert.True(t, cfg.OSV)
		assert.Equal(t, "/usr/bin/python3.12", cfg.Pip.Python)
		assert.Equal(t, []string{"--no-deps"}, cfg.Pip.ExtraArgs)
		assert.Equal(t, "/opt/node/bin/npm", cfg.Npm.Command)
		// Untouched keys keep their defaults
		assert.Equal(t, DefaultNpmInstallFlags, cfg.Npm.InstallFlags)
		assert.Equal(t, "go", cfg.Go.Command)
	})

	t.Run("bad timeout", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tc.toml")
		require.NoError(t, os.WriteFile(path, []byte(`timeout = "soon"`), 0644))

		cfg := DefaultConfig()
		assert.Error(t, cfg.LoadFile(path, false))
	})
}

func TestConfigLoadEnv(t *testing.T) {
	t.Setenv("TAMPER_CHECK_INPUT", "other.txt")
	t.Setenv("TAMPER_CHECK_PYTHON", "python3.11")
	t.Setenv("TAMPER_CHECK_TIMEOUT", "5m")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadEnv())

	assert.Equal(t, "other.txt", cfg.InputFile)
	assert.Equal(t, "python3.11", cfg.Pip.Python)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
}

func TestConfigSetTimeoutNegative(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.SetTimeout("-1s"))
}
