package reporter

import (
	"bytes"
	"testing"

	"github.com/ethanolivertroy/tamper-check/internal/models"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestTerminalReporterSuccess(t *testing.T) {
	var buf bytes.Buffer

	NewTerminalReporter(&buf, "pip", false).Start("requests")
	NewTerminalReporter(&buf, "pip", false).Attempt(models.Attempt{Package: "requests", Success: true})
	NewTerminalReporter(&buf, "npm", true).Attempt(models.Attempt{Package: "left-pad", Success: true})

	assert.Equal(t, "\nInstalling: requests\n"+
		"✅ Successfully installed: requests\n"+
		"✅ Successfully installed (verified): left-pad\n", buf.String())
}

func TestTerminalReporterFailures(t *testing.T) {
	tests := []struct {
		name    string
		tool    string
		attempt models.Attempt
		want    string
	}{
		{
			name:    "install",
			tool:    "pip",
			attempt: models.Attempt{Package: "reqeusts", Stage: models.StageInstall, Stderr: "No matching distribution"},
			want:    "❌ Failed to install: reqeusts\nError:\nNo matching distribution\n",
		},
		{
			name:    "init",
			tool:    "npm",
			attempt: models.Attempt{Package: "left-pad", Stage: models.StageInit, Stderr: "EACCES"},
			want:    "❌ npm init failed for left-pad\nEACCES\n",
		},
		{
			name:    "verify npm",
			tool:    "npm",
			attempt: models.Attempt{Package: "left-pad", Stage: models.StageVerify, Stderr: "(empty)"},
			want:    "❌ Verification failed for: left-pad\nnpm ls output / error:\n(empty)\n",
		},
		{
			name:    "verify unknown tool",
			tool:    "cargo",
			attempt: models.Attempt{Package: "serde", Stage: models.StageVerify, Stderr: "missing"},
			want:    "❌ Verification failed for: serde\nVerification output / error:\nmissing\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewTerminalReporter(&buf, tt.tool, true).Attempt(tt.attempt)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestTerminalReporterSummary(t *testing.T) {
	t.Run("lists in order", func(t *testing.T) {
		var buf bytes.Buffer
		NewTerminalReporter(&buf, "npm", true).Summary(models.Summary{
			Succeeded: []string{"lodash@4.17.21", "@scope/pkg"},
			Failed:    []string{"left-pad"},
		})

		assert.Equal(t, "\n=== Summary ===\n"+
			"✅ Installed: [\"lodash@4.17.21\", \"@scope/pkg\"]\n"+
			"❌ Failed: [\"left-pad\"]\n", buf.String())
	})

	t.Run("empty lists", func(t *testing.T) {
		var buf bytes.Buffer
		NewTerminalReporter(&buf, "pip", false).Summary(models.Summary{})

		assert.Equal(t, "\n=== Summary ===\n✅ Installed: []\n❌ Failed: []\n", buf.String())
	})

	t.Run("advisories", func(t *testing.T) {
		var buf bytes.Buffer
		NewTerminalReporter(&buf, "npm", true).Summary(models.Summary{
			Succeeded: []string{"lodahs"},
			Advisories: map[string][]models.Advisory{
				"lodahs": {{ID: "MAL-2024-0001"}, {ID: "GHSA-aaaa", Summary: "prototype pollution"}},
			},
		})

		out := buf.String()
		assert.Contains(t, out, "Advisories for installed packages:")
		assert.Contains(t, out, "🚨 lodahs: MAL-2024-0001\n")
		assert.Contains(t, out, "🔴 lodahs: GHSA-aaaa - prototype pollution\n")
	})
}

func TestTerminalReporterWarn(t *testing.T) {
	var buf bytes.Buffer
	NewTerminalReporter(&buf, "npm", true).Warn("advisory lookup failed: timeout")
	assert.Equal(t, "⚠️  advisory lookup failed: timeout\n", buf.String())
}
