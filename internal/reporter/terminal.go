package reporter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethanolivertroy/tamper-check/internal/models"
	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// verifyLabels introduce the verification output of each tool
var verifyLabels = map[string]string{
	"npm": "npm ls output / error:",
	"go":  "go.mod check:",
}

// TerminalReporter writes human-readable progress lines
type TerminalReporter struct {
	out      io.Writer
	tool     string
	verifies bool
}

// NewTerminalReporter creates a reporter for the given tool.
// verifies selects the "(verified)" wording on success.
func NewTerminalReporter(out io.Writer, tool string, verifies bool) *TerminalReporter {
	return &TerminalReporter{out: out, tool: tool, verifies: verifies}
}

// Start implements Reporter
func (r *TerminalReporter) Start(pkg string) {
	fmt.Fprintf(r.out, "\nInstalling: %s\n", pkg)
}

// Attempt implements Reporter
func (r *TerminalReporter) Attempt(a models.Attempt) {
	if a.Success {
		if r.verifies {
			fmt.Fprintln(r.out, green("✅ Successfully installed (verified): "+a.Package))
		} else {
			fmt.Fprintln(r.out, green("✅ Successfully installed: "+a.Package))
		}
		return
	}

	switch a.Stage {
	case models.StageInit:
		fmt.Fprintln(r.out, red(fmt.Sprintf("❌ %s init failed for %s", r.tool, a.Package)))
		fmt.Fprintln(r.out, a.Stderr)
	case models.StageVerify:
		label, ok := verifyLabels[r.tool]
		if !ok {
			label = "Verification output / error:"
		}
		fmt.Fprintln(r.out, red("❌ Verification failed for: "+a.Package))
		fmt.Fprintf(r.out, "%s\n%s\n", label, a.Stderr)
	default:
		fmt.Fprintln(r.out, red("❌ Failed to install: "+a.Package))
		fmt.Fprintf(r.out, "Error:\n%s\n", a.Stderr)
	}
}

// Summary implements Reporter
func (r *TerminalReporter) Summary(s models.Summary) {
	var sb strings.Builder

	sb.WriteString("\n=== Summary ===\n")
	sb.WriteString(fmt.Sprintf("✅ Installed: %s\n", formatList(s.Succeeded)))
	sb.WriteString(fmt.Sprintf("❌ Failed: %s\n", formatList(s.Failed)))

	if len(s.Advisories) > 0 {
		sb.WriteString("\n" + yellow("⚠️  Advisories for installed packages:") + "\n")
		for _, pkg := range s.Succeeded {
			for _, adv := range s.Advisories[pkg] {
				marker := "🔴"
				if adv.Malicious() {
					marker = "🚨"
				}
				line := fmt.Sprintf("   %s %s: %s", marker, pkg, adv.ID)
				if adv.Summary != "" {
					line += " - " + adv.Summary
				}
				sb.WriteString(line + "\n")
			}
		}
	}

	io.WriteString(r.out, sb.String())
}

// Warn implements Reporter
func (r *TerminalReporter) Warn(msg string) {
	fmt.Fprintln(r.out, yellow("⚠️  "+msg))
}

// formatList prints the identifiers in order, quoted and comma separated
func formatList(pkgs []string) string {
	quoted := make([]string, len(pkgs))
	for i, p := range pkgs {
		quoted[i] = strconv.Quote(p)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
