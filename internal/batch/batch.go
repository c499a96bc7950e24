package batch

import (
	"context"

	"github.com/ethanolivertroy/tamper-check/internal/installer"
	"github.com/ethanolivertroy/tamper-check/internal/models"
	"github.com/ethanolivertroy/tamper-check/internal/parsers"
	"github.com/ethanolivertroy/tamper-check/internal/reporter"
	"github.com/pkg/errors"
)

// AdvisoryClient looks up published advisories for package identifiers
type AdvisoryClient interface {
	QueryBatch(ctx context.Context, eco models.Ecosystem, pkgs []string) (map[string][]models.Advisory, error)
}

// Batch drives one sequential install run
type Batch struct {
	installer installer.Installer
	reporter  reporter.Reporter
	// advisories is optional; nil skips the lookup
	advisories AdvisoryClient
}

// New creates a Batch. advisories may be nil.
func New(inst installer.Installer, rep reporter.Reporter, advisories AdvisoryClient) *Batch {
	return &Batch{
		installer:  inst,
		reporter:   rep,
		advisories: advisories,
	}
}

// RunFile reads the package list at path and runs it.
// A missing file fails before any package is attempted and nothing is reported.
func (b *Batch) RunFile(ctx context.Context, path string) (models.Summary, error) {
	pkgs, err := parsers.Load(path)
	if err != nil {
		return models.Summary{}, err
	}
	return b.Run(ctx, pkgs)
}

// Run attempts every package in order and reports the summary
func (b *Batch) Run(ctx context.Context, pkgs []string) (models.Summary, error) {
	var summary models.Summary

	// Step 1: install (and verify) each package, one at a time
	for _, pkg := range pkgs {
		b.reporter.Start(pkg)

		attempt, err := b.installer.Install(ctx, pkg)
		if err != nil {
			return summary, errors.Wrapf(err, "processing %s", pkg)
		}

		b.reporter.Attempt(attempt)
		summary.Record(attempt)
	}

	// Step 2: look up advisories for what made it in
	if b.advisories != nil && len(summary.Succeeded) > 0 {
		found, err := b.advisories.QueryBatch(ctx, b.installer.Ecosystem(), summary.Succeeded)
		if err != nil {
			b.reporter.Warn("advisory lookup failed: " + err.Error())
		} else if len(found) > 0 {
			summary.Advisories = found
		}
	}

	// Step 3: report
	b.reporter.Summary(summary)

	return summary, nil
}
