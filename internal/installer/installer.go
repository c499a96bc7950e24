package installer

import (
	"context"
	"time"

	"github.com/ethanolivertroy/tamper-check/internal/models"
	"github.com/ethanolivertroy/tamper-check/internal/runner"
	"github.com/pkg/errors"
)

// Installer attempts to install a single package identifier
type Installer interface {
	// Ecosystem returns the ecosystem this installer handles
	Ecosystem() models.Ecosystem
	// Executable returns the tool that must be on PATH before a run starts
	Executable() string
	// Verifies reports whether a successful attempt includes a verification step
	Verifies() bool
	// Install processes one package. Package-manager failures are reported in the
	// Attempt; the error is only set when a command could not be run at all.
	Install(ctx context.Context, pkg string) (models.Attempt, error)
}

// InstallerFactory creates the installer for the given variant name
func InstallerFactory(variant string, cfg *models.Config, r runner.CommandRunner) (Installer, error) {
	switch variant {
	case "pip":
		return NewPipInstaller(r, cfg.Pip), nil
	case "npm":
		return NewNpmInstaller(r, cfg.Npm), nil
	case "go":
		return NewGoInstaller(r, cfg.Go), nil
	default:
		return nil, errors.Errorf("unsupported package manager: %s", variant)
	}
}

// CheckAvailable fails with runner.ErrExecutableNotFound when the installer's tool is missing
func CheckAvailable(r runner.CommandRunner, inst Installer) error {
	_, err := r.LookPath(inst.Executable())
	return err
}

// concluded builds the attempt for a command that decided the outcome
func concluded(pkg string, stage models.Stage, res runner.Result, start time.Time) models.Attempt {
	a := models.Attempt{
		Package:  pkg,
		Success:  res.OK,
		Stage:    stage,
		Duration: time.Since(start),
	}
	if !res.OK {
		a.Stderr = res.Message()
	}
	return a
}
