package installer

import (
	"context"
	"time"

	"github.com/ethanolivertroy/tamper-check/internal/models"
	"github.com/ethanolivertroy/tamper-check/internal/runner"
	"github.com/pkg/errors"
)

// PipInstaller installs packages with python -m pip into the current environment
type PipInstaller struct {
	runner    runner.CommandRunner
	python    string
	extraArgs []string
}

// NewPipInstaller creates a new pip installer
func NewPipInstaller(r runner.CommandRunner, cfg models.PipConfig) *PipInstaller {
	python := cfg.Python
	if python == "" {
		python = "python3"
	}
	return &PipInstaller{runner: r, python: python, extraArgs: cfg.ExtraArgs}
}

// Ecosystem implements Installer
func (i *PipInstaller) Ecosystem() models.Ecosystem {
	return models.EcosystemPyPI
}

// Executable implements Installer
func (i *PipInstaller) Executable() string {
	return i.python
}

// Verifies implements Installer; pip's exit status is the only check
func (i *PipInstaller) Verifies() bool {
	return false
}

// Install runs pip install for a single package
func (i *PipInstaller) Install(ctx context.Context, pkg string) (models.Attempt, error) {
	start := time.Now()

	args := append([]string{"-m", "pip", "install", pkg}, i.extraArgs...)
	res, err := i.runner.Run(ctx, runner.Options{}, i.python, args...)
	if err != nil {
		return models.Attempt{}, errors.Wrapf(err, "pip install %s", pkg)
	}

	return concluded(pkg, models.StageInstall, res, start), nil
}
