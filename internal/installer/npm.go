package installer

import (
	"context"
	"time"

	"github.com/ethanolivertroy/tamper-check/internal/models"
	"github.com/ethanolivertroy/tamper-check/internal/runner"
	"github.com/ethanolivertroy/tamper-check/internal/sandbox"
	"github.com/pkg/errors"
)

// NpmInstaller installs each package into its own throwaway project directory
type NpmInstaller struct {
	runner       runner.CommandRunner
	npm          string
	installFlags []string
}

// NewNpmInstaller creates a new npm installer
func NewNpmInstaller(r runner.CommandRunner, cfg models.NpmConfig) *NpmInstaller {
	npm := cfg.Command
	if npm == "" {
		npm = "npm"
	}
	flags := cfg.InstallFlags
	if flags == nil {
		flags = models.DefaultNpmInstallFlags
	}
	return &NpmInstaller{runner: r, npm: npm, installFlags: flags}
}

// Ecosystem implements Installer
func (i *NpmInstaller) Ecosystem() models.Ecosystem {
	return models.EcosystemNpm
}

// Executable implements Installer
func (i *NpmInstaller) Executable() string {
	return i.npm
}

// Verifies implements Installer
func (i *NpmInstaller) Verifies() bool {
	return true
}

// Install runs npm init, npm install and npm ls inside a fresh temp directory.
// The directory is removed before returning on every path.
func (i *NpmInstaller) Install(ctx context.Context, pkg string) (attempt models.Attempt, err error) {
	start := time.Now()

	dir, err := sandbox.New("npm_install_")
	if err != nil {
		return models.Attempt{}, err
	}
	defer func() {
		if rmErr := dir.Remove(); rmErr != nil && err == nil {
			err = rmErr
		}
	}()
	opts := runner.Options{Dir: dir.Path}

	// Step 1: minimal package.json so node_modules lands in dir
	res, err := i.runner.Run(ctx, opts, i.npm, "init", "-y")
	if err != nil {
		return models.Attempt{}, errors.Wrapf(err, "npm init for %s", pkg)
	}
	if !res.OK {
		return concluded(pkg, models.StageInit, res, start), nil
	}

	// Step 2: install without lifecycle scripts
	args := append([]string{"install", pkg}, i.installFlags...)
	res, err = i.runner.Run(ctx, opts, i.npm, args...)
	if err != nil {
		return models.Attempt{}, errors.Wrapf(err, "npm install %s", pkg)
	}
	if !res.OK {
		return concluded(pkg, models.StageInstall, res, start), nil
	}

	// Step 3: the package must resolve from the project root
	res, err = i.runner.Run(ctx, opts, i.npm, "ls", pkg, "--depth=0", "--silent")
	if err != nil {
		return models.Attempt{}, errors.Wrapf(err, "npm ls %s", pkg)
	}
	return concluded(pkg, models.StageVerify, res, start), nil
}
