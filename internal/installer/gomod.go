package installer

import (
	"context"
	"os"
	"time"

	"github.com/ethanolivertroy/tamper-check/internal/models"
	"github.com/ethanolivertroy/tamper-check/internal/runner"
	"github.com/ethanolivertroy/tamper-check/internal/sandbox"
	"github.com/pkg/errors"
	"golang.org/x/mod/modfile"
)

// probeModule is the module path of the throwaway module each package is added to
const probeModule = "tampercheck.local/probe"

// GoInstaller adds each module to a throwaway module with go get
type GoInstaller struct {
	runner runner.CommandRunner
	goBin  string
}

// NewGoInstaller creates a new Go module installer
func NewGoInstaller(r runner.CommandRunner, cfg models.GoConfig) *GoInstaller {
	goBin := cfg.Command
	if goBin == "" {
		goBin = "go"
	}
	return &GoInstaller{runner: r, goBin: goBin}
}

// Ecosystem implements Installer
func (i *GoInstaller) Ecosystem() models.Ecosystem {
	return models.EcosystemGo
}

// Executable implements Installer
func (i *GoInstaller) Executable() string {
	return i.goBin
}

// Verifies implements Installer
func (i *GoInstaller) Verifies() bool {
	return true
}

// Install runs go mod init and go get inside a fresh temp directory, then checks
// that the module was recorded in the probe's go.mod.
func (i *GoInstaller) Install(ctx context.Context, pkg string) (attempt models.Attempt, err error) {
	start := time.Now()

	dir, err := sandbox.New("go_install_")
	if err != nil {
		return models.Attempt{}, err
	}
	defer func() {
		if rmErr := dir.Remove(); rmErr != nil && err == nil {
			err = rmErr
		}
	}()
	opts := runner.Options{
		Dir: dir.Path,
		Env: []string{"GOFLAGS=-mod=mod", "GOTOOLCHAIN=local"},
	}

	res, err := i.runner.Run(ctx, opts, i.goBin, "mod", "init", probeModule)
	if err != nil {
		return models.Attempt{}, errors.Wrapf(err, "go mod init for %s", pkg)
	}
	if !res.OK {
		return concluded(pkg, models.StageInit, res, start), nil
	}

	res, err = i.runner.Run(ctx, opts, i.goBin, "get", pkg)
	if err != nil {
		return models.Attempt{}, errors.Wrapf(err, "go get %s", pkg)
	}
	if !res.OK {
		return concluded(pkg, models.StageInstall, res, start), nil
	}

	return concluded(pkg, models.StageVerify, verifyGoMod(dir.Join("go.mod"), pkg), start), nil
}

// verifyGoMod reports whether the module path of pkg is required by the go.mod at path
func verifyGoMod(path, pkg string) runner.Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return runner.Result{Stderr: err.Error()}
	}

	mod, err := modfile.Parse(path, content, nil)
	if err != nil {
		return runner.Result{Stderr: err.Error()}
	}

	name, _ := models.SplitIdentifier(models.EcosystemGo, pkg)
	for _, req := range mod.Require {
		if req.Mod.Path == name {
			return runner.Result{OK: true, Stdout: req.Mod.String()}
		}
	}
	return runner.Result{Stderr: name + " is not required by " + path}
}
