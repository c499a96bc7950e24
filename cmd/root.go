package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/ethanolivertroy/tamper-check/internal/batch"
	"github.com/ethanolivertroy/tamper-check/internal/clients"
	"github.com/ethanolivertroy/tamper-check/internal/installer"
	"github.com/ethanolivertroy/tamper-check/internal/models"
	"github.com/ethanolivertroy/tamper-check/internal/parsers"
	"github.com/ethanolivertroy/tamper-check/internal/reporter"
	"github.com/ethanolivertroy/tamper-check/internal/runner"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	exitOK          = 0
	exitMissingTool = 1
	exitFatal       = 2
)

// Swapped out in tests
var (
	newRunner = func(timeout time.Duration, logger *log.Logger) runner.CommandRunner {
		return runner.New(timeout, logger)
	}
	newAdvisoryClient = func() batch.AdvisoryClient {
		return clients.NewOSVClient()
	}
)

// toolHints tell the user how to get a missing package manager
var toolHints = map[string]string{
	"pip": "Install Python 3 with pip, or point [pip] python at an interpreter that has it.",
	"npm": "Install Node.js/npm or run inside an environment with npm available.",
	"go":  "Install the Go toolchain or run inside an environment with go available.",
}

// exitError carries the exit status of an error that has already been shown to the user
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

type options struct {
	file       string
	configFile string
	timeout    string
	osv        bool
	noColor    bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "tamper-check",
		Short: "Batch-test whether package names can be installed",
		Long: `tamper-check reads a list of package names and tries to install each one
with the matching package manager, recording which installs succeed.

It is meant for probing tampered or typo-squatted names against public
registries. Run it inside a disposable container or VM: pip installs into
the current Python environment, and packages are fetched from the network.

Supported package managers:
  - pip: python -m pip install <pkg>
  - npm: npm install <pkg> --ignore-scripts in a throwaway project, then npm ls
  - go:  go get <module@version> in a throwaway module, then a go.mod check

The package list defaults to tampered_package_names.txt. requirements.txt,
pyproject.toml, package.json and go.mod files are also understood.

Examples:
  # Try every name in tampered_package_names.txt with npm
  tamper-check npm

  # Use another list and give each command at most five minutes
  tamper-check pip --file names.txt --timeout 5m

  # Also look up OSV advisories for the packages that installed
  tamper-check npm --osv`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "Package list (default: "+models.DefaultInputFile+")")
	rootCmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "Config file (default: "+models.DefaultConfigFile+" if present)")
	rootCmd.PersistentFlags().StringVar(&opts.timeout, "timeout", "", "Per-command timeout such as 90s or 10m (default: none)")
	rootCmd.PersistentFlags().BoolVar(&opts.osv, "osv", false, "Look up OSV advisories for installed packages")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every command to stderr")

	rootCmd.AddCommand(
		variantCmd(opts, "pip", "Install each package with pip"),
		variantCmd(opts, "npm", "Install and verify each package with npm in a temp project"),
		variantCmd(opts, "go", "Add each module to a temp Go module and verify it"),
	)

	return rootCmd
}

func variantCmd(opts *options, variant, short string) *cobra.Command {
	return &cobra.Command{
		Use:   variant,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runVariant(cmd, variant, config)
		},
	}
}

// loadConfig layers defaults, the config file, the environment and flags
func loadConfig(cmd *cobra.Command, opts *options) (*models.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "loading .env")
	}

	config := models.DefaultConfig()
	if opts.configFile != "" {
		if err := config.LoadFile(opts.configFile, false); err != nil {
			return nil, err
		}
	} else if err := config.LoadFile(models.DefaultConfigFile, true); err != nil {
		return nil, err
	}

	if err := config.LoadEnv(); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		config.InputFile = opts.file
	}
	if flags.Changed("timeout") {
		if err := config.SetTimeout(opts.timeout); err != nil {
			return nil, err
		}
	}
	if flags.Changed("osv") {
		config.OSV = opts.osv
	}
	if flags.Changed("no-color") {
		config.NoColor = opts.noColor
	}
	if flags.Changed("verbose") {
		config.Verbose = opts.verbose
	}

	return config, nil
}

func runVariant(cmd *cobra.Command, variant string, config *models.Config) error {
	out := cmd.OutOrStdout()
	if config.NoColor {
		color.NoColor = true
	}

	logger := log.New(io.Discard, "", 0)
	if config.Verbose {
		logger = log.New(cmd.ErrOrStderr(), "tamper-check: ", log.LstdFlags)
	}
	r := newRunner(config.Timeout, logger)

	inst, err := installer.InstallerFactory(variant, config, r)
	if err != nil {
		return err
	}

	// Fail fast before reading anything
	if err := installer.CheckAvailable(r, inst); err != nil {
		fmt.Fprintln(out, color.RedString("❌ ERROR: %s is not found in PATH. %s", inst.Executable(), toolHints[variant]))
		return &exitError{code: exitMissingTool, err: err}
	}

	var advisories batch.AdvisoryClient
	if config.OSV {
		advisories = newAdvisoryClient()
	}

	rep := reporter.NewTerminalReporter(out, variant, inst.Verifies())
	b := batch.New(inst, rep, advisories)

	if _, err := b.RunFile(cmd.Context(), config.InputFile); err != nil {
		if errors.Is(err, parsers.ErrInputNotFound) {
			fmt.Fprintf(out, "File not found: %s\n", config.InputFile)
			return &exitError{code: exitFatal, err: err}
		}
		return errors.Wrap(err, "run failed")
	}

	return nil
}

// run executes the CLI and returns the process exit status
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintln(stderr, "Error:", err)
	return exitFatal
}

// Execute runs the root command and exits with its status.
func Execute() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
