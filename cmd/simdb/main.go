package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kokistudios/simdb/internal/config"
	"github.com/kokistudios/simdb/internal/store"
	"github.com/kokistudios/simdb/internal/ui"
)

// Set via ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Exit codes, one per failure kind.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitIO      = 3
	exitFormat  = 4
)

func buildVersion() string {
	if commit == "none" {
		return version
	}
	return fmt.Sprintf("%s (%s, %s)", version, commit, date)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	ui.Stdout, ui.Stderr = stdout, stderr

	c := &cli{}
	rootCmd := c.rootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	cmd, err := rootCmd.ExecuteC()
	if err == nil {
		return exitOK
	}

	ui.Error(err.Error())
	code := exitCode(err)
	if code == exitUsage {
		fmt.Fprint(ui.Stderr, "\n"+cmd.UsageString())
	}
	return code
}

// usageError marks a bad invocation: missing or surplus arguments, unknown
// commands, bad flags.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// exitError carries an explicit exit code for results that are not
// failures of any single operation, like an unhealthy doctor report.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func exitCode(err error) int {
	var (
		uerr *usageError
		xerr *exitError
	)
	switch {
	case errors.As(err, &uerr), errors.Is(err, store.ErrEmptyName), errors.Is(err, store.ErrInvalidField):
		return exitUsage
	case errors.As(err, &xerr):
		return xerr.code
	case errors.Is(err, store.ErrFormat):
		return exitFormat
	case errors.Is(err, store.ErrIO):
		return exitIO
	default:
		return exitFailure
	}
}

// usageArgs wraps a cobra argument validator so its failures are reported
// as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err}
		}
		return nil
	}
}

// cli holds global flag values and the loaded configuration.
type cli struct {
	file    string
	noColor bool
	verbose bool

	home    *config.Home
	homeErr error
}

func (c *cli) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "simdb",
		Short: "A tiny personal journal",
		Long: `Append timestamped, categorized entries to a flat file and read them back.

Entries are stored one per line as name,date,category in sample.cv
(or the file set with --file or journal.path in config.yaml).`,
		Example: `  simdb add "Buy milk" errand
  simdb latest
  simdb latest work
  simdb all`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.home, c.homeErr = config.Load(config.Dir())
			level := "info"
			if c.home != nil {
				level = c.home.Config.Log.Level
			}
			if c.verbose {
				level = "debug"
			}
			ui.Init(c.noColor, level)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return &usageError{fmt.Errorf("unknown command %q", args[0])}
			}
			return cmd.Help()
		},
	}

	rootCmd.Version = buildVersion()
	rootCmd.PersistentFlags().StringVarP(&c.file, "file", "f", "", "Journal file (default: journal.path from config, else sample.cv)")
	rootCmd.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})

	rootCmd.AddGroup(
		&cobra.Group{ID: "journal", Title: "Journal Commands:"},
		&cobra.Group{ID: "config", Title: "Configuration:"},
	)

	for _, cmd := range []*cobra.Command{c.addCmd(), c.latestCmd(), c.allCmd(), c.categoriesCmd(), c.exportCmd(), c.doctorCmd()} {
		cmd.GroupID = "journal"
		rootCmd.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{c.initCmd(), c.configCmd()} {
		cmd.GroupID = "config"
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(completionCmd())

	return rootCmd
}

func (c *cli) loadHome() (*config.Home, error) {
	if c.homeErr != nil {
		return nil, fmt.Errorf("cannot load configuration from %s: %w", config.Dir(), c.homeErr)
	}
	if c.home == nil {
		return config.Load(config.Dir())
	}
	return c.home, nil
}

// openStore builds the journal store from --file and the configuration.
func (c *cli) openStore() (*store.Store, error) {
	h, err := c.loadHome()
	if err != nil {
		return nil, err
	}
	path := c.file
	if path == "" {
		path = h.JournalPath()
	}
	ui.Logger.Debug("using journal", "path", path)
	return store.New(path,
		store.WithDefaultCategory(h.Config.Journal.DefaultCategory),
		store.WithLogger(ui.Logger),
	), nil
}
