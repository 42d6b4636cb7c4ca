package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wheelhouse-labs/wheelhouse/internal/branding"
	"github.com/wheelhouse-labs/wheelhouse/internal/config"
	"github.com/wheelhouse-labs/wheelhouse/internal/logging"
	"github.com/wheelhouse-labs/wheelhouse/internal/userdata"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	addonFlag   string
	verboseFlag bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` downloads Python wheels from a package index into an add-on's
wheels/ directory and keeps the add-on manifest's "wheels" list in sync.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		s := config.Current()
		cfg := logging.Config{Level: s.LogLevel, Development: s.LogDev}
		if verboseFlag {
			cfg.Level = "debug"
		}
		if _, err := logging.Init(cfg); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addonFlag, "addon", "", "Add-on directory (default: $"+branding.EnvVar("ADDON")+" or the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
}

// statusError marks an error whose status line has already been printed.
type statusError struct{ err error }

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func reported(err error) error { return &statusError{err: err} }

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logging.Sync()

	err := rootCmd.ExecuteContext(ctx)
	var se *statusError
	if err != nil && !errors.As(err, &se) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// addonRoot resolves the add-on directory from --addon or the environment.
func addonRoot() (string, error) {
	if addonFlag != "" {
		return filepath.Abs(addonFlag)
	}
	return userdata.GetAddonRoot()
}

// logger returns the process logger.
func logger() *zap.Logger { return logging.L() }
