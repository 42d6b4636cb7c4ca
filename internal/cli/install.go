package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wheelhouse-labs/wheelhouse/internal/acquire"
	"github.com/wheelhouse-labs/wheelhouse/internal/config"
	"github.com/wheelhouse-labs/wheelhouse/internal/index"
	"github.com/wheelhouse-labs/wheelhouse/internal/install"
	"github.com/wheelhouse-labs/wheelhouse/internal/reload"
	"github.com/wheelhouse-labs/wheelhouse/internal/userdata"
)

var (
	installNoReload bool
	installQuiet    bool
)

var installCmd = &cobra.Command{
	Use:   "install <package>",
	Short: "Download a package's wheels and register them in the manifest",
	Long: `Install downloads every wheel of a package from the package index into the
add-on's wheels/ directory and adds "./wheels/<file>" to the manifest for each.
The host is asked to reload after a short delay, whether or not the install succeeded.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstall,
}

func init() {
	installCmd.Flags().BoolVar(&installNoReload, "no-reload", false, "Do not reload the host afterwards")
	installCmd.Flags().BoolVarP(&installQuiet, "quiet", "q", false, "Do not show the progress spinner")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	s := config.Current()
	log := logger()

	a, err := openAddon()
	if err != nil {
		return err
	}
	if _, err := userdata.EnsureWheelsDir(a.root); err != nil {
		return err
	}

	bar := newSpinner(installQuiet)
	downloader := acquire.NewExecDownloader(s.Downloader, log)
	downloader.OnLine = func(_, line string) { bar.Describe(truncate(line, 60)) }

	checker := index.New(
		index.WithBaseURL(s.IndexURL),
		index.WithTimeout(s.IndexTimeout),
		index.WithLogger(log),
	)
	worker := acquire.NewWorker(downloader,
		acquire.WithCleanupOnFailure(s.CleanupOnFailure),
		acquire.WithLogger(log),
	)

	opts := []install.Option{
		install.WithLogger(log),
		install.WithConnectivity(func() bool { return s.OnlineAccess }),
	}
	var sched *reload.Scheduler
	if !installNoReload {
		sched = reload.NewScheduler(reload.New(s.ReloadCommand, log), s.ReloadDelay, log)
		opts = append(opts, install.WithReloadScheduler(sched))
	}
	coord := install.New(checker, worker, a.manifest, a.wheelsDir, opts...)

	session, err := coord.Install(cmd.Context(), args[0])
	if err != nil {
		_ = bar.Clear()
		fmt.Fprintln(out, install.StatusMessage(err))
		return reported(err)
	}

	bar.Describe("Installing " + session.Package + "...")
	if err := waitForSession(cmd.Context(), session.Done(), func() { _ = bar.Add(1) }); err != nil {
		_ = bar.Clear()
		log.Warn("install interrupted",
			zap.String("package", session.Package),
			zap.Stringer("state", session.State()))
		fmt.Fprintln(out, install.StatusMessage(err))
		return reported(err)
	}
	_ = bar.Finish()
	coord.Wait()

	fmt.Fprintln(out, session.Message())
	if sched != nil {
		sched.Wait()
	}
	if err := session.Err(); err != nil {
		return reported(err)
	}
	if err := a.refreshListing(); err != nil {
		log.Warn("refreshing listing", zap.Error(err))
	}
	log.Debug("installed", zap.String("package", session.Package), zap.Int("changes", len(session.Changes())))
	return nil
}

// waitForSession blocks until done is closed, calling tick every 100ms. It
// returns install.ErrInterrupted when ctx ends first.
func waitForSession(ctx context.Context, done <-chan struct{}, tick func()) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", install.ErrInterrupted, ctx.Err())
		case <-ticker.C:
			tick()
		}
	}
}

func newSpinner(quiet bool) *progressbar.ProgressBar {
	if quiet {
		return progressbar.DefaultSilent(-1)
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetDescription("Checking package index..."),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
