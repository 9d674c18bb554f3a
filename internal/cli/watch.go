package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/stormctl/internal/app"
	"github.com/five82/stormctl/internal/exitcode"
)

// WatchOptions holds options for the watch command.
type WatchOptions struct {
	*GlobalOptions

	PollSeconds int
	PrefsPath   string
}

// NewWatchCommand creates the watch (dashboard) command.
func NewWatchCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &WatchOptions{GlobalOptions: globalOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Open the live task dashboard",
		Long: `Open a terminal dashboard that polls the task list and every task's
status. Tasks can be started (s), stopped (x), queried (enter) and cleared
(c) from the table. Logs go to the configured log_file while the dashboard
owns the terminal; press l to view them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.PollSeconds, "poll", 0, "refresh interval in seconds (default: 2)")
	cmd.Flags().StringVar(&opts.PrefsPath, "prefs", "", "preferences file (default: ~/.config/stormctl/prefs.toml)")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *WatchOptions) error {
	appOpts := opts.appOptions()
	appOpts.PrefsPath = opts.PrefsPath
	if opts.PollSeconds > 0 {
		appOpts.PollEvery = time.Duration(opts.PollSeconds) * time.Second
	}
	if opts.Verbose {
		appOpts.LogLevel = "debug"
	}
	if _, err := app.LoadConfig(appOpts); err != nil {
		return exitcode.WithCode(exitcode.ConfigError, err)
	}
	if err := app.Run(cmd.Context(), appOpts); err != nil {
		return exitcode.WithCode(exitcode.BackendError, err)
	}
	return nil
}
