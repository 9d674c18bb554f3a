// Package cli implements the stormctl command tree on cobra.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/stormctl/internal/app"
	"github.com/five82/stormctl/internal/config"
	"github.com/five82/stormctl/internal/exitcode"
	"github.com/five82/stormctl/internal/logging"
	"github.com/five82/stormctl/internal/output"
	"github.com/five82/stormctl/scrapestorm"
)

const (
	cliName        = "stormctl"
	cliDescription = "stormctl - control ScrapeStorm tasks over its local REST API"
)

// GlobalOptions holds flags shared by every command.
type GlobalOptions struct {
	ConfigPath     string
	Host           string
	Port           int
	TimeoutSeconds int
	Output         string
	Verbose        bool
}

// appOptions converts the global flags into app.Options.
func (o *GlobalOptions) appOptions() app.Options {
	opts := app.Options{
		ConfigPath: o.ConfigPath,
		Host:       o.Host,
		Port:       o.Port,
	}
	if o.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(o.TimeoutSeconds) * time.Second
	}
	return opts
}

// NewRootCommand creates the root command with all subcommands.
func NewRootCommand(version string) *cobra.Command {
	opts := &GlobalOptions{}

	cmd := &cobra.Command{
		Use:   cliName,
		Short: cliDescription,
		Long: `stormctl drives a ScrapeStorm desktop instance through its REST API
(http://HOST:PORT/rest/v1/task/...). It lists tasks, starts, stops, clears,
copies and deletes them, seeds per-task URL files, and offers a live
dashboard with 'stormctl watch'.

Settings come from ~/.config/stormctl/config.toml; flags override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.TimeoutSeconds < 0 {
				return fmt.Errorf("--timeout must not be negative")
			}
			_, err := output.ParseFormat(opts.Output)
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "",
		"config file (default: ~/.config/stormctl/config.toml)")
	cmd.PersistentFlags().StringVar(&opts.Host, "host", "",
		"ScrapeStorm host, optionally host:port (default: localhost)")
	cmd.PersistentFlags().IntVar(&opts.Port, "port", 0,
		"ScrapeStorm port (default: 8080)")
	cmd.PersistentFlags().IntVar(&opts.TimeoutSeconds, "timeout", 0,
		"request timeout in seconds (default: 5)")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "table",
		"output format: table or json")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false,
		"log requests to stderr")

	cmd.AddCommand(
		NewListCommand(opts),
		NewGetCommand(opts),
		NewActionCommand(opts, scrapestorm.ActionStart),
		NewActionCommand(opts, scrapestorm.ActionStop),
		NewActionCommand(opts, scrapestorm.ActionStatus),
		NewActionCommand(opts, scrapestorm.ActionDelete),
		NewActionCommand(opts, scrapestorm.ActionDataClear),
		NewCopyCommand(opts),
		NewSeedCommand(opts),
		NewWatchCommand(opts),
		NewVersionCommand(version),
	)

	return cmd
}

// Execute runs the command tree and returns the process exit code.
func Execute(ctx context.Context, version string, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCommand(version)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", cliName, err)
		return exitcode.FromError(err)
	}
	return exitcode.Success
}

// session is the per-invocation state a command needs to talk to the server.
type session struct {
	cfg     config.Config
	client  *scrapestorm.Client
	logger  *zap.Logger
	printer *output.Printer
}

// newSession loads config, builds a stderr logger and the client.
func newSession(cmd *cobra.Command, opts *GlobalOptions) (*session, error) {
	cfg, err := app.LoadConfig(opts.appOptions())
	if err != nil {
		return nil, exitcode.WithCode(exitcode.ConfigError, err)
	}

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Options{Level: level})
	if err != nil {
		return nil, exitcode.WithCode(exitcode.ConfigError, err)
	}

	client, err := app.NewClient(cfg, logger)
	if err != nil {
		return nil, exitcode.WithCode(exitcode.ConfigError, err)
	}

	format, err := output.ParseFormat(opts.Output)
	if err != nil {
		return nil, err
	}

	return &session{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		printer: output.NewPrinter(cmd.OutOrStdout(), format),
	}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// parseTaskID parses a positional task id. Ids must be positive integers.
func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task id %q: %w", arg, scrapestorm.ErrInvalidTaskID)
	}
	return id, nil
}

// resolveTaskID returns the id from args[0] or, when name is set, looks the
// task up by name. Exactly one of the two must be given.
func resolveTaskID(ctx context.Context, api scrapestorm.API, args []string, name string) (int64, error) {
	name = strings.TrimSpace(name)
	switch {
	case len(args) > 0 && name != "":
		return 0, fmt.Errorf("give either a task id or --name, not both")
	case len(args) > 0:
		return parseTaskID(args[0])
	case name != "":
		task, err := api.GetTaskByName(ctx, name)
		if err != nil {
			return 0, err
		}
		return task.TaskID, nil
	default:
		return 0, fmt.Errorf("a task id or --name is required")
	}
}
