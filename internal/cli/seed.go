package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/stormctl/internal/resources"
	"github.com/five82/stormctl/scrapestorm"
)

// SeedOptions holds options for the seed command.
type SeedOptions struct {
	*GlobalOptions

	Name  string
	URLs  []string
	File   string
	Append bool
	Start  bool
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &SeedOptions{GlobalOptions: globalOpts}

	cmd := &cobra.Command{
		Use:   "seed [ID]",
		Short: "Write a task's start URL list",
		Long: `Write the URLs a task should crawl to RESOURCES_DIR/ID/urls.txt, one
per line. URLs come from repeated --url flags and from --file (one per
line, '#' comments allowed; '-' reads stdin). --append keeps the URLs
already written for the task. With --start the task is started once the
file is written.`,
		Example: `  stormctl seed 12 --url https://example.com/a --url https://example.com/b
  stormctl seed --name "news crawler" --file urls.txt --start`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "select the task by name")
	cmd.Flags().StringArrayVar(&opts.URLs, "url", nil, "URL to add (repeatable)")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read URLs from a file, or - for stdin")
	cmd.Flags().BoolVar(&opts.Append, "append", false, "keep URLs already written for the task")
	cmd.Flags().BoolVar(&opts.Start, "start", false, "start the task after writing the file")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions, args []string) error {
	urls := append([]string(nil), opts.URLs...)
	if opts.File != "" {
		fromFile, err := readURLFile(cmd, opts.File)
		if err != nil {
			return err
		}
		urls = append(urls, fromFile...)
	}
	if len(urls) == 0 {
		return fmt.Errorf("no urls given (use --url or --file)")
	}

	s, err := newSession(cmd, opts.GlobalOptions)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	var id int64
	if len(args) > 0 && opts.Name == "" {
		// Seeding by id works offline; only a name needs the server.
		id, err = parseTaskID(args[0])
	} else {
		id, err = resolveTaskID(ctx, s.client, args, opts.Name)
	}
	if err != nil {
		return err
	}

	if opts.Append {
		existing, err := resources.LoadURLs(s.cfg.ResourcesDir, id)
		if err != nil {
			return fmt.Errorf("seed task %d: %w", id, err)
		}
		urls = append(existing, urls...)
	}

	path, err := resources.WriteURLs(s.cfg.ResourcesDir, id, urls)
	if err != nil {
		return fmt.Errorf("seed task %d: %w", id, err)
	}
	s.logger.Debug("wrote task urls", zap.Int64("task_id", id), zap.String("path", path), zap.Int("count", len(urls)))

	if !opts.Start {
		return s.printer.Message("wrote %d urls for task %d to %s", len(urls), id, path)
	}

	resp, err := s.client.StartTask(ctx, id)
	if err != nil {
		return fmt.Errorf("start task %d: %w", id, err)
	}
	return s.printer.ActionResult(id, scrapestorm.ActionStart, resp)
}

func readURLFile(cmd *cobra.Command, path string) ([]string, error) {
	if path == "-" {
		urls, err := resources.ReadURLList(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read urls from stdin: %w", err)
		}
		return urls, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url file: %w", err)
	}
	defer f.Close()
	urls, err := resources.ReadURLList(f)
	if err != nil {
		return nil, fmt.Errorf("read url file: %w", err)
	}
	return urls, nil
}
