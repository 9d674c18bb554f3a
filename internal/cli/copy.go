package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/stormctl/scrapestorm"
)

// CopyOptions holds options for the copy command.
type CopyOptions struct {
	*GlobalOptions

	// Source selects the task to copy by name instead of id.
	Source         string
	Name           string
	TranslateChart bool
}

// NewCopyCommand creates the copy command.
func NewCopyCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &CopyOptions{GlobalOptions: globalOpts}

	cmd := &cobra.Command{
		Use:   "copy [ID]",
		Short: "Copy a task",
		Long: `Ask the server to duplicate a task. --name sets the new task's name;
without it the server picks one. translate_chart is always sent as
"true" or "false".`,
		Example: `  stormctl copy 12 --name "news crawler (eu)"
  stormctl copy --from "news crawler" --translate-chart`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCopy(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Source, "from", "", "select the source task by name")
	cmd.Flags().StringVar(&opts.Name, "name", "", "name of the new task")
	cmd.Flags().BoolVar(&opts.TranslateChart, "translate-chart", false, "convert a smart task into a flowchart task")

	return cmd
}

func runCopy(cmd *cobra.Command, opts *CopyOptions, args []string) error {
	s, err := newSession(cmd, opts.GlobalOptions)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	id, err := resolveTaskID(ctx, s.client, args, opts.Source)
	if err != nil {
		return err
	}

	resp, err := s.client.CopyTask(ctx, id, scrapestorm.CopyOptions{
		Name:           opts.Name,
		TranslateChart: opts.TranslateChart,
	})
	if err != nil {
		return fmt.Errorf("copy task %d: %w", id, err)
	}
	return s.printer.ActionResult(id, scrapestorm.ActionCopy, resp)
}
