package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/stormctl/scrapestorm"
)

// GetOptions holds options for the get command.
type GetOptions struct {
	*GlobalOptions

	// Name looks the task up by exact name instead of id.
	Name string
}

// NewGetCommand creates the get command.
func NewGetCommand(globalOpts *GlobalOptions) *cobra.Command {
	opts := &GetOptions{GlobalOptions: globalOpts}

	cmd := &cobra.Command{
		Use:   "get [ID]",
		Short: "Show one task by id or name",
		Long: `Show one task. The task list is fetched and searched locally; the
command exits with status 1 when no task matches.`,
		Example: `  stormctl get 12
  stormctl get --name "news crawler"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "task name (exact match)")

	return cmd
}

func runGet(cmd *cobra.Command, opts *GetOptions, args []string) error {
	s, err := newSession(cmd, opts.GlobalOptions)
	if err != nil {
		return err
	}
	defer s.close()

	var task scrapestorm.Task
	switch {
	case len(args) > 0 && opts.Name != "":
		return fmt.Errorf("give either a task id or --name, not both")
	case len(args) > 0:
		id, err := parseTaskID(args[0])
		if err != nil {
			return err
		}
		task, err = s.client.GetTask(cmd.Context(), id)
		if err != nil {
			return err
		}
	case opts.Name != "":
		task, err = s.client.GetTaskByName(cmd.Context(), opts.Name)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("a task id or --name is required")
	}
	return s.printer.Task(task)
}
