package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(globalOpts *GlobalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Example: `  stormctl list
  stormctl list -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, globalOpts)
		},
	}
}

func runList(cmd *cobra.Command, opts *GlobalOptions) error {
	s, err := newSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.close()

	resp, err := s.client.ListTasks(cmd.Context())
	if err != nil {
		return fmt.Errorf("list tasks: %w", err)
	}
	return s.printer.TaskList(resp)
}
