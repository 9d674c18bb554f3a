package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/stormctl/scrapestorm"
)

// ActionOptions holds options for the single-task action commands.
type ActionOptions struct {
	*GlobalOptions

	Action scrapestorm.Action
	// Name selects the task by name instead of id.
	Name string
}

type actionFunc func(context.Context) (*scrapestorm.APIResponse, error)

type actionDef struct {
	use   string
	short string
	call  func(scrapestorm.TaskRef) actionFunc
}

var actionDefs = map[scrapestorm.Action]actionDef{
	scrapestorm.ActionStart: {
		use: "start", short: "Start a task",
		call: func(t scrapestorm.TaskRef) actionFunc { return t.Start },
	},
	scrapestorm.ActionStop: {
		use: "stop", short: "Stop a running task",
		call: func(t scrapestorm.TaskRef) actionFunc { return t.Stop },
	},
	scrapestorm.ActionStatus: {
		use: "status", short: "Show a task's run status",
		call: func(t scrapestorm.TaskRef) actionFunc { return t.Status },
	},
	scrapestorm.ActionDelete: {
		use: "delete", short: "Delete a task",
		call: func(t scrapestorm.TaskRef) actionFunc { return t.Delete },
	},
	scrapestorm.ActionDataClear: {
		use: "clear", short: "Clear a task's collected data",
		call: func(t scrapestorm.TaskRef) actionFunc { return t.ClearData },
	},
}

// NewActionCommand creates the command for one task action. It panics on an
// action without a command, which is a programming error.
func NewActionCommand(globalOpts *GlobalOptions, action scrapestorm.Action) *cobra.Command {
	def, ok := actionDefs[action]
	if !ok {
		panic(fmt.Sprintf("no command for action %q", action))
	}
	opts := &ActionOptions{GlobalOptions: globalOpts, Action: action}

	cmd := &cobra.Command{
		Use:   def.use + " [ID]",
		Short: def.short,
		Example: fmt.Sprintf(`  stormctl %[1]s 12
  stormctl %[1]s --name "news crawler"`, def.use),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, opts, def, args)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "select the task by name")

	return cmd
}

func runAction(cmd *cobra.Command, opts *ActionOptions, def actionDef, args []string) error {
	s, err := newSession(cmd, opts.GlobalOptions)
	if err != nil {
		return err
	}
	defer s.close()

	ctx := cmd.Context()
	id, err := resolveTaskID(ctx, s.client, args, opts.Name)
	if err != nil {
		return err
	}

	resp, err := def.call(s.client.Task(id))(ctx)
	if err != nil {
		return fmt.Errorf("%s task %d: %w", def.use, id, err)
	}
	return s.printer.ActionResult(id, opts.Action, resp)
}
