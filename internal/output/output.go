// Package output renders CLI results as go-pretty tables or indented JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/five82/stormctl/scrapestorm"
)

// Format selects how results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat validates an -o/--output value. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table or json)", s)
	}
}

// Printer writes results to out in one format.
type Printer struct {
	out    io.Writer
	format Format
}

// NewPrinter returns a Printer. An empty format means table.
func NewPrinter(out io.Writer, format Format) *Printer {
	if format == "" {
		format = FormatTable
	}
	return &Printer{out: out, format: format}
}

// Format returns the printer's format.
func (p *Printer) Format() Format {
	return p.format
}

// TaskList prints the envelope returned by the list action.
func (p *Printer) TaskList(resp *scrapestorm.APIResponse) error {
	if p.format == FormatJSON {
		return p.JSON(resp)
	}
	if resp == nil || len(resp.List) == 0 {
		_, err := fmt.Fprintln(p.out, "No tasks.")
		return err
	}
	t := p.newTable()
	t.AppendHeader(table.Row{"ID", "Name", "Type", "Created"})
	for _, task := range resp.List {
		t.AppendRow(table.Row{task.TaskID, task.Name, task.Type, formatCreated(task)})
	}
	t.Render()
	return nil
}

// Task prints one task.
func (p *Printer) Task(task scrapestorm.Task) error {
	if p.format == FormatJSON {
		return p.JSON(task)
	}
	t := p.newTable()
	t.AppendRows([]table.Row{
		{"ID", task.TaskID},
		{"Name", task.Name},
		{"Type", task.Type},
		{"Created", formatCreated(task)},
		{"TimeCreate", fmt.Sprintf("%.3f", task.TimeCreate)},
	})
	t.Render()
	return nil
}

// ActionResult prints the envelope returned by a task action.
func (p *Printer) ActionResult(taskID int64, action scrapestorm.Action, resp *scrapestorm.APIResponse) error {
	if p.format == FormatJSON {
		return p.JSON(resp)
	}
	if resp == nil {
		resp = &scrapestorm.APIResponse{}
	}
	status := resp.StatusText()
	if status == "" {
		status = "-"
	}
	t := p.newTable()
	t.AppendHeader(table.Row{"Task", "Action", "Code", "Message", "Status"})
	t.AppendRow(table.Row{taskID, action, resp.Code, resp.Msg, status})
	t.Render()
	return nil
}

// Message prints a plain line in table mode and {"message": ...} in JSON mode.
func (p *Printer) Message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.format == FormatJSON {
		return p.JSON(map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(p.out, msg)
	return err
}

// JSON writes v as indented JSON.
func (p *Printer) JSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func (p *Printer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	return t
}

func formatCreated(task scrapestorm.Task) string {
	ts := task.CreatedAt()
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(time.DateTime)
}
