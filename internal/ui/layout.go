package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops
	// secondary fields.
	LayoutCompactWidth = 100

	// LayoutExtraWideWidth is the threshold above which the table pane
	// shrinks to 30% of the width.
	LayoutExtraWideWidth = 160
)

// LogTailLimit is the number of log lines kept in the log view.
const LogTailLimit = 500

// Timing constants.
const (
	// DefaultActionTimeout bounds a single task action issued from the dashboard.
	DefaultActionTimeout = 5 * time.Second

	// DefaultUIInterval is the default snapshot refresh interval.
	DefaultUIInterval = time.Second
)
