// Package app is stormctl's composition root.
//
// It turns command-line Options plus the TOML config into a Config, builds
// the zap logger and the scrapestorm.Client, and for the dashboard wires a
// background Poller into a shared state.Store that the ui package renders.
//
//	Run()
//	  ├─> LoadConfig()        config file + flag overrides
//	  ├─> logging.New()       JSON log file (the TUI owns the terminal)
//	  ├─> NewClient()         scrapestorm.Client with timeout and logger
//	  ├─> Poller.Start()      list + per-task status into state.Store
//	  └─> ui.Run()            Bubble Tea dashboard (blocks)
//
// # Polling
//
// Each cycle lists tasks and then asks for every task's status. A failed
// list counts as a poll failure and doubles the wait before the next cycle,
// up to 30 seconds; a failed status call is stored on that task only.
// Trigger requests an immediate cycle, which the dashboard does after every
// operator action.
//
// The CLI commands use LoadConfig and NewClient directly and never start a
// poller.
package app
