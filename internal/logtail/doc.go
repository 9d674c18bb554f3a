// Package logtail reads the tail of stormctl's log file for the dashboard.
//
// Read extracts the last N lines with a ring buffer, so memory stays
// O(maxLines) regardless of file size:
//
//	lines, err := logtail.Read(cfg.LogFile, 200)
//
// Parse decodes the JSON lines written by the zap logger into Entry values
// (time, level, message, caller, extra fields). Non-JSON lines survive as
// Entry.Raw so nothing is dropped. Colors are applied by the ui package.
package logtail
