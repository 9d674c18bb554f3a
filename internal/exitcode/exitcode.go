// Package exitcode defines exit codes for the CLI.
package exitcode

import (
	"errors"

	"github.com/five82/stormctl/scrapestorm"
)

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, unknown task, invalid id).
	UserError = 1

	// ConfigError indicates an unreadable or invalid config file.
	ConfigError = 2

	// BackendError indicates the ScrapeStorm server was unreachable or replied
	// with something other than a JSON envelope.
	BackendError = 3
)

type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

// WithCode tags err with an explicit exit code. A nil err stays nil.
func WithCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, err: err}
}

// FromError maps err to an exit code. Explicit codes from WithCode win;
// otherwise client errors map to BackendError and the rest to UserError.
func FromError(err error) int {
	if err == nil {
		return Success
	}
	var coded *codedError
	if errors.As(err, &coded) {
		return coded.code
	}
	switch {
	case errors.Is(err, scrapestorm.ErrNotFound), errors.Is(err, scrapestorm.ErrInvalidTaskID):
		return UserError
	case scrapestorm.IsTransport(err), scrapestorm.IsProtocol(err):
		return BackendError
	default:
		return UserError
	}
}
