package scrapestorm

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrNotFound is returned by GetTask and GetTaskByName when no listed task matches.
	ErrNotFound = errors.New("task not found")

	// ErrInvalidTaskID is returned by task-scoped calls given an id <= 0.
	ErrInvalidTaskID = errors.New("task id must be positive")
)

// TransportError reports a request that never produced an HTTP response:
// connection refused, DNS failure, timeout or cancellation.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the request ran out of time.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// ProtocolError reports a response the client could not accept: a non-2xx
// status (Err is nil) or a body that does not decode as an APIResponse.
type ProtocolError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("api %s returned status %d", e.URL, e.StatusCode)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// IsTransport reports whether err is (or wraps) a *TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProtocol reports whether err is (or wraps) a *ProtocolError.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}
