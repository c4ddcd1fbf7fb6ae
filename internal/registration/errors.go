package registration

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingGlobList reports that the pattern list file does not exist.
	// Generate treats it as a skip, never as a failure.
	ErrMissingGlobList = errors.New("registration glob list not found")

	// ErrUnknownEvent is returned by Plugin.Dispatch for unsubscribed events.
	ErrUnknownEvent = errors.New("unknown lifecycle event")
)

// ConfigError wraps a malformed input file (glob list, exclusion list or
// ignore file).
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
