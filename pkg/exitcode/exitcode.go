// Package exitcode provides standardized exit codes for ncreg
package exitcode

import (
	"errors"
	"io/fs"
	"os"
)

// Exit codes for the ncreg CLI
const (
	Success         = 0
	GeneralError    = 1
	ConfigError     = 2
	FileSystemError = 4
	PermissionError = 6
)

// String returns a human-readable description of the exit code
func String(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case ConfigError:
		return "Configuration error"
	case FileSystemError:
		return "File system error"
	case PermissionError:
		return "Permission error"
	default:
		return "Unknown error"
	}
}

// ConfigErr marks an error as a configuration problem.
type ConfigErr struct{ Err error }

func (e *ConfigErr) Error() string { return e.Err.Error() }
func (e *ConfigErr) Unwrap() error { return e.Err }

// FromError picks the exit code for an error returned by a command.
func FromError(err error) int {
	var cfgErr *ConfigErr
	switch {
	case err == nil:
		return Success
	case errors.As(err, &cfgErr):
		return ConfigError
	case errors.Is(err, fs.ErrPermission):
		return PermissionError
	case errors.As(err, new(*fs.PathError)), errors.As(err, new(*os.LinkError)):
		return FileSystemError
	default:
		return GeneralError
	}
}
