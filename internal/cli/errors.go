package cli

import (
	"errors"

	"github.com/rshade/cardcollector/internal/collector"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitError        = 1
	ExitInvalidInput = 2
	ExitUnauthorized = 3
	ExitAborted      = 130
)

// ErrorMessage returns the text to print for an error returned by a command.
// Service errors get their user-facing message; local errors such as bad
// flags are printed as they are.
func ErrorMessage(err error) string {
	var svcErr *collector.ServiceError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &svcErr),
		errors.Is(err, collector.ErrUnauthorized),
		errors.Is(err, collector.ErrTransient):
		return collector.UserMessage(err)
	case errors.Is(err, collector.ErrAborted):
		return "Interrupted."
	default:
		return err.Error()
	}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, collector.ErrAborted):
		return ExitAborted
	case errors.Is(err, collector.ErrUnauthorized):
		return ExitUnauthorized
	case errors.Is(err, collector.ErrValidation):
		return ExitInvalidInput
	default:
		return ExitError
	}
}
