package collector

import (
	"context"
	"errors"
	"fmt"
)

// GenericErrorMessage is what users see for any transient failure.
const GenericErrorMessage = "An internal error occurred. Please try again later."

// Error categories. Every error returned by Client wraps exactly one of them,
// or is a *ServiceError.
var (
	// ErrValidation marks request input rejected before it was sent.
	ErrValidation = errors.New("validation failed")
	// ErrTransient marks network failures and unexpected responses.
	ErrTransient = errors.New("transient service failure")
	// ErrAborted marks requests cancelled by the caller. Never shown to users.
	ErrAborted = errors.New("request aborted")
	// ErrUnauthorized marks a missing or expired session.
	ErrUnauthorized = errors.New("not logged in")
)

// ServiceError is an application-level error the service reported in an
// {"error": "..."} body. Its message is meant for the user verbatim.
type ServiceError struct {
	Endpoint string
	Message  string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// wrapRequestError maps a transport error onto the taxonomy.
func wrapRequestError(ctx context.Context, endpoint string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("%w: %s", ErrAborted, endpoint)
	}
	return fmt.Errorf("%w: %s: %w", ErrTransient, endpoint, err)
}

// UserMessage returns the text to show for err, or "" when nothing should be
// shown (nil and aborted requests).
func UserMessage(err error) string {
	if err == nil || errors.Is(err, ErrAborted) {
		return ""
	}
	var svcErr *ServiceError
	switch {
	case errors.As(err, &svcErr):
		return svcErr.Message
	case errors.Is(err, ErrUnauthorized):
		return "Not logged in. Run `collector login` first."
	case errors.Is(err, ErrValidation):
		return err.Error()
	default:
		return GenericErrorMessage
	}
}
