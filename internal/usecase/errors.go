package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrMalformedData         = errors.New("malformed upstream data")
	ErrRenderFailed          = errors.New("render failed")
)

// PublicError carries a message that may be shown to the requester as is.
type PublicError struct {
	Kind    error
	Message string
}

func (e *PublicError) Error() string {
	return e.Kind.Error() + ": " + e.Message
}

func (e *PublicError) Unwrap() error {
	return e.Kind
}

func publicError(kind error, message string) error {
	return &PublicError{Kind: kind, Message: message}
}

// PublicMessage returns the requester-facing text of err, or fallback when err
// carries none.
func PublicMessage(err error, fallback string) string {
	var pe *PublicError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return fallback
}
