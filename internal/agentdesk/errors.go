package agentdesk

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotImplemented = errors.New("not implemented")
)

// NotFoundError reports a lookup of an identifier absent from its store.
// The message shape ("Task not found", "Email not found") is part of the
// tool response contract and surfaced verbatim in failure envelopes.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return e.Entity + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
