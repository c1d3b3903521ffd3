package invoice

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("invoice not found")

// Kind classifies domain failures. The set is closed; the HTTP layer maps each
// kind to exactly one status code.
type Kind int

const (
	// KindBadRequest is a structural problem with the request shape.
	KindBadRequest Kind = iota + 1
	// KindUnprocessable is a well-formed request whose values are rejected.
	KindUnprocessable
	// KindConflict is a uniqueness violation detected at persistence time.
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnprocessable:
		return "unprocessable"
	case KindConflict:
		return "conflict"
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// Issue points at one offending field, using dotted JSON paths such as
// "items.0.quantity".
type Issue struct {
	Path    string
	Message string
}

type Error struct {
	Kind    Kind
	Message string
	Issues  []Issue
}

func (e *Error) Error() string {
	if len(e.Issues) == 0 {
		return e.Message
	}

	return fmt.Sprintf("%s: %s: %s", e.Message, e.Issues[0].Path, e.Issues[0].Message)
}

// IsKind reports whether err carries a domain *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}

	return e.Kind == kind
}

func badRequest(message string, issues ...Issue) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Issues: issues}
}

func unprocessable(message, path, detail string) *Error {
	return &Error{
		Kind:    KindUnprocessable,
		Message: message,
		Issues:  []Issue{{Path: path, Message: detail}},
	}
}

func conflict(field, message string) *Error {
	return &Error{
		Kind:    KindConflict,
		Message: message,
		Issues:  []Issue{{Path: field, Message: message}},
	}
}
