package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service error by business meaning rather than by
// transport status. Handlers translate kinds into HTTP responses.
type Kind int

const (
	// KindTransient covers storage and other unexpected failures. The
	// operation is safe to retry because nothing is committed before the
	// atomic write.
	KindTransient Kind = iota
	// KindNotFound means a referenced page, edit, profile, topic or
	// comment does not exist.
	KindNotFound
	// KindValidation means the input was empty or otherwise invalid.
	KindValidation
	// KindForbidden means the actor lacks the role or ownership the
	// operation requires.
	KindForbidden
	// KindConflict means a state precondition failed, e.g. an edit was
	// no longer PENDING or a page version moved underneath a writer.
	KindConflict
)

// Error is the typed error returned for expected business outcomes.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the Kind from an error chain. Unclassified errors are
// reported as KindTransient.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindTransient
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func notFound(msg string, err error) *Error {
	return &Error{Kind: KindNotFound, Msg: msg, Err: err}
}

func validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Msg: msg}
}

func conflict(msg string, err error) *Error {
	return &Error{Kind: KindConflict, Msg: msg, Err: err}
}

func transient(msg string, err error) *Error {
	return &Error{Kind: KindTransient, Msg: msg, Err: err}
}
