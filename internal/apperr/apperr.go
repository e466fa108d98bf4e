package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for boundary translation (HTTP status, ack policy).
type Kind int

const (
	// KindInvalidArgument marks a request missing or malforming a required field.
	KindInvalidArgument Kind = iota
	// KindUnauthenticated marks a request with no valid caller identity.
	KindUnauthenticated
	// KindNotFound marks a referenced user, group or code that does not exist.
	KindNotFound
	// KindTransient marks store or transport failures the caller may retry.
	KindTransient
	// KindDataIntegrity marks a stored-state violation such as duplicate join codes.
	KindDataIntegrity
)

// Error carries a kind alongside the message and an optional cause.
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

func (e *Error) Unwrap() error { return e.Err }

// Is matches two apperr.Errors by kind so sentinel-style checks work.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

func InvalidArgument(msg string) error {
	return &Error{Kind: KindInvalidArgument, Msg: msg}
}

func Unauthenticated(msg string) error {
	return &Error{Kind: KindUnauthenticated, Msg: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Transient(msg string, cause error) error {
	return &Error{Kind: KindTransient, Msg: msg, Err: cause}
}

func DataIntegrity(msg string) error {
	return &Error{Kind: KindDataIntegrity, Msg: msg}
}

// KindOf reports the kind of err, or ok=false when err is not an apperr.Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsKind reports whether err is an apperr.Error of the given kind.
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
