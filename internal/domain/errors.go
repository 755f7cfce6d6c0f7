package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure for the invoking layer.
type Kind string

const (
	KindValidation Kind = "validation"
	KindParse      Kind = "parse"
	KindCreate     Kind = "create"
	KindLink       Kind = "link"
	KindNotFound   Kind = "not_found"
	KindUpdate     Kind = "update"
	KindNetwork    Kind = "network"
	KindBusy       Kind = "busy"
	KindStale      Kind = "stale"
)

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrValidation = errors.New("validation error")
	ErrParse      = errors.New("parse error")
	ErrCreate     = errors.New("create error")
	ErrLink       = errors.New("link error")
	ErrNotFound   = errors.New("not found")
	ErrUpdate     = errors.New("update error")
	ErrNetwork    = errors.New("network error")

	// ErrBusy is returned when an operation is admitted while another one
	// on the same workflow is still in flight.
	ErrBusy = errors.New("operation already in progress")

	// ErrStale is returned when a response arrives for an operation that
	// was abandoned (start over, input reset) before it completed.
	ErrStale = errors.New("stale response discarded")
)

var kindSentinels = map[Kind]error{
	KindValidation: ErrValidation,
	KindParse:      ErrParse,
	KindCreate:     ErrCreate,
	KindLink:       ErrLink,
	KindNotFound:   ErrNotFound,
	KindUpdate:     ErrUpdate,
	KindNetwork:    ErrNetwork,
	KindBusy:       ErrBusy,
	KindStale:      ErrStale,
}

// Error is a classified failure carrying a human-readable message.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// NewError builds a classified error wrapping cause.
func NewError(kind Kind, op string, cause error) *Error {
	e := &Error{Kind: kind, Op: op, Err: cause}
	if cause != nil {
		e.Message = cause.Error()
	}
	return e
}

// Errorf builds a classified error with a formatted message.
func Errorf(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first classified error in err's chain.
// Unclassified errors report KindNetwork when they carry no remote verdict.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var partial *PartialCreateError
	if errors.As(err, &partial) {
		return KindCreate
	}
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	for k, s := range kindSentinels {
		if errors.Is(err, s) {
			return k
		}
	}
	return KindNetwork
}

// PartialCreateError reports a hierarchy creation where at least one
// constituent call failed. Tree is exactly what exists remotely.
type PartialCreateError struct {
	Tree  *CreateTree
	Cause error
}

func (e *PartialCreateError) Error() string {
	created := 0
	if e.Tree != nil {
		created = len(e.Tree.CreatedIDs())
	}
	return fmt.Sprintf("create hierarchy: partially created (%d items exist remotely): %v", created, e.Cause)
}

func (e *PartialCreateError) Unwrap() error { return e.Cause }

// Is matches ErrCreate so callers can treat partial trees as creation failures.
func (e *PartialCreateError) Is(target error) bool { return target == ErrCreate }
