package types

import (
	"errors"
	"strconv"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindMalformed ErrKind = iota // update batch would violate tree invariants
	ErrKindNotFound                 // unknown or destroyed node id
	ErrKindFormat                   // serialized batch could not be decoded
	ErrKindState                    // invalid operation for current state (e.g., queue closed)
	ErrKindBusy                     // resource already owned by another caller
)

// String returns the category name.
func (k ErrKind) String() string {
	switch k {
	case ErrKindMalformed:
		return "malformed"
	case ErrKindNotFound:
		return "not-found"
	case ErrKindFormat:
		return "format"
	case ErrKindState:
		return "state"
	case ErrKindBusy:
		return "busy"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same kind, so that any
// error of a category matches that category's sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels commonly returned by implementations.
var (
	// ErrMalformedUpdate indicates a batch that cannot be applied without
	// violating tree invariants. The tree is left unchanged.
	ErrMalformedUpdate = &Error{Kind: ErrKindMalformed, Msg: "malformed update"}
	// ErrNotFound indicates a missing node id.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "node not found"}
	// ErrFormat indicates a serialized batch that could not be decoded.
	ErrFormat = &Error{Kind: ErrKindFormat, Msg: "invalid batch encoding"}
	// ErrClosed indicates an operation on a stopped update queue.
	ErrClosed = &Error{Kind: ErrKindState, Msg: "update queue closed"}
)

// KindOf returns the category of err, or false when err carries none.
func KindOf(err error) (ErrKind, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind, true
	}
	return 0, false
}

// -----------------------------------------------------------------------------
// Core Identifiers
// -----------------------------------------------------------------------------

// NodeID is a producer-assigned node handle. Ids are unique among the live
// nodes of a tree and are not reused while referenced.
type NodeID uint32

// NoNode is the reserved id meaning "no node".
const NoNode NodeID = 0

// Valid reports whether id can name a node.
func (id NodeID) Valid() bool { return id != NoNode }

// String formats the id as "#<n>".
func (id NodeID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}
