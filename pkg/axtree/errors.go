package axtree

import (
	"fmt"

	"github.com/joshuapare/axtree/pkg/types"
)

// Reason identifies why a batch was rejected.
type Reason uint8

const (
	// ReasonNoRoot means the batch did not name a root.
	ReasonNoRoot Reason = iota
	// ReasonUnknownRoot means the root is neither a record nor a live node.
	ReasonUnknownRoot
	// ReasonInvalidID means a record or child used the reserved NoNode id.
	ReasonInvalidID
	// ReasonDuplicateRecord means an id has more than one record.
	ReasonDuplicateRecord
	// ReasonUnresolvedChild means a child is neither a record nor a live node.
	ReasonUnresolvedChild
	// ReasonMultipleParents means a node would end up with two parents.
	ReasonMultipleParents
	// ReasonCycle means a node would be its own ancestor.
	ReasonCycle
	// ReasonUnreachable means a record is not reachable from the new root.
	ReasonUnreachable
	// ReasonLimit means a configured limit would be exceeded.
	ReasonLimit
)

// String returns the string representation of the Reason.
func (r Reason) String() string {
	switch r {
	case ReasonNoRoot:
		return "NoRoot"
	case ReasonUnknownRoot:
		return "UnknownRoot"
	case ReasonInvalidID:
		return "InvalidID"
	case ReasonDuplicateRecord:
		return "DuplicateRecord"
	case ReasonUnresolvedChild:
		return "UnresolvedChild"
	case ReasonMultipleParents:
		return "MultipleParents"
	case ReasonCycle:
		return "Cycle"
	case ReasonUnreachable:
		return "Unreachable"
	case ReasonLimit:
		return "Limit"
	default:
		return "Unknown"
	}
}

// UpdateError describes a rejected batch. It matches types.ErrMalformedUpdate
// with errors.Is.
type UpdateError struct {
	Reason Reason
	ID     types.NodeID // offending node
	Parent types.NodeID // parent involved, if any
	Other  types.NodeID // second parent for ReasonMultipleParents
	Limit  *LimitError  // set for ReasonLimit
}

func (e *UpdateError) Error() string {
	var detail string
	switch e.Reason {
	case ReasonNoRoot:
		detail = "batch names no root"
	case ReasonUnknownRoot:
		detail = fmt.Sprintf("root %s is neither a record nor a live node", e.ID)
	case ReasonInvalidID:
		if e.Parent != types.NoNode {
			detail = fmt.Sprintf("record %s lists the reserved id %s as a child", e.Parent, e.ID)
		} else {
			detail = fmt.Sprintf("record uses the reserved id %s", e.ID)
		}
	case ReasonDuplicateRecord:
		detail = fmt.Sprintf("%s has more than one record", e.ID)
	case ReasonUnresolvedChild:
		detail = fmt.Sprintf("child %s of %s is neither a record nor a live node", e.ID, e.Parent)
	case ReasonMultipleParents:
		detail = fmt.Sprintf("%s would be a child of both %s and %s", e.ID, e.Other, e.Parent)
	case ReasonCycle:
		detail = fmt.Sprintf("%s would be its own ancestor (via %s)", e.ID, e.Parent)
	case ReasonUnreachable:
		detail = fmt.Sprintf("record %s is not reachable from the new root", e.ID)
	case ReasonLimit:
		if e.Limit != nil {
			detail = e.Limit.Error()
		} else {
			detail = "limit exceeded"
		}
	default:
		detail = e.Reason.String()
	}
	return types.ErrMalformedUpdate.Msg + ": " + detail
}

// Unwrap lets errors.Is match types.ErrMalformedUpdate.
func (e *UpdateError) Unwrap() error { return types.ErrMalformedUpdate }
