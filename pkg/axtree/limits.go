package axtree

import (
	"fmt"

	"github.com/joshuapare/axtree/pkg/types"
)

// Limits defines constraints on update batches to prevent resource
// exhaustion from misbehaving producers. A zero field is unlimited.
type Limits struct {
	// MaxBatchRecords is the maximum number of records in one batch.
	MaxBatchRecords int

	// MaxChildren is the maximum length of a single child list.
	MaxChildren int

	// MaxDepth is the maximum depth of any path the applier walks.
	// Subtrees a batch does not affect are not re-measured.
	MaxDepth int

	// MaxNodes is the maximum number of live nodes after a batch.
	MaxNodes int

	// MaxDataSize is the maximum size of a single payload in bytes.
	MaxDataSize int
}

// DefaultLimits returns generous limits suitable for any real UI hierarchy.
func DefaultLimits() Limits {
	return Limits{
		MaxBatchRecords: DefaultMaxBatchRecords,
		MaxChildren:     DefaultMaxChildren,
		MaxDepth:        DefaultMaxDepth,
		MaxNodes:        DefaultMaxNodes,
		MaxDataSize:     DefaultMaxDataSize,
	}
}

// StrictLimits returns conservative limits for constrained consumers.
func StrictLimits() Limits {
	return Limits{
		MaxBatchRecords: StrictMaxBatchRecords,
		MaxChildren:     StrictMaxChildren,
		MaxDepth:        StrictMaxDepth,
		MaxNodes:        StrictMaxNodes,
		MaxDataSize:     StrictMaxDataSize,
	}
}

// NoLimits disables every limit.
func NoLimits() Limits {
	return Limits{}
}

// LimitError represents a limit validation failure.
type LimitError struct {
	Limit   string       // Name of the limit that was exceeded
	Current int64        // Current value
	Maximum int64        // Maximum allowed value
	NodeID  types.NodeID // Node involved (if applicable)
}

func (e *LimitError) Error() string {
	if e.NodeID != types.NoNode {
		return fmt.Sprintf("limit exceeded at %s: %s is %d (max %d)",
			e.NodeID, e.Limit, e.Current, e.Maximum)
	}
	return fmt.Sprintf("limit exceeded: %s is %d (max %d)",
		e.Limit, e.Current, e.Maximum)
}

// check returns an UpdateError when current exceeds a non-zero maximum.
func (l Limits) check(name string, current, maximum int, id types.NodeID) error {
	if maximum <= 0 || current <= maximum {
		return nil
	}
	return &UpdateError{
		Reason: ReasonLimit,
		ID:     id,
		Limit: &LimitError{
			Limit:   name,
			Current: int64(current),
			Maximum: int64(maximum),
			NodeID:  id,
		},
	}
}

// checkRecord validates a single record against the per-record limits.
func (l Limits) checkRecord(r *Record) error {
	if err := l.check("MaxChildren", len(r.Children), l.MaxChildren, r.ID); err != nil {
		return err
	}
	return l.check("MaxDataSize", len(r.Data), l.MaxDataSize, r.ID)
}
