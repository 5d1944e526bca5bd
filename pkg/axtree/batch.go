package axtree

import (
	"slices"

	"github.com/joshuapare/axtree/pkg/types"
)

// Record describes the desired state of one node: its payload and its
// complete ordered child list.
type Record struct {
	// ID names the node. Unknown ids create a node.
	ID types.NodeID

	// Data replaces the node payload wholesale. The tree stores a copy.
	Data []byte

	// Children is the complete ordered child list. Order is significant.
	Children []types.NodeID
}

// Batch is an update pushed by a producer: the records of every node whose
// payload or child list changes, plus the id of the root after the update.
// A full snapshot is a batch that names every node.
type Batch struct {
	// RootID is the root after the update. It must name a record or a live
	// node.
	RootID types.NodeID

	// Records is the ordered list of node records.
	Records []Record
}

// NewBatch creates an empty batch with the given root.
func NewBatch(root types.NodeID) *Batch {
	return &Batch{
		RootID:  root,
		Records: make([]Record, 0),
	}
}

// Add appends a record.
func (b *Batch) Add(id types.NodeID, data []byte, children ...types.NodeID) *Batch {
	b.Records = append(b.Records, Record{
		ID:       id,
		Data:     data,
		Children: slices.Clone(children),
	})
	return b
}

// Size returns the number of records in the batch.
func (b *Batch) Size() int {
	return len(b.Records)
}

// Applied contains statistics about what a batch changed.
type Applied struct {
	Created    int    // nodes introduced by the batch
	Updated    int    // existing nodes named by a record
	Destroyed  int    // nodes removed because the new shape no longer reaches them
	Reparented int    // surviving nodes whose parent changed
	Generation uint64 // tree generation after the batch
}

// Add accumulates another result into a.
func (a *Applied) Add(other Applied) {
	a.Created += other.Created
	a.Updated += other.Updated
	a.Destroyed += other.Destroyed
	a.Reparented += other.Reparented
	if other.Generation > a.Generation {
		a.Generation = other.Generation
	}
}
