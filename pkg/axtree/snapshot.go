package axtree

import (
	"bytes"

	"github.com/joshuapare/axtree/pkg/types"
)

// Snapshot returns a full batch describing the current tree: one record per
// live node in pre-order, payloads copied. Applying the snapshot to an empty
// tree reproduces this tree; applying it to this tree changes nothing but
// the generation.
//
// An empty tree yields a batch with RootID types.NoNode, which ApplyUpdate
// rejects; use Clear to empty a tree instead.
func (t *Tree) Snapshot() *Batch {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.view().Snapshot()
}

// Snapshot returns a full batch describing the viewed tree.
func (v View) Snapshot() *Batch {
	root := v.Root()
	if root == nil {
		return NewBatch(types.NoNode)
	}

	b := &Batch{
		RootID:  root.id,
		Records: make([]Record, 0, v.Len()),
	}
	_ = v.Walk(func(n *Node, _ int) error {
		b.Records = append(b.Records, Record{
			ID:       n.id,
			Data:     bytes.Clone(n.data),
			Children: n.ChildIDs(),
		})
		return nil
	})
	return b
}
