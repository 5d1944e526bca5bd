package axtree

import (
	"bytes"
	"slices"

	"github.com/joshuapare/axtree/pkg/types"
)

// Diff computes the incremental batch that turns t into the tree described
// by target, a full snapshot. The result holds a record for every target
// node that is new, whose payload differs, or whose child list differs, in
// target pre-order. Nodes of t that target does not reach are dropped by the
// applier without needing records.
//
// target must be self-contained: every id reachable from its root needs a
// record, and the shape must be a tree. Otherwise Diff returns an
// *UpdateError. Records target cannot reach are ignored.
func Diff(t *Tree, target *Batch) (*Batch, error) {
	if target == nil || target.RootID == types.NoNode {
		return nil, &UpdateError{Reason: ReasonNoRoot}
	}

	records := make(map[types.NodeID]*Record, len(target.Records))
	for i := range target.Records {
		r := &target.Records[i]
		if r.ID == types.NoNode {
			return nil, &UpdateError{Reason: ReasonInvalidID, ID: r.ID}
		}
		if _, dup := records[r.ID]; dup {
			return nil, &UpdateError{Reason: ReasonDuplicateRecord, ID: r.ID}
		}
		records[r.ID] = r
	}
	if _, ok := records[target.RootID]; !ok {
		return nil, &UpdateError{Reason: ReasonUnknownRoot, ID: target.RootID}
	}

	order, err := targetPreOrder(target.RootID, records)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	out := NewBatch(target.RootID)
	for _, id := range order {
		r := records[id]
		n, live := t.index[id]
		if live && bytes.Equal(n.data, r.Data) && slices.Equal(n.ChildIDs(), r.Children) {
			continue
		}
		out.Records = append(out.Records, Record{
			ID:       r.ID,
			Data:     bytes.Clone(r.Data),
			Children: slices.Clone(r.Children),
		})
	}
	return out, nil
}

// targetPreOrder lists the ids reachable from root in pre-order, checking
// that the records form a tree.
func targetPreOrder(root types.NodeID, records map[types.NodeID]*Record) ([]types.NodeID, error) {
	parentOf := map[types.NodeID]types.NodeID{root: types.NoNode}
	order := make([]types.NodeID, 0, len(records))
	stack := []types.NodeID{root}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)

		children := records[id].Children
		for i := len(children) - 1; i >= 0; i-- {
			c := children[i]
			if c == types.NoNode {
				return nil, &UpdateError{Reason: ReasonInvalidID, ID: c, Parent: id}
			}
			if _, ok := records[c]; !ok {
				return nil, &UpdateError{Reason: ReasonUnresolvedChild, ID: c, Parent: id}
			}
			if prev, seen := parentOf[c]; seen {
				if c == root || prev == types.NoNode {
					return nil, &UpdateError{Reason: ReasonCycle, ID: c, Parent: id}
				}
				return nil, &UpdateError{Reason: ReasonMultipleParents, ID: c, Parent: id, Other: prev}
			}
			parentOf[c] = id
			stack = append(stack, c)
		}
	}
	return order, nil
}
