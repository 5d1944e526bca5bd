package axtree

import (
	"fmt"

	"github.com/joshuapare/axtree/pkg/types"
)

// InvariantError reports a violated structural invariant.
type InvariantError struct {
	Check string       // invariant that failed
	ID    types.NodeID // node at which it failed
	Msg   string
}

func (e *InvariantError) Error() string {
	if e.ID != types.NoNode {
		return fmt.Sprintf("%s at %s: %s", e.Check, e.ID, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Check, e.Msg)
}

// CheckInvariants walks the whole tree and returns the first violated
// invariant, or nil:
//   - the root has no parent;
//   - every child names its parent and its own position in the parent's list;
//   - every reachable id is unique and registered to the node reached;
//   - the index holds exactly the reachable ids.
//
// It is O(n) and intended for tests, debugging and the CLI --verify flag.
func (t *Tree) CheckInvariants() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.view().CheckInvariants()
}

// CheckInvariants is the lock-free form of Tree.CheckInvariants.
func (v View) CheckInvariants() error {
	t := v.t
	if t.root == nil {
		if len(t.index) != 0 {
			return &InvariantError{
				Check: "IndexReachable",
				Msg:   fmt.Sprintf("empty tree indexes %d nodes", len(t.index)),
			}
		}
		return nil
	}
	if t.root.parentID != types.NoNode {
		return &InvariantError{
			Check: "RootParent",
			ID:    t.root.id,
			Msg:   fmt.Sprintf("root has parent %s", t.root.parentID),
		}
	}

	seen := make(map[types.NodeID]bool, len(t.index))
	err := walk(t.root, func(n *Node, _ int) error {
		if seen[n.id] {
			return &InvariantError{Check: "UniqueID", ID: n.id, Msg: "reached twice"}
		}
		seen[n.id] = true

		if registered, ok := t.index[n.id]; !ok || registered != n {
			return &InvariantError{Check: "IndexEntry", ID: n.id, Msg: "reachable node not registered"}
		}
		if n.tree != t {
			return &InvariantError{Check: "Owner", ID: n.id, Msg: "node belongs to another tree"}
		}
		for i, c := range n.children {
			if c == nil {
				return &InvariantError{Check: "ChildRef", ID: n.id, Msg: fmt.Sprintf("nil child at %d", i)}
			}
			if c.parentID != n.id {
				return &InvariantError{
					Check: "ParentRef",
					ID:    c.id,
					Msg:   fmt.Sprintf("listed by %s but names parent %s", n.id, c.parentID),
				}
			}
			if c.indexInParent != i {
				return &InvariantError{
					Check: "IndexInParent",
					ID:    c.id,
					Msg:   fmt.Sprintf("at position %d but caches %d", i, c.indexInParent),
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if len(seen) != len(t.index) {
		for id := range t.index {
			if !seen[id] {
				return &InvariantError{Check: "IndexReachable", ID: id, Msg: "indexed but not reachable from root"}
			}
		}
	}
	return nil
}
