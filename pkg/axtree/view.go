package axtree

import "github.com/joshuapare/axtree/pkg/types"

// View is a lock-free read handle over a tree. It is only valid inside
// Tree.Read, which holds the read lock for its duration.
type View struct {
	t *Tree
}

// Root returns the root node, or nil when the tree is empty.
func (v View) Root() *Node { return v.t.root }

// Lookup returns the live node with the given id.
func (v View) Lookup(id types.NodeID) (*Node, bool) {
	n, ok := v.t.index[id]
	return n, ok
}

// Len returns the number of live nodes.
func (v View) Len() int { return len(v.t.index) }

// Generation returns the number of batches applied so far.
func (v View) Generation() uint64 { return v.t.generation }

// Walk visits the tree in pre-order. See WalkFunc.
func (v View) Walk(fn WalkFunc) error {
	return walk(v.t.root, fn)
}

// WalkFrom visits the subtree rooted at id in pre-order. It returns
// types.ErrNotFound when id is not live.
func (v View) WalkFrom(id types.NodeID, fn WalkFunc) error {
	n, ok := v.t.index[id]
	if !ok {
		return &types.Error{Kind: types.ErrKindNotFound, Msg: "walk from " + id.String()}
	}
	return walk(n, fn)
}

// Ancestors returns the ids from the node's parent up to the root.
func (v View) Ancestors(id types.NodeID) ([]types.NodeID, bool) {
	n, ok := v.t.index[id]
	if !ok {
		return nil, false
	}
	var out []types.NodeID
	for p := n.parentID; p != types.NoNode; {
		out = append(out, p)
		pn, ok := v.t.index[p]
		if !ok {
			break
		}
		p = pn.parentID
	}
	return out, true
}
