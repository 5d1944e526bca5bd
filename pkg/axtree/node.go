package axtree

import (
	"fmt"

	"github.com/joshuapare/axtree/pkg/types"
)

// Node is a single element of the accessibility tree.
//
// A node owns its data payload and its ordered child list. The parent is a
// non-owning relation stored as an id and resolved through the tree index.
//
// Nodes are read-only for consumers: every mutation goes through
// Tree.ApplyUpdate. Accessors do not lock; call them inside Tree.Read (or on
// nodes obtained while no update can run) to avoid racing a writer.
type Node struct {
	// Identity
	id   types.NodeID
	tree *Tree

	// Payload
	data []byte

	// Tree structure
	parentID      types.NodeID
	children      []*Node
	indexInParent int

	// State tracking
	generation uint64 // batch generation that last created or updated the node
}

// newNode creates a detached node with no children.
func newNode(t *Tree, id types.NodeID) *Node {
	return &Node{
		id:       id,
		tree:     t,
		children: make([]*Node, 0),
	}
}

// ID returns the node id.
func (n *Node) ID() types.NodeID { return n.id }

// Data returns the opaque payload. Callers must not modify the returned slice.
func (n *Node) Data() []byte { return n.data }

// ParentID returns the parent's id, or types.NoNode for the root.
func (n *Node) ParentID() types.NodeID { return n.parentID }

// Parent resolves the parent through the owning tree's index.
func (n *Node) Parent() (*Node, bool) {
	if n.parentID == types.NoNode || n.tree == nil {
		return nil, false
	}
	p, ok := n.tree.index[n.parentID]
	return p, ok
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parentID == types.NoNode }

// IndexInParent returns the node's position in its parent's child list.
// The root reports 0.
func (n *Node) IndexInParent() int { return n.indexInParent }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the i-th child. It panics if i is out of range.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Children returns a copy of the child list in stored order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// ChildIDs returns the ids of the children in stored order.
func (n *Node) ChildIDs() []types.NodeID {
	ids := make([]types.NodeID, len(n.children))
	for i, c := range n.children {
		ids[i] = c.id
	}
	return ids
}

// Generation returns the tree generation in which the node was last created
// or named by a batch.
func (n *Node) Generation() uint64 { return n.generation }

// String implements fmt.Stringer.
func (n *Node) String() string {
	return fmt.Sprintf("%s(parent=%s index=%d children=%d)",
		n.id, n.parentID, n.indexInParent, len(n.children))
}

// -----------------------------------------------------------------------------
// Mutators (update applier only)
// -----------------------------------------------------------------------------

// setData replaces the payload. Structure is not affected.
func (n *Node) setData(data []byte) {
	n.data = data
}

// setIndexInParent sets the cached position in the parent's child list.
// The parent id must already be set. An out-of-range index is a programming
// error and panics.
func (n *Node) setIndexInParent(i int) {
	parent, ok := n.Parent()
	if !ok {
		panic(fmt.Sprintf("axtree: setIndexInParent on %s without a registered parent", n.id))
	}
	if i < 0 || i >= len(parent.children) {
		panic(fmt.Sprintf("axtree: index %d out of range for %s with %d children",
			i, parent.id, len(parent.children)))
	}
	n.indexInParent = i
}

// replaceChildren swaps the owned child list. Parent ids and indexes of the
// new children are left to the caller; the previous children are released
// and become destruction candidates unless re-parented.
func (n *Node) replaceChildren(children []*Node) {
	n.children = children
}

// owns reports whether c is still owned by n. A child that has been
// re-parented by a batch names its new parent instead.
func (n *Node) owns(c *Node) bool {
	return c.parentID == n.id && c.tree == n.tree
}

// destroy destroys the node and every descendant it still owns, children
// before parents, unregistering each id from the tree index. It walks with
// an explicit stack so adversarially deep trees cannot exhaust the goroutine
// stack. It returns the number of destroyed nodes.
func (n *Node) destroy() int {
	type frame struct {
		node *Node
		next int // next child to visit
	}

	destroyed := 0
	stack := make([]frame, 0, initialStackCapacity)
	stack = append(stack, frame{node: n})

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		cur := top.node

		if top.next < len(cur.children) {
			child := cur.children[top.next]
			top.next++
			if cur.owns(child) {
				stack = append(stack, frame{node: child})
			}
			continue
		}

		// Post-order: all owned children are gone.
		stack = stack[:len(stack)-1]
		if cur.tree != nil {
			if registered, ok := cur.tree.index[cur.id]; ok && registered == cur {
				delete(cur.tree.index, cur.id)
			}
		}
		cur.children = nil
		cur.parentID = types.NoNode
		cur.indexInParent = 0
		cur.data = nil
		cur.tree = nil
		destroyed++
	}

	return destroyed
}
