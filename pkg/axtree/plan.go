package axtree

import (
	"github.com/joshuapare/axtree/pkg/types"
)

// Visit states for the resulting-shape walk.
const (
	stateUnvisited uint8 = iota
	stateOnStack
	stateDone
)

// updatePlan is the validated outcome of a batch, computed without touching
// the tree. Applying it cannot fail.
type updatePlan struct {
	batch   *Batch
	records map[types.NodeID]*Record
	root    types.NodeID

	// created lists record ids that are not live, in record order.
	created []types.NodeID

	// destroyRoots are live nodes the new shape no longer reaches whose
	// parent is either reached or being replaced. Destroying them (with
	// ownership-aware cascading) removes exactly the unreachable nodes.
	destroyRoots []*Node
	destroyed    int

	updated    int
	reparented int
}

// shapeFrame is a position in the iterative walk of the resulting shape.
// A frame iterates either record child ids or the live child list.
type shapeFrame struct {
	id    types.NodeID
	ids   []types.NodeID // children from a record
	nodes []*Node        // children retained from the live tree
	next  int
	depth int
}

func (f *shapeFrame) len() int {
	if f.ids != nil {
		return len(f.ids)
	}
	return len(f.nodes)
}

func (f *shapeFrame) at(i int) types.NodeID {
	if f.ids != nil {
		return f.ids[i]
	}
	return f.nodes[i].id
}

// plan validates b against the current tree and computes its effects.
// The caller must hold at least the read lock.
//
// The resulting shape gives every record's node the record's child list and
// every other live node its current child list. Validation walks only the
// part of that shape a batch can affect: the live ancestors of every record,
// of every live node a record names as a child, and of the new root. Any
// other live subtree keeps its shape, ids and parents, so it cannot
// introduce a second parent, a cycle or an unresolved id.
func (t *Tree) plan(b *Batch) (*updatePlan, error) {
	if b == nil || b.RootID == types.NoNode {
		return nil, &UpdateError{Reason: ReasonNoRoot}
	}
	limits := t.opts.Limits
	if err := limits.check("MaxBatchRecords", len(b.Records), limits.MaxBatchRecords, types.NoNode); err != nil {
		return nil, err
	}

	p := &updatePlan{
		batch:   b,
		records: make(map[types.NodeID]*Record, len(b.Records)),
		root:    b.RootID,
	}

	// Step 1: index records, reject reserved and duplicate ids.
	for i := range b.Records {
		r := &b.Records[i]
		if r.ID == types.NoNode {
			return nil, &UpdateError{Reason: ReasonInvalidID, ID: r.ID}
		}
		if _, dup := p.records[r.ID]; dup {
			return nil, &UpdateError{Reason: ReasonDuplicateRecord, ID: r.ID}
		}
		if err := limits.checkRecord(r); err != nil {
			return nil, err
		}
		p.records[r.ID] = r
		if _, live := t.index[r.ID]; live {
			p.updated++
		} else {
			p.created = append(p.created, r.ID)
		}
	}

	// Step 2: the root must resolve.
	if _, ok := p.records[b.RootID]; !ok {
		if _, live := t.index[b.RootID]; !live {
			return nil, &UpdateError{Reason: ReasonUnknownRoot, ID: b.RootID}
		}
	}

	// Step 3: every child must resolve, and no id may be listed twice
	// across the batch.
	listedBy := make(map[types.NodeID]types.NodeID)
	for i := range b.Records {
		r := &b.Records[i]
		for _, c := range r.Children {
			if c == types.NoNode {
				return nil, &UpdateError{Reason: ReasonInvalidID, ID: c, Parent: r.ID}
			}
			if c == r.ID {
				return nil, &UpdateError{Reason: ReasonCycle, ID: c, Parent: r.ID}
			}
			if _, ok := p.records[c]; !ok {
				if _, live := t.index[c]; !live {
					return nil, &UpdateError{Reason: ReasonUnresolvedChild, ID: c, Parent: r.ID}
				}
			}
			if prev, dup := listedBy[c]; dup {
				return nil, &UpdateError{Reason: ReasonMultipleParents, ID: c, Parent: r.ID, Other: prev}
			}
			listedBy[c] = r.ID
		}
	}

	// Step 4: mark the live ancestors of everything the batch touches.
	affected := make(map[types.NodeID]bool, len(b.Records)*2)
	mark := func(id types.NodeID) {
		n, ok := t.index[id]
		for ok && !affected[n.id] {
			affected[n.id] = true
			n, ok = t.index[n.parentID]
		}
	}
	for i := range b.Records {
		mark(b.Records[i].ID)
		for _, c := range b.Records[i].Children {
			mark(c)
		}
	}
	mark(b.RootID)

	// Step 5: walk the affected part of the resulting shape from the new
	// root, detecting second parents and cycles.
	state, err := p.walkShape(t, affected, listedBy)
	if err != nil {
		return nil, err
	}

	// Step 6: every record must hang off the new root.
	for i := range b.Records {
		if state[b.Records[i].ID] == stateUnvisited {
			return nil, &UpdateError{Reason: ReasonUnreachable, ID: b.Records[i].ID}
		}
	}

	// Step 7: find the live subtrees the new shape drops.
	p.collectDestroyed(t, state)

	if limits.MaxNodes > 0 {
		after := len(t.index) + len(p.created) - p.destroyed
		if err := limits.check("MaxNodes", after, limits.MaxNodes, types.NoNode); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// walkShape performs an iterative DFS of the resulting shape. Live nodes
// that are neither records nor affected are treated as leaves: their
// subtrees are retained unchanged.
func (p *updatePlan) walkShape(t *Tree, affected map[types.NodeID]bool, listedBy map[types.NodeID]types.NodeID) (map[types.NodeID]uint8, error) {
	limits := t.opts.Limits
	state := make(map[types.NodeID]uint8, len(affected)+len(p.records))
	parentOf := make(map[types.NodeID]types.NodeID, len(affected)+len(p.records))

	frameFor := func(id types.NodeID, depth int) shapeFrame {
		f := shapeFrame{id: id, depth: depth}
		if r, ok := p.records[id]; ok {
			f.ids = r.Children
			return f
		}
		if n, ok := t.index[id]; ok && affected[id] {
			f.nodes = n.children
		}
		return f
	}

	if n, live := t.index[p.root]; live && n.parentID != types.NoNode {
		p.reparented++
	}

	stack := make([]shapeFrame, 0, initialStackCapacity)
	state[p.root] = stateOnStack
	stack = append(stack, frameFor(p.root, 0))

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next >= top.len() {
			state[top.id] = stateDone
			stack = stack[:len(stack)-1]
			continue
		}

		parent := top.id
		depth := top.depth + 1
		c := top.at(top.next)
		top.next++

		switch state[c] {
		case stateOnStack:
			return nil, &UpdateError{Reason: ReasonCycle, ID: c, Parent: parent}
		case stateDone:
			other := parentOf[c]
			if other == types.NoNode {
				// Reached before as the root itself.
				return nil, &UpdateError{Reason: ReasonCycle, ID: c, Parent: parent}
			}
			return nil, &UpdateError{Reason: ReasonMultipleParents, ID: c, Parent: parent, Other: other}
		}

		if err := limits.check("MaxDepth", depth, limits.MaxDepth, c); err != nil {
			return nil, err
		}

		parentOf[c] = parent
		if n, live := t.index[c]; live && n.parentID != parent {
			p.reparented++
		}

		state[c] = stateOnStack
		stack = append(stack, frameFor(c, depth))
	}

	return state, nil
}

// collectDestroyed records the roots of the live subtrees that the new
// shape no longer reaches and counts the nodes they take with them.
//
// A live node survives exactly when it is walked or sits below a walked
// node that kept its subtree. Unwalked nodes therefore appear only as the
// old root or as dropped children of record nodes, and counting stops at
// any walked descendant because it has been re-parented.
func (p *updatePlan) collectDestroyed(t *Tree, state map[types.NodeID]uint8) {
	if t.root != nil && state[t.root.id] == stateUnvisited {
		p.destroyRoots = append(p.destroyRoots, t.root)
	}
	for i := range p.batch.Records {
		n, live := t.index[p.batch.Records[i].ID]
		if !live {
			continue
		}
		for _, c := range n.children {
			if state[c.id] == stateUnvisited {
				p.destroyRoots = append(p.destroyRoots, c)
			}
		}
	}

	stack := make([]*Node, 0, initialStackCapacity)
	for _, root := range p.destroyRoots {
		stack = append(stack[:0], root)
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if state[n.id] != stateUnvisited {
				continue
			}
			p.destroyed++
			stack = append(stack, n.children...)
		}
	}
}
