package axtree

import (
	"bytes"
	"time"

	"github.com/joshuapare/axtree/pkg/types"
)

// ApplyUpdate validates b against the tree and, when valid, mutates the tree
// to match it.
//
// Validation completes before any mutation. A rejected batch returns an
// error matching types.ErrMalformedUpdate (an *UpdateError) and leaves the
// tree exactly as it was. An accepted batch lands as a whole:
//
//  1. Nodes for unknown record ids are created and registered.
//  2. Every record's node takes a copy of the record data and the record's
//     child list, and each child gets its new parent and index.
//  3. The new root is detached from any parent.
//  4. Live nodes the new shape no longer reaches are destroyed, cascading
//     through the descendants they still own, and removed from the index.
//  5. The root is swapped and the generation advances.
//
// ApplyUpdate holds the write lock for its whole duration and never blocks
// on anything else. The batch is not retained.
func (t *Tree) ApplyUpdate(b *Batch) (Applied, error) {
	start := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.plan(b)
	if err != nil {
		elapsed := time.Since(start)
		t.opts.Logger.Warn("update rejected",
			"error", err,
			"records", batchSize(b),
			"generation", t.generation)
		if t.opts.Observer != nil {
			t.opts.Observer.ObserveReject(err, elapsed)
		}
		return Applied{}, err
	}

	applied := t.apply(p)

	elapsed := time.Since(start)
	t.opts.Logger.Debug("update applied",
		"records", len(b.Records),
		"root", b.RootID,
		"created", applied.Created,
		"updated", applied.Updated,
		"destroyed", applied.Destroyed,
		"reparented", applied.Reparented,
		"nodes", len(t.index),
		"generation", applied.Generation,
		"elapsed", elapsed)
	if t.opts.Observer != nil {
		t.opts.Observer.ObserveApply(applied, len(t.index), elapsed)
	}
	return applied, nil
}

// CheckUpdate validates b against the current tree without applying it.
// It returns the statistics the batch would produce.
func (t *Tree) CheckUpdate(b *Batch) (Applied, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, err := t.plan(b)
	if err != nil {
		return Applied{}, err
	}
	return Applied{
		Created:    len(p.created),
		Updated:    p.updated,
		Destroyed:  p.destroyed,
		Reparented: p.reparented,
		Generation: t.generation + 1,
	}, nil
}

// apply mutates the tree according to a validated plan. It cannot fail.
// The caller must hold the write lock.
func (t *Tree) apply(p *updatePlan) Applied {
	t.generation++
	gen := t.generation

	// Step 1: create nodes for unknown ids.
	for _, id := range p.created {
		t.index[id] = newNode(t, id)
	}

	// Step 2: replace data and children, then fix up each child.
	for i := range p.batch.Records {
		r := &p.batch.Records[i]
		n := t.index[r.ID]
		n.setData(bytes.Clone(r.Data))
		n.generation = gen

		children := make([]*Node, len(r.Children))
		for j, cid := range r.Children {
			children[j] = t.index[cid]
		}
		n.replaceChildren(children)

		for j, c := range children {
			c.parentID = n.id
			c.setIndexInParent(j)
		}
	}

	// Step 3: detach the new root.
	root := t.index[p.root]
	root.parentID = types.NoNode
	root.indexInParent = 0

	// Step 4: destroy what the new shape no longer reaches. Re-parented
	// descendants name their new parent and are skipped by the cascade.
	destroyed := 0
	for _, n := range p.destroyRoots {
		destroyed += n.destroy()
	}

	// Step 5: swap the root.
	t.root = root

	return Applied{
		Created:    len(p.created),
		Updated:    p.updated,
		Destroyed:  destroyed,
		Reparented: p.reparented,
		Generation: gen,
	}
}

func batchSize(b *Batch) int {
	if b == nil {
		return 0
	}
	return len(b.Records)
}
