// Package axtree provides an in-memory accessibility tree that is kept
// consistent under incremental update batches.
//
// A producer (for example a renderer) pushes batches describing the desired
// state of the nodes that changed; a consumer (for example a platform
// accessibility bridge) reads the tree through lookups and traversals. The
// package guarantees that every observable state satisfies the tree
// invariants: each child names its parent and its own index in the parent's
// child list, every live id is unique and indexed, and the index holds
// exactly the nodes reachable from the root.
//
// # Core Types
//
// Tree owns the root node and an id → node index. Node holds an id, an opaque
// payload, a parent id and an ordered list of owned children. Batch is an
// update: a root id plus one Record (id, payload, complete child list) for
// each node that is created or changed.
//
// # Applying Updates
//
// ApplyUpdate validates a batch completely before mutating anything. A batch
// whose child ids cannot be resolved, that gives a node two parents, that
// creates a cycle, that names no resolvable root, that repeats an id, or
// whose records do not all hang off the new root is rejected with an error
// matching types.ErrMalformedUpdate, and the tree is left untouched.
// Otherwise the whole batch lands:
//
//	tree := axtree.NewTree()
//	_, err := tree.ApplyUpdate(axtree.NewBatch(1).
//		Add(1, []byte(`{"role":"window"}`), 2, 3).
//		Add(2, []byte(`{"role":"button"}`)).
//		Add(3, []byte(`{"role":"text"}`)))
//	if err != nil {
//		return err
//	}
//
//	// Drop node 2: only the changed parent needs a record.
//	_, err = tree.ApplyUpdate(axtree.NewBatch(1).
//		Add(1, []byte(`{"role":"window"}`), 3))
//
// Live nodes the new shape no longer reaches are destroyed together with
// the descendants they still own; descendants a batch re-parents survive.
// Child order is exactly the order given in the batch.
//
// # Reading
//
// Lookup, Root, Len and Walk take the tree's read lock individually. For
// compound reads that must see a single state, use Read:
//
//	tree.Read(func(v axtree.View) {
//		n, ok := v.Lookup(2)
//		if ok {
//			parent, _ := n.Parent()
//			fmt.Println(parent.ID(), n.IndexInParent())
//		}
//	})
//
// # Producers
//
// Snapshot exports the tree as a full batch, and Diff computes the minimal
// incremental batch between a tree and a target snapshot. Limits bound what
// a single batch may do; the Observer hook and the slog Logger in Options
// report every apply and reject.
//
// # Thread Safety
//
// A Tree has a single writer and many readers. Updates are serialized by an
// internal RWMutex; nodes must only be inspected under Read (or Walk) when
// updates may run concurrently. Use package session to funnel updates from
// several producers through one ordered queue.
package axtree
