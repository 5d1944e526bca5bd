package axtree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/axtree/pkg/types"
)

// data returns a payload tagged with the node id for easy assertions.
func data(s string) []byte { return []byte(s) }

// mustApply applies b and fails the test on error or broken invariants.
func mustApply(t *testing.T, tree *Tree, b *Batch) Applied {
	t.Helper()
	applied, err := tree.ApplyUpdate(b)
	require.NoError(t, err)
	require.NoError(t, tree.CheckInvariants())
	return applied
}

// preorder returns the ids of the tree in pre-order.
func preorder(t *testing.T, tree *Tree) []types.NodeID {
	t.Helper()
	var ids []types.NodeID
	require.NoError(t, tree.Walk(func(n *Node, _ int) error {
		ids = append(ids, n.ID())
		return nil
	}))
	return ids
}

// ids is a shorthand for building id slices.
func ids(v ...types.NodeID) []types.NodeID { return v }

// requireMalformed asserts err is an UpdateError with the given reason.
func requireMalformed(t *testing.T, err error, reason Reason) *UpdateError {
	t.Helper()
	require.Error(t, err)
	require.ErrorIs(t, err, types.ErrMalformedUpdate)
	var ue *UpdateError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, reason, ue.Reason, "got %v", err)
	return ue
}

// baseTree builds:
//
//	1
//	├── 2
//	│   ├── 4
//	│   └── 5
//	└── 3
//	    └── 6
func baseTree(t *testing.T) *Tree {
	t.Helper()
	tree := NewTree()
	mustApply(t, tree, NewBatch(1).
		Add(1, data("one"), 2, 3).
		Add(2, data("two"), 4, 5).
		Add(3, data("three"), 6).
		Add(4, data("four")).
		Add(5, data("five")).
		Add(6, data("six")))
	return tree
}
