package axtree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/axtree/pkg/types"
)

func TestNodeAccessors(t *testing.T) {
	tree := baseTree(t)
	n2, ok := tree.Lookup(2)
	require.True(t, ok)

	require.Equal(t, types.NodeID(2), n2.ID())
	require.Equal(t, "two", string(n2.Data()))
	require.Equal(t, types.NodeID(1), n2.ParentID())
	require.False(t, n2.IsRoot())
	require.Equal(t, 2, n2.ChildCount())
	require.Equal(t, types.NodeID(5), n2.Child(1).ID())
	require.Equal(t, "#2(parent=#1 index=0 children=2)", n2.String())

	children := n2.Children()
	children[0] = nil
	require.NotNil(t, n2.Child(0), "Children returns a copy")
}

func TestNodeSetIndexInParentOutOfRangePanics(t *testing.T) {
	tree := baseTree(t)
	n4, _ := tree.Lookup(4)

	require.Panics(t, func() { n4.setIndexInParent(2) })
	require.Panics(t, func() { n4.setIndexInParent(-1) })
	require.NotPanics(t, func() { n4.setIndexInParent(0) })

	root := tree.Root()
	require.Panics(t, func() { root.setIndexInParent(0) }, "root has no parent")
}

func TestNodeReplaceChildrenLeavesChildFieldsAlone(t *testing.T) {
	tree := baseTree(t)
	n2, _ := tree.Lookup(2)
	n6, _ := tree.Lookup(6)

	tree.mu.Lock()
	n2.replaceChildren([]*Node{n6})
	tree.mu.Unlock()

	require.Equal(t, types.NodeID(3), n6.ParentID(), "parent is the applier's job")
	require.Error(t, tree.CheckInvariants())
}

func TestNodeSetData(t *testing.T) {
	tree := baseTree(t)
	n3, _ := tree.Lookup(3)
	n3.setData([]byte("replaced"))
	require.Equal(t, "replaced", string(n3.Data()))
	require.Equal(t, ids(6), n3.ChildIDs())
}

func TestNodeDestroyLeaf(t *testing.T) {
	tree := baseTree(t)
	n6, _ := tree.Lookup(6)

	tree.mu.Lock()
	n3, _ := tree.index[3]
	n3.replaceChildren(nil)
	require.Equal(t, 1, n6.destroy())
	tree.mu.Unlock()

	_, ok := tree.Lookup(6)
	require.False(t, ok)
	require.NoError(t, tree.CheckInvariants())
}

func TestNodeDestroySkipsChildrenOwnedElsewhere(t *testing.T) {
	tree := baseTree(t)

	tree.mu.Lock()
	n2 := tree.index[2]
	n3 := tree.index[3]
	n5 := tree.index[5]
	// Hand 5 over to 3 the way the applier does, then destroy 2.
	n3.replaceChildren([]*Node{n3.children[0], n5})
	n5.parentID = 3
	n5.setIndexInParent(1)
	root := tree.index[1]
	root.replaceChildren([]*Node{n3})
	n3.setIndexInParent(0)
	destroyed := n2.destroy()
	tree.mu.Unlock()

	require.Equal(t, 2, destroyed) // 2 and 4
	_, ok := tree.Lookup(5)
	require.True(t, ok)
	require.NoError(t, tree.CheckInvariants())
}
