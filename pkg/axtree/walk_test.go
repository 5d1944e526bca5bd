package axtree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/axtree/pkg/types"
)

func TestWalk_PreOrderWithDepth(t *testing.T) {
	tree := baseTree(t)

	type visit struct {
		id    types.NodeID
		depth int
	}
	var got []visit
	require.NoError(t, tree.Walk(func(n *Node, depth int) error {
		got = append(got, visit{n.ID(), depth})
		return nil
	}))

	require.Equal(t, []visit{
		{1, 0}, {2, 1}, {4, 2}, {5, 2}, {3, 1}, {6, 2},
	}, got)
}

func TestWalk_SkipChildren(t *testing.T) {
	tree := baseTree(t)
	var got []types.NodeID
	require.NoError(t, tree.Walk(func(n *Node, _ int) error {
		got = append(got, n.ID())
		if n.ID() == 2 {
			return SkipChildren
		}
		return nil
	}))
	require.Equal(t, ids(1, 2, 3, 6), got)
}

func TestWalk_StopsOnError(t *testing.T) {
	tree := baseTree(t)
	stop := errors.New("stop")
	count := 0
	err := tree.Walk(func(n *Node, _ int) error {
		count++
		if n.ID() == 4 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	require.Equal(t, 3, count)
}

func TestWalk_EmptyTree(t *testing.T) {
	tree := NewTree()
	called := false
	require.NoError(t, tree.Walk(func(*Node, int) error {
		called = true
		return nil
	}))
	require.False(t, called)
}

func TestView_WalkFromAndAncestors(t *testing.T) {
	tree := baseTree(t)

	tree.Read(func(v View) {
		var got []types.NodeID
		require.NoError(t, v.WalkFrom(3, func(n *Node, depth int) error {
			got = append(got, n.ID())
			return nil
		}))
		require.Equal(t, ids(3, 6), got)

		err := v.WalkFrom(99, func(*Node, int) error { return nil })
		require.ErrorIs(t, err, types.ErrNotFound)

		anc, ok := v.Ancestors(5)
		require.True(t, ok)
		require.Equal(t, ids(2, 1), anc)

		anc, ok = v.Ancestors(1)
		require.True(t, ok)
		require.Empty(t, anc)

		_, ok = v.Ancestors(99)
		require.False(t, ok)

		require.Equal(t, 6, v.Len())
		require.Equal(t, uint64(1), v.Generation())
		require.Equal(t, types.NodeID(1), v.Root().ID())
	})
}
