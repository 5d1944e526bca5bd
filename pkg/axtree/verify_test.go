package axtree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckInvariants(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(tree *Tree)
		check   string
	}{
		{
			name:    "stale index entry",
			corrupt: func(tree *Tree) { tree.index[99] = newNode(tree, 99) },
			check:   "IndexReachable",
		},
		{
			name:    "missing index entry",
			corrupt: func(tree *Tree) { delete(tree.index, 5) },
			check:   "IndexEntry",
		},
		{
			name:    "wrong cached index",
			corrupt: func(tree *Tree) { tree.index[5].indexInParent = 0 },
			check:   "IndexInParent",
		},
		{
			name:    "wrong parent",
			corrupt: func(tree *Tree) { tree.index[6].parentID = 2 },
			check:   "ParentRef",
		},
		{
			name:    "root with parent",
			corrupt: func(tree *Tree) { tree.root.parentID = 3 },
			check:   "RootParent",
		},
		{
			name: "shared child",
			corrupt: func(tree *Tree) {
				n3 := tree.index[3]
				n5 := tree.index[5]
				n3.children = append(n3.children, n5)
			},
			check: "ParentRef",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := baseTree(t)
			tt.corrupt(tree)

			err := tree.CheckInvariants()
			require.Error(t, err)
			var ie *InvariantError
			require.ErrorAs(t, err, &ie)
			require.Equal(t, tt.check, ie.Check, "got %v", err)
		})
	}
}

func TestCheckInvariants_EmptyTree(t *testing.T) {
	tree := NewTree()
	require.NoError(t, tree.CheckInvariants())

	tree.index[3] = newNode(tree, 3)
	require.Error(t, tree.CheckInvariants())
}
