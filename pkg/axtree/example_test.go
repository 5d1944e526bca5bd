package axtree_test

import (
	"fmt"

	"github.com/joshuapare/axtree/pkg/axtree"
)

func ExampleTree_ApplyUpdate() {
	tree := axtree.NewTree()

	_, err := tree.ApplyUpdate(axtree.NewBatch(1).
		Add(1, []byte("window"), 2, 3).
		Add(2, []byte("button")).
		Add(3, []byte("label")))
	if err != nil {
		fmt.Println(err)
		return
	}

	applied, err := tree.ApplyUpdate(axtree.NewBatch(1).Add(1, []byte("window"), 3))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println("destroyed:", applied.Destroyed)

	_, ok := tree.Lookup(2)
	fmt.Println("node 2 live:", ok)

	_, err = tree.ApplyUpdate(axtree.NewBatch(1).Add(1, []byte("window"), 3, 9))
	fmt.Println(err)

	_ = tree.Walk(func(n *axtree.Node, depth int) error {
		fmt.Printf("%*s%s %s\n", depth*2, "", n.ID(), n.Data())
		return nil
	})
	// Output:
	// destroyed: 1
	// node 2 live: false
	// malformed update: child #9 of #1 is neither a record nor a live node
	// #1 window
	//   #3 label
}
