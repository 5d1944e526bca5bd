package axtree

import "errors"

// SkipChildren is returned by a WalkFunc to skip the children of the node
// just visited. It is not returned by Walk.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for every visited node with its depth below the walk
// origin (the origin has depth 0). Returning SkipChildren prunes the
// subtree; any other non-nil error stops the walk and is returned.
type WalkFunc func(n *Node, depth int) error

// walkEntry is a position in the iterative pre-order traversal.
type walkEntry struct {
	node  *Node
	depth int
}

// walk performs an iterative pre-order traversal from start, visiting
// children in stored order.
func walk(start *Node, fn WalkFunc) error {
	if start == nil {
		return nil
	}

	stack := make([]walkEntry, 0, initialStackCapacity)
	stack = append(stack, walkEntry{node: start})

	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := fn(e.node, e.depth); err != nil {
			if errors.Is(err, SkipChildren) {
				continue
			}
			return err
		}

		// Push in reverse so the first child is visited next.
		for i := len(e.node.children) - 1; i >= 0; i-- {
			stack = append(stack, walkEntry{node: e.node.children[i], depth: e.depth + 1})
		}
	}

	return nil
}
