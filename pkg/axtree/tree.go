package axtree

import (
	"sync"

	"github.com/joshuapare/axtree/pkg/types"
)

// Tree owns the root node and an id → node lookup index.
//
// Concurrency: a Tree has a single writer and many readers. ApplyUpdate and
// Clear hold the write lock for the whole validation and apply; Lookup, Root,
// Len, Walk, Read and Snapshot hold the read lock. Concurrent ApplyUpdate
// calls are serialized by the lock, but their relative order is unspecified;
// producers that care about order should go through a single queue (see
// package session).
type Tree struct {
	mu sync.RWMutex

	root       *Node
	index      map[types.NodeID]*Node
	generation uint64

	opts Options
}

// NewTree creates an empty tree with DefaultOptions.
func NewTree() *Tree {
	return New(DefaultOptions())
}

// New creates an empty tree with the given options.
func New(opts Options) *Tree {
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	capacity := opts.IndexCapacity
	if capacity < 0 {
		capacity = 0
	}
	return &Tree{
		index: make(map[types.NodeID]*Node, capacity),
		opts:  opts,
	}
}

// Options returns the options the tree was created with.
func (t *Tree) Options() Options {
	return t.opts
}

// Lookup returns the live node with the given id. It reports false for ids
// never seen or already destroyed; that is a normal outcome, not an error.
func (t *Tree) Lookup(id types.NodeID) (*Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.view().Lookup(id)
}

// Root returns the root node, or nil when the tree is empty.
func (t *Tree) Root() *Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// Len returns the number of live nodes.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.index)
}

// Generation returns the number of batches applied so far.
func (t *Tree) Generation() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.generation
}

// Walk visits the tree in pre-order under the read lock. See View.Walk.
// fn must not call methods on t; use Read for compound reads.
func (t *Tree) Walk(fn WalkFunc) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.view().Walk(fn)
}

// Read runs fn with a consistent read-only view of the tree. No update can
// land while fn runs. fn must not call methods on t and must not retain the
// view (or expect node contents to stay stable) after it returns.
func (t *Tree) Read(fn func(v View)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	fn(t.view())
}

// Clear destroys every node. The generation counter keeps increasing so
// consumers can tell a cleared tree from one that never received a batch.
func (t *Tree) Clear() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.root == nil {
		return 0
	}
	destroyed := t.root.destroy()
	t.root = nil
	// Anything left is unreachable by construction; drop it too.
	clear(t.index)
	t.generation++
	t.opts.Logger.Debug("tree cleared", "destroyed", destroyed, "generation", t.generation)
	return destroyed
}

func (t *Tree) view() View {
	return View{t: t}
}
