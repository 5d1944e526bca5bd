package axtree

const (
	// initialStackCapacity is the pre-allocated capacity for traversal stacks.
	// Typical accessibility trees are 10-40 levels deep.
	initialStackCapacity = 64

	// DefaultMaxBatchRecords bounds the records in a single batch.
	DefaultMaxBatchRecords = 1 << 20

	// DefaultMaxChildren bounds a single child list.
	DefaultMaxChildren = 1 << 16

	// DefaultMaxDepth bounds the depth of walked paths.
	DefaultMaxDepth = 1 << 12

	// DefaultMaxNodes bounds the live node count after a batch.
	DefaultMaxNodes = 1 << 22

	// DefaultMaxDataSize bounds a single payload (1 MB).
	DefaultMaxDataSize = 1 << 20

	// Strict presets for constrained consumers.
	StrictMaxBatchRecords = 1 << 14
	StrictMaxChildren     = 1 << 10
	StrictMaxDepth        = 256
	StrictMaxNodes        = 1 << 16
	StrictMaxDataSize     = 64 << 10
)
