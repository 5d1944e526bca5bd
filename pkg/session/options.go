package session

import "log/slog"

// Options configures a Session.
//
// Use DefaultOptions() for production-ready defaults.
type Options struct {
	// QueueSize is the number of submitted batches that may wait for Run
	// before Submit blocks.
	// Default: 64
	QueueSize int

	// ResyncAfter is the number of consecutive malformed batches after which
	// the session asks the producer for a full snapshot. Zero disables the
	// policy.
	// Default: 1
	ResyncAfter int

	// ClearOnResync empties the tree when a resync is requested, so the
	// next full snapshot lands on an empty tree.
	// Default: false
	ClearOnResync bool

	// OnResync is called from the applying goroutine with the rejection that
	// triggered the resync.
	// Default: nil
	OnResync func(err error)

	// Logger receives session lifecycle and resync records.
	// Default: discards all output
	Logger *slog.Logger
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		QueueSize:   64,
		ResyncAfter: 1,
		Logger:      slog.New(slog.DiscardHandler),
	}
}
