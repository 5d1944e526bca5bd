package axtree

import (
	"log/slog"
	"time"
)

// Observer receives the outcome of every ApplyUpdate call. Implementations
// must be cheap and must not call back into the tree: they run while the
// write lock is held.
type Observer interface {
	// ObserveApply is called after a batch has been applied.
	ObserveApply(applied Applied, nodes int, elapsed time.Duration)
	// ObserveReject is called after a batch has been rejected.
	ObserveReject(err error, elapsed time.Duration)
}

// Options configures a Tree.
//
// Use DefaultOptions() for production-ready defaults.
type Options struct {
	// Limits bounds batch and tree sizes. Zero fields are unlimited.
	// Default: DefaultLimits()
	Limits Limits

	// Logger receives Debug records for applied batches and Warn records for
	// rejected ones.
	// Default: discards all output
	Logger *slog.Logger

	// Observer, when non-nil, is notified of every apply and reject.
	// Default: nil
	Observer Observer

	// IndexCapacity pre-sizes the id index to reduce rehashing when the
	// expected tree size is known.
	// Default: 0 (grow on demand)
	IndexCapacity int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		Limits: DefaultLimits(),
		Logger: discardLogger(),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
