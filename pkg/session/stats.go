package session

import "github.com/joshuapare/axtree/pkg/axtree"

// Stats counts what a session has done since it was created.
type Stats struct {
	// Submitted counts batches passed to Submit or Apply.
	Submitted int

	// Applied counts batches that changed the tree.
	Applied int

	// Rejected counts batches the tree refused as malformed.
	Rejected int

	// Dropped counts batches abandoned before they were applied, because the
	// caller's context ended or the session stopped.
	Dropped int

	// Resyncs counts full-snapshot requests.
	Resyncs int

	// AwaitingSnapshot is set by a resync and cleared by the next applied
	// batch.
	AwaitingSnapshot bool

	// LastError is the most recent rejection, cleared by a successful batch.
	LastError error

	// Totals accumulates the per-batch results of applied batches.
	Totals axtree.Applied
}

// Stats returns a copy of the session counters.
func (s *Session) Stats() Stats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

func (s *Session) count(fn func(st *Stats)) {
	s.statsMu.Lock()
	fn(&s.stats)
	s.statsMu.Unlock()
}
