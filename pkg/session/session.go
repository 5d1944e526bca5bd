// Package session serializes producer batches onto a tree.
//
// A Session owns the single update queue of a tree: producers call Submit from
// any goroutine and one Run loop applies batches strictly in arrival order.
// When a batch is rejected the tree is unchanged; after Options.ResyncAfter
// consecutive rejections the session requests a full snapshot from the
// producer through Options.OnResync.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/types"
)

// ErrRunning is returned by Run when another Run loop is active.
var ErrRunning = &types.Error{Kind: types.ErrKindBusy, Msg: "session already running"}

const (
	reqPending int32 = iota
	reqTaken
	reqCancelled
)

type request struct {
	batch *axtree.Batch
	state atomic.Int32
	done  chan result
}

type result struct {
	applied axtree.Applied
	err     error
}

// Session is a FIFO update queue in front of a tree.
type Session struct {
	tree *axtree.Tree
	opt  Options

	queue     chan *request
	stopped   chan struct{}
	closeOnce sync.Once
	running   atomic.Bool

	// applyMu makes Run and Apply mutually exclusive so the resync counter
	// sees batches in application order.
	applyMu sync.Mutex

	statsMu     sync.Mutex
	stats       Stats
	consecutive int
}

// New creates a session for tree. Call Run to start applying submitted
// batches.
func New(tree *axtree.Tree, opt Options) *Session {
	def := DefaultOptions()
	if opt.QueueSize <= 0 {
		opt.QueueSize = def.QueueSize
	}
	if opt.ResyncAfter < 0 {
		opt.ResyncAfter = 0
	}
	if opt.Logger == nil {
		opt.Logger = def.Logger
	}
	return &Session{
		tree:    tree,
		opt:     opt,
		queue:   make(chan *request, opt.QueueSize),
		stopped: make(chan struct{}),
	}
}

// Tree returns the tree the session writes to.
func (s *Session) Tree() *axtree.Tree { return s.tree }

// Submit enqueues b and waits for its outcome.
//
// ctx is honored only until Run dequeues the batch: if it ends first the batch
// is dropped and ctx.Err() returned. Once dequeued, the batch is applied or
// rejected as a whole and Submit returns that result. After Close, Submit
// returns types.ErrClosed.
func (s *Session) Submit(ctx context.Context, b *axtree.Batch) (axtree.Applied, error) {
	if err := ctx.Err(); err != nil {
		return axtree.Applied{}, err
	}
	if s.isStopped() {
		return axtree.Applied{}, types.ErrClosed
	}

	req := &request{batch: b, done: make(chan result, 1)}
	s.count(func(st *Stats) { st.Submitted++ })

	select {
	case s.queue <- req:
	case <-ctx.Done():
		s.count(func(st *Stats) { st.Dropped++ })
		return axtree.Applied{}, ctx.Err()
	case <-s.stopped:
		s.count(func(st *Stats) { st.Dropped++ })
		return axtree.Applied{}, types.ErrClosed
	}

	select {
	case r := <-req.done:
		return r.applied, r.err
	case <-ctx.Done():
		if req.state.CompareAndSwap(reqPending, reqCancelled) {
			s.count(func(st *Stats) { st.Dropped++ })
			return axtree.Applied{}, ctx.Err()
		}
	case <-s.stopped:
		if req.state.CompareAndSwap(reqPending, reqCancelled) {
			s.count(func(st *Stats) { st.Dropped++ })
			return axtree.Applied{}, types.ErrClosed
		}
	}
	// Already taken by Run; the result is on its way.
	r := <-req.done
	return r.applied, r.err
}

// Run applies queued batches in FIFO order until ctx ends or Close is called.
// It returns ctx.Err() or nil respectively. Only one Run may be active.
func (s *Session) Run(ctx context.Context) error {
	if s.isStopped() {
		return types.ErrClosed
	}
	if !s.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer s.running.Store(false)

	s.opt.Logger.Debug("session started", "queue_size", s.opt.QueueSize)
	for {
		select {
		case <-ctx.Done():
			s.Close()
			s.drain()
			s.opt.Logger.Debug("session stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-s.stopped:
			s.drain()
			s.opt.Logger.Debug("session stopped", "reason", "closed")
			return nil
		case req := <-s.queue:
			if !req.state.CompareAndSwap(reqPending, reqTaken) {
				continue
			}
			applied, err := s.apply(req.batch)
			req.done <- result{applied: applied, err: err}
		}
	}
}

// drain answers batches still queued after stop.
func (s *Session) drain() {
	for {
		select {
		case req := <-s.queue:
			if req.state.CompareAndSwap(reqPending, reqTaken) {
				s.count(func(st *Stats) { st.Dropped++ })
				req.done <- result{err: types.ErrClosed}
			}
		default:
			return
		}
	}
}

// Apply applies b synchronously, bypassing the queue but sharing the resync
// policy and statistics. It is for callers that already serialize their
// batches.
func (s *Session) Apply(ctx context.Context, b *axtree.Batch) (axtree.Applied, error) {
	if err := ctx.Err(); err != nil {
		return axtree.Applied{}, err
	}
	if s.isStopped() {
		return axtree.Applied{}, types.ErrClosed
	}
	s.count(func(st *Stats) { st.Submitted++ })
	return s.apply(b)
}

// Close stops the session. Queued batches that Run has not taken are answered
// with types.ErrClosed. Close is idempotent.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.stopped) })
}

func (s *Session) isStopped() bool {
	select {
	case <-s.stopped:
		return true
	default:
		return false
	}
}

func (s *Session) apply(b *axtree.Batch) (axtree.Applied, error) {
	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	applied, err := s.tree.ApplyUpdate(b)

	s.statsMu.Lock()
	if err == nil {
		s.stats.Applied++
		s.stats.Totals.Add(applied)
		s.stats.AwaitingSnapshot = false
		s.stats.LastError = nil
		s.consecutive = 0
		s.statsMu.Unlock()
		return applied, nil
	}

	s.stats.Rejected++
	s.stats.LastError = err
	s.consecutive++
	resync := errors.Is(err, types.ErrMalformedUpdate) &&
		s.opt.ResyncAfter > 0 && s.consecutive >= s.opt.ResyncAfter
	if resync {
		s.consecutive = 0
		s.stats.Resyncs++
		s.stats.AwaitingSnapshot = true
	}
	s.statsMu.Unlock()

	if resync {
		s.resync(err)
	}
	return applied, err
}

func (s *Session) resync(cause error) {
	cleared := 0
	if s.opt.ClearOnResync {
		cleared = s.tree.Clear()
	}
	s.opt.Logger.Warn("resync requested", "error", cause, "cleared", cleared)
	if s.opt.OnResync != nil {
		s.opt.OnResync(cause)
	}
}
