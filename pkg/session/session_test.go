package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/types"
)

// startSession runs s in the background and stops it at test cleanup.
func startSession(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errc
	})
}

func chain(n int) *axtree.Batch {
	b := axtree.NewBatch(1)
	for i := 1; i < n; i++ {
		b.Add(types.NodeID(i), nil, types.NodeID(i+1))
	}
	return b.Add(types.NodeID(n), nil)
}

func TestSession_SubmitAppliesInOrder(t *testing.T) {
	tree := axtree.NewTree()
	s := New(tree, DefaultOptions())
	startSession(t, s)

	ctx := context.Background()
	_, err := s.Submit(ctx, axtree.NewBatch(1).Add(1, []byte("a"), 2).Add(2, nil))
	require.NoError(t, err)
	applied, err := s.Submit(ctx, axtree.NewBatch(1).Add(1, []byte("b")))
	require.NoError(t, err)
	require.Equal(t, 1, applied.Destroyed)
	require.Equal(t, uint64(2), applied.Generation)

	n, ok := tree.Lookup(1)
	require.True(t, ok)
	require.Equal(t, "b", string(n.Data()))

	st := s.Stats()
	require.Equal(t, 2, st.Submitted)
	require.Equal(t, 2, st.Applied)
	require.Equal(t, 3, st.Totals.Created+st.Totals.Updated)
}

func TestSession_ConcurrentProducersAreSerialized(t *testing.T) {
	tree := axtree.NewTree()
	s := New(tree, Options{QueueSize: 4})
	startSession(t, s)

	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				_, err := s.Submit(context.Background(), chain(1+(p+i)%5))
				if err != nil {
					t.Errorf("submit: %v", err)
				}
			}
		}(p)
	}
	wg.Wait()

	require.NoError(t, tree.CheckInvariants())
	require.Equal(t, uint64(200), tree.Generation())
	require.Equal(t, 200, s.Stats().Applied)
}

func TestSession_RejectionAndResync(t *testing.T) {
	tree := axtree.NewTree()
	var resyncs []error
	s := New(tree, Options{
		ResyncAfter:   2,
		ClearOnResync: true,
		OnResync:      func(err error) { resyncs = append(resyncs, err) },
	})
	ctx := context.Background()

	_, err := s.Apply(ctx, chain(3))
	require.NoError(t, err)

	bad := axtree.NewBatch(1).Add(1, nil, 99)
	_, err = s.Apply(ctx, bad)
	require.ErrorIs(t, err, types.ErrMalformedUpdate)
	require.Equal(t, 3, tree.Len(), "first rejection leaves the tree alone")
	require.Empty(t, resyncs)

	_, err = s.Apply(ctx, bad)
	require.ErrorIs(t, err, types.ErrMalformedUpdate)
	require.Len(t, resyncs, 1)
	require.Equal(t, 0, tree.Len(), "resync clears the tree")

	st := s.Stats()
	require.Equal(t, 2, st.Rejected)
	require.Equal(t, 1, st.Resyncs)
	require.True(t, st.AwaitingSnapshot)
	require.Error(t, st.LastError)

	_, err = s.Apply(ctx, chain(2))
	require.NoError(t, err)
	st = s.Stats()
	require.False(t, st.AwaitingSnapshot)
	require.NoError(t, st.LastError)
}

func TestSession_ResyncCounterResetsOnSuccess(t *testing.T) {
	tree := axtree.NewTree()
	resyncs := 0
	s := New(tree, Options{ResyncAfter: 2, OnResync: func(error) { resyncs++ }})
	ctx := context.Background()
	bad := axtree.NewBatch(0)

	_, _ = s.Apply(ctx, bad)
	_, err := s.Apply(ctx, chain(1))
	require.NoError(t, err)
	_, _ = s.Apply(ctx, bad)
	require.Equal(t, 0, resyncs)
	_, _ = s.Apply(ctx, bad)
	require.Equal(t, 1, resyncs)
	require.Equal(t, 1, tree.Len(), "tree kept without ClearOnResync")
}

func TestSession_ContextEndsBeforeDequeue(t *testing.T) {
	tree := axtree.NewTree()
	s := New(tree, DefaultOptions())
	// No Run loop: the batch can never be dequeued.

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := s.Submit(ctx, chain(2))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// The dropped batch must not be applied once a loop starts.
	startSession(t, s)
	_, err = s.Submit(context.Background(), axtree.NewBatch(7).Add(7, nil))
	require.NoError(t, err)

	_, ok := tree.Lookup(2)
	require.False(t, ok)
	require.Equal(t, uint64(1), tree.Generation())
	require.Equal(t, 1, s.Stats().Dropped)
}

func TestSession_CanceledContextNeverEnqueues(t *testing.T) {
	s := New(axtree.NewTree(), DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Submit(ctx, chain(1))
	require.ErrorIs(t, err, context.Canceled)
	_, err = s.Apply(ctx, chain(1))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, s.Stats().Submitted)
}

func TestSession_Close(t *testing.T) {
	tree := axtree.NewTree()
	s := New(tree, DefaultOptions())

	errc := make(chan error, 1)
	go func() { errc <- s.Run(context.Background()) }()

	_, err := s.Submit(context.Background(), chain(1))
	require.NoError(t, err)

	s.Close()
	s.Close()
	require.NoError(t, <-errc)

	_, err = s.Submit(context.Background(), chain(1))
	require.ErrorIs(t, err, types.ErrClosed)
	_, err = s.Apply(context.Background(), chain(1))
	require.ErrorIs(t, err, types.ErrClosed)
	require.ErrorIs(t, s.Run(context.Background()), types.ErrClosed)
}

func TestSession_RunCanceled(t *testing.T) {
	s := New(axtree.NewTree(), DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- s.Run(ctx) }()
	cancel()
	require.ErrorIs(t, <-errc, context.Canceled)

	_, err := s.Submit(context.Background(), chain(1))
	require.ErrorIs(t, err, types.ErrClosed)
}

func TestSession_SingleRunLoop(t *testing.T) {
	s := New(axtree.NewTree(), DefaultOptions())
	startSession(t, s)

	// Wait until the background loop owns the session.
	require.Eventually(t, func() bool { return s.running.Load() }, time.Second, time.Millisecond)
	err := s.Run(context.Background())
	require.True(t, errors.Is(err, ErrRunning))
	require.False(t, errors.Is(err, types.ErrClosed))
}
