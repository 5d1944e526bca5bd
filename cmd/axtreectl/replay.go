package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/axtree/internal/logger"
	"github.com/joshuapare/axtree/pkg/axtree"
	"github.com/joshuapare/axtree/pkg/batch"
	"github.com/joshuapare/axtree/pkg/session"
)

// loadedBatch is one decoded batch and where it came from.
type loadedBatch struct {
	File  string
	Index int // position within File, from 1
	Batch *axtree.Batch
}

func (lb loadedBatch) String() string {
	return fmt.Sprintf("%s#%d", lb.File, lb.Index)
}

// batchResult is the outcome of one batch during a replay.
type batchResult struct {
	File    string          `json:"file"`
	Index   int             `json:"index"`
	Records int             `json:"records"`
	OK      bool            `json:"ok"`
	Error   string          `json:"error,omitempty"`
	Applied *axtree.Applied `json:"applied,omitempty"`
}

// decodeFiles reads every file concurrently and returns the batches in file
// order.
func decodeFiles(ctx context.Context, paths []string) ([]loadedBatch, error) {
	opts, err := batchOptions()
	if err != nil {
		return nil, err
	}

	perFile := make([][]*axtree.Batch, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batches, err := batch.ReadFile(path, opts)
			if err != nil {
				return err
			}
			logger.Debug("decoded batch file", "file", path, "batches", len(batches))
			perFile[i] = batches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []loadedBatch
	for i, batches := range perFile {
		for j, b := range batches {
			out = append(out, loadedBatch{File: paths[i], Index: j + 1, Batch: b})
		}
	}
	return out, nil
}

// replayOptions controls replay.
type replayOptions struct {
	KeepGoing bool // report rejected batches and continue
	Verify    bool // check tree invariants after every applied batch
	Session   session.Options
	OnResult  func(lb loadedBatch, r batchResult)
}

// replay submits batches to tree in order through a session queue. Unless
// opts.KeepGoing is set, the first rejected batch stops the replay and its
// error is returned.
func replay(ctx context.Context, tree *axtree.Tree, batches []loadedBatch, opts replayOptions) (*session.Session, []batchResult, error) {
	sessOpts := opts.Session
	if sessOpts.Logger == nil {
		sessOpts.Logger = logger.L
	}
	sess := session.New(tree, sessOpts)
	results := make([]batchResult, 0, len(batches))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := sess.Run(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		defer sess.Close()
		for _, lb := range batches {
			applied, err := sess.Submit(ctx, lb.Batch)
			r := batchResult{File: lb.File, Index: lb.Index, Records: lb.Batch.Size(), OK: err == nil}
			if err == nil {
				r.Applied = &applied
			} else {
				r.Error = err.Error()
			}
			results = append(results, r)
			if opts.OnResult != nil {
				opts.OnResult(lb, r)
			}

			if err != nil && !opts.KeepGoing {
				return fmt.Errorf("%s: %w", lb, err)
			}
			if err == nil && opts.Verify {
				if verr := tree.CheckInvariants(); verr != nil {
					return fmt.Errorf("%s: invariant check failed: %w", lb, verr)
				}
			}
		}
		return nil
	})
	err := g.Wait()
	return sess, results, err
}

// buildTree decodes paths and replays them onto a new tree, stopping at the
// first rejected batch.
func buildTree(ctx context.Context, paths []string, observer axtree.Observer) (*axtree.Tree, error) {
	batches, err := decodeFiles(ctx, paths)
	if err != nil {
		return nil, err
	}
	opts, err := treeOptions(observer)
	if err != nil {
		return nil, err
	}
	tree := axtree.New(opts)
	_, _, err = replay(ctx, tree, batches, replayOptions{Session: session.Options{ResyncAfter: 0}})
	if err != nil {
		return nil, err
	}
	printVerbose("Replayed %d batches: %d nodes, generation %d\n", len(batches), tree.Len(), tree.Generation())
	return tree, nil
}
