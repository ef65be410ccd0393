package project

import (
	"context"
	"sync"

	"flustudio/internal/store"
)

// DefaultRefreshParallelism bounds the refresh pool when no width is given.
const DefaultRefreshParallelism = 4

// RefreshResult captures the outcome of re-deriving one project's metadata.
type RefreshResult struct {
	Index   int           `json:"index"`
	Path    string        `json:"path"`
	Project store.Project `json:"project"`
	Updated bool          `json:"updated"`
	Error   string        `json:"error,omitempty"`
}

// RefreshReporter receives notifications as projects move through the
// refresh pool.
type RefreshReporter interface {
	Start(p store.Project)
	Complete(res RefreshResult)
}

// RefreshOptions controls refresh execution behaviour.
type RefreshOptions struct {
	Parallelism int
	Reporter    RefreshReporter
}

// Refresh re-derives metadata for the given projects with a bounded worker
// pool. Results come back in input order. A project whose refresh fails
// keeps its previous record, with the failure recorded on the result.
func (in Inspector) Refresh(ctx context.Context, projects []store.Project, opts RefreshOptions) []RefreshResult {
	if ctx == nil {
		ctx = context.Background()
	}
	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = DefaultRefreshParallelism
	}

	results := make([]RefreshResult, len(projects))

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, parallelism)
	)

	for i, prev := range projects {
		i, prev := i, prev
		if opts.Reporter != nil {
			opts.Reporter.Start(prev)
		}
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			res := in.refreshOne(ctx, i, prev)
			results[i] = res
			if opts.Reporter != nil {
				opts.Reporter.Complete(res)
			}
		}()
	}

	wg.Wait()
	return results
}

func (in Inspector) refreshOne(ctx context.Context, index int, prev store.Project) RefreshResult {
	res := RefreshResult{Index: index, Path: prev.Path, Project: prev}

	fresh, err := in.Metadata(ctx, prev.Path)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	// Tags and access history belong to the stored record, not the tree.
	fresh.Tags = prev.Tags
	fresh.LastAccessed = prev.LastAccessed

	res.Project = fresh
	res.Updated = true
	return res
}
