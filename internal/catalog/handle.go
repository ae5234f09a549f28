package catalog

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces a catalog, typically by loading a cached snapshot or
// building from source
type LoadFunc func(ctx context.Context) (*Catalog, error)

// Handle lazily loads a Catalog once and shares it. Concurrent callers during
// a cold start wait on the same load. After a successful load the catalog is
// returned without locking; a failed load is not remembered, so the next
// call tries again.
type Handle struct {
	load    LoadFunc
	group   singleflight.Group
	current atomic.Pointer[Catalog]
}

// NewHandle creates a handle backed by load
func NewHandle(load LoadFunc) *Handle {
	return &Handle{load: load}
}

// Loaded returns a handle that already holds c
func Loaded(c *Catalog) *Handle {
	h := &Handle{load: func(context.Context) (*Catalog, error) { return c, nil }}
	h.current.Store(c)
	return h
}

// Get returns the catalog, loading it on first use
func (h *Handle) Get(ctx context.Context) (*Catalog, error) {
	if c := h.current.Load(); c != nil {
		return c, nil
	}

	// The load ignores cancellation of whichever caller started it. A caller
	// whose ctx ends stops waiting and gets ctx.Err().
	ch := h.group.DoChan("catalog", func() (interface{}, error) {
		// Another caller may have finished between the fast path and here
		if c := h.current.Load(); c != nil {
			return c, nil
		}
		c, err := h.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		h.current.Store(c)
		return c, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Catalog), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Ready reports whether the catalog has been loaded
func (h *Handle) Ready() bool {
	return h.current.Load() != nil
}

// Peek returns the loaded catalog or nil, without triggering a load
func (h *Handle) Peek() *Catalog {
	return h.current.Load()
}
