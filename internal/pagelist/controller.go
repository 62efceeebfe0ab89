package pagelist

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// fallbackLoadMessage is surfaced when the fetch error carries no message.
const fallbackLoadMessage = "failed to load list data"

// Params is what the injected fetch capability receives for one page load.
type Params struct {
	Page    int
	Limit   int
	Filters map[string]string
}

// FetchFunc fetches one page of raw list data. The response may be any of
// the shapes Normalize understands.
type FetchFunc func(ctx context.Context, p Params) ([]byte, error)

// Config configures a Controller.
type Config struct {
	// PageSize defaults to 10.
	PageSize int
	// InitialFilters seed the filter set and are restored by ClearFilters.
	InitialFilters map[string]string
	// DisableAutoReload turns off the automatic Load that follows every page
	// or filter mutation. The caller then drives Load itself, as the sede
	// import does.
	DisableAutoReload bool
	Logger            *slog.Logger
}

// Controller owns the paging state for one list view. It decouples how the
// backend shapes its responses from how callers page and filter: every fetch
// goes through the injected FetchFunc and lands in a normalized State.
//
// Overlapping loads follow last-request-wins: each load takes a sequence
// number and a response is only applied while its number is still the latest
// issued, so a slow stale response can never clobber a newer one.
type Controller struct {
	fetch    FetchFunc
	pageSize int
	reload   bool
	logger   *slog.Logger
	initial  map[string]string

	mu    sync.Mutex
	seq   uint64
	state State
}

// DefaultPageSize is used when Config.PageSize is not positive.
const DefaultPageSize = 10

// NewController builds a Controller around the given fetch capability.
// Nothing is fetched until Load or, with auto reload on (the default), the
// first page or filter mutation.
func NewController(fetch FetchFunc, cfg Config) *Controller {
	pageSize := cfg.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{
		fetch:    fetch,
		pageSize: pageSize,
		reload:   !cfg.DisableAutoReload,
		logger:   logger,
		initial:  cloneFilters(cfg.InitialFilters),
	}
	c.state = emptyState()
	c.state.Filters = cloneFilters(cfg.InitialFilters)
	return c
}

// State returns a snapshot of the current list state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Filters = cloneFilters(c.state.Filters)
	return s
}

// PageSize returns the configured page size.
func (c *Controller) PageSize() int { return c.pageSize }

// Window returns the pagination window for the current state.
func (c *Controller) Window(maxVisible int) []int {
	s := c.State()
	return Window(s.Page, s.TotalPages, maxVisible)
}

// Load fetches the current page with the current filters and replaces the
// state with the normalized result. On fetch failure the items are cleared
// and the error message recorded, but page and filters survive so the caller
// can retry. A response that lost the last-request-wins race is dropped and
// Load returns nil.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	page := c.state.Page
	filters := cloneFilters(c.state.Filters)
	c.mu.Unlock()

	raw, err := c.fetch(ctx, Params{Page: page, Limit: c.pageSize, Filters: filters})

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.logger.Debug("discarding stale list response", "seq", seq, "latest", c.seq)
		return nil
	}
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = fallbackLoadMessage
		}
		c.logger.Error("list load failed", "error", err, "page", page)
		c.state.Items = []json.RawMessage{}
		c.state.Err = msg
		return fmt.Errorf("load list data: %w", err)
	}

	next := Normalize(raw, c.pageSize)
	next.Filters = c.state.Filters
	c.state = next
	return nil
}

// UpdateFilters merges patch into the filter set (patch keys overwrite,
// others survive) and resets to page 1.
func (c *Controller) UpdateFilters(ctx context.Context, patch map[string]string) error {
	c.mu.Lock()
	if c.state.Filters == nil {
		c.state.Filters = map[string]string{}
	}
	for k, v := range patch {
		c.state.Filters[k] = v
	}
	c.state.Page = 1
	c.mu.Unlock()
	return c.maybeReload(ctx)
}

// ClearFilters replaces the filter set with the configured initial filters
// and resets to page 1.
func (c *Controller) ClearFilters(ctx context.Context) error {
	c.mu.Lock()
	c.state.Filters = cloneFilters(c.initial)
	c.state.Page = 1
	c.mu.Unlock()
	return c.maybeReload(ctx)
}

// GoToPage moves to page n. Out-of-range pages are silently ignored and do
// not trigger a fetch.
func (c *Controller) GoToPage(ctx context.Context, n int) error {
	c.mu.Lock()
	if n < 1 || n > c.state.TotalPages || n == c.state.Page {
		c.mu.Unlock()
		return nil
	}
	c.state.Page = n
	c.mu.Unlock()
	return c.maybeReload(ctx)
}

// NextPage advances one page, clamped at the last.
func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	n := clampPage(c.state.Page+1, c.state.TotalPages)
	changed := n != c.state.Page
	c.state.Page = n
	c.mu.Unlock()
	if !changed {
		return nil
	}
	return c.maybeReload(ctx)
}

// PrevPage goes back one page, clamped at the first.
func (c *Controller) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	n := clampPage(c.state.Page-1, c.state.TotalPages)
	changed := n != c.state.Page
	c.state.Page = n
	c.mu.Unlock()
	if !changed {
		return nil
	}
	return c.maybeReload(ctx)
}

func (c *Controller) maybeReload(ctx context.Context) error {
	if !c.reload {
		return nil
	}
	return c.Load(ctx)
}

func cloneFilters(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
