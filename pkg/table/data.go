package table

import (
	"context"

	"github.com/vango-dev/tablesync/pkg/protocol"
	"github.com/vango-dev/tablesync/pkg/sortstate"
)

// Query is what the data source is asked for.
type Query struct {
	// Sort is the ordered sort, primary first. Empty means unsorted.
	Sort sortstate.Meta

	// Filters holds one value per filtered field. Globally searched fields
	// without their own filter carry the global term.
	Filters map[string]string

	// MatchAll is true when every filter must match. With a global term
	// any filter may match.
	MatchAll bool

	// Global is the committed global search term.
	Global string
}

// Page is one fetched result.
type Page struct {
	// Rows is the data handed to the Renderer.
	Rows any

	// Count is the number of rows in Rows.
	Count int

	// Total is the number of matching rows across all pages.
	Total int
}

// Empty reports whether the page has no rows.
func (p Page) Empty() bool {
	return p.Count == 0
}

// Fetcher loads the rows for a query.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (Page, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, q Query) (Page, error)

// Fetch calls f(ctx, q).
func (f FetcherFunc) Fetch(ctx context.Context, q Query) (Page, error) {
	return f(ctx, q)
}

// Renderer turns a fetched page into body patches.
type Renderer interface {
	Render(ctx context.Context, page Page, q Query) ([]protocol.Patch, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, page Page, q Query) ([]protocol.Patch, error)

// Render calls f(ctx, page, q).
func (f RendererFunc) Render(ctx context.Context, page Page, q Query) ([]protocol.Patch, error) {
	return f(ctx, page, q)
}
