package tabletest

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/vango-dev/tablesync/pkg/protocol"
	"github.com/vango-dev/tablesync/pkg/table"
)

// RowsKey is the data key the Renderer writes the rendered row ids to.
const RowsKey = "rows"

// ErrRenderFailed is returned by a failing Renderer.
var ErrRenderFailed = errors.New("render failed")

// Renderer is a table.Renderer that records every render. For a page of
// []table.Row it emits one SetData patch on the table body listing the
// "id" of every row.
type Renderer struct {
	mu    sync.Mutex
	body  string
	calls []table.Query
	fail  bool
}

// NewRenderer creates a renderer writing to the element body.
func NewRenderer(body string) *Renderer {
	return &Renderer{body: body}
}

// Fail makes subsequent renders fail.
func (r *Renderer) Fail(fail bool) {
	r.mu.Lock()
	r.fail = fail
	r.mu.Unlock()
}

// Render implements table.Renderer.
func (r *Renderer) Render(_ context.Context, page table.Page, q table.Query) ([]protocol.Patch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, q)
	if r.fail {
		return nil, ErrRenderFailed
	}
	return []protocol.Patch{protocol.NewSetDataPatch(r.body, RowsKey, RowIDs(page))}, nil
}

// Calls returns the queries rendered so far.
func (r *Renderer) Calls() []table.Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]table.Query(nil), r.calls...)
}

// RowIDs joins the "id" of every row of a []table.Row page with commas.
func RowIDs(page table.Page) string {
	rows, _ := page.Rows.([]table.Row)
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row["id"]
	}
	return strings.Join(ids, ",")
}

// FailingFetcher is a table.Fetcher that always fails with Err.
type FailingFetcher struct {
	Err error
}

// Fetch implements table.Fetcher.
func (f FailingFetcher) Fetch(context.Context, table.Query) (table.Page, error) {
	return table.Page{}, f.Err
}
