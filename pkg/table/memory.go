package table

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/vango-dev/tablesync/pkg/sortstate"
)

// Row is one record of a MemoryFetcher, keyed by column id.
type Row map[string]string

// MemoryFetcher serves a fixed set of rows. Filters match
// case-insensitively by substring; values that parse as numbers sort
// numerically.
type MemoryFetcher struct {
	rows []Row
}

// NewMemoryFetcher creates a fetcher over rows. The rows are not copied.
func NewMemoryFetcher(rows []Row) *MemoryFetcher {
	return &MemoryFetcher{rows: rows}
}

// Fetch implements Fetcher. Page.Rows is a []Row.
func (m *MemoryFetcher) Fetch(ctx context.Context, q Query) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	rows := make([]Row, 0, len(m.rows))
	for _, r := range m.rows {
		if matches(r, q.Filters, q.MatchAll) {
			rows = append(rows, r)
		}
	}
	if q.Sort.Len() > 0 {
		slices.SortStableFunc(rows, func(a, b Row) int {
			return compareRows(a, b, q.Sort)
		})
	}
	return Page{Rows: rows, Count: len(rows), Total: len(rows)}, nil
}

func matches(r Row, filters map[string]string, matchAll bool) bool {
	if len(filters) == 0 {
		return true
	}
	for _, field := range slices.Sorted(maps.Keys(filters)) {
		hit := strings.Contains(strings.ToLower(r[field]), strings.ToLower(filters[field]))
		if hit && !matchAll {
			return true
		}
		if !hit && matchAll {
			return false
		}
	}
	return matchAll
}

func compareRows(a, b Row, meta sortstate.Meta) int {
	for _, cr := range meta {
		c := compareValues(a[cr.ColumnID], b[cr.ColumnID])
		if cr.Order == sortstate.Descending {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func compareValues(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return cmp.Compare(fa, fb)
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
