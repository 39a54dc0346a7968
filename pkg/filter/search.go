package filter

import (
	"context"
	"log/slog"
	"strings"
)

// HighlightClass is the class put on globally searched column headers while
// the search input has focus.
const HighlightClass = "global"

// Filterer re-runs the table query after the global term changed.
type Filterer interface {
	Filter(ctx context.Context) error
}

// FiltererFunc adapts a function to Filterer.
type FiltererFunc func(ctx context.Context) error

// Filter calls f(ctx).
func (f FiltererFunc) Filter(ctx context.Context) error {
	return f(ctx)
}

// GlobalSearch is the search box above a table. The visible input is only
// committed to the hidden holder, and the table only filtered, on an
// explicit trigger: the search button, Enter, or the input's search event.
type GlobalSearch struct {
	columns  []string
	input    string
	holder   string
	focused  bool
	filterer Filterer
	logger   *slog.Logger
}

// NewGlobalSearch creates a search box for a table whose globally searched
// columns are columns. logger may be nil.
func NewGlobalSearch(columns []string, f Filterer, logger *slog.Logger) *GlobalSearch {
	if logger == nil {
		logger = slog.Default().With("component", "filter")
	}
	return &GlobalSearch{columns: columns, filterer: f, logger: logger}
}

// Columns returns the columns highlighted while the input has focus.
func (g *GlobalSearch) Columns() []string {
	return g.columns
}

// Focus marks the input focused. It returns the columns to highlight.
func (g *GlobalSearch) Focus() []string {
	g.focused = true
	return g.columns
}

// Blur marks the input unfocused. It returns the columns to un-highlight.
func (g *GlobalSearch) Blur() []string {
	g.focused = false
	return g.columns
}

// Highlighted reports whether the input has focus.
func (g *GlobalSearch) Highlighted() bool {
	return g.focused
}

// Input tracks the visible input value as the user types.
func (g *GlobalSearch) Input(text string) {
	g.input = text
}

// Value returns the visible input value.
func (g *GlobalSearch) Value() string {
	return g.input
}

// Holder returns the committed search term.
func (g *GlobalSearch) Holder() string {
	return g.holder
}

// Restore sets both the visible input and the committed term without
// filtering, as when a page is rendered from a URL that carries q.
func (g *GlobalSearch) Restore(term string) {
	g.input = term
	g.holder = strings.TrimSpace(term)
}

// KeyPress triggers the search on Enter. Other keys are ignored.
func (g *GlobalSearch) KeyPress(ctx context.Context, key string) (bool, error) {
	if key != "Enter" {
		return false, nil
	}
	return g.Trigger(ctx)
}

// Search handles the input's search event (Enter or the clear button of
// an <input type=search>).
func (g *GlobalSearch) Search(ctx context.Context) (bool, error) {
	return g.Trigger(ctx)
}

// Trigger commits the trimmed input to the holder and filters the table if
// the term changed. It reports whether a filter ran.
func (g *GlobalSearch) Trigger(ctx context.Context) (bool, error) {
	term := strings.TrimSpace(g.input)
	if term == g.holder {
		return false, nil
	}
	g.holder = term
	g.logger.Debug("global search", "term", term)
	if g.filterer == nil {
		return true, nil
	}
	return true, g.filterer.Filter(ctx)
}
