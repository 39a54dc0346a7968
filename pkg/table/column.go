package table

import (
	"github.com/vango-dev/tablesync/internal/errors"
	"github.com/vango-dev/tablesync/pkg/sortstate"
)

// Column declares one table column. ID doubles as the field name the data
// source sorts and filters by, and as the query parameter of its filter.
type Column struct {
	ID string

	// Sortable headers cycle through the sort directions when activated.
	Sortable bool

	// DefaultDescending makes the first activation sort high-to-low.
	DefaultDescending bool

	// Active and Direction mark the column the page was rendered sorted by.
	// A sort in the page URL takes precedence.
	Active    bool
	Direction sortstate.Direction

	// Filterable columns are searched by the global search term.
	Filterable bool

	// FilterInput columns have their own filter input in the header. They
	// are not highlighted by the global search.
	FilterInput bool
}

func (c Column) sortSpec() sortstate.ColumnSpec {
	return sortstate.ColumnSpec{
		ID:                c.ID,
		Sortable:          c.Sortable,
		DefaultDescending: c.DefaultDescending,
		Active:            c.Active,
		Direction:         c.Direction,
	}
}

func (c Column) highlighted() bool {
	return c.Filterable && !c.FilterInput
}

func validateColumns(columns []Column) error {
	if len(columns) == 0 {
		return errors.New("E107").WithDetail("a table needs at least one column")
	}
	seen := make(map[string]bool, len(columns))
	for i, col := range columns {
		if col.ID == "" {
			return errors.New("E107").WithDetailf("column %d has no id", i)
		}
		if seen[col.ID] {
			return errors.New("E107").WithDetailf("column %q is declared twice", col.ID)
		}
		seen[col.ID] = true
	}
	return nil
}
