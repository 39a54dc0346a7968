package table

// Layout maps table elements to hydration IDs. The page template renders
// the same IDs so client events can be routed back.
type Layout struct {
	// Root is the table element. It carries the empty class.
	Root string

	// SearchInput is the visible global search input.
	SearchInput string

	// SearchButton submits the global search.
	SearchButton string

	// Holder is the hidden input holding the committed search term.
	Holder string

	// ClearSort resets the sort. Optional.
	ClearSort string
}

// DefaultLayout derives every ID from the table id.
func DefaultLayout(tableID string) Layout {
	return Layout{
		Root:         tableID,
		SearchInput:  tableID + ":search",
		SearchButton: tableID + ":searchButton",
		Holder:       tableID + ":globalFilter",
		ClearSort:    tableID + ":clearSort",
	}
}

// Header returns the ID of a column's header cell.
func (l Layout) Header(columnID string) string {
	return l.Root + ":th:" + columnID
}

// FilterInput returns the ID of a column's own filter input.
func (l Layout) FilterInput(columnID string) string {
	return l.Root + ":filter:" + columnID
}
