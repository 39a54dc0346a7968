package sortstate

import "strings"

// ColumnSpec describes a header as declared by the surrounding markup.
type ColumnSpec struct {
	// ID is the stable column identifier (the header element id).
	ID string

	// Sortable marks the header as sortable. Activations on other
	// headers are ignored.
	Sortable bool

	// DefaultDescending is the "sort high-to-low first" hint.
	DefaultDescending bool

	// Active marks the column the server rendered as the current sort.
	Active bool

	// Direction is the server-rendered direction of an active column.
	// Anything but Ascending is read as Descending.
	Direction Direction
}

// Column is the runtime state of one sortable header.
type Column struct {
	ID                string
	Sortable          bool
	DefaultDescending bool

	direction Direction
	recorded  Direction
}

func newColumn(spec ColumnSpec) *Column {
	c := &Column{
		ID:                spec.ID,
		Sortable:          spec.Sortable,
		DefaultDescending: spec.DefaultDescending,
	}
	if spec.Active {
		if spec.Direction == Ascending {
			c.direction = Ascending
		} else {
			c.direction = Descending
		}
	}
	return c
}

// Direction returns the visible direction.
func (c *Column) Direction() Direction {
	return c.direction
}

// Recorded returns the direction recorded by the last re-evaluation pass.
// It is Unsorted unless the column is an unsorted default-descending one.
func (c *Column) Recorded() Direction {
	return c.recorded
}

// Active reports whether the column currently takes part in the sort.
func (c *Column) Active() bool {
	return c.direction != Unsorted
}

// next computes the direction the next activation moves to. The recorded
// direction is read before falling back to the pure transition.
func (c *Column) next() Direction {
	if c.direction == Unsorted && c.recorded != Unsorted {
		return c.recorded
	}
	return Next(c.direction, c.DefaultDescending)
}

func (c *Column) set(d Direction) {
	c.direction = d
	c.recorded = Unsorted
}

// reevaluate forces the recorded direction of an unsorted default-descending
// column to Descending. The visible direction is left alone.
func (c *Column) reevaluate() {
	if c.direction == Unsorted && c.DefaultDescending {
		c.recorded = Descending
		return
	}
	c.recorded = Unsorted
}

// IsInputTarget reports whether an element tag is a form control. Header
// activations coming from a nested control are ignored.
func IsInputTarget(tag string) bool {
	switch strings.ToLower(tag) {
	case "input", "select", "textarea", "button":
		return true
	default:
		return false
	}
}

// IsActivationKey reports whether a key press activates a focused header.
func IsActivationKey(key, code string) bool {
	return key == "Enter" || code == "Enter" || code == "NumpadEnter"
}
