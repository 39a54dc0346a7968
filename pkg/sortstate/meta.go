package sortstate

import (
	"strings"

	"github.com/samber/lo"
)

// Criterion is one entry of a multi-column sort.
type Criterion struct {
	ColumnID string
	Order    Direction
}

// Meta is an ordered multi-column sort. The first criterion is the primary
// sort key. An empty Meta means unsorted.
//
// Meta holds at most one criterion per column.
type Meta []Criterion

// Len returns the number of criteria.
func (m Meta) Len() int {
	return len(m)
}

// Index returns the position of columnID, or -1.
func (m Meta) Index(columnID string) int {
	_, idx, ok := lo.FindIndexOf(m, func(c Criterion) bool {
		return c.ColumnID == columnID
	})
	if !ok {
		return -1
	}
	return idx
}

// Get returns the criterion for columnID.
func (m Meta) Get(columnID string) (Criterion, bool) {
	idx := m.Index(columnID)
	if idx < 0 {
		return Criterion{}, false
	}
	return m[idx], true
}

// Upsert replaces the order of an existing criterion in place, or appends
// the criterion with the lowest priority. Criteria with an empty column id
// or an Unsorted order are ignored.
func (m *Meta) Upsert(c Criterion) {
	if c.ColumnID == "" || c.Order == Unsorted || !c.Order.Valid() {
		return
	}
	if idx := m.Index(c.ColumnID); idx >= 0 {
		(*m)[idx].Order = c.Order
		return
	}
	*m = append(*m, c)
}

// Remove drops the criterion for columnID, keeping the order of the rest.
func (m *Meta) Remove(columnID string) {
	*m = lo.Filter(*m, func(c Criterion, _ int) bool {
		return c.ColumnID != columnID
	})
}

// Reset empties the sequence.
func (m *Meta) Reset() {
	*m = (*m)[:0]
}

// Clone returns an independent copy.
func (m Meta) Clone() Meta {
	if m == nil {
		return nil
	}
	out := make(Meta, len(m))
	copy(out, m)
	return out
}

// ColumnIDs returns the column ids in priority order.
func (m Meta) ColumnIDs() []string {
	return lo.Map(m, func(c Criterion, _ int) string {
		return c.ColumnID
	})
}

// String encodes the sort as a query value: "name,-age" where a leading
// "-" marks a descending column.
func (m Meta) String() string {
	parts := lo.Map(m, func(c Criterion, _ int) string {
		if c.Order == Descending {
			return "-" + c.ColumnID
		}
		return c.ColumnID
	})
	return strings.Join(parts, ",")
}

// ParseMeta decodes the format produced by Meta.String. Blank entries are
// skipped and a repeated column keeps its first position with the last
// order seen.
func ParseMeta(s string) Meta {
	var m Meta
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" {
			continue
		}
		order := Ascending
		if strings.HasPrefix(part, "-") {
			order = Descending
			part = part[1:]
		}
		m.Upsert(Criterion{ColumnID: part, Order: order})
	}
	return m
}
