package sortstate

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
)

// State is the sort state handed to the Renderer after a transition.
type State struct {
	// ColumnID is the column that was activated. Empty after Clear.
	ColumnID string

	// Direction is the new direction of the activated column.
	Direction Direction

	// Meta is the ordered sort. In single-sort mode it holds at most the
	// one active column.
	Meta Meta

	// Multi reports multi-sort mode.
	Multi bool

	// Additive reports that the activation upserted into an existing
	// multi-column sort instead of replacing it.
	Additive bool
}

// Renderer is the render/refetch collaborator triggered after every sort
// transition. The state has already been fully mutated when Sort runs.
type Renderer interface {
	Sort(ctx context.Context, s State)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, s State)

// Sort calls f(ctx, s).
func (f RendererFunc) Sort(ctx context.Context, s State) {
	f(ctx, s)
}

// Activation is a click or keyboard activation on a header.
type Activation struct {
	ColumnID string

	// Modifier is set when Ctrl or Meta was held. It selects additive
	// behavior in multi-sort mode.
	Modifier bool

	// FromInput is set when the event originated from a form control
	// nested inside the header.
	FromInput bool
}

// KeyPress is a keyboard event on a focused header.
type KeyPress struct {
	Key       string
	Code      string
	Ctrl      bool
	Meta      bool
	TargetTag string
}

// Option configures a Controller.
type Option func(*Controller)

// WithMultiSort enables ordered multi-column sorting.
func WithMultiSort(multi bool) Option {
	return func(c *Controller) {
		c.multi = multi
	}
}

// WithRenderer sets the render/refetch collaborator.
func WithRenderer(r Renderer) Option {
	return func(c *Controller) {
		c.renderer = r
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// Controller owns the tri-state direction of every column of one table and,
// in multi-sort mode, the ordered sort meta.
//
// A Controller is not safe for concurrent use; the owning table serializes
// access.
type Controller struct {
	columns  []*Column
	byID     map[string]*Column
	meta     Meta
	multi    bool
	renderer Renderer
	logger   *slog.Logger
}

// NewController binds the given headers. Server-marked active columns keep
// their rendered direction and, in multi-sort mode, seed the meta in header
// order.
func NewController(specs []ColumnSpec, opts ...Option) *Controller {
	c := &Controller{
		logger: slog.Default().With("component", "sortstate"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.bind(specs)
	return c
}

func (c *Controller) bind(specs []ColumnSpec) {
	c.columns = make([]*Column, 0, len(specs))
	c.byID = make(map[string]*Column, len(specs))
	c.meta = nil

	for _, spec := range specs {
		if spec.ID == "" {
			continue
		}
		if _, dup := c.byID[spec.ID]; dup {
			c.logger.Debug("duplicate column id ignored", "column", spec.ID)
			continue
		}
		col := newColumn(spec)
		c.columns = append(c.columns, col)
		c.byID[col.ID] = col
	}

	if c.multi {
		for _, col := range c.columns {
			if col.Active() {
				c.meta.Upsert(Criterion{ColumnID: col.ID, Order: col.direction})
			}
		}
	} else {
		// Only one column can be active in single-sort mode; the first wins.
		seen := false
		for _, col := range c.columns {
			if !col.Active() {
				continue
			}
			if seen {
				col.set(Unsorted)
				continue
			}
			seen = true
			c.meta = Meta{{ColumnID: col.ID, Order: col.direction}}
		}
	}

	c.Reevaluate()
}

// Rebuild discards all state and binds a freshly rendered set of headers.
func (c *Controller) Rebuild(specs []ColumnSpec) {
	c.bind(specs)
}

// Multi reports multi-sort mode.
func (c *Controller) Multi() bool {
	return c.multi
}

// Column returns the column with the given id.
func (c *Controller) Column(id string) (*Column, bool) {
	col, ok := c.byID[id]
	return col, ok
}

// Columns returns the columns in header order.
func (c *Controller) Columns() []*Column {
	return c.columns
}

// Meta returns a copy of the current sort meta.
func (c *Controller) Meta() Meta {
	return c.meta.Clone()
}

// Active returns the ids of the columns taking part in the sort, in
// priority order.
func (c *Controller) Active() []string {
	return c.meta.ColumnIDs()
}

// State returns the current state without an activated column.
func (c *Controller) State() State {
	s := State{Meta: c.meta.Clone(), Multi: c.multi}
	if len(c.meta) > 0 {
		s.ColumnID = c.meta[0].ColumnID
		s.Direction = c.meta[0].Order
	}
	return s
}

// Reevaluate records Descending as the next starting direction of every
// unsorted default-descending column. It runs after binding and after every
// transition.
func (c *Controller) Reevaluate() {
	for _, col := range c.columns {
		col.reevaluate()
	}
}

// Activate applies one header activation. It reports whether a transition
// happened; ignored activations do not reach the Renderer.
func (c *Controller) Activate(ctx context.Context, a Activation) bool {
	col, ok := c.byID[a.ColumnID]
	if !ok {
		c.logger.Debug("activation on unknown column ignored", "column", a.ColumnID)
		return false
	}
	if !col.Sortable {
		c.logger.Debug("activation on unsortable column ignored", "column", a.ColumnID)
		return false
	}
	if a.FromInput {
		return false
	}

	next := col.next()
	additive := c.multi && a.Modifier

	if additive {
		c.meta.Upsert(Criterion{ColumnID: col.ID, Order: next})
	} else {
		for _, other := range c.columns {
			if other != col {
				other.set(Unsorted)
			}
		}
		c.meta.Reset()
		c.meta.Upsert(Criterion{ColumnID: col.ID, Order: next})
	}
	col.set(next)
	c.Reevaluate()

	c.logger.Debug("sort transition",
		"column", col.ID,
		"direction", next.String(),
		"additive", additive,
		"criteria", len(c.meta))

	if c.renderer != nil {
		c.renderer.Sort(ctx, State{
			ColumnID:  col.ID,
			Direction: next,
			Meta:      c.meta.Clone(),
			Multi:     c.multi,
			Additive:  additive,
		})
	}
	return true
}

// ActivateKey handles a key press on a focused header. Only Enter and
// NumpadEnter activate; Ctrl or Meta selects additive behavior.
func (c *Controller) ActivateKey(ctx context.Context, columnID string, k KeyPress) bool {
	if !IsActivationKey(k.Key, k.Code) {
		return false
	}
	return c.Activate(ctx, Activation{
		ColumnID:  columnID,
		Modifier:  k.Ctrl || k.Meta,
		FromInput: IsInputTarget(k.TargetTag),
	})
}

// Clear resets every column to Unsorted and empties the meta, then notifies
// the Renderer.
func (c *Controller) Clear(ctx context.Context) {
	for _, col := range c.columns {
		col.set(Unsorted)
	}
	c.meta.Reset()
	c.Reevaluate()

	if c.renderer != nil {
		c.renderer.Sort(ctx, State{Meta: c.meta.Clone(), Multi: c.multi})
	}
}

// Apply replaces the whole sort with m, for example when hydrating from a
// URL. Unknown or unsortable columns are dropped. In single-sort mode only
// the first criterion is kept. The Renderer is not called.
func (c *Controller) Apply(m Meta) {
	valid := lo.Filter(m, func(cr Criterion, _ int) bool {
		col, ok := c.byID[cr.ColumnID]
		return ok && col.Sortable
	})
	if !c.multi && len(valid) > 1 {
		valid = valid[:1]
	}

	for _, col := range c.columns {
		col.set(Unsorted)
	}
	c.meta.Reset()
	for _, cr := range valid {
		c.meta.Upsert(cr)
		if cr.Order != Unsorted && cr.Order.Valid() {
			c.byID[cr.ColumnID].set(cr.Order)
		}
	}
	c.Reevaluate()
}
