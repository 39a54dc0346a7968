package table

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/vango-dev/tablesync/internal/config"
	"github.com/vango-dev/tablesync/internal/errors"
	"github.com/vango-dev/tablesync/pkg/filter"
	"github.com/vango-dev/tablesync/pkg/protocol"
	"github.com/vango-dev/tablesync/pkg/sortstate"
	"github.com/vango-dev/tablesync/pkg/urlquery"
)

// Classes and data keys written to the table markup.
const (
	EmptyClass  = "empty"
	SortedClass = "sorted"

	DataSortOrder    = "sortorder"
	DataSortPriority = "sortpriority"
)

// Option configures a Table.
type Option func(*Table)

// WithID sets the table id. The default is "table".
func WithID(id string) Option {
	return func(t *Table) {
		t.id = id
	}
}

// WithLayout overrides the hydration IDs derived from the table id.
func WithLayout(l Layout) Option {
	return func(t *Table) {
		t.layout = &l
	}
}

// WithMiddleware appends middleware around event handling.
func WithMiddleware(mw ...Middleware) Option {
	return func(t *Table) {
		t.mw = append(t.mw, mw...)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Table) {
		t.logger = l
	}
}

// Table is the server side of one interactive table in one session. It owns
// the sort, filter and search state, turns client events into state changes,
// refetches and rerenders, and mirrors the state into the page URL.
//
// Events are handled one at a time. A state change is always followed by
// the fetch and render, and only then by the URL update.
type Table struct {
	mu sync.Mutex

	id     string
	layout *Layout
	cfg    config.TableConfig
	names  filter.Names
	mode   urlquery.Mode

	columns    []Column
	headers    map[string]string // header HID -> column id
	inputs     map[string]string // filter input HID -> column id
	filterable []string
	fields     []string

	sorter  *sortstate.Controller
	filters filter.State
	search  *filter.GlobalSearch
	history *urlquery.Synchronizer

	fetcher  Fetcher
	renderer Renderer
	mw       []Middleware
	logger   *slog.Logger

	page Page
	cur  *Ctx
}

// New creates a table over columns and hydrates its state from the current
// location of history. history may be nil, in which case the URL is never
// updated.
func New(cfg config.TableConfig, columns []Column, fetcher Fetcher, renderer Renderer, history urlquery.History, opts ...Option) (*Table, error) {
	if err := validateColumns(columns); err != nil {
		return nil, err
	}
	if fetcher == nil || renderer == nil {
		return nil, errors.New("E400").WithDetail("a table needs a fetcher and a renderer")
	}

	t := &Table{
		id:       "table",
		cfg:      cfg,
		columns:  columns,
		fetcher:  fetcher,
		renderer: renderer,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.layout == nil {
		l := DefaultLayout(t.id)
		t.layout = &l
	}
	if t.logger == nil {
		t.logger = slog.Default().With("component", "table", "table", t.id)
	}

	t.names = filter.Names{Search: cfg.SearchParam, Sort: cfg.SortParam}
	t.mode = urlquery.ParseMode(cfg.History)
	t.history = urlquery.NewSynchronizer(history, t.logger)

	t.headers = make(map[string]string, len(columns))
	t.inputs = make(map[string]string)
	specs := make([]sortstate.ColumnSpec, 0, len(columns))
	var highlighted []string
	for _, col := range columns {
		t.headers[t.layout.Header(col.ID)] = col.ID
		specs = append(specs, col.sortSpec())
		if col.Filterable {
			t.filterable = append(t.filterable, col.ID)
		}
		if col.FilterInput {
			t.inputs[t.layout.FilterInput(col.ID)] = col.ID
		}
		if col.Filterable || col.FilterInput {
			t.fields = append(t.fields, col.ID)
		}
		if col.highlighted() {
			highlighted = append(highlighted, col.ID)
		}
	}

	t.sorter = sortstate.NewController(specs,
		sortstate.WithMultiSort(cfg.MultiSort),
		sortstate.WithRenderer(sortstate.RendererFunc(t.sorted)),
		sortstate.WithLogger(t.logger),
	)
	t.search = filter.NewGlobalSearch(highlighted, filter.FiltererFunc(t.searched), t.logger)

	if history != nil {
		t.hydrate(history.Location(), false)
	}
	return t, nil
}

// ID returns the table id.
func (t *Table) ID() string {
	return t.id
}

// Layout returns the hydration IDs of the table.
func (t *Table) Layout() Layout {
	return *t.layout
}

// Query returns what the data source is currently asked for.
func (t *Table) Query() Query {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query()
}

// Page returns the last successfully fetched page.
func (t *Table) Page() Page {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

// SortState returns the current sort.
func (t *Table) SortState() sortstate.State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sorter.State()
}

// Mount renders the initial state: header attributes, input values, the
// first page and the empty flag. The URL is not touched.
func (t *Table) Mount(ctx context.Context) ([]protocol.Patch, error) {
	return t.run(ctx, nil, ActionMount)
}

// HandleEvent applies one client event and returns the patches to send.
// Events that do not belong to this table return no patches and no error.
//
// A failed fetch or render is returned as an error after the sort headers
// and the URL were updated; the previous page stays on screen.
func (t *Table) HandleEvent(ctx context.Context, ev *protocol.Event) ([]protocol.Patch, error) {
	if ev == nil {
		return nil, nil
	}
	return t.run(ctx, ev, t.route(ev))
}

// Owns reports whether the element with the given HID belongs to the table.
func (t *Table) Owns(hid string) bool {
	if hid == "" {
		return false
	}
	l := t.layout
	switch hid {
	case l.Root, l.SearchInput, l.SearchButton, l.Holder, l.ClearSort:
		return true
	}
	if _, ok := t.headers[hid]; ok {
		return true
	}
	_, ok := t.inputs[hid]
	return ok
}

func (t *Table) run(ctx context.Context, ev *protocol.Event, action string) ([]protocol.Patch, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c := &Ctx{std: ctx, table: t, event: ev, action: action}
	t.cur = c
	defer func() { t.cur = nil }()

	err := ComposeMiddleware(c, t.mw, func() error {
		t.dispatch(c)
		return c.err
	})
	return c.patches, err
}

func (t *Table) route(ev *protocol.Event) string {
	l := t.layout
	if ev.Type == protocol.EventPopState {
		return ActionPopState
	}
	if _, ok := t.headers[ev.HID]; ok {
		if ev.Type == protocol.EventClick || ev.Type == protocol.EventKeyDown {
			return ActionSort
		}
		return ActionIgnored
	}
	if _, ok := t.inputs[ev.HID]; ok {
		if ev.Type == protocol.EventChange {
			return ActionFilter
		}
		return ActionIgnored
	}

	switch ev.HID {
	case l.SearchInput:
		switch ev.Type {
		case protocol.EventFocus:
			return ActionSearchFocus
		case protocol.EventBlur:
			return ActionSearchBlur
		case protocol.EventInput:
			return ActionSearchInput
		case protocol.EventSearch:
			return ActionSearchSubmit
		case protocol.EventKeyPress:
			if k := ev.Keyboard(); k != nil && k.Key == "Enter" {
				return ActionSearchSubmit
			}
		}
	case l.SearchButton:
		if ev.Type == protocol.EventClick {
			return ActionSearchSubmit
		}
	case l.ClearSort:
		if ev.Type == protocol.EventClick {
			return ActionClearSort
		}
	}
	return ActionIgnored
}

func (t *Table) dispatch(c *Ctx) {
	ev := c.event
	switch c.action {
	case ActionMount:
		t.mount(c)

	case ActionSort:
		column := t.headers[ev.HID]
		if ev.Type == protocol.EventKeyDown {
			k := ev.Keyboard()
			if k == nil {
				return
			}
			t.sorter.ActivateKey(c.std, column, sortstate.KeyPress{
				Key:       k.Key,
				Code:      k.Code,
				Ctrl:      k.Modifiers.Has(protocol.ModCtrl),
				Meta:      k.Modifiers.Has(protocol.ModMeta),
				TargetTag: ev.Target,
			})
			return
		}
		mods := ev.Modifiers()
		t.sorter.Activate(c.std, sortstate.Activation{
			ColumnID:  column,
			Modifier:  mods.Has(protocol.ModCtrl) || mods.Has(protocol.ModMeta),
			FromInput: sortstate.IsInputTarget(ev.Target),
		})

	case ActionClearSort:
		t.sorter.Clear(c.std)

	case ActionSearchFocus:
		for _, col := range t.search.Focus() {
			c.Patch(protocol.NewAddClassPatch(t.layout.Header(col), filter.HighlightClass))
		}

	case ActionSearchBlur:
		for _, col := range t.search.Blur() {
			c.Patch(protocol.NewRemoveClassPatch(t.layout.Header(col), filter.HighlightClass))
		}

	case ActionSearchInput:
		t.search.Input(ev.Value())

	case ActionSearchSubmit:
		var err error
		switch ev.Type {
		case protocol.EventKeyPress:
			if k := ev.Keyboard(); k != nil {
				_, err = t.search.KeyPress(c.std, k.Key)
			}
		case protocol.EventSearch:
			t.search.Input(ev.Value())
			_, err = t.search.Search(c.std)
		default:
			_, err = t.search.Trigger(c.std)
		}
		if err != nil {
			c.fail(err)
		}

	case ActionFilter:
		column := t.inputs[ev.HID]
		if t.filters.SetColumn(column, ev.Value()) {
			t.logger.Debug("column filter", "column", column, "value", t.filters.Column(column))
			t.refresh(c, true)
		}

	case ActionPopState:
		location := ev.Value()
		if location == "" {
			return
		}
		t.hydrate(location, true)
		t.inputPatches(c)
		t.refresh(c, false)
	}
}

// sorted is the sort controller's renderer: the controller has already
// applied the transition.
func (t *Table) sorted(_ context.Context, s sortstate.State) {
	t.logger.Debug("sorted", "column", s.ColumnID, "direction", s.Direction.String(), "meta", s.Meta.String())
	if t.cur != nil {
		t.refresh(t.cur, true)
	}
}

// searched is the global search's filterer: the holder already has the new
// term.
func (t *Table) searched(_ context.Context) error {
	t.filters.SetGlobal(t.search.Holder())
	if t.cur == nil {
		return nil
	}
	t.cur.Patch(protocol.NewSetValuePatch(t.layout.Holder, t.search.Holder()))
	t.refresh(t.cur, true)
	return nil
}

func (t *Table) mount(c *Ctx) {
	if t.cfg.Tabindex >= 0 {
		tabindex := strconv.Itoa(t.cfg.Tabindex)
		for _, col := range t.columns {
			if col.Sortable {
				c.Patch(protocol.NewSetAttrPatch(t.layout.Header(col.ID), "tabindex", tabindex))
			}
		}
	}
	t.inputPatches(c)
	t.refresh(c, false)
}

// hydrate replaces the sort and filter state with what location says. A
// location without a sort keeps the rendered sort unless force is set.
func (t *Table) hydrate(location string, force bool) {
	in, err := filter.Parse(location, t.names, t.fields)
	if err != nil {
		t.logger.Warn("ignoring malformed table state in URL", "error", err)
		return
	}
	if force || urlHas(location, t.sortParam()) {
		t.sorter.Apply(in.Sort)
	}
	t.filters = in.State
	t.search.Restore(in.State.Global())
}

func (t *Table) inputPatches(c *Ctx) {
	c.Patch(
		protocol.NewSetValuePatch(t.layout.SearchInput, t.search.Value()),
		protocol.NewSetValuePatch(t.layout.Holder, t.search.Holder()),
	)
	for _, col := range t.columns {
		if col.FilterInput {
			c.Patch(protocol.NewSetValuePatch(t.layout.FilterInput(col.ID), t.filters.Column(col.ID)))
		}
	}
}

func (t *Table) query() Query {
	filters, matchAll := t.filters.Remap(t.filterable)
	return Query{
		Sort:     t.sorter.Meta(),
		Filters:  filters,
		MatchAll: matchAll,
		Global:   t.filters.Global(),
	}
}

// refresh fetches and renders the current query, updates the empty flag and
// the headers, and finally records the state in the URL.
func (t *Table) refresh(c *Ctx, record bool) {
	q := t.query()

	page, err := t.fetcher.Fetch(c.std, q)
	if err != nil {
		t.logger.Error("fetch failed", "error", err, "sort", q.Sort.String(), "global", q.Global)
		c.fail(errors.New("E300").Wrap(err))
	} else {
		body, err := t.renderer.Render(c.std, page, q)
		if err != nil {
			t.logger.Error("render failed", "error", err)
			c.fail(errors.New("E301").Wrap(err))
		} else {
			t.page = page
			c.Patch(body...)
			c.Patch(protocol.NewClassPatch(t.layout.Root, EmptyClass, page.Empty()))
		}
	}

	c.Patch(t.headerPatches()...)
	if record {
		t.syncURL()
	}
}

func (t *Table) headerPatches() []protocol.Patch {
	meta := t.sorter.Meta()
	multi := t.sorter.Multi()
	var patches []protocol.Patch
	for _, col := range t.sorter.Columns() {
		if !col.Sortable {
			continue
		}
		hid := t.layout.Header(col.ID)
		dir := col.Direction()
		patches = append(patches, protocol.NewSetDataPatch(hid, DataSortOrder, dir.Wire()))
		if dir == sortstate.Unsorted {
			patches = append(patches, protocol.NewRemoveAttrPatch(hid, "aria-sort"))
		} else {
			patches = append(patches, protocol.NewSetAttrPatch(hid, "aria-sort", strings.ToLower(dir.String())))
		}
		patches = append(patches, protocol.NewClassPatch(hid, SortedClass, dir != sortstate.Unsorted))
		if multi {
			if i := meta.Index(col.ID); i >= 0 {
				patches = append(patches, protocol.NewSetDataPatch(hid, DataSortPriority, strconv.Itoa(i+1)))
			} else {
				patches = append(patches, protocol.NewRemoveAttrPatch(hid, "data-"+DataSortPriority))
			}
		}
	}
	return patches
}

func (t *Table) syncURL() {
	params := append(
		[]urlquery.Param{{Name: t.sortParam(), Value: t.sorter.Meta().String()}},
		t.filters.Params(t.names, t.fields)...,
	)
	t.history.Apply(t.mode, params...)
}

func (t *Table) sortParam() string {
	if t.names.Sort != "" {
		return t.names.Sort
	}
	return filter.DefaultNames.Sort
}

func urlHas(location, name string) bool {
	_, ok := urlquery.Get(location, name)
	return ok
}
