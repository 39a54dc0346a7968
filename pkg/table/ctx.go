package table

import (
	"context"

	"github.com/vango-dev/tablesync/pkg/protocol"
)

// Actions name what an event did. They are stable, low-cardinality labels
// for logs, metrics and traces.
const (
	ActionMount        = "mount"
	ActionSort         = "sort"
	ActionClearSort    = "sort.clear"
	ActionSearchFocus  = "search.focus"
	ActionSearchBlur   = "search.blur"
	ActionSearchInput  = "search.input"
	ActionSearchSubmit = "search.submit"
	ActionFilter       = "filter"
	ActionPopState     = "popstate"
	ActionIgnored      = "ignored"
)

// Ctx carries one event through the middleware chain and collects the
// patches produced while handling it.
type Ctx struct {
	std     context.Context
	table   *Table
	event   *protocol.Event
	action  string
	patches []protocol.Patch
	values  map[any]any
	err     error
}

// StdContext returns the standard context the handler runs with.
func (c *Ctx) StdContext() context.Context {
	return c.std
}

// SetStdContext replaces the standard context for everything downstream,
// such as a context carrying a trace span.
func (c *Ctx) SetStdContext(std context.Context) {
	c.std = std
}

// Event returns the event being handled. It is nil during Mount.
func (c *Ctx) Event() *protocol.Event {
	return c.event
}

// Action returns what the event was routed to.
func (c *Ctx) Action() string {
	return c.action
}

// TableID returns the id of the table handling the event.
func (c *Ctx) TableID() string {
	return c.table.id
}

// Query returns the table's current query. After next returns it reflects
// the state the event left behind.
func (c *Ctx) Query() Query {
	return c.table.query()
}

// SessionID returns the session the event arrived on, if known.
func (c *Ctx) SessionID() string {
	return SessionIDFromContext(c.std)
}

// Value returns a value stored with SetValue.
func (c *Ctx) Value(key any) any {
	return c.values[key]
}

// SetValue stores a value for later middleware or the handler.
func (c *Ctx) SetValue(key, val any) {
	if c.values == nil {
		c.values = make(map[any]any)
	}
	c.values[key] = val
}

// Patch queues patches for the client.
func (c *Ctx) Patch(p ...protocol.Patch) {
	c.patches = append(c.patches, p...)
}

// Patches returns the patches queued so far.
func (c *Ctx) Patches() []protocol.Patch {
	return c.patches
}

// PatchCount returns the number of patches queued so far.
func (c *Ctx) PatchCount() int {
	return len(c.patches)
}

// fail records the first data error of this event. The event still
// completes so headers and the URL match the new state.
func (c *Ctx) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

type sessionIDKey struct{}

// ContextWithSessionID returns a context carrying the session id.
func ContextWithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, id)
}

// SessionIDFromContext returns the session id stored by ContextWithSessionID.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}
