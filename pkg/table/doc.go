// Package table runs one interactive table of a server-driven page.
//
// A Table receives the client's events (header clicks and key presses, the
// global search box, per-column filter inputs, back and forward navigation),
// updates its sort and filter state, asks the Fetcher for the matching rows,
// has the Renderer turn them into patches and finally records the state in
// the page URL.
//
// # Markup
//
// Elements are addressed by hydration ID. DefaultLayout derives them from
// the table id:
//
//	people                    table root, carries the "empty" class
//	people:th:<column>        header cell
//	people:filter:<column>    per-column filter input
//	people:search             global search input
//	people:searchButton       global search button
//	people:globalFilter       hidden input holding the committed term
//	people:clearSort          clear-sort button
//
// # Middleware
//
// Every event passes through the middleware given with WithMiddleware.
// Middleware sees the routed action and the patches produced so far:
//
//	logging := table.MiddlewareFunc(func(ctx *table.Ctx, next func() error) error {
//	    start := time.Now()
//	    err := next()
//	    slog.Info("table event", "action", ctx.Action(), "took", time.Since(start))
//	    return err
//	})
package table
