// Package server serves tables to browsers over websockets.
//
// A page opens a websocket on /ws and sends a ClientHello naming the table
// it renders and its current URL. The server creates a session, builds the
// table through the registered TableFactory with a urlquery.Navigator as its
// history, mounts it and then answers every client event with one or more
// patch frames carrying the event's sequence number. History patches queued
// while handling an event follow the DOM patches of the same reply.
//
//	srv := server.New(cfg, logger)
//	srv.Register("people", func(ctx context.Context, h urlquery.History) (*table.Table, error) {
//	    return table.New(cfg.Table, columns, fetcher, renderer, h, table.WithID("people"))
//	})
//	err := srv.Run(ctx)
//
// The server also exposes:
//
//	GET /healthz       liveness and open session count
//	GET /api/tables    registered table ids
//	GET /api/url       URL query parameter updates for non-websocket pages
//	GET /metrics       Prometheus metrics, when enabled
package server
