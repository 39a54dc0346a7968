package main

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vango-dev/tablesync/internal/config"
	"github.com/vango-dev/tablesync/pkg/protocol"
	"github.com/vango-dev/tablesync/pkg/server"
	"github.com/vango-dev/tablesync/pkg/table"
	"github.com/vango-dev/tablesync/pkg/urlquery"
)

const demoTable = "people"

var demoColumns = []table.Column{
	{ID: "name", Sortable: true, Filterable: true},
	{ID: "age", Sortable: true, DefaultDescending: true},
	{ID: "city", Sortable: true, Filterable: true, FilterInput: true},
	{ID: "joined", Sortable: true, DefaultDescending: true},
}

var demoRows = []table.Row{
	{"id": "1", "name": "Ada Lovelace", "age": "36", "city": "London", "joined": "1843"},
	{"id": "2", "name": "Grace Hopper", "age": "85", "city": "Arlington", "joined": "1944"},
	{"id": "3", "name": "Linus Torvalds", "age": "54", "city": "Helsinki", "joined": "1991"},
	{"id": "4", "name": "Barbara Liskov", "age": "84", "city": "Boston", "joined": "1968"},
	{"id": "5", "name": "Ken Thompson", "age": "81", "city": "New Orleans", "joined": "1966"},
	{"id": "6", "name": "Margaret Hamilton", "age": "88", "city": "Boston", "joined": "1960"},
}

// rowsRenderer writes the ordered row ids and the row count onto the
// table body. The page script reorders the server-rendered rows to match.
type rowsRenderer struct {
	body string
}

func (r rowsRenderer) Render(_ context.Context, page table.Page, _ table.Query) ([]protocol.Patch, error) {
	rows, _ := page.Rows.([]table.Row)
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row["id"]
	}
	return []protocol.Patch{
		protocol.NewSetDataPatch(r.body, "rows", strings.Join(ids, ",")),
		protocol.NewSetAttrPatch(r.body, "aria-rowcount", strconv.Itoa(page.Count)),
	}, nil
}

// demoFactory builds the people table of the demo server.
func demoFactory(cfg config.TableConfig, logger *slog.Logger, mw []table.Middleware) server.TableFactory {
	fetcher := table.NewMemoryFetcher(demoRows)
	renderer := rowsRenderer{body: demoTable + ":body"}
	return func(ctx context.Context, history urlquery.History) (*table.Table, error) {
		return table.New(cfg, demoColumns, fetcher, renderer, history,
			table.WithID(demoTable),
			table.WithLogger(logger.With("table", demoTable, "session_id", table.SessionIDFromContext(ctx))),
			table.WithMiddleware(mw...),
		)
	}
}
