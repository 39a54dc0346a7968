// Package tabletest provides testing helpers for tables.
//
// It reduces boilerplate when driving a table.Table through client events
// by providing a recording History, a recording Renderer, event builders
// and patch assertions.
//
// # Quick Start
//
//	func TestPeople_SortByName(t *testing.T) {
//	    h := tabletest.NewHistory("/people")
//	    tbl, _ := table.New(cfg, columns, fetcher, tabletest.NewRenderer("people"), h,
//	        table.WithID("people"))
//
//	    patches, err := tbl.HandleEvent(ctx, tabletest.Click("people:th:name"))
//	    if err != nil {
//	        t.Fatalf("unexpected error: %v", err)
//	    }
//	    tabletest.ExpectPatch(t, patches, protocol.NewSetDataPatch("people:th:name", "sortorder", "1"))
//	    tabletest.ExpectURL(t, h, "/people?sort=name")
//	}
//
// # Events
//
// Event builders return ready-to-dispatch events:
//
//	tabletest.Click("people:th:age", protocol.ModCtrl)
//	tabletest.KeyDown("people:th:age", "Enter")
//	tabletest.Input("people:search", "ada")
//	tabletest.WithTarget(tabletest.Click("people:th:age"), "input")
package tabletest
