// Package sortstate implements the per-column sort state machine of a data
// table.
//
// Every sortable column cycles through three states:
//
//	Unsorted --activate--> Ascending (or Descending with the default-descending hint)
//	Ascending  --activate--> Descending
//	Descending --activate--> Ascending
//
// A column never returns to Unsorted through activation. It becomes
// Unsorted again when another column is chosen without the additive
// modifier, or when the sort is cleared.
//
// In multi-sort mode the Controller also keeps a Meta: the ordered list of
// active criteria, first entry first. Holding Ctrl or Meta while activating
// upserts into the Meta; a plain activation replaces it with a single
// criterion.
//
//	c := sortstate.NewController(specs,
//	    sortstate.WithMultiSort(true),
//	    sortstate.WithRenderer(sortstate.RendererFunc(func(ctx context.Context, s sortstate.State) {
//	        refetch(ctx, s.Meta)
//	    })),
//	)
//	c.Activate(ctx, sortstate.Activation{ColumnID: "price", Modifier: true})
package sortstate
