package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tablesync/pkg/sortstate"
)

func sortCmd() *cobra.Command {
	var (
		multi       bool
		additive    bool
		descDefault bool
	)

	cmd := &cobra.Command{
		Use:   "sort <current> <column>",
		Short: "Compute the sort after a header activation",
		Long: `Print the sort query value that results from activating a column
header, starting from the current value ("name,-age" style, a leading
"-" marks a descending column).

Examples:
  tablesync sort "" name            # name
  tablesync sort name name          # -name
  tablesync sort "" age --desc      # -age
  tablesync sort name age --multi --add   # name,age`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			next, dir := nextSort(args[0], args[1], multi, additive, descDefault)
			fmt.Fprintln(cmd.OutOrStdout(), next)
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s is now %s\n", args[1], dir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&multi, "multi", "m", false, "Multi-column sort mode")
	cmd.Flags().BoolVar(&additive, "add", false, "Hold Ctrl/Meta: add the column instead of replacing the sort (multi mode)")
	cmd.Flags().BoolVarP(&descDefault, "desc", "d", false, "The column sorts high-to-low first")
	cmd.Flags().BoolP("verbose", "v", false, "Print the new direction of the column")

	return cmd
}

// nextSort replays one activation of column on a controller hydrated from
// current and returns the resulting query value.
func nextSort(current, column string, multi, additive, descDefault bool) (string, sortstate.Direction) {
	meta := sortstate.ParseMeta(current)

	specs := make([]sortstate.ColumnSpec, 0, meta.Len()+1)
	for _, id := range meta.ColumnIDs() {
		specs = append(specs, sortstate.ColumnSpec{ID: id, Sortable: true, DefaultDescending: id == column && descDefault})
	}
	if meta.Index(column) < 0 {
		specs = append(specs, sortstate.ColumnSpec{ID: column, Sortable: true, DefaultDescending: descDefault})
	}

	var state sortstate.State
	c := sortstate.NewController(specs,
		sortstate.WithMultiSort(multi),
		sortstate.WithRenderer(sortstate.RendererFunc(func(_ context.Context, s sortstate.State) {
			state = s
		})),
	)
	c.Apply(meta)
	c.Activate(context.Background(), sortstate.Activation{ColumnID: column, Modifier: additive})
	return c.Meta().String(), state.Direction
}
