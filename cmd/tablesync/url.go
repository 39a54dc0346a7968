package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tablesync/internal/errors"
	"github.com/vango-dev/tablesync/pkg/urlquery"
)

func urlCmd() *cobra.Command {
	var (
		query    string
		setQuery bool
		get      bool
	)

	cmd := &cobra.Command{
		Use:   "url <url> [name] [value]",
		Short: "Rewrite a URL query parameter",
		Long: `Set, replace or remove one query parameter of a URL, the same way
tables rewrite the page URL.

An empty or missing value removes the parameter. Other parameters
and the fragment are kept as they are.

Examples:
  tablesync url "/people?sort=name" q ada
  tablesync url "/people?sort=name&q=ada" sort
  tablesync url "/people?sort=name" --get sort
  tablesync url "/people?sort=name#top" --query "q=go"`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			raw := args[0]
			setQuery = cmd.Flags().Changed("query")

			switch {
			case setQuery:
				fmt.Fprintln(out, urlquery.ReplaceQuery(raw, query))
			case len(args) < 2:
				return errors.New("E400").WithDetail("a parameter name is required")
			case get:
				value, ok := urlquery.Get(raw, args[1])
				if !ok {
					return errors.New("E400").WithDetailf("%q has no parameter %q", raw, args[1])
				}
				fmt.Fprintln(out, value)
			default:
				value := ""
				if len(args) == 3 {
					value = args[2]
				}
				fmt.Fprintln(out, urlquery.Update(raw, args[1], value))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Replace the whole query string")
	cmd.Flags().BoolVarP(&get, "get", "g", false, "Print the decoded value of the parameter")

	return cmd
}
