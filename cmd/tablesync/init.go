package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/tablesync/internal/config"
	"github.com/vango-dev/tablesync/internal/errors"
)

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default tablesync.json",
		Long: `Write tablesync.json with every setting at its default value.

Examples:
  tablesync init
  tablesync init deploy --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if config.Exists(dir) && !force {
				return errors.New("E400").
					WithDetailf("%s already exists", configFile(dir)).
					WithSuggestion("Pass --force to overwrite it")
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.New("E400").Wrap(err)
			}

			path := configFile(dir)
			if err := config.New().SaveTo(path); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Created %s", path)
			info(cmd.OutOrStdout(), "Run: tablesync serve --config=%s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}
