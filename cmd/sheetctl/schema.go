package main

import (
	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the columns inferred from the sheet",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		cache, err := loadDataset(ctx)
		if err != nil {
			return err
		}
		ds, _ := cache.Cached()
		return writeOutput(cmd.OutOrStdout(), ds.Schema)
	},
}
