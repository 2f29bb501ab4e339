package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/gridexport/pkg/cli"
	"mercator-hq/gridexport/pkg/store"
)

var seedFlags struct {
	rows int
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the demo users table",
	Long: `Create the demo "users" table in the configured database and fill it with
deterministic rows. Existing rows of the table are replaced.

Examples:
  gridexport seed -c configs/gridexport.yaml --rows 500`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedFlags.rows < 0 {
			return cli.NewConfigError("rows", "must not be negative")
		}
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.Storage.StoreConfig())
		if err != nil {
			return cli.NewCommandError("seed", err)
		}
		defer st.Close()

		n, err := st.Seed(cmd.Context(), seedFlags.rows)
		if err != nil {
			return cli.NewCommandError("seed", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Seeded %d rows into %s (%s)\n", n, store.DemoTable, cfg.Storage.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().IntVarP(&seedFlags.rows, "rows", "n", 100, "number of rows")
}
