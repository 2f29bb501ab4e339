package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"mercator-hq/gridexport/pkg/cli"
	"mercator-hq/gridexport/pkg/config"
	"mercator-hq/gridexport/pkg/grid"
	"mercator-hq/gridexport/pkg/store"
)

var validateFlags struct {
	checkStorage bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load and validate a configuration file, including environment overrides.

With --check-storage every grid's table and column attributes are also
checked against the database.

Examples:
  gridexport validate -c configs/gridexport.yaml
  gridexport validate -c configs/gridexport.yaml --check-storage`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateFlags.checkStorage, "check-storage", false, "check tables and columns in the database")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Configuration valid (%d grids)\n", len(cfg.Grids))

	if !validateFlags.checkStorage {
		return nil
	}

	st, err := store.Open(cfg.Storage.StoreConfig())
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	defer st.Close()

	if err := checkStorage(cmd.Context(), out, cfg, st); err != nil {
		return err
	}
	fmt.Fprintln(out, "✓ Storage matches grid definitions")
	return nil
}

// checkStorage verifies that every grid's table exists and has the columns
// its data columns and key refer to.
func checkStorage(ctx context.Context, out io.Writer, cfg *config.Config, st *store.Store) error {
	var problems int
	for i := range cfg.Grids {
		g := &cfg.Grids[i]
		columns, err := st.Columns(ctx, g.Table)
		if err != nil {
			fmt.Fprintf(out, "✗ grid %s: %v\n", g.ID, err)
			problems++
			continue
		}

		var attrs []string
		if g.Key != "" {
			attrs = append(attrs, g.Key)
		}
		for _, specs := range [][]grid.ColumnSpec{g.Columns, g.ExportColumns} {
			for _, spec := range specs {
				if spec.Type == grid.ColumnSerial || spec.Attribute == "" {
					continue
				}
				attrs = append(attrs, spec.Attribute)
			}
		}
		for _, attr := range attrs {
			if !slices.Contains(columns, attr) {
				fmt.Fprintf(out, "✗ grid %s: table %s has no column %q\n", g.ID, g.Table, attr)
				problems++
			}
		}
	}
	if problems > 0 {
		return cli.NewConfigError("grids", fmt.Sprintf("%d storage problem(s)", problems))
	}
	return nil
}
