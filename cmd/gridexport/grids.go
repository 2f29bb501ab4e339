package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"mercator-hq/gridexport/pkg/cli"
	"mercator-hq/gridexport/pkg/config"
	"mercator-hq/gridexport/pkg/export"
)

var gridsFlags struct {
	output string
}

var gridsCmd = &cobra.Command{
	Use:   "grids",
	Short: "List configured grids",
	Long: `List the grids of the configuration with their table, column count and
export settings.

Examples:
  gridexport grids -c gridexport.yaml
  gridexport grids -c gridexport.yaml --output json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cli.ParseOutputFormat(gridsFlags.output)
		if err != nil {
			return cli.NewConfigError("output", err.Error())
		}
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		table := &cli.Table{
			Headers: []string{"id", "table", "columns", "export", "file_name", "format"},
			Rows:    gridRows(cfg),
		}
		return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), table)
	},
}

func init() {
	rootCmd.AddCommand(gridsCmd)
	gridsCmd.Flags().StringVarP(&gridsFlags.output, "output", "o", "text", "output format: text, json, csv")
}

// gridRows lists the configured grids for the grids command.
func gridRows(cfg *config.Config) [][]string {
	rows := make([][]string, 0, len(cfg.Grids))
	for i := range cfg.Grids {
		g := &cfg.Grids[i]
		def := cfg.Definition(g)
		format := string(def.Export.Format)
		if format == "" {
			format = string(export.FormatFromFileName(def.Export.FileName))
		}
		rows = append(rows, []string{
			g.ID,
			g.Table,
			strconv.Itoa(len(g.Columns)),
			strconv.FormatBool(def.Export.Enabled),
			def.Export.FileName,
			format,
		})
	}
	return rows
}
