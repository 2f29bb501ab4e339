/*
Package cli provides command-line helpers for the gridexport command:
output formatters, exit codes and signal handling.

Output Formatting:

Commands that print listings build a Table and hand it to a Formatter for
the format chosen with --output:

	formatter := cli.NewFormatter(cli.FormatJSON)
	table := &cli.Table{Headers: []string{"id", "table"}, Rows: rows}
	if err := formatter.FormatTo(os.Stdout, table); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
