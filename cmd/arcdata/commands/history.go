package commands

import (
	"os"
	"time"

	"arcraiders-data/lib/runlog"
	"arcraiders-data/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyLedger *string
var historyLimit *int

func init() {
	historyLedger = historyCmd.Flags().String("ledger", "data/runs.db", "Sqlite run ledger to read.")
	historyLimit = historyCmd.Flags().Int("limit", 10, "How many runs to show.")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history [--ledger <path/to/runs.db>]",
	Short: "Shows recent pipeline runs from the run ledger.",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := runlog.OpenDB(*historyLedger)
		if err != nil {
			serviceutil.Fatal("failed to open run ledger", err)
		}
		defer db.Close()

		runs, err := runlog.NewStore(db).History(cmd.Context(), *historyLimit)
		if err != nil {
			serviceutil.Fatal("failed to read run ledger", err)
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Started", "Version", "Collection", "Pages", "Records", "Partial"})
		for _, run := range runs {
			for _, c := range run.Collections {
				t.AppendRow(table.Row{
					run.StartedAt.Format(time.DateTime),
					run.Version, c.Collection, c.Pages, c.Records, c.Partial,
				})
			}
		}
		t.Render()
	},
}
