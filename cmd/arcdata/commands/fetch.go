package commands

import (
	"os"
	"time"

	"arcraiders-data/lib/artifact"
	"arcraiders-data/lib/configutil"
	"arcraiders-data/lib/metaforge"
	"arcraiders-data/lib/pipeline"
	"arcraiders-data/lib/runlog"
	"arcraiders-data/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var fetchBaseUrl *string
var fetchOut *string
var fetchMaps *[]string
var fetchLedger *string
var fetchVersion *string

func init() {
	fetchBaseUrl = fetchCmd.Flags().String("base-url", "", "Upstream API base URL.")
	fetchOut = fetchCmd.Flags().String("out", "", "Output directory for the persisted collections.")
	fetchMaps = fetchCmd.Flags().StringSlice("maps", nil, "Map names to fetch location data for.")
	fetchLedger = fetchCmd.Flags().String("ledger", "", "Sqlite file to record this run in (empty disables).")
	fetchVersion = fetchCmd.Flags().String("data-version", "", "Version tag stamped into the manifest.")
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [collections...]",
	Short: "Fetches collections from the upstream API and writes JSON artifacts.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("failed to read config", err)
		}

		client, err := metaforge.NewClient(metaforge.ClientOptions{
			BaseUrl: baseUrl(*fetchBaseUrl, cfg),
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize client", err)
		}

		writer, err := artifact.NewWriter(resolve(*fetchOut, cfg.Output, "data"))
		if err != nil {
			serviceutil.Fatal("failed to create output dir", err)
		}

		var ledger *runlog.Store
		if path := resolve(*fetchLedger, cfg.Ledger, ""); path != "" {
			db, err := runlog.OpenDB(path)
			if err != nil {
				serviceutil.Fatal("failed to open run ledger", err)
			}
			defer db.Close()
			store := runlog.NewStore(db)
			ledger = &store
		}

		maps := *fetchMaps
		if len(maps) == 0 {
			maps = cfg.Maps
		}
		version := *fetchVersion
		if version == "" {
			version = time.Now().UTC().Format("2006-01-02")
		}

		result, err := pipeline.Run(cmd.Context(), pipeline.Options{
			Client:      client,
			Writer:      writer,
			Collections: args,
			Maps:        maps,
			Version:     version,
			Ledger:      ledger,
		})
		if err != nil {
			serviceutil.Fatal("pipeline failed", err)
		}

		printSummary(result)
	},
}

func printSummary(result pipeline.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Collection", "Pages", "Records", "Partial", "Duration"})
	for _, c := range result.Collections {
		t.AppendRow(table.Row{
			c.Collection, c.Pages, c.Records, c.Partial,
			c.Duration.Round(time.Millisecond),
		})
	}
	if result.WeaponGroups > 0 {
		t.AppendFooter(table.Row{"weapon groups", "", result.WeaponGroups, "", ""})
	}
	t.Render()
}
