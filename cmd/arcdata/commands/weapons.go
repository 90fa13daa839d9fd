package commands

import (
	"encoding/json"
	"log/slog"
	"os"

	"arcraiders-data/lib/artifact"
	"arcraiders-data/lib/metaforge"
	"arcraiders-data/lib/serviceutil"
	"arcraiders-data/lib/weapons"

	"github.com/spf13/cobra"
)

var weaponsItems *string
var weaponsOut *string
var weaponsXlsx *string

func init() {
	weaponsItems = weaponsCmd.Flags().String("items", "data/items.json", "Path to a previously fetched items collection.")
	weaponsOut = weaponsCmd.Flags().String("out", "data", "Output directory for the weapon-group artifacts.")
	weaponsXlsx = weaponsCmd.Flags().String("xlsx", "", "Also export the weapon table to this spreadsheet path.")
	rootCmd.AddCommand(weaponsCmd)
}

var weaponsCmd = &cobra.Command{
	Use:   "weapons [--items <path/to/items.json>]",
	Short: "Rebuilds weapon groups from an already-fetched items collection.",
	Run: func(cmd *cobra.Command, args []string) {
		raw, err := os.ReadFile(*weaponsItems)
		if err != nil {
			serviceutil.Fatal("failed to read items collection", err)
		}
		var items []metaforge.Item
		if err := json.Unmarshal(raw, &items); err != nil {
			serviceutil.Fatal("failed to parse items collection", err)
		}

		groups := weapons.Normalize(items)
		slog.Info("normalized weapons", "items", len(items), "groups", len(groups))

		writer, err := artifact.NewWriter(*weaponsOut)
		if err != nil {
			serviceutil.Fatal("failed to create output dir", err)
		}
		if err := writer.WriteCollection("weapons", groups); err != nil {
			serviceutil.Fatal("failed to write weapon groups", err)
		}

		if *weaponsXlsx != "" {
			if err := artifact.ExportWeaponsXLSX(*weaponsXlsx, groups); err != nil {
				serviceutil.Fatal("failed to export spreadsheet", err)
			}
			slog.Info("exported spreadsheet", "path", *weaponsXlsx)
		}
	},
}
