package commands

import (
	"context"
	"fmt"
	"os"

	"arcraiders-data/lib/metaforge"
	"arcraiders-data/lib/telemetry"

	"github.com/spf13/cobra"
)

// Config is the optional config.json5 next to the working directory. Flags
// win over config values; config values win over built-in defaults.
type Config struct {
	BaseUrl string   `json:"base_url"`
	Output  string   `json:"output"`
	Maps    []string `json:"maps"`
	Ledger  string   `json:"ledger"`
	Proxy   struct {
		Port       int `json:"port"`
		TtlSeconds int `json:"ttl_seconds"`
	} `json:"proxy"`
}

var verbose *bool

var rootCmd = &cobra.Command{
	Use:   "arcdata",
	Short: "arcdata fetches and normalizes ARC Raiders reference data.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolve(flag, config, fallback string) string {
	if flag != "" {
		return flag
	}
	if config != "" {
		return config
	}
	return fallback
}

func baseUrl(flag string, cfg Config) string {
	return resolve(flag, cfg.BaseUrl, metaforge.DefaultBaseURL)
}
