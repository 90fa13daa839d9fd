package commands

import (
	"os"
	"time"

	"arcraiders-data/lib/configutil"
	"arcraiders-data/lib/serviceutil"
	"arcraiders-data/lib/telemetry"
	"arcraiders-data/services/proxy"

	"github.com/spf13/cobra"
)

var servePort *int
var serveTtl *int
var serveBaseUrl *string

func init() {
	servePort = serveCmd.Flags().Int("port", 0, "Port to listen on (default 8080).")
	serveTtl = serveCmd.Flags().Int("ttl", 0, "Response cache TTL in seconds (default 300).")
	serveBaseUrl = serveCmd.Flags().String("base-url", "", "Upstream API base URL.")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [--port <port>] [--ttl <seconds>]",
	Short: "Serves a CORS-friendly caching proxy in front of the upstream API.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil && !os.IsNotExist(err) {
			serviceutil.Fatal("failed to read config", err)
		}

		port := *servePort
		if port == 0 {
			port = cfg.Proxy.Port
		}
		if port == 0 {
			port = 8080
		}
		ttl := *serveTtl
		if ttl == 0 {
			ttl = cfg.Proxy.TtlSeconds
		}

		service := proxy.NewService(proxy.Options{
			BaseUrl: baseUrl(*serveBaseUrl, cfg),
			Ttl:     time.Duration(ttl) * time.Second,
		})

		telemetry.InstrumentPerfStats(serviceutil.SignalContext())
		serviceutil.StartHttpServer(port, service.Handler())
	},
}
