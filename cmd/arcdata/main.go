package main

import (
	"context"

	"arcraiders-data/cmd/arcdata/commands"
	"arcraiders-data/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "arcdata")
	commands.ExecuteContext(context.Background())
}
