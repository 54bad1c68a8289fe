package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/roivaz/pkg-peep/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:           "pkg-peep",
		Short:         "MCP server exposing npm registry queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	flags := root.PersistentFlags()
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("registry-url", "https://registry.npmjs.org", "npm registry base URL")
	flags.String("downloads-url", "https://api.npmjs.org", "npm downloads API base URL")
	flags.String("http-timeout", "30s", "Timeout for each upstream request")
	flags.String("user-agent", "pkg-peep/1.0.0", "User-Agent sent upstream")

	root.AddCommand(newServeCommand(), newInfoCommand(), newDownloadsCommand())

	config.Init(root)

	if err := root.Execute(); err != nil {
		log.Fatalf("pkg-peep: %v", err)
	}
}
