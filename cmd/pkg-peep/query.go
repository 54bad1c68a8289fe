package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/roivaz/pkg-peep/internal/config"
	"github.com/roivaz/pkg-peep/internal/logging"
	"github.com/roivaz/pkg-peep/internal/mcp/tools/types"
	"github.com/roivaz/pkg-peep/internal/metrics"
	"github.com/roivaz/pkg-peep/internal/npm"
)

func newInfoCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "info <package>",
		Short: "Print metadata for an npm package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client, err := newCLIClient()
			if err != nil {
				return err
			}
			meta, err := client.PackageInfo(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to get package info for %s: %w", args[0], err)
			}
			return writeOutput(cmd.OutOrStdout(), output, meta)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format (json, yaml)")
	return cmd
}

func newDownloadsCommand() *cobra.Command {
	var output string
	var query npm.DownloadQuery
	cmd := &cobra.Command{
		Use:   "downloads <package>",
		Short: "Print download statistics for an npm package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			query.Package = args[0]
			client, err := newCLIClient()
			if err != nil {
				return err
			}
			stats, err := client.Downloads(ctx, query)
			if err != nil {
				return fmt.Errorf("failed to get downloads for %s: %w", query.Package, err)
			}
			return writeOutput(cmd.OutOrStdout(), output, stats)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&query.Period, "period", npm.DefaultPeriod, "Predefined period (last-day, last-week, last-month)")
	flags.StringVar(&query.StartDate, "start-date", "", "Range start (YYYY-MM-DD), requires --end-date")
	flags.StringVar(&query.EndDate, "end-date", "", "Range end (YYYY-MM-DD), requires --start-date")
	flags.StringVarP(&output, "output", "o", "json", "Output format (json, yaml)")
	return cmd
}

func newCLIClient() (*npm.Client, error) {
	cfg, err := npm.LoadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Logger = logging.NewWithLevel(config.LogLevel())
	cfg.Metrics = metrics.Nop{}
	return npm.NewClient(cfg), nil
}

func writeOutput(w io.Writer, format string, v any) error {
	var (
		b   []byte
		err error
	)
	switch format {
	case "json", "":
		b, err = types.MarshalIndent(v)
		b = append(b, '\n')
	case "yaml":
		b, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unsupported output format %q (expected json or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = w.Write(b)
	return err
}

