package mcp

import (
	"fmt"

	"github.com/roivaz/pkg-peep/internal/logging"
	"github.com/roivaz/pkg-peep/internal/mcp/tools"
	"github.com/roivaz/pkg-peep/internal/metrics"
	"github.com/roivaz/pkg-peep/internal/npm"
)

type Config struct {
	ToolAdapters map[string]ToolAdapter
	Logger       logging.Logger
	Metrics      metrics.Recorder
}

// DefaultConfig wires both npm tools to a registry client built from the
// process configuration.
func DefaultConfig(log logging.Logger, recorder metrics.Recorder) (Config, error) {
	npmCfg, err := npm.LoadConfig()
	if err != nil {
		return Config{}, fmt.Errorf("load npm config: %w", err)
	}
	npmCfg.Logger = log
	npmCfg.Metrics = recorder
	client := npm.NewClient(npmCfg)

	return Config{
		ToolAdapters: map[string]ToolAdapter{
			tools.GetDownloadsToolName:   &tools.GetDownloadsHandler{Service: client},
			tools.GetPackageInfoToolName: &tools.GetPackageInfoHandler{Service: client},
		},
		Logger:  log,
		Metrics: recorder,
	}, nil
}
