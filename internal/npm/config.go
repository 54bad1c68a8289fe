package npm

import (
	"fmt"
	"strings"
	"time"

	"github.com/roivaz/pkg-peep/internal/config"
	"github.com/roivaz/pkg-peep/internal/logging"
	"github.com/roivaz/pkg-peep/internal/metrics"
)

const (
	DefaultRegistryURL  = "https://registry.npmjs.org"
	DefaultDownloadsURL = "https://api.npmjs.org"
	DefaultTimeout      = 30 * time.Second
)

type Config struct {
	RegistryURL  string
	DownloadsURL string
	// Timeout bounds each upstream request, body included. Zero disables it.
	Timeout   time.Duration
	UserAgent string
	Logger    logging.Logger
	Metrics   metrics.Recorder
}

func LoadConfig() (Config, error) {
	cfg := Config{
		RegistryURL:  strings.TrimSpace(config.RegistryURL()),
		DownloadsURL: strings.TrimSpace(config.DownloadsURL()),
		UserAgent:    config.UserAgent(),
	}

	timeout, err := config.ParseDuration(config.HTTPTimeout(), DefaultTimeout)
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", config.KeyHTTPTimeout, err)
	}
	if timeout < 0 {
		return Config{}, fmt.Errorf("invalid %s: must not be negative", config.KeyHTTPTimeout)
	}
	cfg.Timeout = timeout

	return cfg, nil
}
