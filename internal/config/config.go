package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"log-level":        KeyLogLevel,
	"registry-url":     KeyRegistryURL,
	"downloads-url":    KeyDownloadsURL,
	"http-timeout":     KeyHTTPTimeout,
	"user-agent":       KeyUserAgent,
	"transport":        KeyTransport,
	"host":             KeyHTTPHost,
	"port":             KeyHTTPPort,
	"endpoint":         KeyHTTPEndpoint,
	"shutdown-timeout": KeyShutdownTimeout,
}

func Init(root *cobra.Command) {
	viper.AutomaticEnv()
	_ = godotenv.Load(".env")
	if root != nil {
		BindFlags(root.PersistentFlags())
	}
	setDefaults()
}

// BindFlags binds any known flags in the set to their configuration keys.
// Subcommands call it for their local flags.
func BindFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			_ = viper.BindPFlag(key, f)
		}
	})
}

func setDefaults() {
	viper.SetDefault(KeyLogLevel, "info")
	viper.SetDefault(KeyRegistryURL, "https://registry.npmjs.org")
	viper.SetDefault(KeyDownloadsURL, "https://api.npmjs.org")
	viper.SetDefault(KeyHTTPTimeout, "30s")
	viper.SetDefault(KeyUserAgent, "pkg-peep/1.0.0")
	viper.SetDefault(KeyTransport, "stdio")
	viper.SetDefault(KeyHTTPHost, "127.0.0.1")
	viper.SetDefault(KeyHTTPPort, 8000)
	viper.SetDefault(KeyHTTPEndpoint, "/mcp/jsonrpc")
	viper.SetDefault(KeyShutdownTimeout, "5s")
}

func LogLevel() string        { return viper.GetString(KeyLogLevel) }
func RegistryURL() string     { return viper.GetString(KeyRegistryURL) }
func DownloadsURL() string    { return viper.GetString(KeyDownloadsURL) }
func HTTPTimeout() string     { return viper.GetString(KeyHTTPTimeout) }
func UserAgent() string       { return viper.GetString(KeyUserAgent) }
func Transport() string       { return viper.GetString(KeyTransport) }
func HTTPHost() string        { return viper.GetString(KeyHTTPHost) }
func HTTPPort() int           { return viper.GetInt(KeyHTTPPort) }
func HTTPEndpoint() string    { return viper.GetString(KeyHTTPEndpoint) }
func ShutdownTimeout() string { return viper.GetString(KeyShutdownTimeout) }

// ParseDuration parses a Go duration string, returning fallback for blank input.
func ParseDuration(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, err
	}
	return d, nil
}
