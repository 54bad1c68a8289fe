package config

const (
	KeyLogLevel        = "log_level"
	KeyRegistryURL     = "npm_registry_url"
	KeyDownloadsURL    = "npm_downloads_url"
	KeyHTTPTimeout     = "npm_http_timeout"
	KeyUserAgent       = "npm_user_agent"
	KeyTransport       = "mcp_transport"
	KeyHTTPHost        = "mcp_http_host"
	KeyHTTPPort        = "mcp_http_port"
	KeyHTTPEndpoint    = "mcp_http_endpoint"
	KeyShutdownTimeout = "shutdown_timeout"
)
