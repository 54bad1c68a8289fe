package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/pkg-peep/internal/mcp/tools"
	"github.com/roivaz/pkg-peep/internal/npm"
)

const datePattern = `^\d{4}-\d{2}-\d{2}$`

// ToolDefinitions returns the descriptors of every tool the server exposes, in
// listing order.
func ToolDefinitions() []mcp.Tool {
	return []mcp.Tool{
		mcp.NewTool(tools.GetDownloadsToolName,
			mcp.WithDescription("Get NPM package download statistics"),
			mcp.WithString("package",
				mcp.Required(),
				mcp.Description("NPM package name"),
			),
			mcp.WithString("period",
				mcp.Description("Predefined time period for download stats"),
				mcp.Enum(npm.PeriodLastDay, npm.PeriodLastWeek, npm.PeriodLastMonth),
			),
			mcp.WithString("startDate",
				mcp.Description("Start date for custom range (YYYY-MM-DD format)"),
				mcp.Pattern(datePattern),
			),
			mcp.WithString("endDate",
				mcp.Description("End date for custom range (YYYY-MM-DD format)"),
				mcp.Pattern(datePattern),
			),
		),
		mcp.NewTool(tools.GetPackageInfoToolName,
			mcp.WithDescription("Get comprehensive NPM package metadata"),
			mcp.WithString("package",
				mcp.Required(),
				mcp.Description("NPM package name"),
			),
		),
	}
}
