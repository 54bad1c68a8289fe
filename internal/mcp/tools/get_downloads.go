package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/pkg-peep/internal/mcp/tools/types"
	"github.com/roivaz/pkg-peep/internal/npm"
)

const GetDownloadsToolName = "get_npm_downloads"

type DownloadsService interface {
	Downloads(ctx context.Context, q npm.DownloadQuery) (types.DownloadStats, error)
}

type GetDownloadsHandler struct {
	Service DownloadsService
}

func (h *GetDownloadsHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := downloadQuery(req.GetArguments())
	if err != nil {
		return nil, fmt.Errorf("failed to get downloads for %s: %w", query.Package, err)
	}
	stats, err := h.Service.Downloads(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get downloads for %s: %w", query.Package, err)
	}
	return prettyResult(stats)
}

func downloadQuery(args map[string]any) (npm.DownloadQuery, error) {
	var q npm.DownloadQuery
	var err error
	if q.Package, err = packageArgument(args); err != nil {
		return q, err
	}
	if q.Period, err = stringArgument(args, "period"); err != nil {
		return q, err
	}
	if q.Period == "" {
		q.Period = npm.DefaultPeriod
	}
	if q.StartDate, err = stringArgument(args, "startDate"); err != nil {
		return q, err
	}
	if q.EndDate, err = stringArgument(args, "endDate"); err != nil {
		return q, err
	}
	return q, nil
}
