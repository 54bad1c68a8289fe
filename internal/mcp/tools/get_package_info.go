package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/roivaz/pkg-peep/internal/mcp/tools/types"
)

const GetPackageInfoToolName = "get_npm_package_info"

type PackageInfoService interface {
	PackageInfo(ctx context.Context, name string) (types.PackageMetadata, error)
}

type GetPackageInfoHandler struct {
	Service PackageInfoService
}

func (h *GetPackageInfoHandler) ToolAdapter(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pkg, err := packageArgument(req.GetArguments())
	if err != nil {
		return nil, fmt.Errorf("failed to get package info for %s: %w", pkg, err)
	}
	meta, err := h.Service.PackageInfo(ctx, pkg)
	if err != nil {
		return nil, fmt.Errorf("failed to get package info for %s: %w", pkg, err)
	}
	return prettyResult(meta)
}
