package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/spf13/cast"

	"github.com/roivaz/pkg-peep/internal/mcp/tools/types"
	"github.com/roivaz/pkg-peep/internal/npm"
)

// stringArgument returns args[key] coerced to a string. Missing or null
// values yield "".
func stringArgument(args map[string]any, key string) (string, error) {
	value, ok := args[key]
	if !ok || value == nil {
		return "", nil
	}
	s, err := cast.ToStringE(value)
	if err != nil {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return s, nil
}

func packageArgument(args map[string]any) (string, error) {
	pkg, err := stringArgument(args, "package")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(pkg) == "" {
		return pkg, npm.ErrInvalidPackage
	}
	return pkg, nil
}

// prettyResult encodes v as 2-space-indented JSON inside a single text item.
func prettyResult(v any) (*mcp.CallToolResult, error) {
	b, err := types.MarshalIndent(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
