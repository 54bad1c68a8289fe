package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roivaz/pkg-peep/internal/mcp/tools/types"
	"github.com/roivaz/pkg-peep/internal/npm"
)

type fakeDownloads struct {
	got   npm.DownloadQuery
	stats types.DownloadStats
	err   error
}

func (f *fakeDownloads) Downloads(_ context.Context, q npm.DownloadQuery) (types.DownloadStats, error) {
	f.got = q
	return f.stats, f.err
}

type fakePackageInfo struct {
	got  string
	meta types.PackageMetadata
	err  error
}

func (f *fakePackageInfo) PackageInfo(_ context.Context, name string) (types.PackageMetadata, error) {
	f.got = name
	return f.meta, f.err
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := mcp.AsTextContent(res.Content[0])
	require.True(t, ok)
	assert.Equal(t, "text", text.Type)
	return text.Text
}

func TestGetDownloadsDefaultsPeriod(t *testing.T) {
	raw := `{"downloads":42,"start":"2024-01-01","end":"2024-01-07","package":"react"}`
	svc := &fakeDownloads{stats: types.DownloadStats{Kind: types.DownloadStatsPoint, Raw: json.RawMessage(raw)}}
	h := &GetDownloadsHandler{Service: svc}

	res, err := h.ToolAdapter(context.Background(), callRequest(map[string]any{"package": "react"}))
	require.NoError(t, err)

	assert.Equal(t, npm.DownloadQuery{Package: "react", Period: npm.PeriodLastWeek}, svc.got)
	text := resultText(t, res)
	assert.JSONEq(t, raw, text)
	assert.Contains(t, text, "\n  \"downloads\": 42")
}

func TestGetDownloadsPassesDates(t *testing.T) {
	svc := &fakeDownloads{stats: types.DownloadStats{Kind: types.DownloadStatsRange, Raw: json.RawMessage(`{"downloads":[]}`)}}
	h := &GetDownloadsHandler{Service: svc}

	_, err := h.ToolAdapter(context.Background(), callRequest(map[string]any{
		"package":   "react",
		"period":    "last-month",
		"startDate": "2024-01-01",
		"endDate":   "2024-01-31",
	}))
	require.NoError(t, err)
	assert.Equal(t, npm.DownloadQuery{Package: "react", Period: "last-month", StartDate: "2024-01-01", EndDate: "2024-01-31"}, svc.got)
}

func TestGetDownloadsWrapsServiceError(t *testing.T) {
	svc := &fakeDownloads{err: &npm.UpstreamError{Message: "package left-padd not found"}}
	h := &GetDownloadsHandler{Service: svc}

	_, err := h.ToolAdapter(context.Background(), callRequest(map[string]any{"package": "left-padd"}))
	require.Error(t, err)
	assert.Equal(t, "failed to get downloads for left-padd: package left-padd not found", err.Error())
	var upstreamErr *npm.UpstreamError
	assert.ErrorAs(t, err, &upstreamErr)
}

func TestGetDownloadsRejectsNonStringArgument(t *testing.T) {
	svc := &fakeDownloads{}
	h := &GetDownloadsHandler{Service: svc}

	_, err := h.ToolAdapter(context.Background(), callRequest(map[string]any{"package": "react", "period": map[string]any{"x": 1}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "period must be a string")
	assert.Empty(t, svc.got.Package)
}

func TestGetPackageInfoReturnsPrettyMetadata(t *testing.T) {
	name, latest := "express", "4.10.0"
	svc := &fakePackageInfo{meta: types.PackageMetadata{Name: &name, Latest: &latest, Versions: []string{"4.9.8", "4.10.0"}}}
	h := &GetPackageInfoHandler{Service: svc}

	res, err := h.ToolAdapter(context.Background(), callRequest(map[string]any{"package": "express"}))
	require.NoError(t, err)
	assert.Equal(t, "express", svc.got)
	assert.Equal(t, "{\n  \"name\": \"express\",\n  \"latest\": \"4.10.0\",\n  \"versions\": [\n    \"4.9.8\",\n    \"4.10.0\"\n  ]\n}", resultText(t, res))
}

func TestGetPackageInfoWrapsServiceError(t *testing.T) {
	svc := &fakePackageInfo{err: errors.New("dial tcp: lookup registry.npmjs.org: no such host")}
	h := &GetPackageInfoHandler{Service: svc}

	_, err := h.ToolAdapter(context.Background(), callRequest(map[string]any{"package": "express"}))
	require.Error(t, err)
	assert.Equal(t, "failed to get package info for express: dial tcp: lookup registry.npmjs.org: no such host", err.Error())
}

func TestHandlersRejectBlankPackage(t *testing.T) {
	downloads := &fakeDownloads{}
	_, err := (&GetDownloadsHandler{Service: downloads}).ToolAdapter(context.Background(), callRequest(map[string]any{"package": "  "}))
	require.ErrorIs(t, err, npm.ErrInvalidPackage)
	assert.Empty(t, downloads.got.Package)

	info := &fakePackageInfo{got: "untouched"}
	_, err = (&GetPackageInfoHandler{Service: info}).ToolAdapter(context.Background(), callRequest(map[string]any{}))
	require.ErrorIs(t, err, npm.ErrInvalidPackage)
	assert.Equal(t, "failed to get package info for : a package name is required", err.Error())
	assert.Equal(t, "untouched", info.got)
}

func TestStringArgument(t *testing.T) {
	args := map[string]any{"s": "x", "n": float64(12), "nil": nil, "obj": []any{1}}

	v, err := stringArgument(args, "s")
	require.NoError(t, err)
	assert.Equal(t, "x", v)

	v, err = stringArgument(args, "n")
	require.NoError(t, err)
	assert.Equal(t, "12", v)

	v, err = stringArgument(args, "nil")
	require.NoError(t, err)
	assert.Empty(t, v)

	v, err = stringArgument(args, "missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	_, err = stringArgument(args, "obj")
	assert.Error(t, err)
}

func TestPrettyResultKeepsSpecialCharacters(t *testing.T) {
	desc := "Fast & <simple> tool, naïve ✓"
	res, err := prettyResult(types.PackageMetadata{Description: &desc, Versions: []string{}})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"description\": \"Fast & <simple> tool, naïve ✓\",\n  \"versions\": []\n}", resultText(t, res))

	stats := types.DownloadStats{Kind: types.DownloadStatsPoint, Raw: json.RawMessage(`{"downloads":3,"package":"a&b<c>"}`)}
	res, err = prettyResult(stats)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"downloads\": 3,\n  \"package\": \"a&b<c>\"\n}", resultText(t, res))
}
