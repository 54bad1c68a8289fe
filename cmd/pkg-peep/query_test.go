package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roivaz/pkg-peep/internal/mcp/tools/types"
)

func TestWriteOutputJSON(t *testing.T) {
	name := "left-pad"
	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, "json", types.PackageMetadata{Name: &name, Versions: []string{"1.0.0"}}))
	assert.Equal(t, "{\n  \"name\": \"left-pad\",\n  \"versions\": [\n    \"1.0.0\"\n  ]\n}\n", buf.String())
}

func TestWriteOutputJSONKeepsSpecialCharacters(t *testing.T) {
	desc := "Fast & <simple> tool"
	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, "json", types.PackageMetadata{Description: &desc, Versions: []string{}}))
	assert.Equal(t, "{\n  \"description\": \"Fast & <simple> tool\",\n  \"versions\": []\n}\n", buf.String())
}

func TestWriteOutputYAML(t *testing.T) {
	stats := types.DownloadStats{
		Kind: types.DownloadStatsPoint,
		Raw:  json.RawMessage(`{"downloads":5,"start":"2024-01-01","end":"2024-01-07","package":"left-pad"}`),
	}
	var buf bytes.Buffer
	require.NoError(t, writeOutput(&buf, "yaml", stats))
	assert.Equal(t, "downloads: 5\nend: \"2024-01-07\"\npackage: left-pad\nstart: \"2024-01-01\"\n", buf.String())
}

func TestWriteOutputRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := writeOutput(&buf, "xml", struct{}{})
	require.Error(t, err)
	assert.Empty(t, buf.String())
}
