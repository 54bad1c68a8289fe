package npm

import (
	"context"
	"encoding/json"

	"github.com/tidwall/gjson"

	"github.com/roivaz/pkg-peep/internal/mcp/tools/types"
)

// PackageInfo fetches the packument for name and reduces it to PackageMetadata.
func (c *Client) PackageInfo(ctx context.Context, name string) (types.PackageMetadata, error) {
	if !validPackageName(name) {
		return types.PackageMetadata{}, ErrInvalidPackage
	}
	doc, err := c.getJSON(ctx, endpointPackage, c.registryURL+"/"+registryPath(name))
	if err != nil {
		return types.PackageMetadata{}, err
	}
	return extractMetadata(doc), nil
}

func extractMetadata(doc gjson.Result) types.PackageMetadata {
	latest := doc.Get(`dist-tags.latest`)
	latestTag := ""
	if latest.Type == gjson.String {
		latestTag = latest.Str
	}

	// Walk the versions object once: keys come back in document order and the
	// latest record is picked up on the way.
	versions := []string{}
	var latestRecord gjson.Result
	doc.Get("versions").ForEach(func(key, value gjson.Result) bool {
		versions = append(versions, key.String())
		if latest.Exists() && key.String() == latestTag {
			latestRecord = value
		}
		return true
	})

	times := doc.Get("time")
	return types.PackageMetadata{
		Name:             optString(doc.Get("name")),
		Description:      optString(doc.Get("description")),
		Latest:           optString(latest),
		Versions:         versions,
		License:          optRaw(latestRecord.Get("license")),
		Keywords:         optRaw(doc.Get("keywords")),
		Homepage:         optString(doc.Get("homepage")),
		Repository:       optRaw(doc.Get("repository")),
		Bugs:             optRaw(doc.Get("bugs")),
		Maintainers:      optRaw(doc.Get("maintainers")),
		Author:           optRaw(doc.Get("author")),
		Created:          optString(times.Get("created")),
		Modified:         optString(times.Get("modified")),
		Dependencies:     optRaw(latestRecord.Get("dependencies")),
		DevDependencies:  optRaw(latestRecord.Get("devDependencies")),
		PeerDependencies: optRaw(latestRecord.Get("peerDependencies")),
	}
}

func optString(r gjson.Result) *string {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	s := r.String()
	return &s
}

func optRaw(r gjson.Result) json.RawMessage {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	return json.RawMessage(r.Raw)
}
