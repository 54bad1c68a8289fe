package types

import "encoding/json"

// PackageMetadata is the normalized view of a registry packument. Fields the
// registry did not send stay nil and are omitted when encoded; polymorphic
// fields (author, repository, license, ...) are carried as raw JSON.
type PackageMetadata struct {
	Name             *string         `json:"name,omitempty"`
	Description      *string         `json:"description,omitempty"`
	Latest           *string         `json:"latest,omitempty"`
	Versions         []string        `json:"versions"`
	License          json.RawMessage `json:"license,omitempty"`
	Keywords         json.RawMessage `json:"keywords,omitempty"`
	Homepage         *string         `json:"homepage,omitempty"`
	Repository       json.RawMessage `json:"repository,omitempty"`
	Bugs             json.RawMessage `json:"bugs,omitempty"`
	Maintainers      json.RawMessage `json:"maintainers,omitempty"`
	Author           json.RawMessage `json:"author,omitempty"`
	Created          *string         `json:"created,omitempty"`
	Modified         *string         `json:"modified,omitempty"`
	Dependencies     json.RawMessage `json:"dependencies,omitempty"`
	DevDependencies  json.RawMessage `json:"devDependencies,omitempty"`
	PeerDependencies json.RawMessage `json:"peerDependencies,omitempty"`
}
