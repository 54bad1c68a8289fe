package types

import (
	"bytes"
	"encoding/json"
)

// MarshalIndent encodes v with a two-space indent and without HTML escaping,
// so '&', '<' and '>' in upstream strings and raw bodies are kept literally.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
