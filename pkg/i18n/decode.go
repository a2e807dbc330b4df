package i18n

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies a bundle document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension.
// The comparison is case-insensitive; ".yml" is accepted as YAML.
func FormatFromPath(p string) (Format, bool) {
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	}
	return "", false
}

// Decode parses a bundle document.
// A document that is empty or contains only whitespace decodes to a bundle
// with no keys.
func Decode(format Format, data []byte) (*Bundle, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return NewBundle(nil), nil
	}

	var doc map[string]any
	var err error

	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidBundle, format, err)
	}

	return NewBundle(doc), nil
}
