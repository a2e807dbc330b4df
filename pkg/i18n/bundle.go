package i18n

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
)

// Bundle is an immutable set of translations for one (language, namespace) pair.
// Nested groups are flattened on construction, so lookups use dot paths.
type Bundle struct {
	// Flattened entries for O(1) lookups: "group.key" -> value.
	entries map[string]string

	// Nested form as decoded, kept for serialization.
	tree map[string]any

	missing bool
}

var emptyBundle = &Bundle{
	entries: map[string]string{},
	tree:    map[string]any{},
	missing: true,
}

// EmptyBundle returns the shared sentinel used when a bundle could not be
// loaded, even after fallback. Every call returns the same pointer.
func EmptyBundle() *Bundle {
	return emptyBundle
}

// NewBundle builds a bundle from a decoded document.
// Values may be strings or nested maps; other scalars are stored in their
// fmt representation. The input map is copied and never retained.
func NewBundle(data map[string]any) *Bundle {
	tree := copyTree(data)
	return &Bundle{
		entries: flatten(tree, ""),
		tree:    tree,
	}
}

// Missing reports whether b is the empty-bundle sentinel.
// A nil bundle is treated as missing.
func (b *Bundle) Missing() bool {
	return b == nil || b.missing
}

// Lookup returns the translation stored under the dot-separated key.
func (b *Bundle) Lookup(key string) (string, bool) {
	if b == nil {
		return "", false
	}
	v, ok := b.entries[key]
	return v, ok
}

// Len returns the number of flattened keys.
func (b *Bundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.entries)
}

// Keys returns the flattened keys in sorted order.
func (b *Bundle) Keys() []string {
	if b == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(b.entries))
}

// Flat returns a copy of the flattened key/value pairs.
func (b *Bundle) Flat() map[string]string {
	if b == nil {
		return map[string]string{}
	}
	return maps.Clone(b.entries)
}

// Tree returns a deep copy of the nested document.
func (b *Bundle) Tree() map[string]any {
	if b == nil {
		return map[string]any{}
	}
	return copyTree(b.tree)
}

// MarshalJSON encodes the nested document.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b.tree)
}

func flatten(data map[string]any, prefix string) map[string]string {
	result := make(map[string]string)

	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			maps.Copy(result, flatten(v, fullKey))
		case nil:
			// null leaves carry no translation
		default:
			result[fullKey] = fmt.Sprintf("%v", v)
		}
	}

	return result
}

// copyTree deep-copies a decoded document, normalizing nested map types
// produced by the different decoders into map[string]any.
func copyTree(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for key, value := range data {
		out[key] = copyValue(value)
	}
	return out
}

func copyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return copyTree(v)
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return m
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[fmt.Sprint(k)] = copyValue(s)
		}
		return m
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = copyValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = copyTree(item)
		}
		return out
	default:
		return v
	}
}
