package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/dmitrymomot/polyglot/pkg/i18n"
)

// FS serves bundles from a file system such as embed.FS or os.DirFS.
// The document format is taken from the file extension.
type FS struct {
	fsys   fs.FS
	locate Locator
}

// NewFS creates an FS source. A nil locator defaults to Layout(".json").
func NewFS(fsys fs.FS, locate Locator) *FS {
	if locate == nil {
		locate = Layout(".json")
	}
	return &FS{fsys: fsys, locate: locate}
}

// Fetch implements Fetcher.
func (s *FS) Fetch(ctx context.Context, lang, namespace string) (*i18n.Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, Transport(lang, namespace, err)
	}

	p, ok := s.locate(lang, namespace)
	if !ok {
		return nil, NotFound(lang, namespace, nil)
	}

	format, ok := i18n.FormatFromPath(p)
	if !ok {
		return nil, Transport(lang, namespace, fmt.Errorf("%w: %q", i18n.ErrUnsupportedFormat, p))
	}

	data, err := fs.ReadFile(s.fsys, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NotFound(lang, namespace, err)
		}
		return nil, Transport(lang, namespace, err)
	}

	b, err := i18n.Decode(format, data)
	if err != nil {
		return nil, Transport(lang, namespace, fmt.Errorf("decoding %q: %w", p, err))
	}

	return b, nil
}

// ScanFS walks fsys and builds a Manifest from files laid out as
// {lang}/{namespace}.{json,yaml,yml,toml}. Files with other extensions are
// ignored; a bundle file at the root or nested below a language directory
// is an error.
// When several files map to the same pair, the first in lexical order wins.
//
// Example structure:
//
//	en/common.json
//	en/errors.yaml
//	fr/common.toml
func ScanFS(fsys fs.FS) (Manifest, error) {
	m := make(Manifest)

	err := fs.WalkDir(fsys, ".", func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := i18n.FormatFromPath(filePath); !ok {
			return nil
		}

		dir := path.Dir(filePath)
		if dir == "." || dir == "" || strings.Contains(dir, "/") {
			return fmt.Errorf("%w: file %q must be directly inside a language directory", i18n.ErrInvalidBundle, filePath)
		}

		key := Key{
			Lang:      path.Base(dir),
			Namespace: strings.TrimSuffix(path.Base(filePath), path.Ext(filePath)),
		}
		if _, exists := m[key]; !exists {
			m[key] = filePath
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

var _ Fetcher = (*FS)(nil)
