package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File is a Store backed by a single JSON object on disk.
// Every write replaces the file atomically via a temporary file and rename,
// so a crash never leaves a half-written document behind.
type File struct {
	mu   sync.Mutex
	path string
	perm fs.FileMode
}

// FileOption configures a File store.
type FileOption func(*File)

// WithFileMode sets the permissions of the written file.
// Default: 0o600.
func WithFileMode(perm fs.FileMode) FileOption {
	return func(f *File) {
		f.perm = perm
	}
}

// NewFile creates a store persisted at path. The file and its parent
// directory are created on the first write.
func NewFile(path string, opts ...FileOption) *File {
	f := &File{path: path, perm: 0o600}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *File) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return "", err
	}
	v, ok := data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *File) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data[key] = value
	return f.save(data)
}

func (f *File) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.save(data)
}

// load reads the document. A missing or empty file is an empty document.
func (f *File) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return make(map[string]string), nil
		}
		return nil, fmt.Errorf("kv: reading %s: %w", f.path, err)
	}

	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("kv: decoding %s: %w", f.path, err)
	}
	return data, nil
}

func (f *File) save(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("kv: encoding %s: %w", f.path, err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("kv: creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("kv: writing %s: %w", f.path, err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(raw)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, f.perm)
	}
	if err == nil {
		err = os.Rename(tmpName, f.path)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("kv: writing %s: %w", f.path, err)
	}

	return nil
}

var _ Store = (*File)(nil)
