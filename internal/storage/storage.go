// Package storage persists the search index and the user's preferences.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/nikbrunner/postlist/internal/model"
)

// ErrNotFound is returned by the preference stores for absent keys.
var ErrNotFound = errors.New("key not found")

// IndexFile reads and writes the search index document: a JSON array of
// {title, href, content} objects.
type IndexFile struct {
	path string
}

// NewIndexFile creates an IndexFile for the given path.
func NewIndexFile(path string) *IndexFile {
	return &IndexFile{path: path}
}

// Path returns the index file path.
func (f *IndexFile) Path() string {
	return f.path
}

// Load reads the index. A missing file yields an empty store.
func (f *IndexFile) Load() (*model.Store, error) {
	file, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewStore(nil), nil
		}
		return nil, err
	}
	defer func() { _ = file.Close() }()

	return DecodeIndex(file)
}

// Save writes the store as an indented JSON array, creating the directory
// if needed. The file is replaced atomically so a server reading it never
// sees a partial index.
func (f *IndexFile) Save(store *model.Store) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create index dir: %w", err)
	}

	var buf bytes.Buffer
	if err := EncodeIndex(&buf, store); err != nil {
		return err
	}
	if err := atomic.WriteFile(f.path, &buf); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// DecodeIndex decodes an index document into a store.
func DecodeIndex(r io.Reader) (*model.Store, error) {
	var entries []model.Entry
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	return model.NewStore(entries), nil
}

// EncodeIndex writes the store as an index document.
func EncodeIndex(w io.Writer, store *model.Store) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(store.All()); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return nil
}

// KV is a closable string key-value store.
type KV interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Close() error
}

// Backend names accepted by OpenKV.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// OpenKV opens the preference store for backend at path. An empty path
// selects the backend's default location.
func OpenKV(backend, path string) (KV, error) {
	switch backend {
	case "", BackendFile:
		return NewPrefsFile(path), nil
	case BackendSQLite:
		if strings.TrimSpace(path) == "" {
			path = DefaultSQLitePath
		}
		resolved, err := ExpandPath(path)
		if err != nil {
			return nil, err
		}
		return NewSQLiteKV(resolved)
	default:
		return nil, fmt.Errorf("unknown preference store %q", backend)
	}
}

// ExpandPath resolves a leading ~ and makes the path absolute.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
