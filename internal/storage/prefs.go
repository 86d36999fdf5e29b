package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	toml "github.com/pelletier/go-toml/v2"
)

// DefaultPrefsPath is where PrefsFile keeps preferences when no path is given.
const DefaultPrefsPath = "~/.config/postlist/prefs.toml"

// PrefsFile stores flat string preferences in a TOML file. A missing or
// unreadable file reads as empty.
type PrefsFile struct {
	path string
}

// NewPrefsFile creates a PrefsFile. An empty path selects DefaultPrefsPath.
func NewPrefsFile(path string) *PrefsFile {
	if strings.TrimSpace(path) == "" {
		path = DefaultPrefsPath
	}
	return &PrefsFile{path: path}
}

// Path returns the configured path, before ~ expansion.
func (p *PrefsFile) Path() string {
	return p.path
}

// Get returns the value for key, or ErrNotFound.
func (p *PrefsFile) Get(key string) (string, error) {
	values, err := p.read()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

// Set stores value under key, keeping the other keys.
func (p *PrefsFile) Set(key, value string) error {
	values, err := p.read()
	if err != nil {
		return err
	}
	values[key] = value

	resolved, err := ExpandPath(p.path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := atomic.WriteFile(resolved, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Close is a no-op; it lets PrefsFile satisfy KV.
func (p *PrefsFile) Close() error {
	return nil
}

// read returns the stored values. Only a bad path is an error; an absent or
// corrupt file is an empty map.
func (p *PrefsFile) read() (map[string]string, error) {
	resolved, err := ExpandPath(p.path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	values := map[string]string{}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return values, nil
	}
	if err := toml.Unmarshal(data, &values); err != nil {
		return map[string]string{}, nil
	}
	return values, nil
}
