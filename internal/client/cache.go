package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileCache persists the one value that survives sessions: the username.
// A missing or unreadable file just means no cached name.
type FileCache struct {
	path string
}

// NewFileCache creates a cache backed by the given file.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

type cacheFile struct {
	Username string `json:"username"`
}

// Username returns the cached name, if any.
func (c *FileCache) Username() (string, bool) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return "", false
	}
	var f cacheFile
	if err := json.Unmarshal(data, &f); err != nil || f.Username == "" {
		return "", false
	}
	return f.Username, true
}

// SetUsername stores the name, creating parent directories as needed.
func (c *FileCache) SetUsername(name string) error {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	data, err := json.Marshal(cacheFile{Username: name})
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}
	return nil
}
