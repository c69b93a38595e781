package config

import (
	"context"
	"fmt"
)

// Store loads and saves the configuration file
type Store interface {
	Load() (*Config, error)
	Save(cfg *Config) error
}

// Wizard produces a configuration interactively
type Wizard interface {
	Generate(ctx context.Context, current *Config) (*Config, error)
}

// FileStore is a Store backed by one JSON file. An empty path means the
// file is searched for on Load and written to DefaultConfigPath on Save.
type FileStore struct {
	path string
}

// NewFileStore creates a store for path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store last read or will write
func (s *FileStore) Path() string {
	if s.path == "" {
		return DefaultConfigPath()
	}
	return s.path
}

// Load reads the configuration. Without a file the defaults are returned.
func (s *FileStore) Load() (*Config, error) {
	if s.path == "" {
		cfg, path, err := Load()
		if err != nil {
			return nil, err
		}
		s.path = path
		return cfg, nil
	}

	if !fileExists(s.path) {
		return nil, fmt.Errorf("read config: %s does not exist (run netorg configure)", s.path)
	}
	cfg, _, err := LoadFromPath(s.path)
	return cfg, err
}

// Save writes the configuration
func (s *FileStore) Save(cfg *Config) error {
	return cfg.Save(s.Path())
}
