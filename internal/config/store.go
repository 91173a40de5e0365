package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"techwatch/internal/domain"
)

// FileStore persists the run configuration as a YAML file. Concurrent
// access from the scheduler and manual triggers is serialized.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore builds a store backed by the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the run configuration. A missing file yields the default
// configuration rather than an error.
func (s *FileStore) Load(_ context.Context) (domain.RunConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultRunConfig(), nil
		}
		return domain.RunConfig{}, fmt.Errorf("read run config: %w", err)
	}

	var cfg domain.RunConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return domain.RunConfig{}, fmt.Errorf("parse run config: %w", err)
	}
	if cfg.Frequency == "" {
		cfg.Frequency = domain.FreqOnce
	}
	return cfg, nil
}

// Save writes the run configuration atomically (write-then-rename).
func (s *FileStore) Save(_ context.Context, cfg domain.RunConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode run config: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write run config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace run config: %w", err)
	}
	return nil
}

func defaultRunConfig() domain.RunConfig {
	return domain.RunConfig{
		Frequency: domain.FreqOnce,
	}
}
