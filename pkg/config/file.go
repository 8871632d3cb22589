package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// File is a reloadable view of one configuration file. The watch
// engine reads the identity through it once at start and re-reads it
// on demand when told the configuration changed.
type File struct {
	path string
	mu   sync.RWMutex
	cfg  Config
}

// DefaultPath returns ~/.nightjar/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".nightjar", "config.yaml"), nil
}

// Load reads the configuration file at path, or the default path when
// path is empty. A missing file is not an error: defaults apply and
// the identity stays unconfigured.
func Load(path string) (*File, error) {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	f := &File{path: path, cfg: Default()}
	if err := f.Reload(); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload re-reads the file, replacing the in-memory configuration.
// Values absent from the file keep their defaults.
func (f *File) Reload() error {
	cfg := Default()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config file %s: %w", f.path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", f.path, err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration in %s: %w", f.path, err)
	}

	f.mu.Lock()
	f.cfg = cfg
	f.mu.Unlock()
	return nil
}

// Config returns a copy of the current configuration.
func (f *File) Config() Config {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cfg
}

// Identity returns the configured identity, which may be empty when
// not yet configured. Satisfies the watch engine's identity source.
func (f *File) Identity() (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.cfg.Identity, nil
}

// Path returns the file path backing this configuration.
func (f *File) Path() string {
	return f.path
}

// Retention returns the session retention window as a duration.
func (c Config) Retention() time.Duration {
	return time.Duration(c.Session.RetentionMinutes) * time.Minute
}

// SweepInterval returns the sweep period as a duration.
func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.Session.SweepSeconds) * time.Second
}
