// Package config loads phpvm.toml.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file looked up beside a script.
const FileName = "phpvm.toml"

type Config struct {
	LogLevel string        `toml:"log_level,omitempty"`
	Runtime  RuntimeConfig `toml:"runtime"`
	Cache    CacheConfig   `toml:"cache"`
	Stdlib   StdlibConfig  `toml:"stdlib"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-"`
}

type RuntimeConfig struct {
	MaxDepth int `toml:"max_depth"`
}

type CacheConfig struct {
	Enabled       bool   `toml:"enabled"`
	Dir           string `toml:"dir"`
	MemoryEntries int    `toml:"memory_entries"`
}

type StdlibConfig struct {
	Disabled []string `toml:"disabled,omitempty"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Runtime:  RuntimeConfig{MaxDepth: 10000},
		Cache: CacheConfig{
			Enabled:       true,
			Dir:           ".phpvm-cache",
			MemoryEntries: 64,
		},
	}
}

// Parse reads a configuration over the defaults; keys absent from r keep
// their default values.
func Parse(r io.Reader) (*Config, error) {
	out := Default()
	_, err := toml.NewDecoder(r).Decode(out)
	if err != nil {
		return nil, err
	}
	if out.Runtime.MaxDepth < 0 {
		return nil, fmt.Errorf("runtime.max_depth must not be negative, got %d", out.Runtime.MaxDepth)
	}
	if out.Cache.MemoryEntries < 0 {
		return nil, fmt.Errorf("cache.memory_entries must not be negative, got %d", out.Cache.MemoryEntries)
	}
	return out, nil
}

// Load reads the file at path. A relative cache directory is resolved
// against the directory holding the file.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.Path = path
	if c.Cache.Dir != "" && !filepath.IsAbs(c.Cache.Dir) {
		c.Cache.Dir = filepath.Clean(filepath.Join(filepath.Dir(path), c.Cache.Dir))
	}
	return c, nil
}

// Find loads phpvm.toml from the directory of scriptPath, falling back to
// the defaults when there is none. The default cache directory is then
// placed beside the script.
func Find(scriptPath string) (*Config, error) {
	dir := filepath.Dir(scriptPath)
	c, err := Load(filepath.Join(dir, FileName))
	if errors.Is(err, fs.ErrNotExist) {
		c = Default()
		c.Cache.Dir = filepath.Join(dir, c.Cache.Dir)
		return c, nil
	}
	return c, err
}
