// Package config loads hwtrack settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bjaus/datareport"
)

// Environment variables that override the file.
const (
	EnvDatabase = "HWTRACK_DB"
	EnvFormat   = "HWTRACK_FORMAT"
	EnvIndent   = "HWTRACK_INDENT"
)

const appDir = "hwtrack"

// Column is a user-defined report column. Either Selector or Func is set.
type Column struct {
	Label    string            `toml:"label"`
	Selector string            `toml:"selector"`
	Func     string            `toml:"func"`
	Entry    map[string]string `toml:"entry"`
	Static   map[string]any    `toml:"static"`
}

// Config holds the resolved settings.
type Config struct {
	Database   string   `toml:"database"`
	Indent     int      `toml:"indent"`
	Format     string   `toml:"format"`
	DateLayout string   `toml:"date_layout"`
	Columns    []Column `toml:"column"`
}

func baseDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, appDir)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(baseDir(), "config.toml")
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Database:   filepath.Join(baseDir(), "db.yaml"),
		Format:     string(datareport.Table),
		DateLayout: "Mon Jan 2",
	}
}

// Load reads the config file at path on top of [Default] and applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	default:
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("load config %s: unknown keys %s", path, strings.Join(keys, ", "))
		}
	}

	if v, ok := os.LookupEnv(EnvDatabase); ok && v != "" {
		cfg.Database = v
	}
	if v, ok := os.LookupEnv(EnvFormat); ok && v != "" {
		cfg.Format = v
	}
	if v, ok := os.LookupEnv(EnvIndent); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvIndent, err)
		}
		cfg.Indent = n
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	if _, err := datareport.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Indent < 0 {
		return fmt.Errorf("indent must not be negative, got %d", c.Indent)
	}
	if c.Database == "" {
		return errors.New("database path is empty")
	}
	for i, col := range c.Columns {
		if col.Label == "" {
			return fmt.Errorf("column %d: label is empty", i+1)
		}
		if (col.Selector == "") == (col.Func == "") {
			return fmt.Errorf("column %q: set exactly one of selector or func", col.Label)
		}
	}
	return nil
}

// Titles converts the configured columns into report titles, looking funcs
// up in reg.
func (c Config) Titles(reg *datareport.Registry) ([]datareport.Title, error) {
	titles := make([]datareport.Title, 0, len(c.Columns))
	for _, col := range c.Columns {
		if col.Func == "" {
			titles = append(titles, datareport.T(col.Label, col.Selector))
			continue
		}
		fn, err := reg.Lookup(col.Func)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Label, err)
		}
		sel, err := datareport.NewFormatted(fn, col.Entry, col.Static)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Label, err)
		}
		titles = append(titles, datareport.Title{Label: col.Label, Selector: sel})
	}
	return titles, nil
}
