// Package project reads cyannotate.toml, the optional per-project defaults
// for the command line.
package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"cyannotate/internal/highlight"
)

// Config mirrors cyannotate.toml.
type Config struct {
	Rules  RulesConfig  `toml:"rules"`
	Render RenderConfig `toml:"render"`
	Batch  BatchConfig  `toml:"batch"`

	// Path of the file the config was read from; empty for defaults.
	Path string `toml:"-"`
}

type RulesConfig struct {
	Path string `toml:"path"` // relative to the config file
}

type RenderConfig struct {
	Highlight string `toml:"highlight"`
	RawLink   bool   `toml:"raw_link"`
}

type BatchConfig struct {
	Jobs int `toml:"jobs"`
}

// Default returns the configuration used when no file is found.
func Default() Config {
	return Config{
		Render: RenderConfig{Highlight: string(highlight.ModeAuto), RawLink: true},
	}
}

// Discover finds and loads the config above startDir. Without a file it
// returns Default and ok == false.
func Discover(startDir string) (cfg Config, ok bool, err error) {
	path, ok, err := FindConfig(startDir)
	if err != nil || !ok {
		return Default(), false, err
	}
	cfg, err = Load(path)
	return cfg, true, err
}

// Load decodes and validates a config file. Keys the file leaves out keep
// their defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if meta.IsDefined("rules", "path") {
		if strings.TrimSpace(cfg.Rules.Path) == "" {
			return Config{}, fmt.Errorf("%s: [rules].path is empty", path)
		}
		if !filepath.IsAbs(cfg.Rules.Path) && !strings.Contains(cfg.Rules.Path, "://") {
			cfg.Rules.Path = filepath.Join(filepath.Dir(path), filepath.FromSlash(cfg.Rules.Path))
		}
	}
	if meta.IsDefined("render", "highlight") {
		if _, err := highlight.ParseMode(cfg.Render.Highlight); err != nil {
			return Config{}, fmt.Errorf("%s: [render].highlight: %w", path, err)
		}
	}
	if meta.IsDefined("batch", "jobs") && cfg.Batch.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [batch].jobs must not be negative", path)
	}
	cfg.Path = path
	return cfg, nil
}
