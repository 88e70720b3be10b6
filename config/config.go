// Package config holds the settings every lngkit operation runs with.
//
// Settings start from built-in defaults and may be overridden by an optional
// .lngkit.yaml file in the project root, then by command-line flags:
//
//	source_dir: src
//	extensions: [.cpp, .h, .hpp]
//	translation_files: [lng/en.json, lng/ru.json]
//	marker: _lng
//	separator: /
//	maybe_used:
//	  - category/
//	  - column/
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/lngkit/extract"
	"github.com/minios-linux/lngkit/keypath"
)

// FileName is the optional project config file name.
const FileName = ".lngkit.yaml"

// DefaultSourceDir is scanned for key references.
const DefaultSourceDir = "src"

// DefaultTranslationFiles are the tracked translation documents.
var DefaultTranslationFiles = []string{
	filepath.Join("lng", "en.json"),
	filepath.Join("lng", "ru.json"),
}

// DefaultMaybeUsed lists key prefixes only referenced through strings built
// at runtime, so they never show up as literals in source.
var DefaultMaybeUsed = []string{
	"category/",
	"column/",
	"dialog/settings/configure_main_view/archived_mods_value/",
	"dialog/settings/configure_main_view/managed_mods_value/",
	"dialog/settings/interface_label/",
	"dialog/settings/interface_size/",
	"dialog/settings/mod_description_control/",
	"dialog/settings/update_mode/",
}

// Config is the resolved configuration for one invocation.
type Config struct {
	// Root is the absolute project root; relative paths resolve against it.
	Root string `yaml:"-"`
	// SourceDir is the directory walked for references.
	SourceDir string `yaml:"source_dir"`
	// Extensions are the source file name suffixes to scan.
	Extensions []string `yaml:"extensions"`
	// TranslationFiles are the JSON documents kept in sync, one per language.
	TranslationFiles []string `yaml:"translation_files"`
	// Marker is the token following a key literal in source.
	Marker string `yaml:"marker"`
	// Separator joins flattened key path segments.
	Separator string `yaml:"separator"`
	// MaybeUsed are key prefixes excluded from the unused report.
	MaybeUsed []string `yaml:"maybe_used"`
}

// Default returns the built-in configuration rooted at root.
func Default(root string) (*Config, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}
	return &Config{
		Root:             abs,
		SourceDir:        DefaultSourceDir,
		Extensions:       append([]string(nil), extract.DefaultExtensions...),
		TranslationFiles: append([]string(nil), DefaultTranslationFiles...),
		Marker:           extract.DefaultMarker,
		Separator:        keypath.DefaultSeparator,
		MaybeUsed:        append([]string(nil), DefaultMaybeUsed...),
	}, nil
}

// Load returns the defaults overlaid with root/.lngkit.yaml when present.
func Load(root string) (*Config, error) {
	cfg, err := Default(root)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(cfg.Root, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings that would make every operation a no-op or
// ambiguous.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.SourceDir) == "" {
		return errors.New("source_dir is empty")
	}
	if len(c.Extensions) == 0 {
		return errors.New("no source extensions configured")
	}
	for _, ext := range c.Extensions {
		if ext == "" {
			return errors.New("empty source extension")
		}
	}
	if len(c.TranslationFiles) == 0 {
		return errors.New("no translation files configured")
	}
	if c.Marker == "" {
		return errors.New("marker is empty")
	}
	if c.Separator == "" {
		return errors.New("separator is empty")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Paths
// ---------------------------------------------------------------------------

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Root, path)
}

// AbsSourceDir returns the absolute source directory.
func (c *Config) AbsSourceDir() string {
	return c.resolve(c.SourceDir)
}

// AbsTranslationFiles returns the absolute translation file paths, in
// configured order.
func (c *Config) AbsTranslationFiles() []string {
	paths := make([]string, len(c.TranslationFiles))
	for i, p := range c.TranslationFiles {
		paths[i] = c.resolve(p)
	}
	return paths
}

// Rel returns path relative to Root for display, or path itself when it lies
// outside the root.
func (c *Config) Rel(path string) string {
	rel, err := filepath.Rel(c.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// Scanner returns a source scanner for this configuration.
func (c *Config) Scanner(logger *slog.Logger) *extract.Scanner {
	return &extract.Scanner{
		Root:       c.AbsSourceDir(),
		Extensions: c.Extensions,
		Marker:     c.Marker,
		Logger:     logger,
	}
}
