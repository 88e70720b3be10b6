package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func mustDefault(t *testing.T) *Config {
	t.Helper()
	cfg, err := Default(t.TempDir())
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return cfg
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}

		if cfg.Root != dir {
			t.Errorf("Root = %q, want %q", cfg.Root, dir)
		}
		if cfg.SourceDir != "src" {
			t.Errorf("SourceDir = %q, want %q", cfg.SourceDir, "src")
		}
		if want := []string{".cpp", ".h", ".hpp"}; !reflect.DeepEqual(cfg.Extensions, want) {
			t.Errorf("Extensions = %v, want %v", cfg.Extensions, want)
		}
		if !reflect.DeepEqual(cfg.TranslationFiles, DefaultTranslationFiles) {
			t.Errorf("TranslationFiles = %v, want %v", cfg.TranslationFiles, DefaultTranslationFiles)
		}
		if cfg.Marker != "_lng" {
			t.Errorf("Marker = %q, want %q", cfg.Marker, "_lng")
		}
		if cfg.Separator != "/" {
			t.Errorf("Separator = %q, want %q", cfg.Separator, "/")
		}
		if !reflect.DeepEqual(cfg.MaybeUsed, DefaultMaybeUsed) {
			t.Errorf("MaybeUsed = %v, want %v", cfg.MaybeUsed, DefaultMaybeUsed)
		}
	})

	t.Run("file overrides only what it sets", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "source_dir: app\n"+
			"translation_files: [i18n/de.json]\n"+
			"maybe_used: []\n")

		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}

		if cfg.SourceDir != "app" {
			t.Errorf("SourceDir = %q, want %q", cfg.SourceDir, "app")
		}
		if want := []string{"i18n/de.json"}; !reflect.DeepEqual(cfg.TranslationFiles, want) {
			t.Errorf("TranslationFiles = %v, want %v", cfg.TranslationFiles, want)
		}
		if len(cfg.MaybeUsed) != 0 {
			t.Errorf("MaybeUsed = %v, want empty", cfg.MaybeUsed)
		}
		if cfg.Marker != "_lng" {
			t.Errorf("Marker = %q, want %q", cfg.Marker, "_lng")
		}
		if got, want := cfg.AbsSourceDir(), filepath.Join(dir, "app"); got != want {
			t.Errorf("AbsSourceDir() = %q, want %q", got, want)
		}
		if got, want := cfg.AbsTranslationFiles(), []string{filepath.Join(dir, "i18n", "de.json")}; !reflect.DeepEqual(got, want) {
			t.Errorf("AbsTranslationFiles() = %v, want %v", got, want)
		}
	})

	t.Run("empty file keeps defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "")

		cfg, err := Load(dir)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.SourceDir != "src" {
			t.Errorf("SourceDir = %q, want %q", cfg.SourceDir, "src")
		}
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "sources_dir: app\n")

		if _, err := Load(dir); err == nil {
			t.Fatal("expected error for unknown field")
		}
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "extensions: []\n")

		_, err := Load(dir)
		if err == nil || !strings.Contains(err.Error(), "no source extensions") {
			t.Fatalf("Load() error = %v, want it to mention no source extensions", err)
		}
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "empty source dir", mutate: func(c *Config) { c.SourceDir = " " }},
		{name: "empty extension", mutate: func(c *Config) { c.Extensions = []string{""} }},
		{name: "no translation files", mutate: func(c *Config) { c.TranslationFiles = nil }},
		{name: "empty marker", mutate: func(c *Config) { c.Marker = "" }},
		{name: "empty separator", mutate: func(c *Config) { c.Separator = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := mustDefault(t)
			if err := cfg.Validate(); err != nil {
				t.Fatalf("defaults do not validate: %v", err)
			}

			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestRelAndAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Default(dir)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	if got, want := cfg.Rel(filepath.Join(dir, "lng", "en.json")), filepath.Join("lng", "en.json"); got != want {
		t.Errorf("Rel() = %q, want %q", got, want)
	}

	outside := filepath.Join(t.TempDir(), "x.json")
	cfg.TranslationFiles = []string{outside}
	if got := cfg.AbsTranslationFiles(); !reflect.DeepEqual(got, []string{outside}) {
		t.Errorf("AbsTranslationFiles() = %v, want [%s]", got, outside)
	}
	if got := cfg.Rel(outside); got != outside {
		t.Errorf("Rel(outside) = %q, want %q", got, outside)
	}
}

func TestOverrides(t *testing.T) {
	var o Overrides
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	o.Register(fs)
	if err := fs.Parse([]string{"--ext", ".cc,.hh", "--lng", "a.json"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg := mustDefault(t)
	if err := o.Apply(fs, cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if cfg.SourceDir != "src" {
		t.Errorf("SourceDir = %q, unset flag must not override", cfg.SourceDir)
	}
	if want := []string{".cc", ".hh"}; !reflect.DeepEqual(cfg.Extensions, want) {
		t.Errorf("Extensions = %v, want %v", cfg.Extensions, want)
	}
	if want := []string{"a.json"}; !reflect.DeepEqual(cfg.TranslationFiles, want) {
		t.Errorf("TranslationFiles = %v, want %v", cfg.TranslationFiles, want)
	}

	fs = pflag.NewFlagSet("test", pflag.ContinueOnError)
	o = Overrides{}
	o.Register(fs)
	if err := fs.Parse([]string{"--src", ""}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := o.Apply(fs, cfg); err == nil {
		t.Error("Apply() with empty --src = nil, want error")
	}
}
