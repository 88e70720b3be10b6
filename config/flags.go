package config

import (
	"github.com/spf13/pflag"
)

// Overrides holds command-line values that take precedence over the config
// file.
type Overrides struct {
	SourceDir        string
	Extensions       []string
	TranslationFiles []string
}

// Register adds the override flags to fs.
func (o *Overrides) Register(fs *pflag.FlagSet) {
	fs.StringVar(&o.SourceDir, "src", "", "Source directory to scan, relative to --root (default \""+DefaultSourceDir+"\")")
	fs.StringSliceVar(&o.Extensions, "ext", nil, "Source file extensions to scan (default .cpp,.h,.hpp)")
	fs.StringSliceVar(&o.TranslationFiles, "lng", nil, "Translation JSON files, relative to --root (default lng/en.json,lng/ru.json)")
}

// Apply copies every flag the user actually set onto c and re-validates it.
func (o *Overrides) Apply(fs *pflag.FlagSet, c *Config) error {
	if fs.Changed("src") {
		c.SourceDir = o.SourceDir
	}
	if fs.Changed("ext") {
		c.Extensions = o.Extensions
	}
	if fs.Changed("lng") {
		c.TranslationFiles = o.TranslationFiles
	}
	return c.Validate()
}
