// Package unused reports translation keys that no source file references,
// and the reverse: referenced keys a translation file lacks.
package unused

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"github.com/minios-linux/lngkit/config"
	"github.com/minios-linux/lngkit/extract"
	"github.com/minios-linux/lngkit/i18n"
	"github.com/minios-linux/lngkit/jsonfile"
	"github.com/minios-linux/lngkit/keypath"
)

// Report lists the keys found for one translation file.
type Report struct {
	// Path is the translation file path as configured.
	Path string
	// Language is the display name derived from the file name, if known.
	Language string
	// Keys are sorted lexicographically.
	Keys []string
}

// Find returns, per translation file, the keys nobody references. Keys under
// one of cfg.MaybeUsed prefixes are never reported. Files that cannot be read
// or parsed are logged and reported as empty.
func Find(cfg *config.Config, logger *slog.Logger) []Report {
	if logger == nil {
		logger = slog.Default()
	}
	used := cfg.Scanner(logger).UsedKeys()

	var reports []Report
	for i, path := range cfg.AbsTranslationFiles() {
		keys := declaredKeys(path, cfg.Separator, logger)
		reports = append(reports, Report{
			Path:     cfg.TranslationFiles[i],
			Language: LanguageName(path),
			Keys:     Filter(keys, used, cfg.MaybeUsed),
		})
	}
	return reports
}

// FindMissing returns, per translation file, the referenced keys it does not
// declare.
func FindMissing(cfg *config.Config, logger *slog.Logger) []Report {
	if logger == nil {
		logger = slog.Default()
	}
	used := cfg.Scanner(logger).UsedKeys()

	var reports []Report
	for i, path := range cfg.AbsTranslationFiles() {
		declared := make(extract.KeySet)
		declared.Add(declaredKeys(path, cfg.Separator, logger)...)

		var missing []string
		for _, k := range used.Sorted() {
			if !declared.Has(k) {
				missing = append(missing, k)
			}
		}
		reports = append(reports, Report{
			Path:     cfg.TranslationFiles[i],
			Language: LanguageName(path),
			Keys:     missing,
		})
	}
	return reports
}

func declaredKeys(path, sep string, logger *slog.Logger) []string {
	obj, err := jsonfile.ParseFile(path)
	if err != nil {
		logger.Warn("could not read translation file", "path", path, "err", err)
		return nil
	}
	return keypath.Flatten(obj, sep).Keys()
}

// Filter returns the sorted keys that are not in used and do not start with
// any of prefixes. Prefixes match on the raw string, not on path segments.
func Filter(keys []string, used extract.KeySet, prefixes []string) []string {
	var out []string
	for _, k := range keys {
		if used.Has(k) || hasAnyPrefix(k, prefixes) {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// LanguageName returns the native name of the language a file is named after
// ("ru.json" -> "русский"), or "" when the base name is not a language tag.
func LanguageName(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	tag, err := language.Parse(base)
	if err != nil {
		return ""
	}
	return display.Self.Name(tag)
}

// ---------------------------------------------------------------------------
// Output
// ---------------------------------------------------------------------------

// Write prints the unused-key reports.
func Write(w io.Writer, reports []Report) error {
	return write(w, reports, func(r Report) string {
		if r.Language != "" {
			return i18n.T("Unused keys in %s file (%s):", r.Path, r.Language)
		}
		return i18n.T("Unused keys in %s file:", r.Path)
	})
}

// WriteMissing prints the missing-key reports.
func WriteMissing(w io.Writer, reports []Report) error {
	return write(w, reports, func(r Report) string {
		if r.Language != "" {
			return i18n.T("Missing keys in %s file (%s):", r.Path, r.Language)
		}
		return i18n.T("Missing keys in %s file:", r.Path)
	})
}

func write(w io.Writer, reports []Report, header func(Report) string) error {
	for _, r := range reports {
		if _, err := fmt.Fprintln(w, header(r)); err != nil {
			return err
		}
		for _, k := range r.Keys {
			if _, err := fmt.Fprintf(w, "  %s\n", k); err != nil {
				return err
			}
		}
	}
	return nil
}
