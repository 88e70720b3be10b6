// Package extract finds localization key references in source files.
//
// A reference is a double-quoted string literal immediately followed by a
// marker token, e.g. with the default marker:
//
//	auto label = "dialog/settings/title"_lng;
//
// The package only matches the textual shape; it never interprets the marker.
package extract

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// DefaultMarker is the suffix token marking a literal as a localization key.
const DefaultMarker = "_lng"

// DefaultExtensions are the source file suffixes scanned by default.
var DefaultExtensions = []string{".cpp", ".h", ".hpp"}

// skipDirs contains VCS metadata directories never descended into.
var skipDirs = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// ---------------------------------------------------------------------------
// Key sets
// ---------------------------------------------------------------------------

// KeySet is a set of localization keys.
type KeySet map[string]struct{}

// Add inserts keys into the set.
func (s KeySet) Add(keys ...string) {
	for _, k := range keys {
		s[k] = struct{}{}
	}
}

// Has reports whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Sorted returns the keys in lexicographic order.
func (s KeySet) Sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ---------------------------------------------------------------------------
// Matching
// ---------------------------------------------------------------------------

// Pattern returns the regexp matching a marked literal; group 1 is the key.
func Pattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(`"([^"]+)"` + regexp.QuoteMeta(marker))
}

// Keys returns every key referenced in content, in order of appearance.
func Keys(content, marker string) []string {
	return keys(Pattern(marker), content)
}

func keys(re *regexp.Regexp, content string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		out = append(out, m[1])
	}
	return out
}

// Reference returns the literal text referencing key, e.g. `"key"_lng`.
func Reference(key, marker string) string {
	return `"` + key + `"` + marker
}

// ---------------------------------------------------------------------------
// Scanner
// ---------------------------------------------------------------------------

// Scanner walks a source tree looking for marked literals.
type Scanner struct {
	// Root is the directory to walk.
	Root string
	// Extensions are file name suffixes to scan (e.g. ".cpp").
	Extensions []string
	// Marker is the token following a key literal.
	Marker string
	// Logger receives warnings about skipped files. Defaults to slog.Default().
	Logger *slog.Logger
}

func (s *Scanner) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Scanner) marker() string {
	if s.Marker != "" {
		return s.Marker
	}
	return DefaultMarker
}

func (s *Scanner) matches(name string) bool {
	for _, ext := range s.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// walk calls fn for every matching file. onErr decides whether a walk error
// is skipped (nil) or aborts the walk.
func (s *Scanner) walk(fn func(path string) error, onErr func(path string, err error) error) error {
	return filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return onErr(path, err)
		}
		if d.IsDir() {
			if path != s.Root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&(fs.ModeNamedPipe|fs.ModeSocket|fs.ModeDevice) != 0 || !s.matches(d.Name()) {
			return nil
		}
		return fn(path)
	})
}

// Sources returns the sorted list of matching files under Root.
func (s *Scanner) Sources() ([]string, error) {
	var files []string
	err := s.walk(func(path string) error {
		files = append(files, path)
		return nil
	}, func(path string, err error) error {
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.Root, err)
	}
	sort.Strings(files)
	return files, nil
}

// UsedKeys returns every key referenced under Root. Unreadable files and
// directories are logged and skipped.
func (s *Scanner) UsedKeys() KeySet {
	log := s.logger()
	re := Pattern(s.marker())
	used := make(KeySet)

	_ = s.walk(func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("could not read source file", "path", path, "err", err)
			return nil
		}
		found := keys(re, string(data))
		log.Debug("scanned", "path", path, "references", len(found))
		used.Add(found...)
		return nil
	}, func(path string, err error) error {
		log.Warn("could not scan", "path", path, "err", err)
		return nil
	})

	return used
}

// Rewrite replaces every reference to oldKey with a reference to newKey.
// Files are written only when their content changes, keeping their mode.
// It returns the rewritten files; any I/O error aborts the walk.
func (s *Scanner) Rewrite(oldKey, newKey string) ([]string, error) {
	marker := s.marker()
	from := Reference(oldKey, marker)
	to := Reference(newKey, marker)

	var changed []string
	err := s.walk(func(path string) error {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		content := string(data)
		updated := strings.ReplaceAll(content, from, to)
		if updated == content {
			return nil
		}

		if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		changed = append(changed, path)
		return nil
	}, func(path string, err error) error {
		return err
	})
	if err != nil {
		return changed, fmt.Errorf("rewriting references in %s: %w", s.Root, err)
	}

	sort.Strings(changed)
	return changed, nil
}
