// Package rename moves a localization key to a new name across source
// references and every translation document.
//
// The operation is single-pass with no rollback: if a translation file fails
// to save after sources were rewritten, the tree is left half renamed.
package rename

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/minios-linux/lngkit/config"
	"github.com/minios-linux/lngkit/jsonfile"
	"github.com/minios-linux/lngkit/keypath"
)

var (
	// ErrEmptyKey is returned when the source or target key is empty.
	ErrEmptyKey = errors.New("key must not be empty")
	// ErrSameKey is returned when source and target are the same key.
	ErrSameKey = errors.New("source and target keys are the same")
)

// Document describes what happened to one translation file.
type Document struct {
	// Path is the absolute file path.
	Path string
	// Moved is true when the existing value was carried over. When false the
	// key was missing and a placeholder equal to the old key was inserted.
	Moved bool
}

// Result summarizes a rename.
type Result struct {
	// SourceFiles are the rewritten source files.
	SourceFiles []string
	// Documents are the updated translation files, in configured order.
	Documents []Document
}

// Placeholders returns the documents that received a placeholder value.
func (r *Result) Placeholders() []string {
	var paths []string
	for _, d := range r.Documents {
		if !d.Moved {
			paths = append(paths, d.Path)
		}
	}
	return paths
}

type prepared struct {
	path  string
	tree  *jsonfile.Object
	moved bool
}

// Rename renames source to target.
//
// Every translation document is loaded, renamed and rebuilt in memory before
// anything is written, so a malformed document or a key path conflict aborts
// without side effects. Sources are rewritten next, then every document is
// saved in full.
func Rename(cfg *config.Config, source, target string, logger *slog.Logger) (*Result, error) {
	if source == "" || target == "" {
		return nil, ErrEmptyKey
	}
	if source == target {
		return nil, fmt.Errorf("%w: %q", ErrSameKey, source)
	}
	if logger == nil {
		logger = slog.Default()
	}

	var docs []prepared
	for _, path := range cfg.AbsTranslationFiles() {
		obj, err := jsonfile.ParseFile(path)
		if err != nil {
			return nil, err
		}
		flat := keypath.Flatten(obj, cfg.Separator)
		moved := Move(flat, source, target)

		tree, err := keypath.Unflatten(flat, cfg.Separator)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		docs = append(docs, prepared{path: path, tree: tree, moved: moved})
	}

	changed, err := cfg.Scanner(logger).Rewrite(source, target)
	if err != nil {
		return nil, err
	}
	for _, path := range changed {
		logger.Debug("rewrote references", "path", cfg.Rel(path))
	}

	result := &Result{SourceFiles: changed}
	for _, d := range docs {
		if err := jsonfile.WriteFile(d.path, d.tree); err != nil {
			return result, err
		}
		if !d.moved {
			logger.Warn("key was not translated, inserted placeholder",
				"path", cfg.Rel(d.path), "key", target, "value", source)
		}
		result.Documents = append(result.Documents, Document{Path: d.path, Moved: d.moved})
	}

	return result, nil
}

// Move renames source to target inside a flattened document and reports
// whether source existed. A missing source becomes target with the source key
// itself as value. An existing target is overwritten in place; otherwise it
// is appended to the order.
func Move(flat *jsonfile.Object, source, target string) bool {
	value, ok := flat.Get(source)
	if !ok {
		flat.Set(target, source)
		return false
	}
	flat.Delete(source)
	flat.Set(target, value)
	return true
}
