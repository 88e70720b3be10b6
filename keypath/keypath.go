// Package keypath converts nested translation documents into single-level
// mappings keyed by separator-joined paths, and back.
//
//	{"dialog": {"ok": "OK"}, "column": ["Name"]}
//
// flattens with separator "/" to
//
//	{"dialog/ok": "OK", "column/0": "Name"}
//
// Lists flatten to their decimal indices and come back from Unflatten as
// objects keyed "0", "1", ... A key that contains the separator as data is
// indistinguishable from a path boundary.
package keypath

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/minios-linux/lngkit/jsonfile"
)

// DefaultSeparator joins path segments.
const DefaultSeparator = "/"

// ErrConflict is returned by Unflatten when one flattened key is a path
// prefix of another, so a value would be both a leaf and a subtree.
var ErrConflict = errors.New("key path conflict")

// Flatten returns every leaf of node keyed by its joined path, in traversal
// order. A scalar node has no paths and yields an empty mapping.
func Flatten(node any, sep string) *jsonfile.Object {
	out := jsonfile.NewObject()
	flatten(node, nil, sep, out)
	return out
}

func flatten(node any, path []string, sep string, out *jsonfile.Object) {
	switch n := node.(type) {
	case *jsonfile.Object:
		if n == nil {
			return
		}
		for _, k := range n.Keys() {
			v, _ := n.Get(k)
			visit(v, append(path, k), sep, out)
		}
	case []any:
		for i, v := range n {
			visit(v, append(path, strconv.Itoa(i)), sep, out)
		}
	}
}

func visit(v any, path []string, sep string, out *jsonfile.Object) {
	switch v.(type) {
	case *jsonfile.Object, []any:
		// Copy so sibling appends never share a backing array.
		flatten(v, append([]string(nil), path...), sep, out)
	default:
		out.Set(strings.Join(path, sep), v)
	}
}

// Unflatten rebuilds a nested document from a flattened mapping.
func Unflatten(flat *jsonfile.Object, sep string) (*jsonfile.Object, error) {
	root := jsonfile.NewObject()

	for _, key := range flat.Keys() {
		value, _ := flat.Get(key)
		parts := strings.Split(key, sep)

		cur := root
		for i, part := range parts[:len(parts)-1] {
			next, ok := cur.Get(part)
			if !ok {
				child := jsonfile.NewObject()
				cur.Set(part, child)
				cur = child
				continue
			}
			child, ok := next.(*jsonfile.Object)
			if !ok {
				return nil, fmt.Errorf("%w: %q is a value, cannot nest %q under it",
					ErrConflict, strings.Join(parts[:i+1], sep), key)
			}
			cur = child
		}

		last := parts[len(parts)-1]
		if existing, ok := cur.Get(last); ok {
			if _, isObj := existing.(*jsonfile.Object); isObj {
				return nil, fmt.Errorf("%w: %q already has nested keys", ErrConflict, key)
			}
		}
		cur.Set(last, value)
	}

	return root, nil
}
