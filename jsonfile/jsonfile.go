// Package jsonfile implements reading and writing of nested JSON translation
// documents.
//
// The expected file format is an arbitrarily nested JSON object whose leaves
// are the translated strings:
//
//	{
//	  "dialog": {
//	    "ok": "OK",
//	    "cancel": "Отмена"
//	  },
//	  "column": ["Name", "Size"]
//	}
//
// Key order is preserved on round-trip. Output uses 2-space indentation and
// leaves non-ASCII characters unescaped.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNotObject is returned when a document root is not a JSON object.
var ErrNotObject = errors.New("document root is not a JSON object")

// ---------------------------------------------------------------------------
// Ordered object
// ---------------------------------------------------------------------------

// Object is a JSON object that remembers the insertion order of its keys.
//
// Values are *Object, []any, string, json.Number, bool or nil.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	return o.keys
}

// Len returns the number of keys.
func (o *Object) Len() int {
	return len(o.keys)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set stores value under key. A new key is appended to the order; an existing
// key keeps its position.
func (o *Object) Set(key string, value any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Delete removes key and reports whether it was present.
func (o *Object) Delete(key string) bool {
	if _, ok := o.values[key]; !ok {
		return false
	}
	delete(o.values, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
	return true
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a JSON translation document.
func ParseFile(path string) (*Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	obj, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obj, nil
}

// Parse parses JSON data whose root must be an object.
func Parse(data []byte) (*Object, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := parseValue(dec)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("parsing JSON: unexpected data after top-level value")
	}

	obj, ok := v.(*Object)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

func parseValue(dec *json.Decoder) (any, error) {
	t, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	delim, ok := t.(json.Delim)
	if !ok {
		return t, nil
	}

	switch delim {
	case '{':
		obj := NewObject()
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := kt.(string)
			if !ok {
				return nil, fmt.Errorf("expected string key, got %T", kt)
			}
			v, err := parseValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil

	case '[':
		list := []any{}
		for dec.More() {
			v, err := parseValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	}

	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// WriteFile marshals obj and writes it to path, creating parent directories.
func WriteFile(path string, obj *Object) error {
	data, err := Marshal(obj)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Marshal produces 2-space indented JSON preserving key order.
func Marshal(obj *Object) ([]byte, error) {
	var b strings.Builder
	if err := writeValue(&b, obj, 0); err != nil {
		return nil, err
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func writeValue(b *strings.Builder, v any, depth int) error {
	switch v := v.(type) {
	case *Object:
		if v == nil || v.Len() == 0 {
			b.WriteString("{}")
			return nil
		}
		b.WriteString("{\n")
		for i, k := range v.keys {
			indent(b, depth+1)
			b.WriteString(jsonString(k))
			b.WriteString(": ")
			if err := writeValue(b, v.values[k], depth+1); err != nil {
				return err
			}
			if i < len(v.keys)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		indent(b, depth)
		b.WriteByte('}')

	case []any:
		if len(v) == 0 {
			b.WriteString("[]")
			return nil
		}
		b.WriteString("[\n")
		for i, item := range v {
			indent(b, depth+1)
			if err := writeValue(b, item, depth+1); err != nil {
				return err
			}
			if i < len(v)-1 {
				b.WriteByte(',')
			}
			b.WriteByte('\n')
		}
		indent(b, depth)
		b.WriteByte(']')

	case string:
		b.WriteString(jsonString(v))

	case json.Number:
		b.WriteString(v.String())

	case nil:
		b.WriteString("null")

	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling %T: %w", v, err)
		}
		b.Write(data)
	}
	return nil
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

// jsonString returns s as a JSON string literal without HTML or non-ASCII escaping.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}
