package jsonfile

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_PreservesNestedOrder(t *testing.T) {
	obj, err := Parse([]byte(`{"b": {"z": "1", "a": "2"}, "a": ["x", 3, true, null]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, obj.Keys())

	b, ok := obj.Get("b")
	require.True(t, ok)
	assert.Equal(t, []string{"z", "a"}, b.(*Object).Keys())

	a, ok := obj.Get("a")
	require.True(t, ok)
	assert.Equal(t, []any{"x", json.Number("3"), true, nil}, a)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "truncated", data: `{"broken":`},
		{name: "trailing data", data: `{} {}`},
		{name: "empty input", data: ``},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte(`["not", "an", "object"]`))
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestObject_SetAndDelete(t *testing.T) {
	o := NewObject()
	o.Set("a", "1")
	o.Set("b", "2")
	o.Set("a", "3")
	assert.Equal(t, []string{"a", "b"}, o.Keys())

	v, _ := o.Get("a")
	assert.Equal(t, "3", v)

	assert.True(t, o.Delete("a"))
	assert.False(t, o.Delete("a"))
	o.Set("a", "4")
	assert.Equal(t, []string{"b", "a"}, o.Keys())
	assert.Equal(t, 2, o.Len())
}

func TestMarshal_Format(t *testing.T) {
	obj, err := Parse([]byte(`{"dialog":{"ok":"ОК","html":"<b>&</b>"},"list":[1,"two"],"empty":{},"none":[]}`))
	require.NoError(t, err)

	out, err := Marshal(obj)
	require.NoError(t, err)

	want := `{
  "dialog": {
    "ok": "ОК",
    "html": "<b>&</b>"
  },
  "list": [
    1,
    "two"
  ],
  "empty": {},
  "none": []
}
`
	assert.Equal(t, want, string(out))
}

func TestWriteFile_ParseFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lng", "ru.json")

	obj := NewObject()
	nested := NewObject()
	nested.Set("title", "Настройки")
	obj.Set("settings", nested)
	obj.Set("escaped", "quote \" and \\ backslash")

	require.NoError(t, WriteFile(path, obj))

	got, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, obj, got)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
