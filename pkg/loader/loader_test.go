package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Format
	}{
		{name: "json array", input: `[{"a": 1}]`, want: FormatJSON},
		{name: "json object", input: "{\n  \"a\": 1\n}", want: FormatJSON},
		{name: "pretty json array", input: "[\n{\"a\": 1},\n{\"a\": 2}\n]", want: FormatJSON},
		{name: "ndjson", input: "{\"a\": 1}\n{\"a\": 2}", want: FormatNDJSON},
		{name: "yaml", input: "- a: 1\n- a: 2", want: FormatYAML},
		{name: "multi doc yaml", input: "a: 1\n---\na: 2", want: FormatYAML},
		{name: "toml", input: "[[rows]]\nid = 1", want: FormatTOML},
		{name: "csv", input: "id,name\n1,ada\n2,bob", want: FormatCSV},
		{name: "jwt", input: validJWT, want: FormatJWT},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.input))
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("auto")
	require.NoError(t, err)
	assert.Equal(t, FormatAuto, f)

	f, err = ParseFormat("jsonl")
	require.NoError(t, err)
	assert.Equal(t, FormatNDJSON, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}

func TestLoadJSONKeepsKeyOrder(t *testing.T) {
	ds, err := LoadRecords([]byte(`[
  {"id": 1, "name": "ada", "amount": 12.5},
  {"id": 2, "zone": "eu", "name": "bob"}
]`), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "amount", "zone"}, ds.Columns)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, Record{"id": 1, "name": "ada", "amount": 12.5}, ds.Records[0])
	assert.Equal(t, "eu", ds.Records[1]["zone"])
}

func TestLoadJSONUnwrapsList(t *testing.T) {
	for _, key := range []string{"items", "data", "rows", "records"} {
		t.Run(key, func(t *testing.T) {
			ds, err := LoadRecords([]byte(`{"total": 2, "`+key+`": [{"a": 1}, {"a": 2}]}`), FormatAuto)
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, ds.Columns)
			assert.Equal(t, 2, ds.Len())
		})
	}
}

func TestLoadJSONSingleObjectAndScalars(t *testing.T) {
	ds, err := LoadRecords([]byte(`{"b": 1, "a": null}`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ds.Columns)
	assert.Equal(t, []Record{{"b": 1, "a": nil}}, ds.Records)

	ds, err = LoadRecords([]byte(`[3, "x"]`), FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, []string{ScalarKey}, ds.Columns)
	assert.Equal(t, []Record{{"value": 3}, {"value": "x"}}, ds.Records)
}

func TestLoadNDJSON(t *testing.T) {
	ds, err := LoadRecords([]byte("{\"id\": 1, \"ok\": true}\n\n{\"id\": 2, \"note\": \"x\"}\n"), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "ok", "note"}, ds.Columns)
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, true, ds.Records[0]["ok"])

	_, err = LoadRecords([]byte("{\"id\": 1}\n{broken"), FormatNDJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestLoadYAML(t *testing.T) {
	input := `
- name: ada
  role: admin
  tags: [a, b]
- name: bob
  joined: 2024-01-02
`
	ds, err := LoadRecords([]byte(input), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "role", "tags", "joined"}, ds.Columns)
	assert.Equal(t, []any{"a", "b"}, ds.Records[0]["tags"])
	assert.Nil(t, ds.Records[1]["role"])
}

func TestLoadMultiDocYAML(t *testing.T) {
	ds, err := LoadRecords([]byte("id: 1\n---\nid: 2\nextra: yes\n---\n- id: 3\n"), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "extra"}, ds.Columns)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, 3, ds.Records[2]["id"])
}

func TestLoadTOML(t *testing.T) {
	input := `
title = "ledger"

[[rows]]
id = 1
name = "ada"

[[rows]]
id = 2
amount = 3.5
`
	ds, err := LoadRecords([]byte(input), FormatAuto)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"id", "name", "amount"}, ds.Columns)
	assert.Equal(t, int64(1), ds.Records[0]["id"])
	assert.Equal(t, 3.5, ds.Records[1]["amount"])
}

func TestLoadTOMLSingleTable(t *testing.T) {
	ds, err := LoadRecords([]byte("b = 1\na = \"x\""), FormatTOML)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ds.Columns)
	assert.Equal(t, 1, ds.Len())
}

func TestLoadCSV(t *testing.T) {
	ds, err := LoadRecords([]byte("id,name,amount\n1,ada,12.50\n2,\"bob, jr\"\n"), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "amount"}, ds.Columns)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, Record{"id": "1", "name": "ada", "amount": "12.50"}, ds.Records[0])
	assert.Equal(t, Record{"id": "2", "name": "bob, jr"}, ds.Records[1])
}

func TestLoadCSVBlankHeader(t *testing.T) {
	ds, err := LoadRecords([]byte("id,\n1,x"), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "column_2"}, ds.Columns)
}

func TestLoadRecordsErrors(t *testing.T) {
	_, err := LoadRecords([]byte("  \n "), FormatAuto)
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = LoadRecords([]byte("a = ["), FormatTOML)
	require.Error(t, err)

	_, err = LoadRecords([]byte("key: [unclosed"), FormatYAML)
	require.Error(t, err)

	_, err = LoadRecords([]byte("x"), Format("xml"))
	require.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "people.csv")
	require.NoError(t, os.WriteFile(path, []byte("name\nada\nbob\n"), 0o600))

	ds, err := LoadFile(path, FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, 2, ds.Len())

	_, err = LoadFile(filepath.Join(dir, "missing.json"), FormatAuto)
	require.Error(t, err)
}

func TestLoadReader(t *testing.T) {
	ds, err := LoadReader(strings.NewReader(`[{"a":1}]`), FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatNDJSON, FormatFromPath("x.JSONL"))
	assert.Equal(t, FormatYAML, FormatFromPath("a/b.yml"))
	assert.Equal(t, FormatAuto, FormatFromPath("data.txt"))
}
