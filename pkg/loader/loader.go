// Package loader turns JSON, NDJSON, YAML, TOML, CSV and JWT input into a
// flat list of records for the grid.
package loader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names an input encoding. The zero value asks LoadRecords to detect
// the format from the content.
type Format string

const (
	FormatAuto   Format = ""
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatYAML   Format = "yaml"
	FormatTOML   Format = "toml"
	FormatCSV    Format = "csv"
	FormatJWT    Format = "jwt"
)

// Formats lists the formats accepted by ParseFormat.
var Formats = []Format{FormatJSON, FormatNDJSON, FormatYAML, FormatTOML, FormatCSV, FormatJWT}

// ErrEmptyInput is returned when there is nothing to load.
var ErrEmptyInput = errors.New("empty input")

// ScalarKey is the column used for list elements that are not objects.
const ScalarKey = "value"

// wrapperKeys are the object keys whose array value is taken as the record
// list when the input root is an object.
var wrapperKeys = []string{"items", "data", "rows", "records"}

// Record is one row of input data.
type Record = map[string]any

// Dataset is the result of loading: records plus the column keys in the order
// they first appear in the input.
type Dataset struct {
	Columns []string
	Records []Record
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// ParseFormat converts a --format value. "auto" and "" mean detection; "yml"
// and "jsonl" are accepted aliases.
func ParseFormat(s string) (Format, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", "auto":
		return FormatAuto, nil
	case "yml":
		return FormatYAML, nil
	case "jsonl":
		return FormatNDJSON, nil
	default:
		if slices.Contains(Formats, Format(f)) {
			return Format(f), nil
		}
	}
	return FormatAuto, fmt.Errorf("unknown format %q", s)
}

// FormatFromPath guesses a format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".ndjson", ".jsonl":
		return FormatNDJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".csv":
		return FormatCSV
	case ".jwt":
		return FormatJWT
	}
	return FormatAuto
}

// LoadFile reads path and loads its records. With FormatAuto the extension is
// consulted before the content.
func LoadFile(path string, format Format) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if format == FormatAuto {
		format = FormatFromPath(path)
	}
	ds, err := LoadRecords(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// LoadReader reads r to the end and loads its records.
func LoadReader(r io.Reader, format Format) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return LoadRecords(data, format)
}

// LoadRecords parses data as format and flattens it into records.
func LoadRecords(data []byte, format Format) (*Dataset, error) {
	input := strings.TrimSpace(string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	if input == "" {
		return nil, ErrEmptyInput
	}
	if format == FormatAuto {
		format = DetectFormat(input)
	}

	b := &builder{seen: map[string]bool{}}
	var err error
	switch format {
	case FormatJSON:
		err = b.loadJSON(input)
	case FormatNDJSON:
		err = b.loadNDJSON(input)
	case FormatYAML:
		err = b.loadYAML(input)
	case FormatTOML:
		err = b.loadTOML(input)
	case FormatCSV:
		err = b.loadCSV(input)
	case FormatJWT:
		err = b.loadJWT(input)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return &Dataset{Columns: b.columns, Records: b.records}, nil
}

// DetectFormat guesses the encoding of input.
func DetectFormat(input string) Format {
	input = strings.TrimSpace(input)
	if IsJWT(input) {
		return FormatJWT
	}
	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		return FormatYAML
	}
	lines := strings.Split(input, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		if json.Valid([]byte(input)) {
			return FormatJSON
		}
		return FormatNDJSON
	}
	if isLikelyTOML(input) {
		return FormatTOML
	}
	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		return FormatJSON
	}
	if isLikelyCSV(lines) {
		return FormatCSV
	}
	return FormatYAML
}

// builder accumulates records and the first-seen order of their keys.
type builder struct {
	columns []string
	records []Record
	seen    map[string]bool
}

func (b *builder) add(rec Record, keys []string) {
	for _, k := range keys {
		if !b.seen[k] {
			b.seen[k] = true
			b.columns = append(b.columns, k)
		}
	}
	b.records = append(b.records, rec)
}

// addValue adds v as one record: objects keep their keys, anything else is
// stored under ScalarKey.
func (b *builder) addValue(v any, keys []string) {
	if rec, ok := v.(map[string]any); ok {
		if keys == nil {
			keys = sortedKeys(rec)
		}
		b.add(rec, keys)
		return
	}
	b.add(Record{ScalarKey: v}, []string{ScalarKey})
}

func (b *builder) loadJSON(input string) error {
	// JSON is valid YAML flow syntax; decoding through yaml.Node keeps the
	// key order of objects.
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(input), &doc); err == nil {
		return b.addDocument(&doc)
	}
	var v any
	if err := json.Unmarshal([]byte(input), &v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	b.addRoot(v)
	return nil
}

func (b *builder) loadNDJSON(input string) error {
	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var doc yaml.Node
		if err := yaml.Unmarshal([]byte(line), &doc); err != nil || !json.Valid([]byte(line)) {
			return fmt.Errorf("invalid NDJSON on line %d", i+1)
		}
		v, keys, err := nodeValue(&doc)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		b.addValue(v, keys)
	}
	if len(b.records) == 0 {
		return ErrEmptyInput
	}
	return nil
}

func (b *builder) loadYAML(input string) error {
	dec := yaml.NewDecoder(strings.NewReader(input))
	docs := 0
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("invalid YAML: %w", err)
		}
		docs++
		if err := b.addDocument(&doc); err != nil {
			return err
		}
	}
	if docs == 0 {
		return ErrEmptyInput
	}
	return nil
}

// addDocument adds the records held by one YAML/JSON document.
func (b *builder) addDocument(doc *yaml.Node) error {
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		root = root.Content[0]
	}
	if root.Kind == yaml.MappingNode {
		if list := wrappedList(root); list != nil {
			root = list
		}
	}
	if root.Kind == yaml.SequenceNode {
		for _, item := range root.Content {
			v, keys, err := nodeValue(item)
			if err != nil {
				return err
			}
			b.addValue(v, keys)
		}
		return nil
	}
	v, keys, err := nodeValue(root)
	if err != nil {
		return err
	}
	b.addValue(v, keys)
	return nil
}

// addRoot handles a decoded value whose key order is unknown.
func (b *builder) addRoot(v any) {
	if m, ok := v.(map[string]any); ok {
		for _, k := range wrapperKeys {
			if list, ok := m[k].([]any); ok {
				v = list
				break
			}
		}
	}
	if list, ok := v.([]any); ok {
		for _, item := range list {
			b.addValue(item, nil)
		}
		return
	}
	b.addValue(v, nil)
}

// wrappedList returns the sequence stored under one of wrapperKeys.
func wrappedList(m *yaml.Node) *yaml.Node {
	for _, want := range wrapperKeys {
		for i := 0; i+1 < len(m.Content); i += 2 {
			if m.Content[i].Value == want && m.Content[i+1].Kind == yaml.SequenceNode {
				return m.Content[i+1]
			}
		}
	}
	return nil
}

// nodeValue decodes n. For mappings it also returns the keys in document
// order.
func nodeValue(n *yaml.Node) (any, []string, error) {
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil, nil, nil
		}
		n = n.Content[0]
	}
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, nil, err
		}
		return v, nil, nil
	}

	rec := make(Record, len(n.Content)/2)
	keys := make([]string, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i].Value
		v, _, err := nodeValue(n.Content[i+1])
		if err != nil {
			return nil, nil, fmt.Errorf("key %q: %w", k, err)
		}
		if _, dup := rec[k]; !dup {
			keys = append(keys, k)
		}
		rec[k] = v
	}
	return rec, keys, nil
}

func (b *builder) loadTOML(input string) error {
	var root map[string]any
	if err := toml.Unmarshal([]byte(input), &root); err != nil {
		return fmt.Errorf("invalid TOML: %w", err)
	}
	keys := tableArrayKeys(root)
	if len(keys) == 0 {
		b.addValue(root, nil)
		return nil
	}
	for _, item := range root[keys[0]].([]any) {
		b.addValue(item, nil)
	}
	return nil
}

// tableArrayKeys returns the root keys holding arrays of tables, wrapper keys
// first and the rest sorted.
func tableArrayKeys(root map[string]any) []string {
	var keys []string
	for k, v := range root {
		list, ok := v.([]any)
		if !ok || len(list) == 0 {
			continue
		}
		if _, ok := list[0].(map[string]any); ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		pi, pj := slices.Index(wrapperKeys, keys[i]), slices.Index(wrapperKeys, keys[j])
		if pi < 0 {
			pi = len(wrapperKeys)
		}
		if pj < 0 {
			pj = len(wrapperKeys)
		}
		if pi != pj {
			return pi < pj
		}
		return keys[i] < keys[j]
	})
	return keys
}

func (b *builder) loadCSV(input string) error {
	r := csv.NewReader(strings.NewReader(input))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("invalid CSV: %w", err)
	}
	if len(rows) == 0 {
		return ErrEmptyInput
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("column_%d", i+1)
		}
		header[i] = h
	}
	b.columns = append(b.columns, header...)
	for _, h := range header {
		b.seen[h] = true
	}
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		for i, h := range header {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		b.records = append(b.records, rec)
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// isLikelyNDJSON reports whether most non-empty lines start like JSON
// values.
func isLikelyNDJSON(lines []string) bool {
	jsonCount, nonEmpty := 0, 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	return nonEmpty > 1 && jsonCount > nonEmpty/2
}

var (
	tomlSection  = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	tomlKeyValue = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// isLikelyTOML reports whether input has TOML table headers or mostly
// key = value lines.
func isLikelyTOML(input string) bool {
	sections, keyValues, nonEmpty := 0, 0, 0
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmpty++
		if tomlSection.MatchString(line) {
			sections++
		}
		if tomlKeyValue.MatchString(line) {
			keyValues++
		}
	}
	return sections > 0 || (nonEmpty > 0 && keyValues > nonEmpty/2)
}

// isLikelyCSV reports whether the first lines share a comma count and the
// header has no YAML key markers.
func isLikelyCSV(lines []string) bool {
	if len(lines) < 2 {
		return false
	}
	header := strings.TrimSpace(lines[0])
	if strings.Contains(header, ": ") || strings.HasSuffix(header, ":") || strings.HasPrefix(header, "- ") {
		return false
	}
	commas := strings.Count(header, ",")
	if commas == 0 {
		return false
	}
	for _, line := range lines[1:min(len(lines), 5)] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if strings.Count(line, ",") < commas {
			return false
		}
	}
	return true
}
