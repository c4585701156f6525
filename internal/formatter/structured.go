package formatter

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/gridx/internal/columns"
	"github.com/oakwood-commons/gridx/pkg/loader"
)

// writeJSON writes an array with one object per row. Keys follow the column
// order, which encoding/json cannot do for maps.
func writeJSON(w io.Writer, set *columns.Set, rows []loader.Record) error {
	keys := set.Keys()
	var buf bytes.Buffer
	if len(rows) == 0 {
		buf.WriteString("[]\n")
		_, err := w.Write(buf.Bytes())
		return err
	}
	buf.WriteString("[\n")
	for ri, r := range rows {
		buf.WriteString("  {")
		for i, k := range keys {
			if i > 0 {
				buf.WriteString(", ")
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			vb, err := json.Marshal(jsonValue(set.Value(i, r)))
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteString(": ")
			buf.Write(vb)
		}
		buf.WriteString("}")
		if ri < len(rows)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	_, err := w.Write(buf.Bytes())
	return err
}

// jsonValue replaces values encoding/json rejects.
func jsonValue(v any) any {
	switch x := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, el := range x {
			out[toKey(k)] = jsonValue(el)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			out[i] = jsonValue(el)
		}
		return out
	case time.Duration:
		return x.String()
	}
	return v
}

func toKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	b, _ := json.Marshal(k)
	return strings.Trim(string(b), `"`)
}

// YAMLOptions control YAML rendering.
type YAMLOptions struct {
	Indent              int
	LiteralBlockStrings bool
}

func writeYAML(w io.Writer, set *columns.Set, rows []loader.Record) error {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	keys := set.Keys()
	for _, r := range rows {
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, k := range keys {
			var val yaml.Node
			if err := val.Encode(set.Value(i, r)); err != nil {
				return err
			}
			m.Content = append(m.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, &val)
		}
		seq.Content = append(seq.Content, m)
	}
	out, err := EncodeYAML(seq, YAMLOptions{LiteralBlockStrings: true})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// EncodeYAML encodes a node. Multi-line strings can be emitted as literal
// blocks ("|") to keep their newlines readable.
func EncodeYAML(node *yaml.Node, opts YAMLOptions) (string, error) {
	if opts.LiteralBlockStrings {
		applyLiteralStyle(node)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func applyLiteralStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, c := range n.Content {
		applyLiteralStyle(c)
	}
}
