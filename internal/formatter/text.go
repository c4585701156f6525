package formatter

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/gridx/internal/columns"
	"github.com/oakwood-commons/gridx/pkg/grid"
	"github.com/oakwood-commons/gridx/pkg/loader"
)

func writeCSV(w io.Writer, set *columns.Set, rows []loader.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(set.Labels()); err != nil {
		return err
	}
	rec := make([]string, len(set.Columns))
	for _, r := range rows {
		for i := range set.Columns {
			rec[i] = set.Text(i, r)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var markdownCell = strings.NewReplacer("|", `\|`, "\r\n", "<br>", "\n", "<br>")

// Markdown renders rows as a pipe table. Column alignment is carried into
// the delimiter row.
func Markdown(set *columns.Set, rows []loader.Record) string {
	var b strings.Builder
	writeLine := func(cells []string) {
		b.WriteString("|")
		for _, c := range cells {
			b.WriteString(" ")
			b.WriteString(markdownCell.Replace(c))
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	writeLine(set.Labels())
	delims := make([]string, len(set.Columns))
	for i, c := range set.Columns {
		switch c.Align {
		case grid.AlignRight:
			delims[i] = "---:"
		case grid.AlignCenter:
			delims[i] = ":---:"
		default:
			delims[i] = "---"
		}
	}
	writeLine(delims)

	cells := make([]string, len(set.Columns))
	for _, r := range rows {
		for i := range set.Columns {
			cells[i] = set.Text(i, r)
		}
		writeLine(cells)
	}
	return b.String()
}

// HTML converts the Markdown table to an HTML fragment.
func HTML(set *columns.Set, rows []loader.Record) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(Markdown(set, rows)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}
