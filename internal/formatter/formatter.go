// Package formatter writes the rows of a grid in export formats: a plain
// table snapshot, CSV, JSON, YAML, Markdown, HTML or a tree.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/language"

	"github.com/oakwood-commons/gridx/internal/columns"
	"github.com/oakwood-commons/gridx/pkg/grid"
	"github.com/oakwood-commons/gridx/pkg/loader"
)

// Format names an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatTree     Format = "tree"
)

// Formats lists the supported output formats.
var Formats = []Format{FormatTable, FormatCSV, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML, FormatTree}

// ParseFormat resolves an output format name. "md" and "yml" are accepted.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	case FormatTable, FormatCSV, FormatJSON, FormatYAML, FormatMarkdown, FormatHTML, FormatTree:
		return f, nil
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("unknown output format %q (expected one of %s)", s, strings.Join(names, ", "))
}

// Options controls an export.
type Options struct {
	Format Format
	Sort   grid.SortState
	// Page and PageSize select the page a table snapshot shows. Other formats
	// write every row.
	Page     int
	PageSize int
	// Width limits table lines. Zero means unlimited.
	Width          int
	MaxPageButtons int
	Styles         *grid.Styles
	Locale         language.Tag
	// Widths restores resized column widths for the table snapshot.
	Widths []int
}

// Write renders rows in opts.Format. Display formats (table, csv, markdown,
// html, tree) use the rendered cell text; json and yaml carry the values.
func Write(w io.Writer, set *columns.Set, rows []loader.Record, opts Options) error {
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}
	if opts.Format == FormatTable || opts.Format == "" {
		return writeTable(w, set, rows, opts)
	}

	sorted := grid.SortRows(rows, set.Columns, opts.Sort, recordField, grid.NewComparator(opts.Locale))
	switch opts.Format {
	case FormatCSV:
		return writeCSV(w, set, sorted)
	case FormatJSON:
		return writeJSON(w, set, sorted)
	case FormatYAML:
		return writeYAML(w, set, sorted)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(set, sorted))
		return err
	case FormatHTML:
		_, err := w.Write(HTML(set, sorted))
		return err
	case FormatTree:
		_, err := io.WriteString(w, Tree(set, sorted))
		return err
	}
	return fmt.Errorf("unknown output format %q", opts.Format)
}

func recordField(r loader.Record, key string) any {
	return r[key]
}

// writeTable prints one page of the grid without color.
func writeTable(w io.Writer, set *columns.Set, rows []loader.Record, opts Options) error {
	styles := grid.PlainStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}
	gridOpts := []grid.Option{
		grid.WithStyles(styles),
		grid.WithWidth(opts.Width),
		grid.WithLocale(opts.Locale),
		grid.WithMaxPageButtons(opts.MaxPageButtons),
		grid.WithInitialState(grid.State{Sort: opts.Sort, Page: opts.Page, Widths: opts.Widths}),
	}
	if opts.PageSize > 0 {
		gridOpts = append(gridOpts, grid.WithPageSize(opts.PageSize))
	}
	g, err := grid.New(set.Columns, gridOpts...)
	if err != nil {
		return err
	}
	defer g.Close()
	g.SetRows(rows)
	_, err = fmt.Fprintln(w, g.View())
	return err
}
