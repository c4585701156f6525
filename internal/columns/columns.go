// Package columns builds grid column definitions for loaded records, either
// from configured column specs or by inspecting the data.
package columns

import (
	"fmt"
	"slices"

	"github.com/go-logr/logr"
	"golang.org/x/text/language"

	"github.com/oakwood-commons/gridx/internal/cel"
	"github.com/oakwood-commons/gridx/internal/config"
	"github.com/oakwood-commons/gridx/pkg/grid"
	"github.com/oakwood-commons/gridx/pkg/loader"
)

const (
	// DefaultMaxWidth caps inferred column widths.
	DefaultMaxWidth = 32
	// sampleSize bounds the rows inspected when inferring widths.
	sampleSize = 500
	// indicatorRoom is left next to header labels for the sort indicator.
	indicatorRoom = 2
)

// Options controls column building.
type Options struct {
	// Only selects and orders the shown columns by key.
	Only []string
	// Locale drives number grouping and the comparator of computed columns.
	Locale language.Tag
	// MaxWidth caps inferred widths. Zero uses DefaultMaxWidth.
	MaxWidth int
	// Evaluator compiles expr columns. One is created when nil and needed.
	Evaluator *cel.Evaluator
	Logger    logr.Logger
}

// Set is the built column list together with the raw value accessors the
// exporters need.
type Set struct {
	Columns []grid.Column[loader.Record]
	values  []func(loader.Record) any
}

// Keys returns the column keys in display order.
func (s *Set) Keys() []string {
	keys := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		keys[i] = c.Key
	}
	return keys
}

// Labels returns the header texts in display order.
func (s *Set) Labels() []string {
	labels := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		labels[i] = c.Label
		if labels[i] == "" {
			labels[i] = c.Key
		}
	}
	return labels
}

// Value returns the value column i shows for row: the computed value for
// expression columns, the raw field otherwise.
func (s *Set) Value(i int, row loader.Record) any {
	return s.values[i](row)
}

// Text returns the display text of column i for row.
func (s *Set) Text(i int, row loader.Record) string {
	return s.Columns[i].Render(row)
}

// Build turns specs into grid columns. Without specs every dataset column is
// shown with inferred settings. Keys in opts.Only that are neither declared
// nor present in the data are an error.
func Build(specs []config.ColumnConfig, ds *loader.Dataset, opts Options) (*Set, error) {
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = DefaultMaxWidth
	}
	if opts.Logger.GetSink() == nil {
		opts.Logger = logr.Discard()
	}

	selected, err := selectSpecs(specs, ds, opts.Only)
	if err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return nil, fmt.Errorf("no columns to show")
	}

	b := &builder{opts: opts, records: sample(ds)}
	set := &Set{}
	for _, spec := range selected {
		col, value, err := b.column(spec)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", spec.Key, err)
		}
		set.Columns = append(set.Columns, col)
		set.values = append(set.values, value)
	}
	return set, nil
}

func selectSpecs(specs []config.ColumnConfig, ds *loader.Dataset, only []string) ([]config.ColumnConfig, error) {
	var available []string
	if ds != nil {
		available = ds.Columns
	}
	if len(only) == 0 {
		if len(specs) > 0 {
			return specs, nil
		}
		out := make([]config.ColumnConfig, len(available))
		for i, k := range available {
			out[i] = config.ColumnConfig{Key: k}
		}
		return out, nil
	}

	out := make([]config.ColumnConfig, 0, len(only))
	for _, k := range only {
		if idx := slices.IndexFunc(specs, func(c config.ColumnConfig) bool { return c.Key == k }); idx >= 0 {
			out = append(out, specs[idx])
			continue
		}
		if !slices.Contains(available, k) {
			return nil, fmt.Errorf("unknown column %q (available: %v)", k, available)
		}
		out = append(out, config.ColumnConfig{Key: k})
	}
	return out, nil
}

func sample(ds *loader.Dataset) []loader.Record {
	if ds == nil {
		return nil
	}
	if len(ds.Records) > sampleSize {
		return ds.Records[:sampleSize]
	}
	return ds.Records
}

type builder struct {
	opts    Options
	records []loader.Record
	cmp     *grid.Comparator
}

func (b *builder) column(spec config.ColumnConfig) (grid.Column[loader.Record], func(loader.Record) any, error) {
	col := grid.Column[loader.Record]{
		Key:           spec.Key,
		Label:         spec.Label,
		InitialWidth:  spec.Width,
		MinWidth:      spec.MinWidth,
		AllowOverflow: spec.Overflow,
	}
	if !config.ValidFormat(spec.Format) {
		return col, nil, fmt.Errorf("unknown format %q", spec.Format)
	}
	format := NewFormatter(spec.Format, b.opts.Locale)

	key := spec.Key
	value := func(r loader.Record) any { return r[key] }
	if spec.Expr != "" {
		computed, err := b.computed(spec)
		if err != nil {
			return col, nil, err
		}
		value = computed
		if b.cmp == nil {
			b.cmp = grid.NewComparator(b.opts.Locale)
		}
		cmp := b.cmp
		col.Compare = func(x, y loader.Record) int { return cmp.Compare(value(x), value(y)) }
	}
	col.Render = func(r loader.Record) string { return format(value(r)) }

	align, err := grid.ParseAlign(spec.Align)
	if err != nil {
		return col, nil, err
	}
	if spec.Align == "" {
		align = b.inferAlign(spec.Format, value)
	}
	col.Align = align

	if col.InitialWidth == 0 {
		col.InitialWidth = b.inferWidth(col)
	}
	return col, value, nil
}

// computed compiles the column expression. Evaluation failures yield nil,
// which renders empty and sorts last.
func (b *builder) computed(spec config.ColumnConfig) (func(loader.Record) any, error) {
	if b.opts.Evaluator == nil {
		ev, err := cel.NewEvaluator()
		if err != nil {
			return nil, err
		}
		b.opts.Evaluator = ev
	}
	prg, err := b.opts.Evaluator.Compile(spec.Expr)
	if err != nil {
		return nil, err
	}
	log := b.opts.Logger.WithValues("column", spec.Key)
	return func(r loader.Record) any {
		v, err := prg.Eval(map[string]any(r))
		if err != nil {
			log.V(1).Info("computed value failed", "expr", prg.Source(), "error", err.Error())
			return nil
		}
		return v
	}, nil
}
