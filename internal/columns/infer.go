package columns

import (
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/gridx/internal/config"
	"github.com/oakwood-commons/gridx/pkg/grid"
	"github.com/oakwood-commons/gridx/pkg/loader"
)

// inferAlign right-aligns numeric formats and columns whose sampled values
// are all numbers.
func (b *builder) inferAlign(format string, value func(loader.Record) any) grid.Align {
	switch format {
	case config.FormatNumber, config.FormatCurrency, config.FormatPercent:
		return grid.AlignRight
	case config.FormatBool:
		return grid.AlignCenter
	case "", config.FormatText:
	default:
		return grid.AlignLeft
	}
	seen := false
	for _, r := range b.records {
		v := value(r)
		if v == nil {
			continue
		}
		if _, isBool := v.(bool); isBool || !isNumeric(v) {
			return grid.AlignLeft
		}
		seen = true
	}
	if seen {
		return grid.AlignRight
	}
	return grid.AlignLeft
}

// inferWidth fits the header plus sort indicator and the widest sampled
// cell, within [grid.DefaultMinWidth, MaxWidth].
func (b *builder) inferWidth(col grid.Column[loader.Record]) int {
	label := col.Label
	if label == "" {
		label = col.Key
	}
	w := runewidth.StringWidth(label) + indicatorRoom
	for _, r := range b.records {
		if cw := runewidth.StringWidth(col.Render(r)); cw > w {
			w = cw
		}
	}
	floor := grid.DefaultMinWidth
	if col.MinWidth > floor {
		floor = col.MinWidth
	}
	return min(max(w, floor), max(b.opts.MaxWidth, floor))
}
