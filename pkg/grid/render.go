package grid

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	runewidth "github.com/mattn/go-runewidth"
)

// ErrorCellText is shown in place of a cell whose renderer panicked.
const ErrorCellText = "!err"

const (
	handleGlyph    = "│"
	ruleGlyph      = "─"
	ruleCrossGlyph = "┼"
	ruleEndGlyph   = "┤"
	ascGlyph       = "▲"
	descGlyph      = "▼"
	ellipsis       = "…"
)

// Line offsets of the rendered grid, relative to its origin.
const (
	headerLine = 0
	firstBody  = 2
)

// View renders the header, the rows of the current page and the footer.
func (m *Model[T]) View() string {
	frame := m.Frame()
	widths := m.resizer.Widths()

	lines := make([]string, 0, m.bodyLines(frame)+4)
	lines = append(lines, m.renderHeader(widths), m.renderRule(widths))
	for i, row := range frame.Rows {
		lines = append(lines, m.renderRow(row, widths, i))
	}
	for i := len(frame.Rows); i < m.bodyLines(frame); i++ {
		lines = append(lines, "")
	}
	lines = append(lines, m.renderRule(widths), m.renderFooter(frame))

	out := strings.Join(lines, "\n")
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}

// bodyLines is the number of lines reserved for rows. Multi-page grids keep a
// full page of lines so the footer does not jump on the last page.
func (m *Model[T]) bodyLines(frame Page[T]) int {
	if frame.TotalPages > 1 {
		return m.pageSize
	}
	return len(frame.Rows)
}

// footerLine returns the footer's line offset for frame.
func (m *Model[T]) footerLine(frame Page[T]) int {
	return firstBody + m.bodyLines(frame) + 1
}

func (m *Model[T]) renderHeader(widths []int) string {
	var b strings.Builder
	for i, c := range m.cols {
		w := widths[i]
		style := m.styles.Header
		if m.focused && i == m.focusCol {
			style = m.styles.FocusedHeader
		}

		indicator := ""
		if m.sort.Key == c.Key {
			indicator = ascGlyph
			if m.sort.Direction == Descending {
				indicator = descGlyph
			}
		}

		switch {
		case indicator == "":
			b.WriteString(style.Render(fitCell(c.title(), w, c.Align)))
		case w >= 3:
			b.WriteString(style.Render(fitCell(c.title(), w-2, c.Align) + " "))
			b.WriteString(m.styles.SortIndicator.Render(indicator))
		default:
			b.WriteString(m.styles.SortIndicator.Render(fitCell(indicator, w, AlignLeft)))
		}
		b.WriteString(m.handle(i))
	}
	return b.String()
}

func (m *Model[T]) handle(col int) string {
	if m.resizer.ActiveColumn() == col {
		return m.styles.ActiveHandle.Render(handleGlyph)
	}
	return m.styles.Handle.Render(handleGlyph)
}

func (m *Model[T]) renderRule(widths []int) string {
	var b strings.Builder
	for i, w := range widths {
		b.WriteString(strings.Repeat(ruleGlyph, w))
		if i == len(widths)-1 {
			b.WriteString(ruleEndGlyph)
		} else {
			b.WriteString(ruleCrossGlyph)
		}
	}
	return m.styles.Rule.Render(b.String())
}

// renderRow draws one body line. Content of overflow columns that is wider
// than the cell keeps going over the following cells, which then only show
// whatever room is left.
func (m *Model[T]) renderRow(row T, widths []int, index int) string {
	base := m.styles.Cell
	if index%2 == 1 {
		base = m.styles.AltCell
	}

	var b strings.Builder
	carry := 0
	for i, c := range m.cols {
		w := widths[i]
		text, ok := m.cellText(c, row)
		style := base
		if !ok {
			style = m.styles.ErrorCell
		}

		if carry > 0 {
			if carry >= w+1 {
				carry -= w + 1
				continue
			}
			if room := w - carry; room > 0 {
				b.WriteString(style.Render(fitCell(text, room, c.Align)))
			}
			carry = 0
			b.WriteString(m.handle(i))
			continue
		}

		text = singleLine(text)
		if tw := runewidth.StringWidth(text); c.AllowOverflow && tw > w {
			b.WriteString(style.Render(text))
			carry = tw - w - 1
			continue
		}
		b.WriteString(style.Render(fitCell(text, w, c.Align)))
		b.WriteString(m.handle(i))
	}
	return b.String()
}

// cellText produces the display text for one cell. A panicking renderer is
// contained to its cell: the error is logged and ok is false.
func (m *Model[T]) cellText(c Column[T], row T) (text string, ok bool) {
	if c.Render == nil {
		return Stringify(m.field(row, c.Key)), true
	}
	defer func() {
		if r := recover(); r != nil {
			m.log.Error(fmt.Errorf("%v", r), "cell renderer panicked", "column", c.Key)
			text, ok = ErrorCellText, false
		}
	}()
	return c.Render(row), true
}

func (m *Model[T]) renderFooter(frame Page[T]) string {
	summary := summaryText(frame)
	items := layoutFooter(summary, pageControls(frame.Number, frame.TotalPages, m.maxPageButtons))

	var b strings.Builder
	b.WriteString(m.styles.Summary.Render(summary))
	b.WriteString(strings.Repeat(" ", footerGap))
	for i, it := range items {
		if i > 0 {
			b.WriteString(" ")
		}
		switch {
		case it.control.current:
			b.WriteString(m.styles.CurrentPage.Render(it.control.label))
		case it.control.target == 0:
			b.WriteString(m.styles.DisabledPage.Render(it.control.label))
		default:
			b.WriteString(m.styles.PageButton.Render(it.control.label))
		}
	}
	return b.String()
}

// fitCell clips text to w cells (marking the cut with an ellipsis) and pads it
// according to align.
func fitCell(text string, w int, align Align) string {
	if w <= 0 {
		return ""
	}
	text = singleLine(text)
	if runewidth.StringWidth(text) > w {
		text = runewidth.Truncate(text, w, ellipsis)
	}
	pad := w - runewidth.StringWidth(text)
	switch align {
	case AlignRight:
		return strings.Repeat(" ", pad) + text
	case AlignCenter:
		left := pad / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", pad-left)
	default:
		return text + strings.Repeat(" ", pad)
	}
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func singleLine(s string) string {
	return lineBreaks.Replace(s)
}
