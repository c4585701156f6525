package grid

import (
	"fmt"
	"strconv"

	runewidth "github.com/mattn/go-runewidth"
)

// footerGap separates the row summary from the page controls.
const footerGap = 2

// pageControl is one clickable element of the footer. A zero target marks a
// control that does nothing: a disabled arrow, the current page or a gap.
type pageControl struct {
	label   string
	target  int
	current bool
}

// footerItem is a control placed at a column offset of the footer line.
type footerItem struct {
	control pageControl
	x       int
	width   int
}

// pageControls lays out previous/next arrows around a window of at most
// maxButtons numbered pages centred on current.
func pageControls(current, total, maxButtons int) []pageControl {
	if maxButtons < 1 {
		maxButtons = DefaultMaxPageButtons
	}
	controls := make([]pageControl, 0, maxButtons+4)

	prev := pageControl{label: "‹"}
	if current > 1 {
		prev.target = current - 1
	}
	controls = append(controls, prev)

	start, end := 1, total
	if total > maxButtons {
		start = current - maxButtons/2
		start = max(1, min(start, total-maxButtons+1))
		end = start + maxButtons - 1
	}
	if start > 1 {
		controls = append(controls, pageControl{label: ellipsis})
	}
	for p := start; p <= end; p++ {
		if p == current {
			controls = append(controls, pageControl{label: "[" + strconv.Itoa(p) + "]", current: true})
			continue
		}
		controls = append(controls, pageControl{label: strconv.Itoa(p), target: p})
	}
	if end < total {
		controls = append(controls, pageControl{label: ellipsis})
	}

	next := pageControl{label: "›"}
	if current < total {
		next.target = current + 1
	}
	return append(controls, next)
}

// summaryText describes which rows are on screen, e.g. "11–20 of 23".
func summaryText[T any](p Page[T]) string {
	if p.Total == 0 {
		return "0 of 0"
	}
	return fmt.Sprintf("%d–%d of %d", p.Start+1, p.End, p.Total)
}

// layoutFooter assigns each control its offset on the footer line.
func layoutFooter(summary string, controls []pageControl) []footerItem {
	items := make([]footerItem, len(controls))
	x := runewidth.StringWidth(summary) + footerGap
	for i, c := range controls {
		w := runewidth.StringWidth(c.label)
		items[i] = footerItem{control: c, x: x, width: w}
		x += w + 1
	}
	return items
}
