package grid

import (
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/text/language"
)

// DefaultMaxPageButtons caps the numbered page buttons shown in the footer.
const DefaultMaxPageButtons = 5

// DoubleClickInterval is the longest gap between two clicks on the same
// resize handle that still counts as a double click.
const DoubleClickInterval = 400 * time.Millisecond

// options collects construction settings shared by every row type.
type options struct {
	pageSize       int
	maxPageButtons int
	locale         language.Tag
	styles         Styles
	keys           KeyMap
	log            logr.Logger
	onChange       func(State)
	initial        *State
	now            func() time.Time
	width          int
}

// Option configures a grid at construction time.
type Option func(*options)

func defaultOptions() options {
	return options{
		pageSize:       DefaultPageSize,
		maxPageButtons: DefaultMaxPageButtons,
		locale:         language.English,
		styles:         DefaultStyles(),
		keys:           DefaultKeyMap(),
		log:            logr.Discard(),
		now:            time.Now,
	}
}

// WithPageSize sets the number of rows per page. Values below 1 make New fail.
func WithPageSize(n int) Option {
	return func(o *options) { o.pageSize = n }
}

// WithMaxPageButtons caps the numbered page buttons in the footer.
func WithMaxPageButtons(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPageButtons = n
		}
	}
}

// WithLocale selects the collation used to order text values.
func WithLocale(tag language.Tag) Option {
	return func(o *options) { o.locale = tag }
}

// WithStyles replaces the default styles.
func WithStyles(s Styles) Option {
	return func(o *options) { o.styles = s }
}

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k KeyMap) Option {
	return func(o *options) { o.keys = k }
}

// WithLogger sets the logger used for renderer failures and state changes.
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithOnChange registers a hook that is called after every committed change
// to the sort, page or column widths.
func WithOnChange(fn func(State)) Option {
	return func(o *options) { o.onChange = fn }
}

// WithInitialState restores a previously saved state. Widths are applied only
// when their count matches the columns; an unknown sort key is dropped.
func WithInitialState(s State) Option {
	return func(o *options) {
		st := s.clone()
		o.initial = &st
	}
}

// WithClock overrides the time source used for double-click detection.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithWidth limits the rendered line width. Zero means unlimited.
func WithWidth(w int) Option {
	return func(o *options) { o.width = w }
}
