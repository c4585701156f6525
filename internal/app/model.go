// Package app is the full-screen gridx program: one grid over the loaded
// records with a CEL filter prompt, a status line and key help.
package app

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/gridx/internal/cel"
	"github.com/oakwood-commons/gridx/internal/columns"
	"github.com/oakwood-commons/gridx/internal/theme"
	"github.com/oakwood-commons/gridx/pkg/grid"
	"github.com/oakwood-commons/gridx/pkg/loader"
)

// gridTop is the screen row of the grid's header; row 0 is the title bar.
const gridTop = 1

// Config holds what the app needs to start.
type Config struct {
	Title     string
	Columns   *columns.Set
	Records   []loader.Record
	Evaluator *cel.Evaluator
	// Filter is applied before the first frame.
	Filter string
	// Limits describes record limits applied by the caller, for the title bar.
	Limits      string
	Theme       theme.Theme
	GridOptions []grid.Option
	Logger      logr.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	grid   *grid.Model[loader.Record]
	all    []loader.Record
	eval   *cel.Evaluator
	title  string
	limits string

	input        textinput.Model
	filtering    bool
	activeFilter string

	status    string
	statusErr bool

	help  help.Model
	keys  keyMap
	theme theme.Theme
	log   logr.Logger

	width    int
	height   int
	quitting bool
	final    grid.State
}

// New builds the app and applies the initial filter. An invalid initial
// filter is an error.
func New(cfg Config) (*Model, error) {
	if cfg.Columns == nil {
		return nil, fmt.Errorf("app: columns are required")
	}
	log := cfg.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}
	ev := cfg.Evaluator
	if ev == nil {
		var err error
		if ev, err = cel.NewEvaluator(); err != nil {
			return nil, err
		}
	}

	opts := append([]grid.Option{
		grid.WithStyles(cfg.Theme.Grid),
		grid.WithLogger(log.WithName("grid")),
	}, cfg.GridOptions...)
	g, err := grid.New(cfg.Columns.Columns, opts...)
	if err != nil {
		return nil, err
	}
	g.SetOrigin(0, gridTop)
	g.SetRows(cfg.Records)

	in := textinput.New()
	in.Prompt = "filter ❯ "
	in.Placeholder = "CEL predicate, e.g. _.amount > 100"
	in.CharLimit = 500
	in.ShowSuggestions = true
	in.SetSuggestions(ev.Suggestions(cfg.Columns.Keys()))

	h := help.New()
	h.Styles.ShortKey = cfg.Theme.HelpKey
	h.Styles.FullKey = cfg.Theme.HelpKey
	h.Styles.ShortDesc = cfg.Theme.HelpDesc
	h.Styles.FullDesc = cfg.Theme.HelpDesc

	m := &Model{
		grid:   g,
		all:    cfg.Records,
		eval:   ev,
		title:  cfg.Title,
		limits: cfg.Limits,
		input:  in,
		help:   h,
		keys:   newKeyMap(g.KeyMap()),
		theme:  cfg.Theme,
		log:    log,
	}
	if strings.TrimSpace(cfg.Filter) != "" {
		if err := m.ApplyFilter(cfg.Filter); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Grid exposes the hosted grid.
func (m *Model) Grid() *grid.Model[loader.Record] {
	return m.grid
}

// ActiveFilter returns the filter currently narrowing the rows.
func (m *Model) ActiveFilter() string {
	return m.activeFilter
}

// FinalState is the grid state recorded when the app quit.
func (m *Model) FinalState() grid.State {
	if !m.quitting {
		return m.grid.State()
	}
	return m.final
}

// ApplyFilter narrows the rows to those matching expr. An empty expression
// shows every row. Rows whose evaluation fails are dropped and reported in
// the status line.
func (m *Model) ApplyFilter(expr string) error {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		m.activeFilter = ""
		m.grid.SetRows(m.all)
		m.setStatus("", false)
		return nil
	}
	prg, err := m.eval.CompileFilter(expr)
	if err != nil {
		return err
	}
	kept, failed, firstErr := cel.Filter(prg, m.all)
	m.activeFilter = expr
	m.grid.SetRows(kept)
	if failed > 0 {
		m.log.V(1).Info("filter skipped rows", "filter", expr, "failed", failed, "error", firstErr.Error())
		m.setStatus(fmt.Sprintf("%d rows skipped: %v", failed, firstErr), true)
	} else {
		m.setStatus("", false)
	}
	return nil
}

func (m *Model) setStatus(msg string, isErr bool) {
	m.status = msg
	m.statusErr = isErr
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.grid.SetWidth(msg.Width)
		m.input.SetWidth(max(0, msg.Width-lipgloss.Width(m.input.Prompt)-1))
		m.help.SetWidth(msg.Width)
		return m, nil

	case tea.KeyPressMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, m.quit()
		}
		if m.filtering {
			return m, m.updateFilter(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, m.quit()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Filter):
			return m, m.openFilter()
		case key.Matches(msg, m.keys.ClearFilter):
			_ = m.ApplyFilter("")
			return m, nil
		}
		if !m.grid.Resizing() {
			m.setStatus("", false)
		}
		m.grid.Update(msg)
		return m, nil

	case tea.MouseClickMsg, tea.MouseMotionMsg, tea.MouseReleaseMsg:
		m.grid.Update(msg)
		return m, nil
	}

	if m.filtering {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) openFilter() tea.Cmd {
	m.filtering = true
	m.grid.Blur()
	m.input.SetValue(m.activeFilter)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closeFilter() {
	m.filtering = false
	m.input.Blur()
	m.grid.Focus()
}

func (m *Model) updateFilter(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.ApplyFilter):
		if err := m.ApplyFilter(m.input.Value()); err != nil {
			m.setStatus(err.Error(), true)
			return nil
		}
		m.closeFilter()
		return nil
	case key.Matches(msg, m.keys.CancelInput):
		m.closeFilter()
		m.setStatus("", false)
		return nil
	case key.Matches(msg, m.keys.ClearFilter):
		m.input.SetValue("")
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// quit closes the grid and records its final state.
func (m *Model) quit() tea.Cmd {
	if !m.quitting {
		m.grid.Close()
		m.final = m.grid.State()
		m.quitting = true
	}
	return tea.Quit
}

// View implements tea.Model.
func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

// Render returns the screen content.
func (m *Model) Render() string {
	if m.quitting {
		return ""
	}
	sections := []string{
		m.titleBar(),
		m.grid.View(),
	}
	if m.filtering {
		sections = append(sections, m.input.View())
		if m.status != "" {
			sections = append(sections, m.statusLine())
		}
		sections = append(sections, m.help.View(filterHelp(m.keys)))
	} else {
		sections = append(sections, m.statusLine(), m.help.View(m.keys))
	}
	return strings.Join(sections, "\n")
}

func (m *Model) titleBar() string {
	parts := []string{m.title}
	if m.limits != "" {
		parts = append(parts, m.limits)
	}
	if m.activeFilter != "" {
		parts = append(parts, "filter: "+m.activeFilter)
	}
	parts = append(parts, fmt.Sprintf("%d of %d rows", len(m.grid.Rows()), len(m.all)))
	line := strings.Join(nonEmpty(parts), " • ")
	style := m.theme.Status
	if m.width > 0 {
		line = ansi.Truncate(line, m.width, "…")
		style = style.Width(m.width)
	}
	return style.Render(line)
}

func (m *Model) statusLine() string {
	text := m.status
	style := m.theme.Status
	if m.statusErr {
		style = m.theme.StatusError
	}
	if text == "" {
		st := m.grid.State()
		text = fmt.Sprintf("sort %s • page %d/%d", st.Sort, st.Page, m.grid.PageCount())
	}
	if m.width > 0 {
		style = style.MaxWidth(m.width)
	}
	return style.Render(text)
}

func nonEmpty(in []string) []string {
	out := in[:0:0]
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
