// Package cmd implements the gridx command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/oakwood-commons/gridx/internal/app"
	"github.com/oakwood-commons/gridx/internal/cel"
	"github.com/oakwood-commons/gridx/internal/columns"
	"github.com/oakwood-commons/gridx/internal/config"
	"github.com/oakwood-commons/gridx/internal/formatter"
	"github.com/oakwood-commons/gridx/internal/limiter"
	"github.com/oakwood-commons/gridx/internal/theme"
	"github.com/oakwood-commons/gridx/pkg/grid"
	"github.com/oakwood-commons/gridx/pkg/loader"
	"github.com/oakwood-commons/gridx/pkg/logger"
	"github.com/oakwood-commons/gridx/pkg/settings"
)

const longHelp = `gridx shows tabular records in a sortable, paginated grid.

Records are read from a file or stdin as JSON, NDJSON, YAML, TOML, CSV or a
JWT. Without -i the grid prints one page and exits; -o selects another
output format. With -i the grid opens full screen: click or press s to sort,
use the page keys or the footer buttons to page, drag a header border or
press +/- to resize and / to filter with a CEL expression over _.`

const examples = `
  gridx orders.json
  gridx orders.json -i --sort amount:desc
  cat orders.ndjson | gridx --filter '_.status == "paid"' -o csv
  gridx people.yaml --columns name,email --page 2 --page-size 20
  gridx orders.json -i --state-file ~/.cache/gridx/orders.yaml`

// options holds the flag values of one invocation.
type options struct {
	inputFormat string
	columns     []string
	configFile  string
	filter      string
	sort        string
	page        int
	pageSize    int
	limit       limiter.Config
	interactive bool
	output      string
	width       int
	theme       string
	noColor     bool
	stateFile   string
	debug       bool
	logFile     string
}

// Execute runs the gridx command line.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the root command with fresh flag state.
func NewRootCmd() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:     settings.CliBinaryName + " [file]",
		Short:   "Show tabular records in a sortable, paginated grid",
		Long:    longHelp,
		Example: examples,
		Version: versionString(),
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 1 {
				return usageErrorf("accepts at most one file, received %d", len(args))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd, args)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
	o.bindPersistent(cmd.PersistentFlags())
	o.bind(cmd.Flags())
	cmd.AddCommand(newVersionCmd(), newConfigCmd(o), newThemesCmd(o))
	return cmd
}

func (o *options) bindPersistent(fs *pflag.FlagSet) {
	fs.StringVar(&o.configFile, "config-file", "", "config file (default $XDG_CONFIG_HOME/gridx/config.yaml)")
	fs.StringVar(&o.theme, "theme", "", "color theme (see 'gridx themes')")
	fs.BoolVar(&o.noColor, "no-color", false, "disable colors (also set by NO_COLOR)")
	fs.BoolVar(&o.debug, "debug", false, "enable debug logging")
	fs.StringVar(&o.logFile, "log-file", "", "write logs to this file instead of stderr")
}

func (o *options) bind(fs *pflag.FlagSet) {
	fs.StringVar(&o.inputFormat, "format", "", "input format: json, ndjson, yaml, toml, csv or jwt (default auto)")
	fs.StringSliceVar(&o.columns, "columns", nil, "comma-separated column keys to show, in order")
	fs.StringVar(&o.filter, "filter", "", "CEL predicate rows must satisfy, e.g. '_.amount > 100'")
	fs.StringVar(&o.sort, "sort", "", "initial sort as key[:asc|desc]")
	fs.IntVar(&o.page, "page", 0, "initial page (1-based)")
	fs.IntVar(&o.pageSize, "page-size", 0, "rows per page (default from config)")
	fs.IntVar(&o.limit.Limit, "limit", 0, "keep only the first N records")
	fs.IntVar(&o.limit.Offset, "offset", 0, "skip the first N records")
	fs.IntVar(&o.limit.Tail, "tail", 0, "keep only the last N records")
	fs.BoolVarP(&o.interactive, "interactive", "i", false, "open the interactive grid")
	fs.StringVarP(&o.output, "output", "o", "table", "output format: table, csv, json, yaml, markdown, html or tree")
	fs.IntVar(&o.width, "width", 0, "table width in cells (default terminal width)")
	fs.StringVar(&o.stateFile, "state-file", "", "load the grid state from this file and save it on exit")
}

// setup creates the logger and stores it with the run settings in the
// command context.
func (o *options) setup(cmd *cobra.Command, args []string) error {
	if o.logFile != "" {
		if err := logger.SetOutput(o.logFile); err != nil {
			return err
		}
	}
	run := o.runSettings(args)
	lgr := logger.WithValues(logger.Get(run.MinLogLevel), logger.CommandKey, cmd.Name())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithLogger(ctx, lgr)
	ctx = settings.IntoContext(ctx, run)
	cmd.SetContext(ctx)
	return nil
}

func (o *options) runSettings(args []string) *settings.Run {
	run := settings.NewCliParams()
	if o.debug {
		run.MinLogLevel = -1
	}
	if len(args) == 1 && args[0] != "-" {
		run.Input = settings.InputSettings{Path: args[0]}
	}
	run.Input.Format = o.inputFormat
	run.Interactive = o.interactive
	run.NoColor = o.noColor || theme.NoColorEnv()
	run.Theme = o.theme
	run.OutputFormat = o.output
	run.StateFile = o.stateFile
	return run
}

func (o *options) run(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := *logger.FromContext(ctx)
	run := settings.FromContextOrDefault(ctx)

	if err := o.limit.Validate(); err != nil {
		return &UsageError{Err: err}
	}
	if o.page < 0 || o.pageSize < 0 || o.width < 0 {
		return usageErrorf("--page, --page-size and --width must be non-negative")
	}
	outFormat, err := formatter.ParseFormat(run.OutputFormat)
	if err != nil {
		return &UsageError{Err: err}
	}
	inFormat, err := loader.ParseFormat(run.Input.Format)
	if err != nil {
		return &UsageError{Err: fmt.Errorf("--format: %w", err)}
	}
	sortFlag, err := parseSortFlag(o.sort)
	if err != nil {
		return &UsageError{Err: err}
	}

	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	tag, err := cfg.LocaleTag()
	if err != nil {
		return err
	}

	eval, err := cel.NewEvaluator()
	if err != nil {
		return err
	}
	var filter *cel.Program
	if strings.TrimSpace(o.filter) != "" {
		if filter, err = eval.CompileFilter(o.filter); err != nil {
			return &UsageError{Err: fmt.Errorf("--filter: %w", err)}
		}
	}

	ds, title, err := loadRecords(cmd, run)
	if err != nil {
		return err
	}
	total := ds.Len()
	ds.Records = limiter.Apply(o.limit, ds.Records)
	log.V(1).Info("records loaded", "source", title, "total", total, "kept", ds.Len(), "format", string(inFormat))

	set, err := columns.Build(cfg.Columns, ds, columns.Options{
		Only:      o.columns,
		Locale:    tag,
		Evaluator: eval,
		Logger:    log.WithName("columns"),
	})
	if err != nil {
		return err
	}

	st, err := o.initialState(cfg, sortFlag, len(set.Columns), log)
	if err != nil {
		return err
	}

	if run.IsInteractive() {
		return o.runInteractive(ctx, interactiveRun{
			cfg:   cfg,
			run:   run,
			title: title,
			set:   set,
			ds:    ds,
			eval:  eval,
			state: st,
			log:   log,
		})
	}

	rows := ds.Records
	if filter != nil {
		kept, failed, firstErr := cel.Filter(filter, rows)
		if failed > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d rows skipped by filter: %v\n", settings.CliBinaryName, failed, firstErr)
		}
		rows = kept
	}

	width := o.width
	if width == 0 && outFormat == formatter.FormatTable {
		width = terminalWidth()
	}
	exportOpts := formatter.Options{
		Format:         outFormat,
		Sort:           st.Sort,
		Page:           st.Page,
		PageSize:       cfg.Grid.PageSize,
		Width:          width,
		MaxPageButtons: cfg.Grid.MaxPageButtons,
		Locale:         tag,
		Widths:         st.Widths,
	}
	if outFormat == formatter.FormatTable && !run.NoColor && stdoutIsTerminal() {
		th, err := theme.Resolve(cfg, "", false)
		if err != nil {
			return err
		}
		exportOpts.Styles = &th.Grid
	}
	return formatter.Write(cmd.OutOrStdout(), set, rows, exportOpts)
}

// loadConfig merges the user config with the defaults and applies the flags
// that override it.
func (o *options) loadConfig() (config.Config, error) {
	cfg, err := config.Load(config.ResolvePath(o.configFile))
	if err != nil {
		return cfg, err
	}
	if o.pageSize > 0 {
		cfg.Grid.PageSize = o.pageSize
	}
	if o.theme != "" {
		if _, ok := cfg.Themes[o.theme]; !ok {
			return cfg, usageErrorf("unknown theme %q (available: %s)", o.theme, strings.Join(cfg.ThemeNames(), ", "))
		}
		cfg.Grid.Theme = o.theme
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// loadRecords reads the input named by the run settings and returns it with
// a title for the grid.
func loadRecords(cmd *cobra.Command, run *settings.Run) (*loader.Dataset, string, error) {
	format, err := loader.ParseFormat(run.Input.Format)
	if err != nil {
		return nil, "", err
	}
	if !run.Input.FromStdin {
		ds, err := loader.LoadFile(run.Input.Path, format)
		if err != nil {
			return nil, "", err
		}
		return ds, filepath.Base(run.Input.Path), nil
	}
	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && f == os.Stdin && !stdinIsPiped() {
		return nil, "", usageErrorf("no input: pass a file or pipe records on stdin")
	}
	ds, err := loader.LoadReader(in, format)
	if err != nil {
		return nil, "", fmt.Errorf("stdin: %w", err)
	}
	return ds, "stdin", nil
}

// initialState layers the configured sort, the saved state and the flags,
// in that order.
func (o *options) initialState(cfg config.Config, sortFlag *grid.SortState, n int, log logr.Logger) (grid.State, error) {
	sort, err := cfg.InitialSort()
	if err != nil {
		return grid.State{}, err
	}
	st := grid.State{Sort: sort, Page: 1}

	if o.stateFile != "" {
		saved, ok, err := loadState(o.stateFile)
		if err != nil {
			return grid.State{}, err
		}
		if ok {
			st.Sort = saved.Sort
			if saved.Page > 0 {
				st.Page = saved.Page
			}
			st.Widths = fitWidths(saved.Widths, n)
			if len(saved.Widths) > 0 && st.Widths == nil {
				log.V(1).Info("ignoring saved widths", "saved", len(saved.Widths), "columns", n)
			}
		}
	}
	if sortFlag != nil {
		st.Sort = *sortFlag
	}
	if o.page > 0 {
		st.Page = o.page
	}
	return st, nil
}

// parseSortFlag reads key[:asc|desc]. An empty flag yields nil.
func parseSortFlag(s string) (*grid.SortState, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	key, dir, _ := strings.Cut(s, ":")
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("--sort %q: missing column key", s)
	}
	d, err := grid.ParseSortDirection(dir)
	if err != nil {
		return nil, fmt.Errorf("--sort %q: %w", s, err)
	}
	return &grid.SortState{Key: strings.TrimSpace(key), Direction: d}, nil
}

type interactiveRun struct {
	cfg   config.Config
	run   *settings.Run
	title string
	set   *columns.Set
	ds    *loader.Dataset
	eval  *cel.Evaluator
	state grid.State
	log   logr.Logger
}

func (o *options) runInteractive(ctx context.Context, r interactiveRun) error {
	th, err := theme.Resolve(r.cfg, r.run.Theme, r.run.NoColor)
	if err != nil {
		return err
	}
	tag, err := r.cfg.LocaleTag()
	if err != nil {
		return err
	}
	m, err := app.New(app.Config{
		Title:     r.title,
		Columns:   r.set,
		Records:   r.ds.Records,
		Evaluator: r.eval,
		Filter:    o.filter,
		Limits:    o.limit.Describe(),
		Theme:     th,
		GridOptions: []grid.Option{
			grid.WithPageSize(r.cfg.Grid.PageSize),
			grid.WithMaxPageButtons(r.cfg.Grid.MaxPageButtons),
			grid.WithLocale(tag),
			grid.WithInitialState(r.state),
		},
		Logger: r.log.WithName("app"),
	})
	if err != nil {
		return err
	}

	popts, cleanup := programOptions(ctx)
	defer cleanup()
	if _, err := tea.NewProgram(m, popts...).Run(); err != nil {
		return fmt.Errorf("run grid: %w", err)
	}

	final := m.FinalState()
	r.log.V(1).Info("grid closed", "state", final.String())
	if r.run.StateFile != "" {
		return saveState(r.run.StateFile, final)
	}
	return nil
}
