// Package cli implements the dotplot command-line interface.
//
// # Commands
//
//   - render: draw a chart from a data file to svg, png, pdf, json or a
//     category hierarchy
//   - inspect: print the transformed and sorted points as a table
//   - explore: step through the chart interactively in the terminal
//   - serve: run the HTTP API
//   - cache: manage the artifact cache
//
// Data files are .json data views, .csv/.tsv tables or .xlsx workbooks.
// Tabular files take --bind Column=role[:format] flags; without them the
// first text column becomes the category group and the first numeric
// column the measure.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports every pipeline stage and cache lookup.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/dotplot/pkg/buildinfo"
	"github.com/matzehuels/dotplot/pkg/cache"
	"github.com/matzehuels/dotplot/pkg/dataview"
	dio "github.com/matzehuels/dotplot/pkg/io"
	"github.com/matzehuels/dotplot/pkg/observability"
	"github.com/matzehuels/dotplot/pkg/pipeline"
	"github.com/matzehuels/dotplot/pkg/settings"
	"github.com/matzehuels/dotplot/pkg/textmeasure"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "dotplot"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "dotplot draws categorical dot plots",
		Long:         `dotplot turns a table of categories and measures into a dot plot: one dot per row, grouped along a category axis, optionally sized, colored and nested under parent categories.`,
		Version:      buildinfo.Version(),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := &logHooks{logger: c.Logger}
			observability.SetRenderHooks(hooks)
			observability.SetCacheHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/dotplot/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Input
// =============================================================================

// inputOpts are the flags shared by every command that reads a data file.
type inputOpts struct {
	settingsPath string
	bindings     []string
	sheet        string
	width        float64
	height       float64
	orientation  string
}

func (o *inputOpts) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.settingsPath, "settings", "s", "", "TOML settings file")
	fs.StringArrayVarP(&o.bindings, "bind", "b", nil, "bind a column to a role: Column=role[:format] (repeatable)")
	fs.StringVar(&o.sheet, "sheet", "", "xlsx sheet (default: first sheet)")
	fs.Float64Var(&o.width, "width", pipeline.DefaultWidth, "viewport width")
	fs.Float64Var(&o.height, "height", pipeline.DefaultHeight, "viewport height")
	fs.StringVar(&o.orientation, "orientation", "", "horizontal or vertical (overrides settings)")
}

// loadInput reads the data file and builds update options from the flags.
func (c *CLI) loadInput(path string, o inputOpts) (*dataview.DataView, pipeline.Options, error) {
	mapping, err := dio.ParseMapping(o.bindings)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	dv, err := dio.Import(path, dio.Options{Mapping: mapping, Sheet: o.sheet})
	if err != nil {
		return nil, pipeline.Options{}, err
	}

	s := settings.Default()
	if o.settingsPath != "" {
		var warnings []string
		s, warnings, err = settings.LoadFile(o.settingsPath)
		if err != nil {
			return nil, pipeline.Options{}, err
		}
		for _, w := range warnings {
			c.Logger.Warn(w, "file", o.settingsPath)
		}
	}
	if o.orientation != "" {
		s.Orientation = o.orientation
	}

	opts := pipeline.Options{
		Settings: s,
		Width:    o.width,
		Height:   o.height,
		Measurer: textmeasure.Default(),
		Logger:   c.Logger,
	}
	return dv, opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
