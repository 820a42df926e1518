package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/pipeline"
)

// renderOpts holds the flags of the render command.
type renderOpts struct {
	inputOpts
	output  string
	formats string
	static  bool
	scale   float64
	noCache bool
	refresh bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <data>",
		Short: "Render a dot plot to SVG, PNG, PDF, JSON or a category hierarchy",
		Long: `Render a dot plot from a .json data view, a .csv/.tsv table or an .xlsx workbook.

Tabular files need column bindings unless the first text and first numeric
columns are the category group and the measure:

  dotplot render sales.csv -b Region=xCategoryParent -b Store=categoryGroup -b Sales=measure`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: dataFileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	opts.addFlags(cmd.Flags())
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json, hierarchy, dot (comma-separated)")
	cmd.Flags().BoolVar(&opts.static, "static", false, "leave out the interaction script")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultPNGScale, "PNG pixel density")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, o *renderOpts) error {
	prog := newProgress(c.Logger)

	dv, opts, err := c.loadInput(input, o.inputOpts)
	if err != nil {
		return err
	}
	opts.Formats = parseFormats(o.formats)
	opts.Static = o.static
	opts.PNGScale = o.scale
	opts.Refresh = o.refresh
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}

	runner, err := c.newRunner(o.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *Spinner
	if slices.ContainsFunc(opts.Formats, slowFormat) {
		spin = newSpinner(ctx, "Rendering "+filepath.Base(input))
		spin.Start()
	}
	res, err := runner.Update(ctx, dv, opts)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	printStats(res.Stats.Points, res.Stats.Unmatched, res.CacheInfo.RenderHit)
	if res.Degraded != nil {
		printWarning("%s", errors.UserMessage(res.Degraded))
	}
	if g := res.Geometry; g != nil && g.Scrolled {
		printDetail("scrolled: content is %.0fx%.0f in a %.0fx%.0f viewport",
			g.Content.Width, g.Content.Height, g.Viewport.Width, g.Viewport.Height)
	}

	multi := len(opts.Formats) > 1
	for _, format := range opts.Formats {
		path := outputPath(o.output, input, format, multi)
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	prog.done("Rendered " + input)
	return nil
}

// slowFormat reports whether a format goes through rasterization or Graphviz.
func slowFormat(format string) bool {
	switch format {
	case pipeline.FormatPNG, pipeline.FormatPDF, pipeline.FormatHierarchy:
		return true
	}
	return false
}

// extensions maps formats to file suffixes.
var extensions = map[string]string{
	pipeline.FormatSVG:       ".svg",
	pipeline.FormatPNG:       ".png",
	pipeline.FormatPDF:       ".pdf",
	pipeline.FormatJSON:      ".json",
	pipeline.FormatHierarchy: ".hierarchy.svg",
	pipeline.FormatDOT:       ".dot",
}

// outputPath picks the file for one format. A single format writes to
// output as given; several formats, or no output, derive "<base><ext>" from
// output (minus a known extension) or from the input file.
func outputPath(output, input, format string, multi bool) string {
	if output != "" && !multi {
		return output
	}
	return basePath(output, input) + extensions[format]
}

// basePath strips a known output extension from output, or the extension of
// input when output is empty.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// Longest suffix first so "x.hierarchy.svg" strips to "x".
	for _, ext := range []string{".hierarchy.svg", ".svg", ".png", ".pdf", ".json", ".dot"} {
		if strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}
