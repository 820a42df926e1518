// Package hierarchy draws the category hierarchy of a dot plot as a
// Graphviz tree: parents on the first rank, the categories beneath them.
//
//	dot := hierarchy.ToDOT(c, hierarchy.Options{Counts: true})
//	svg, err := hierarchy.RenderSVG(dot)
package hierarchy

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/render"
)

// Options configures hierarchy rendering.
type Options struct {
	// Counts appends the number of points to each category label.
	Counts bool
	// Title labels the root node. Defaults to the category axis title.
	Title string
}

const rootID = "root"

// ToDOT converts the category keys of c, in axis order, to a DOT tree.
// Views without parents hang their categories directly off the root.
func ToDOT(c *model.Collection, opts Options) string {
	title := opts.Title
	if title == "" {
		title = c.XTitle
	}
	if title == "" {
		title = "categories"
	}

	counts := make(map[string]int)
	for _, p := range c.Points {
		counts[p.CompositeParent]++
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightgrey];\n", rootID, title)

	seen := make(map[string]bool)
	for _, key := range c.CategoryKeys() {
		parent, category := model.SplitComposite(key)
		from := rootID
		if c.Flags.Parent && parent != "" {
			from = "p:" + parent
			if !seen[from] {
				seen[from] = true
				fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\"];\n", from, parent)
				fmt.Fprintf(&buf, "  %q -> %q;\n", rootID, from)
			}
		}
		label := category
		if label == "" {
			label = parent
		}
		if opts.Counts {
			label = fmt.Sprintf("%s\n(%d)", label, counts[key])
		}
		id := "c:" + key
		fmt.Fprintf(&buf, "  %q [label=%q];\n", id, label)
		fmt.Fprintf(&buf, "  %q -> %q;\n", from, id)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render hierarchy")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root tag, which sizes in points,
// with one sized in user units.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}
