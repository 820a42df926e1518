package render

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/dotplot/pkg/interact"
	"github.com/matzehuels/dotplot/pkg/layout"
)

func renderLegend(buf *bytes.Buffer, f Frame, state []interact.LegendMark) {
	l := f.Geometry.Legend
	ft := font{l.FontFamily, l.FontSize, f.Settings.Legend.LabelColor}

	if l.Title != nil && len(l.Items) > 0 {
		writeLabel(buf, *l.Title, "legendTitle", ft)
	}
	for i, item := range l.Items {
		opacity := 1.0
		if i < len(state) && state[i].Label == item.Entry.Label {
			opacity = state[i].Opacity
		}
		icon := item.Icon
		fmt.Fprintf(buf, `    <g class="legendItem" data-label="%s" data-id="%s" fill-opacity="%.2f">`+"\n",
			escapeXML(item.Entry.Label), escapeXML(string(item.Entry.SelectionID)), opacity)
		fmt.Fprintf(buf, `    <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>`+"\n",
			icon.CenterX(), icon.CenterY(), icon.Width()/2, escapeXML(item.Entry.Color))
		writeLabel(buf, item.Label, "legendLabel", ft)
		fmt.Fprintf(buf, "    <title>%s</title>\n    </g>\n", escapeXML(item.Entry.Label))
	}

	if l.Size != nil {
		renderSizeLegend(buf, l.Size, ft, l.RowHeight)
	}
}

func renderSizeLegend(buf *bytes.Buffer, sl *layout.SizeLegend, ft font, rowHeight float64) {
	fmt.Fprintf(buf, "    <g class=\"sizeLegend\" transform=\"translate(0,%.2f)\">\n", sl.Top)
	if sl.Title != nil {
		writeLabel(buf, *sl.Title, "legendTitle", ft)
	}
	for _, c := range sl.Circles {
		fmt.Fprintf(buf, `    <circle class="sizeLegendCircle" cx="%.2f" cy="%.2f" r="%.2f" fill="none" stroke="%s"/>`+"\n",
			c.CX, c.CY, c.R, escapeXML(ft.color))
	}
	small := ft
	small.size = rowHeight / 2.5
	writeLabel(buf, sl.MinLabel, "sizeLegendLabel", small)
	writeLabel(buf, sl.MaxLabel, "sizeLegendLabel", small)
	buf.WriteString("    </g>\n")
}
