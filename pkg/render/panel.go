package render

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/dotplot/pkg/layout"
	"github.com/matzehuels/dotplot/pkg/settings"
)

// RenderErrorPanel draws the message of p centered in a document of the
// panel's size.
func RenderErrorPanel(p *layout.ErrorPanel) []byte {
	var buf bytes.Buffer
	w, h := int(p.Width), int(p.Height)
	canvas := svg.New(&buf)
	canvas.Start(w, h, `class="dotPlot errorPanel"`)
	canvas.Text(w/2, h/2, p.Message,
		fmt.Sprintf("text-anchor:middle;dominant-baseline:middle;font-family:%s;font-size:%.0fpx;fill:%s",
			settings.DefaultFontFamily, p.FontSize, settings.DefaultTextColor))
	canvas.End()
	return buf.Bytes()
}

// RenderEmpty returns an empty document of the viewport size.
func RenderEmpty(vp layout.Viewport) []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(int(vp.Width), int(vp.Height), `class="dotPlot"`)
	canvas.End()
	return buf.Bytes()
}
