package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/dotplot/pkg/interact"
)

const dotInteractionCSS = `
    .dotPlot_dot { cursor: pointer; }
    .legendItem { cursor: pointer; }
    .parentLabel, .categoryLabel, .measureLabel { user-select: none; }`

// dotInteractionJS mirrors interact.Controller. It expects root, DIM and
// FULL to be declared before it.
const dotInteractionJS = `
    var dots = Array.prototype.slice.call(root.querySelectorAll('.dotPlot_dot'));
    var legend = Array.prototype.slice.call(root.querySelectorAll('.legendItem'));
    var highlightMode = root.dataset.highlightMode === 'true';
    var rest = parseFloat(root.dataset.restOpacity);
    var hoverStroke = root.dataset.hoverStroke;
    var clickActive = root.dataset.clickActive === 'true';
    var selected = [];
    var colors = [];
    function setOpacity(el, v) { el.setAttribute('fill-opacity', v); el.setAttribute('stroke-opacity', v); }
    function restore() {
      dots.forEach(function (d) { d.setAttribute('stroke', d.dataset.stroke); setOpacity(d, rest); });
    }
    function toggle(list, v) { var i = list.indexOf(v); if (i < 0) { list.push(v); } else { list.splice(i, 1); } }
    function notify() {
      root.dispatchEvent(new CustomEvent('dotplot:select', { detail: { ids: selected.slice(), colors: colors.slice() } }));
    }
    function applySelection() {
      if (!selected.length) {
        clickActive = false;
        restore();
      } else {
        clickActive = true;
        dots.forEach(function (d) {
          var keep = selected.indexOf(d.dataset.id) >= 0 || colors.indexOf(d.dataset.color) >= 0;
          setOpacity(d, keep ? FULL : DIM);
        });
      }
      legend.forEach(function (l) {
        l.setAttribute('fill-opacity', colors.length && colors.indexOf(l.dataset.label) < 0 ? DIM : 1);
      });
      notify();
    }
    function sameCombination(a, b) {
      if (a.group && a.parent && a.category) { return a.category === b.category && a.group === b.group; }
      if (a.group && a.parent) { return a.group === b.group; }
      return a.category === b.category;
    }
    dots.forEach(function (el) {
      el.addEventListener('click', function (ev) {
        ev.stopPropagation();
        el.setAttribute('stroke', el.dataset.stroke);
        if (highlightMode) {
          clickActive = true;
          dots.forEach(function (d) { setOpacity(d, sameCombination(el.dataset, d.dataset) ? FULL : DIM); });
          return;
        }
        toggle(selected, el.dataset.id);
        applySelection();
      });
      el.addEventListener('mousemove', function () {
        if (clickActive) { return; }
        dots.forEach(function (d) { setOpacity(d, DIM); });
        setOpacity(el, FULL);
        el.setAttribute('stroke', hoverStroke);
      });
      el.addEventListener('mouseout', function () { if (!clickActive) { restore(); } });
    });
    legend.forEach(function (el) {
      el.addEventListener('click', function (ev) {
        ev.stopPropagation();
        toggle(colors, el.dataset.label);
        toggle(selected, el.dataset.id);
        applySelection();
      });
    });
    document.addEventListener('click', function () {
      selected = [];
      colors = [];
      clickActive = false;
      restore();
      legend.forEach(function (l) { l.setAttribute('fill-opacity', 1); });
      notify();
    });`

func renderInteraction(buf *bytes.Buffer, id string) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", dotInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[\n  (function () {\n    var root = document.getElementById(%s);\n    var DIM = %s, FULL = %s;%s\n  })();\n  ]]></script>\n",
		strconv.Quote(id),
		strconv.FormatFloat(interact.DimOpacity, 'f', -1, 64),
		strconv.FormatFloat(interact.FullOpacity, 'f', -1, 64),
		dotInteractionJS)
}
