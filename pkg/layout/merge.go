package layout

import (
	"math"

	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/scale"
)

const eps = 1e-9

// ParentBand is a run of contiguous categories sharing one parent label.
// Start and End are plot-local along the category axis. Boundary marks the
// edge shared with the next run; the last run has none.
type ParentBand struct {
	Parent string `json:"parent"`
	Index  int    `json:"index"`
	First  int    `json:"first"`
	Count  int    `json:"count"`

	Start float64 `json:"start"`
	End   float64 `json:"end"`

	Boundary    float64 `json:"boundary,omitempty"`
	HasBoundary bool    `json:"has_boundary"`

	// Rect is the background band in chart coordinates. TickFrom and TickTo
	// bound the boundary tick on the axis perpendicular to the categories.
	Rect     Rect    `json:"rect"`
	TickFrom float64 `json:"tick_from"`
	TickTo   float64 `json:"tick_to"`
	Label    Label   `json:"label"`
}

// Center returns the midpoint of the run along the category axis.
func (b ParentBand) Center() float64 { return (b.Start + b.End) / 2 }

// Even reports whether the band takes the primary background color.
func (b ParentBand) Even() bool { return b.Index%2 == 0 }

// MergeParentBands groups the category keys, in axis order, into runs of the
// same parent and measures each run on band.
func MergeParentBands(keys []string, band scale.Band) []ParentBand {
	var out []ParentBand
	bw := band.Bandwidth()
	for i := 0; i < len(keys); {
		parent, _ := model.SplitComposite(keys[i])
		lo, hi := math.Inf(1), math.Inf(-1)
		j := i
		for ; j < len(keys); j++ {
			if p, _ := model.SplitComposite(keys[j]); p != parent {
				break
			}
			pos, _ := band.Position(keys[j])
			lo = min(lo, pos)
			hi = max(hi, pos+bw)
		}
		out = append(out, ParentBand{
			Parent: parent,
			Index:  len(out),
			First:  i,
			Count:  j - i,
			Start:  lo,
			End:    hi,
		})
		i = j
	}

	for k := 0; k+1 < len(out); k++ {
		cur, next := &out[k], out[k+1]
		cur.HasBoundary = true
		if next.Start >= cur.End-eps {
			cur.Boundary = cur.End
		} else {
			cur.Boundary = cur.Start
		}
	}
	return out
}
