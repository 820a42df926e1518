// Package interact implements the interaction state machine of a rendered
// dot plot: click selection, hover, legend filtering and host highlights.
//
// A [Controller] holds the visual state of every mark (stroke and opacity)
// plus the two pieces of state that survive between events: the legend color
// accumulator and the click-active flag. The browser script embedded by the
// SVG renderer implements the same transitions; the Go controller drives the
// terminal explorer and HTTP sessions, and its [Snapshot] can be rendered
// back into an SVG.
//
// # Modes
//
// In cross-filter mode a click is forwarded to the [SelectionManager] and the
// visual update waits for its answer. In highlight mode a click only dims the
// marks that do not share the clicked mark's category combination.
package interact

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/settings"
)

// Opacity levels used while a selection or hover is active.
const (
	DimOpacity  = 0.15
	FullOpacity = 0.9
)

// legendFull is the opacity of a legend item that is not filtered out.
const legendFull = 1.0

// Mark is the interactive state of one plotted point.
type Mark struct {
	ID        model.SelectionID `json:"id"`
	Category  string            `json:"category,omitempty"`
	Group     string            `json:"group,omitempty"`
	Parent    string            `json:"parent,omitempty"`
	Color     string            `json:"color,omitempty"`
	Highlight bool              `json:"highlight,omitempty"`

	// RestStroke is the stroke the mark returns to after hover or reset.
	RestStroke string  `json:"rest_stroke"`
	Stroke     string  `json:"stroke"`
	Opacity    float64 `json:"opacity"`
}

// LegendMark is the interactive state of one color legend item.
type LegendMark struct {
	Label   string            `json:"label"`
	ID      model.SelectionID `json:"id"`
	Opacity float64           `json:"opacity"`
}

// Options configures a Controller.
type Options struct {
	HighlightMode bool
	RestOpacity   float64
	HoverStroke   string
}

// OptionsFrom derives controller options from chart settings and the roles
// present in the current view.
func OptionsFrom(s settings.Settings, f model.Flags) Options {
	return Options{
		HighlightMode: HighlightEnabled(s, f),
		RestOpacity:   s.DotOpacity(),
		HoverStroke:   s.Dots.HoverColor,
	}
}

// HighlightEnabled reports whether highlight mode applies. It is switched off
// when fewer than two of category, category group and parent are present.
func HighlightEnabled(s settings.Settings, f model.Flags) bool {
	return s.Highlight && f.PresentRoles() >= 2
}

// MarksFrom builds resting marks for every point of c. fill resolves the
// point color, which outline dots use as their stroke.
func MarksFrom(c *model.Collection, s settings.Settings, fill func(model.DataPoint) string) []Mark {
	marks := make([]Mark, len(c.Points))
	for i, p := range c.Points {
		stroke := s.Dots.BorderColor
		if s.Dots.Style == settings.StyleOutline {
			stroke = fill(p)
		}
		marks[i] = Mark{
			ID:         p.SelectionID,
			Category:   p.Category,
			Group:      p.CategoryGroup,
			Parent:     p.XCategoryParent,
			Color:      p.CategoryColor,
			Highlight:  p.Highlight,
			RestStroke: stroke,
			Stroke:     stroke,
			Opacity:    s.DotOpacity(),
		}
	}
	return marks
}

// LegendFrom builds legend marks for the color legend of c.
func LegendFrom(c *model.Collection) []LegendMark {
	if !c.Flags.ColorCategory {
		return nil
	}
	out := make([]LegendMark, len(c.Legend))
	for i, e := range c.Legend {
		out[i] = LegendMark{Label: e.Label, ID: e.SelectionID, Opacity: legendFull}
	}
	return out
}

// Snapshot is a copy of the controller state.
type Snapshot struct {
	Marks         []Mark       `json:"marks"`
	Legend        []LegendMark `json:"legend,omitempty"`
	ClickActive   bool         `json:"click_active"`
	Colors        []string     `json:"colors,omitempty"`
	HighlightMode bool         `json:"highlight_mode"`
}

// Controller applies interaction events to a set of marks. Handlers are
// serialized; visual state changes only after the selection manager answers.
type Controller struct {
	sel  SelectionManager
	opts Options

	hmu sync.Mutex // serializes handlers

	mu          sync.RWMutex
	marks       []Mark
	legend      []LegendMark
	colors      []string
	clickActive bool
}

// New returns a controller without marks. Call Reset to load a chart.
func New(sel SelectionManager, opts Options) *Controller {
	if sel == nil {
		sel = NewMemorySelection()
	}
	return &Controller{sel: sel, opts: opts}
}

// Reset replaces the marks and legend for a new update. The color accumulator
// and click-active flag are cleared, then host highlights are applied.
// In-flight selection calls are not cancelled.
func (c *Controller) Reset(marks []Mark, legend []LegendMark) {
	c.mu.Lock()
	c.marks = slices.Clone(marks)
	c.legend = slices.Clone(legend)
	c.colors = nil
	c.clickActive = false
	c.mu.Unlock()
	c.ApplyHostHighlights()
}

// Restore loads a state previously returned by Snapshot, for example from a
// persisted session. Host highlights are not reapplied.
func (c *Controller) Restore(s Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.marks = slices.Clone(s.Marks)
	c.legend = slices.Clone(s.Legend)
	c.colors = slices.Clone(s.Colors)
	c.clickActive = s.ClickActive
}

// SetOptions replaces the controller options, e.g. after a settings change.
func (c *Controller) SetOptions(opts Options) {
	c.mu.Lock()
	c.opts = opts
	c.mu.Unlock()
}

// Len returns the number of marks.
func (c *Controller) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.marks)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		Marks:         slices.Clone(c.marks),
		Legend:        slices.Clone(c.legend),
		ClickActive:   c.clickActive,
		Colors:        slices.Clone(c.colors),
		HighlightMode: c.opts.HighlightMode,
	}
}

// =============================================================================
// Handlers
// =============================================================================

// Click handles a click on mark i.
func (c *Controller) Click(ctx context.Context, i int) error {
	c.hmu.Lock()
	defer c.hmu.Unlock()

	c.mu.Lock()
	if i < 0 || i >= len(c.marks) {
		c.mu.Unlock()
		return errors.New(errors.ErrCodeNotFound, "mark %d out of range", i)
	}
	clicked := c.marks[i]
	if c.opts.HighlightMode {
		c.marks[i].Stroke = clicked.RestStroke
		c.clickActive = true
		for j := range c.marks {
			c.marks[j].Opacity = opacity(sameCombination(clicked, c.marks[j]))
		}
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	ids, err := c.sel.Select(ctx, clicked.ID, true)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSelectionRejected, err, "select %s", clicked.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for j := range c.marks {
		if c.marks[j].ID == clicked.ID {
			c.marks[j].Stroke = c.marks[j].RestStroke
		}
	}
	c.applySelection(ids)
	c.applyLegendFilter()
	return nil
}

// Hover raises mark i and dims the rest, unless a click selection is active.
func (c *Controller) Hover(i int) {
	c.hmu.Lock()
	defer c.hmu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clickActive || i < 0 || i >= len(c.marks) {
		return
	}
	for j := range c.marks {
		c.marks[j].Opacity = DimOpacity
	}
	c.marks[i].Opacity = FullOpacity
	c.marks[i].Stroke = c.opts.HoverStroke
}

// Mouseout restores resting stroke and opacity, unless a click selection is
// active.
func (c *Controller) Mouseout() {
	c.hmu.Lock()
	defer c.hmu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.clickActive {
		return
	}
	c.restMarks()
}

// LegendClick toggles label in the color accumulator and selects the legend
// item's series.
func (c *Controller) LegendClick(ctx context.Context, label string) error {
	c.hmu.Lock()
	defer c.hmu.Unlock()

	c.mu.RLock()
	k := slices.IndexFunc(c.legend, func(l LegendMark) bool { return l.Label == label })
	var id model.SelectionID
	if k >= 0 {
		id = c.legend[k].ID
	}
	c.mu.RUnlock()
	if k < 0 {
		return errors.New(errors.ErrCodeNotFound, "legend item %q not found", label)
	}

	ids, err := c.sel.Select(ctx, id, true)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSelectionRejected, err, "select legend %q", label)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if i := slices.Index(c.colors, label); i >= 0 {
		c.colors = slices.Delete(c.colors, i, i+1)
	} else {
		c.colors = append(c.colors, label)
	}
	c.applySelection(ids)
	c.applyLegendFilter()
	return nil
}

// DocumentClick clears the selection and restores every mark and legend item.
func (c *Controller) DocumentClick(ctx context.Context) error {
	c.hmu.Lock()
	defer c.hmu.Unlock()

	if err := c.sel.Clear(ctx); err != nil {
		return errors.Wrap(errors.ErrCodeSelectionRejected, err, "clear selection")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.clickActive = false
	c.colors = nil
	c.restMarks()
	for i := range c.legend {
		c.legend[i].Opacity = legendFull
	}
	return nil
}

// ApplyHostHighlights dims every mark the host did not highlight. It reports
// whether any mark carries a highlight; if none does, nothing changes.
func (c *Controller) ApplyHostHighlights() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !slices.ContainsFunc(c.marks, func(m Mark) bool { return m.Highlight }) {
		return false
	}
	c.clickActive = true
	for i := range c.marks {
		c.marks[i].Opacity = opacity(c.marks[i].Highlight)
	}
	return true
}

// =============================================================================
// State helpers (callers hold mu)
// =============================================================================

// applySelection dims marks that are neither selected nor in the color
// accumulator. An empty selection restores resting state.
func (c *Controller) applySelection(ids []model.SelectionID) {
	if len(ids) == 0 {
		c.clickActive = false
		c.restMarks()
		return
	}
	c.clickActive = true
	for i, m := range c.marks {
		keep := slices.Contains(ids, m.ID) || slices.Contains(c.colors, m.Color)
		c.marks[i].Opacity = opacity(keep)
	}
}

func (c *Controller) applyLegendFilter() {
	for i, l := range c.legend {
		if len(c.colors) > 0 && !slices.Contains(c.colors, l.Label) {
			c.legend[i].Opacity = DimOpacity
		} else {
			c.legend[i].Opacity = legendFull
		}
	}
}

func (c *Controller) restMarks() {
	for i := range c.marks {
		c.marks[i].Stroke = c.marks[i].RestStroke
		c.marks[i].Opacity = c.opts.RestOpacity
	}
}

// sameCombination reports whether other matches clicked on the most specific
// role combination clicked carries.
func sameCombination(clicked, other Mark) bool {
	switch {
	case clicked.Group != "" && clicked.Parent != "" && clicked.Category != "":
		return other.Category == clicked.Category && other.Group == clicked.Group
	case clicked.Group != "" && clicked.Parent != "":
		return other.Group == clicked.Group
	default:
		return other.Category == clicked.Category
	}
}

func opacity(full bool) float64 {
	if full {
		return FullOpacity
	}
	return DimOpacity
}
