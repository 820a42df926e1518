// Package transform converts a host data view into the dot plot model.
//
// The transform walks every series group and every row index, dropping rows
// whose primary value is null or not numeric, and builds one
// [model.DataPoint] per retained row. Role presence is recorded in
// [model.Flags] so later stages can decide titles, merging and legend mode.
package transform

import (
	"math"
	"strconv"

	"github.com/google/uuid"

	"github.com/matzehuels/dotplot/pkg/dataview"
	"github.com/matzehuels/dotplot/pkg/format"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/palette"
)

// Sentinels for the running min/max. They only move when a retained measure
// value is seen, so an empty model keeps them.
const (
	InitialMin = 9999999999999.0
	InitialMax = -9999999999999.0
)

// LegendTitleBlank is the title of the placeholder legend used for size-only views.
const LegendTitleBlank = "blank"

// selectionSpace is the UUID namespace of derived selection ids.
var selectionSpace = uuid.MustParse("6f1d3c2e-1b7a-4f0e-9a57-2f8c7d3b9e41")

// Options configures the transform.
type Options struct {
	// Palette assigns legend colors to color categories. Nil uses the default palette.
	Palette palette.Palette
}

// Transform builds the model for dv. It returns nil when the view lacks a
// categorical, values or categories section; that is not an error.
func Transform(dv *dataview.DataView, opts Options) *model.Collection {
	if !dv.Valid() {
		return nil
	}
	if opts.Palette == nil {
		opts.Palette = palette.New()
	}

	t := &transformer{
		dv:  dv,
		cat: dv.Categorical,
		c: &model.Collection{
			MinValue: InitialMin,
			MaxValue: InitialMax,
		},
	}
	_, t.hasColorColumn = dv.ColumnWithRole(dataview.RoleColor)
	t.detectRoles()

	for gi, group := range t.cat.Values.Groups {
		t.walkGroup(gi, group)
	}
	for i := range t.c.Points {
		p := &t.c.Points[i]
		p.CompositeParent = model.Composite(p.XCategoryParent, p.CategoryGroup)
	}

	t.c.GroupLabels, t.c.ParentLabels = Labels(dv)
	t.titles()
	t.legend(opts.Palette)
	return t.c
}

// Labels returns the formatted category group and parent label of every view
// row, in row order. A missing column yields a nil slice.
func Labels(dv *dataview.DataView) (groups, parents []string) {
	if dv == nil || dv.Categorical == nil {
		return nil, nil
	}
	for _, cc := range dv.Categorical.Categories {
		if cc.Source.HasRole(dataview.RoleCategoryGroup) && groups == nil {
			groups = formatColumn(cc)
		}
		if cc.Source.HasRole(dataview.RoleParent) && parents == nil {
			parents = formatColumn(cc)
		}
	}
	return groups, parents
}

func formatColumn(cc dataview.CategoryColumn) []string {
	out := make([]string, len(cc.Values))
	for i, v := range cc.Values {
		out[i] = format.Cell(v, cc.Source)
	}
	return out
}

type transformer struct {
	dv  *dataview.DataView
	cat *dataview.Categorical
	c   *model.Collection

	hasColorColumn bool
	parentIndex    int
	measureSource  string
}

// detectRoles sets the role flags that depend on column presence rather than
// on individual rows, so they hold even when every row is dropped.
func (t *transformer) detectRoles() {
	f := &t.c.Flags
	for i, cc := range t.cat.Categories {
		if cc.Source.HasRole(dataview.RoleCategory) {
			f.Category = true
		}
		if cc.Source.HasRole(dataview.RoleCategoryGroup) {
			f.CategoryGroup = true
		}
		if cc.Source.HasRole(dataview.RoleParent) {
			f.Parent = true
			t.parentIndex = i
		}
	}
	groups := t.cat.Values.Groups
	if len(groups[0].Values) > 0 && groups[0].Values[0].Highlights != nil {
		f.Highlights = true
	}
	for _, g := range groups {
		for _, vc := range g.Values {
			switch {
			case vc.Source.HasRole(dataview.RoleSize):
				f.Size = true
			case vc.Source.HasRole(dataview.RoleColor):
				f.Gradient = true
			}
		}
	}
	f.ColorCategory = t.hasColorColumn && !f.Gradient
}

func (t *transformer) walkGroup(gi int, group dataview.ValueGroup) {
	if len(group.Values) == 0 {
		return
	}
	primary := group.Values[0].Values
	for i := range primary {
		if _, ok := dataview.Number(primary[i]); !ok {
			continue
		}
		p, ok := t.point(gi, group, i)
		if !ok {
			continue
		}
		t.c.Points = append(t.c.Points, p)
	}
}

func (t *transformer) point(gi int, group dataview.ValueGroup, i int) (model.DataPoint, bool) {
	p := model.DataPoint{
		CategoryColor: model.DefaultPointColor,
		CategorySize:  1,
		SelectionID:   selectionID(gi, group.Name, i),
	}

	hasValue := false
	for _, vc := range group.Values {
		raw := dataview.At(vc.Values, i)
		src := vc.Source
		switch {
		case src.HasRole(dataview.RoleMeasure):
			v, ok := dataview.Number(raw)
			if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
				return p, false
			}
			hasValue = true
			p.Value = v
			t.observe(v)
			if h := dataview.At(vc.Highlights, i); h != nil {
				p.Highlight = true
			}
			t.c.MeasureFormat = src.Format
			t.measureSource = src.DisplayName
		case src.HasRole(dataview.RoleSize):
			if v, ok := dataview.Number(raw); ok {
				p.CategorySize = v
			}
			t.c.SizeFormat = src.Format
			t.c.SizeTitle = src.DisplayName
		case src.HasRole(dataview.RoleColor):
			p.CategoryColor = dataview.String(raw)
		}

		// Value columns are appended as-is, duplicates included.
		tip := model.TooltipEntry{Name: src.DisplayName}
		if n, ok := dataview.Number(raw); ok {
			tip.Value = format.Number(n, src.Format)
		}
		p.TooltipEntries = append(p.TooltipEntries, tip)
	}
	if !hasValue {
		// A view without a measure role still plots its primary column.
		v, _ := dataview.Number(dataview.At(group.Values[0].Values, i))
		p.Value = v
		t.observe(v)
	}

	for _, cc := range t.cat.Categories {
		raw := dataview.At(cc.Values, i)
		text := format.Cell(raw, cc.Source)
		if cc.Source.HasRole(dataview.RoleCategory) {
			p.Category = text
		}
		if cc.Source.HasRole(dataview.RoleCategoryGroup) {
			p.CategoryGroup = text
		}
		if cc.Source.HasRole(dataview.RoleParent) {
			p.XCategoryParent = text
		}
		addTooltip(&p, model.TooltipEntry{Name: cc.Source.DisplayName, Value: text})
	}

	if t.c.Flags.ColorCategory {
		col, _ := t.dv.ColumnWithRole(dataview.RoleColor)
		name := dataview.String(group.Name)
		p.CategoryColor = name
		t.c.LegendTitle = col.DisplayName
		p.TooltipEntries = append(p.TooltipEntries, model.TooltipEntry{Name: col.DisplayName, Value: name})
	}

	t.trackLongest(p)
	return p, true
}

func (t *transformer) observe(v float64) {
	if v < t.c.MinValue {
		t.c.MinValue = v
	}
	if v > t.c.MaxValue {
		t.c.MaxValue = v
	}
}

func (t *transformer) trackLongest(p model.DataPoint) {
	f := t.c.Flags
	cur := ""
	switch {
	case f.CategoryGroup:
		cur = p.CategoryGroup
	case f.Parent:
		cur = p.XCategoryParent
	}
	if len(cur) > len(t.c.CatLongestText) {
		t.c.CatLongestText = cur
	}
	if f.Parent && len(p.XCategoryParent) > len(t.c.ParentLongestText) {
		t.c.ParentLongestText = p.XCategoryParent
	}
}

// titles derives default axis titles: the category group column names the
// category axis (or the parent column when there is no group) and the
// measure column names the value axis.
func (t *transformer) titles() {
	for _, cc := range t.cat.Categories {
		if cc.Source.HasRole(dataview.RoleCategoryGroup) {
			t.c.XTitle = cc.Source.DisplayName
		}
	}
	if !t.c.Flags.CategoryGroup && t.c.Flags.Parent {
		t.c.XTitle = t.cat.Categories[t.parentIndex].Source.DisplayName
	}
	t.c.YTitle = t.measureSource
	if t.c.YTitle == "" {
		if g := t.cat.Values.Groups[0]; len(g.Values) > 0 {
			t.c.YTitle = g.Values[0].Source.DisplayName
		}
	}
}

func (t *transformer) legend(p palette.Palette) {
	switch {
	case t.c.Flags.ColorCategory:
		for i, g := range t.cat.Values.Groups {
			if g.Name == nil {
				continue
			}
			label := dataview.String(g.Name)
			t.c.Legend = append(t.c.Legend, model.LegendEntry{
				Label:       label,
				Color:       p.Color(label),
				SelectionID: seriesID(label),
				Value:       i,
			})
		}
	case t.c.Flags.Size:
		t.c.Legend = append(t.c.Legend, model.LegendEntry{
			Label:       model.DummyLegendLabel,
			SelectionID: seriesID(model.DummyLegendLabel),
		})
		t.c.LegendTitle = LegendTitleBlank
	}
}

// addTooltip appends e unless an identical entry is already present.
func addTooltip(p *model.DataPoint, e model.TooltipEntry) {
	for _, existing := range p.TooltipEntries {
		if existing == e {
			return
		}
	}
	p.TooltipEntries = append(p.TooltipEntries, e)
}

func selectionID(group int, name any, row int) model.SelectionID {
	key := dataview.String(name) + "\x00" + strconv.Itoa(group) + "\x00" + strconv.Itoa(row)
	return model.SelectionID(uuid.NewSHA1(selectionSpace, []byte(key)).String())
}

func seriesID(label string) model.SelectionID {
	return model.SelectionID(uuid.NewSHA1(selectionSpace, []byte("series\x00"+label)).String())
}
