// Package sorting orders dot plot points along the category axis.
//
// Orders are built from the row-ordered labels of the category group and
// parent columns: distinct labels keep their first-seen order and are reversed
// for a descending direction. When both columns are present the axis is keyed
// by composite "parent$$$category" labels whose order follows one of four
// branches depending on which directions are descending.
//
// Every point receives a 1-based sort key (its label's position in the
// applicable order) and the collection is stably sorted by that key. A label
// missing from the order gets key 0 and sorts first; such points are counted
// in [Result.Unmatched] so callers can report them.
package sorting

import (
	"slices"

	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/settings"
)

// Options holds the sort direction of each axis.
type Options struct {
	Axis   string
	Parent string
}

// FromSettings returns the sort options configured in s.
func FromSettings(s settings.Settings) Options {
	return Options{Axis: s.Sort.Axis, Parent: s.Sort.Parent}
}

func (o Options) axisDesc() bool   { return o.Axis == settings.SortDescending }
func (o Options) parentDesc() bool { return o.Parent == settings.SortDescending }

// Result reports the orders a sort used.
type Result struct {
	Categories []string
	Parents    []string
	Composites []string
	// Unmatched counts points whose label was not found and received key 0.
	Unmatched int
}

// Sort assigns sort keys to c's points and reorders them in place.
func Sort(c *model.Collection, opts Options) Result {
	var r Result
	if c == nil {
		return r
	}
	f := c.Flags

	if f.CategoryGroup {
		r.Categories = Distinct(c.GroupLabels)
		if opts.axisDesc() {
			slices.Reverse(r.Categories)
		}
	}
	if f.Parent {
		r.Parents = Distinct(c.ParentLabels)
		if opts.parentDesc() {
			slices.Reverse(r.Parents)
		}
	}

	switch {
	case f.Grouped():
		r.Composites = CompositeOrder(c.GroupLabels, c.ParentLabels, opts.axisDesc(), opts.parentDesc())
		r.Unmatched = AssignKeys(c.Points, r.Composites, func(p model.DataPoint) string { return p.CompositeParent })
	case f.Parent:
		r.Unmatched = AssignKeys(c.Points, r.Parents, func(p model.DataPoint) string { return p.XCategoryParent })
	case f.CategoryGroup:
		r.Unmatched = AssignKeys(c.Points, r.Categories, func(p model.DataPoint) string { return p.CategoryGroup })
	default:
		return r
	}

	slices.SortStableFunc(c.Points, func(a, b model.DataPoint) int {
		return a.SortKey - b.SortKey
	})
	return r
}

// Distinct returns values without duplicates, in first-seen order.
func Distinct(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// CompositeOrder returns the distinct composite keys of parallel category and
// parent sequences:
//   - neither descending: first-seen order;
//   - both descending: first-seen order reversed;
//   - parent descending: parents in reversed first-seen order, each followed
//     by its composites in first-seen row order;
//   - category descending: rows scanned from last to first, composites grouped
//     by parent in the order parents appear in that backward scan.
func CompositeOrder(cats, parents []string, catDesc, parentDesc bool) []string {
	n := min(len(cats), len(parents))
	composite := func(i int) string { return model.Composite(parents[i], cats[i]) }

	switch {
	case catDesc && parentDesc:
		out := naturalComposites(n, composite)
		slices.Reverse(out)
		return out
	case parentDesc:
		order := Distinct(parents[:n])
		slices.Reverse(order)
		return groupedComposites(order, parents[:n], composite, false)
	case catDesc:
		backward := slices.Clone(parents[:n])
		slices.Reverse(backward)
		return groupedComposites(Distinct(backward), parents[:n], composite, true)
	}
	return naturalComposites(n, composite)
}

func naturalComposites(n int, composite func(int) string) []string {
	keys := make([]string, n)
	for i := range keys {
		keys[i] = composite(i)
	}
	return Distinct(keys)
}

// groupedComposites emits, for each parent in order, the composites of the
// rows carrying that parent, scanning rows forward or backward.
func groupedComposites(order, parents []string, composite func(int) string, backward bool) []string {
	var keys []string
	for _, parent := range order {
		for j := range parents {
			i := j
			if backward {
				i = len(parents) - 1 - j
			}
			if parents[i] == parent {
				keys = append(keys, composite(i))
			}
		}
	}
	return Distinct(keys)
}

// AssignKeys sets each point's sort key to the 1-based position of key(p) in
// order and returns how many points were not found (key 0).
func AssignKeys(points []model.DataPoint, order []string, key func(model.DataPoint) string) int {
	index := make(map[string]int, len(order))
	for i, label := range order {
		if _, ok := index[label]; !ok {
			index[label] = i + 1
		}
	}
	unmatched := 0
	for i := range points {
		k := index[key(points[i])]
		if k == 0 {
			unmatched++
		}
		points[i].SortKey = k
	}
	return unmatched
}
