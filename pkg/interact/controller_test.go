package interact

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/settings"
)

const rest = 0.8

func marks(specs ...[3]string) []Mark {
	out := make([]Mark, len(specs))
	for i, s := range specs {
		out[i] = Mark{
			ID:         model.SelectionID(fmt.Sprintf("p%d", i)),
			Category:   s[0],
			Group:      s[1],
			Parent:     s[2],
			RestStroke: "#000",
			Stroke:     "#000",
			Opacity:    rest,
		}
	}
	return out
}

func opacities(s Snapshot) []float64 {
	out := make([]float64, len(s.Marks))
	for i, m := range s.Marks {
		out[i] = m.Opacity
	}
	return out
}

func equal(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type rejecting struct{}

func (rejecting) Select(context.Context, model.SelectionID, bool) ([]model.SelectionID, error) {
	return nil, stderrors.New("host refused")
}

func (rejecting) Clear(context.Context) error { return stderrors.New("host refused") }

func TestHighlightClick(t *testing.T) {
	tests := []struct {
		name  string
		marks []Mark
		click int
		want  []float64
	}{
		{
			name:  "category only",
			marks: marks([3]string{"A", "", ""}, [3]string{"B", "", ""}, [3]string{"A", "", ""}),
			click: 0,
			want:  []float64{FullOpacity, DimOpacity, FullOpacity},
		},
		{
			name: "group and parent",
			marks: marks(
				[3]string{"", "G1", "P1"},
				[3]string{"", "G2", "P1"},
				[3]string{"", "G1", "P2"},
			),
			click: 0,
			want:  []float64{FullOpacity, DimOpacity, FullOpacity},
		},
		{
			name: "all three roles",
			marks: marks(
				[3]string{"A", "G1", "P1"},
				[3]string{"A", "G2", "P1"},
				[3]string{"B", "G1", "P1"},
				[3]string{"A", "G1", "P2"},
			),
			click: 0,
			want:  []float64{FullOpacity, DimOpacity, DimOpacity, FullOpacity},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel := NewMemorySelection()
			c := New(sel, Options{HighlightMode: true, RestOpacity: rest})
			c.Reset(tt.marks, nil)

			if err := c.Click(context.Background(), tt.click); err != nil {
				t.Fatalf("Click() error = %v", err)
			}
			snap := c.Snapshot()
			if got := opacities(snap); !equal(got, tt.want) {
				t.Errorf("opacities = %v, want %v", got, tt.want)
			}
			if !snap.ClickActive {
				t.Error("ClickActive = false, want true")
			}
			if got := sel.Selected(); len(got) != 0 {
				t.Errorf("selection = %v, want none in highlight mode", got)
			}
		})
	}
}

func TestCrossFilterClick(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemorySelection(), Options{RestOpacity: rest, HoverStroke: "#f00"})
	c.Reset(marks([3]string{"A", "", ""}, [3]string{"B", "", ""}, [3]string{"C", "", ""}), nil)

	if err := c.Click(ctx, 1); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	want := []float64{DimOpacity, FullOpacity, DimOpacity}
	if got := opacities(c.Snapshot()); !equal(got, want) {
		t.Errorf("after select opacities = %v, want %v", got, want)
	}

	// Clicking the same mark again toggles it off and restores rest state.
	if err := c.Click(ctx, 1); err != nil {
		t.Fatalf("Click() error = %v", err)
	}
	snap := c.Snapshot()
	want = []float64{rest, rest, rest}
	if got := opacities(snap); !equal(got, want) {
		t.Errorf("after deselect opacities = %v, want %v", got, want)
	}
	if snap.ClickActive {
		t.Error("ClickActive = true, want false")
	}
}

func TestClickRejectedKeepsState(t *testing.T) {
	ctx := context.Background()
	c := New(rejecting{}, Options{RestOpacity: rest})
	c.Reset(marks([3]string{"A", "", ""}, [3]string{"B", "", ""}), []LegendMark{{Label: "x", ID: "s0", Opacity: 1}})
	before := c.Snapshot()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"click", func() error { return c.Click(ctx, 0) }},
		{"legend", func() error { return c.LegendClick(ctx, "x") }},
		{"document", func() error { return c.DocumentClick(ctx) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if !errors.Is(err, errors.ErrCodeSelectionRejected) {
				t.Fatalf("error = %v, want %s", err, errors.ErrCodeSelectionRejected)
			}
			after := c.Snapshot()
			if !equal(opacities(after), opacities(before)) {
				t.Errorf("opacities = %v, want %v", opacities(after), opacities(before))
			}
			if len(after.Colors) != 0 {
				t.Errorf("Colors = %v, want empty", after.Colors)
			}
			if after.ClickActive != before.ClickActive {
				t.Errorf("ClickActive = %v, want %v", after.ClickActive, before.ClickActive)
			}
		})
	}
}

func TestClickOutOfRange(t *testing.T) {
	c := New(nil, Options{})
	c.Reset(marks([3]string{"A", "", ""}), nil)
	if err := c.Click(context.Background(), 3); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("error = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

func TestHover(t *testing.T) {
	c := New(nil, Options{RestOpacity: rest, HoverStroke: "#f00"})
	c.Reset(marks([3]string{"A", "", ""}, [3]string{"B", "", ""}), nil)

	c.Hover(1)
	snap := c.Snapshot()
	if got, want := opacities(snap), []float64{DimOpacity, FullOpacity}; !equal(got, want) {
		t.Errorf("hover opacities = %v, want %v", got, want)
	}
	if snap.Marks[1].Stroke != "#f00" {
		t.Errorf("hover stroke = %q, want %q", snap.Marks[1].Stroke, "#f00")
	}

	c.Mouseout()
	snap = c.Snapshot()
	if got, want := opacities(snap), []float64{rest, rest}; !equal(got, want) {
		t.Errorf("mouseout opacities = %v, want %v", got, want)
	}
	if snap.Marks[1].Stroke != "#000" {
		t.Errorf("mouseout stroke = %q, want %q", snap.Marks[1].Stroke, "#000")
	}
}

func TestHoverIgnoredWhileClickActive(t *testing.T) {
	ctx := context.Background()
	c := New(nil, Options{RestOpacity: rest, HoverStroke: "#f00"})
	c.Reset(marks([3]string{"A", "", ""}, [3]string{"B", "", ""}), nil)

	if err := c.Click(ctx, 0); err != nil {
		t.Fatal(err)
	}
	c.Hover(1)
	c.Mouseout()
	if got, want := opacities(c.Snapshot()), []float64{FullOpacity, DimOpacity}; !equal(got, want) {
		t.Errorf("opacities = %v, want %v", got, want)
	}
}

func TestLegendClick(t *testing.T) {
	ctx := context.Background()
	m := marks([3]string{"A", "", ""}, [3]string{"B", "", ""}, [3]string{"C", "", ""})
	m[0].Color, m[1].Color, m[2].Color = "red", "blue", "red"
	legend := []LegendMark{{Label: "red", ID: "s0", Opacity: 1}, {Label: "blue", ID: "s1", Opacity: 1}}

	c := New(NewMemorySelection(), Options{RestOpacity: rest})
	c.Reset(m, legend)

	if err := c.LegendClick(ctx, "red"); err != nil {
		t.Fatalf("LegendClick() error = %v", err)
	}
	snap := c.Snapshot()
	if got, want := opacities(snap), []float64{FullOpacity, DimOpacity, FullOpacity}; !equal(got, want) {
		t.Errorf("opacities = %v, want %v", got, want)
	}
	if snap.Legend[0].Opacity != 1 || snap.Legend[1].Opacity != DimOpacity {
		t.Errorf("legend opacities = %v/%v, want 1/%v", snap.Legend[0].Opacity, snap.Legend[1].Opacity, DimOpacity)
	}

	if err := c.LegendClick(ctx, "red"); err != nil {
		t.Fatalf("LegendClick() error = %v", err)
	}
	snap = c.Snapshot()
	if snap.ClickActive || len(snap.Colors) != 0 {
		t.Errorf("after toggle off: ClickActive = %v, Colors = %v", snap.ClickActive, snap.Colors)
	}
	if got, want := opacities(snap), []float64{rest, rest, rest}; !equal(got, want) {
		t.Errorf("opacities = %v, want %v", got, want)
	}

	if err := c.LegendClick(ctx, "green"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unknown legend error = %v, want %s", err, errors.ErrCodeNotFound)
	}
}

func TestDocumentClick(t *testing.T) {
	ctx := context.Background()
	sel := NewMemorySelection()
	c := New(sel, Options{RestOpacity: rest})
	c.Reset(marks([3]string{"A", "", ""}, [3]string{"B", "", ""}), []LegendMark{{Label: "red", ID: "s0", Opacity: 1}})

	if err := c.Click(ctx, 0); err != nil {
		t.Fatal(err)
	}
	if err := c.DocumentClick(ctx); err != nil {
		t.Fatalf("DocumentClick() error = %v", err)
	}
	snap := c.Snapshot()
	if snap.ClickActive {
		t.Error("ClickActive = true, want false")
	}
	if got, want := opacities(snap), []float64{rest, rest}; !equal(got, want) {
		t.Errorf("opacities = %v, want %v", got, want)
	}
	if got := sel.Selected(); len(got) != 0 {
		t.Errorf("selection = %v, want empty", got)
	}
}

func TestHostHighlights(t *testing.T) {
	m := marks([3]string{"A", "", ""}, [3]string{"B", "", ""})
	m[1].Highlight = true

	c := New(nil, Options{RestOpacity: rest})
	c.Reset(m, nil)
	snap := c.Snapshot()
	if !snap.ClickActive {
		t.Error("ClickActive = false, want true")
	}
	if got, want := opacities(snap), []float64{DimOpacity, FullOpacity}; !equal(got, want) {
		t.Errorf("opacities = %v, want %v", got, want)
	}
}

func TestHighlightEnabled(t *testing.T) {
	s := settings.Default()
	s.Highlight = true
	tests := []struct {
		name  string
		flags model.Flags
		want  bool
	}{
		{"one role", model.Flags{Category: true}, false},
		{"two roles", model.Flags{Category: true, Parent: true}, true},
		{"three roles", model.Flags{Category: true, CategoryGroup: true, Parent: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HighlightEnabled(s, tt.flags); got != tt.want {
				t.Errorf("HighlightEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarksFromOutline(t *testing.T) {
	s := settings.Default()
	s.Dots.Style = settings.StyleOutline
	c := &model.Collection{Points: []model.DataPoint{{Category: "A", SelectionID: "x"}}}
	got := MarksFrom(c, s, func(model.DataPoint) string { return "#123456" })
	if got[0].RestStroke != "#123456" {
		t.Errorf("RestStroke = %q, want %q", got[0].RestStroke, "#123456")
	}
}

func TestMemorySelection(t *testing.T) {
	ctx := context.Background()
	sel := NewMemorySelection()
	tests := []struct {
		id    model.SelectionID
		multi bool
		want  int
	}{
		{"a", true, 1},
		{"b", true, 2},
		{"a", true, 1},
		{"c", false, 1},
		{"c", false, 0},
	}
	for _, tt := range tests {
		got, err := sel.Select(ctx, tt.id, tt.multi)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != tt.want {
			t.Errorf("Select(%s, %v) = %v, want %d ids", tt.id, tt.multi, got, tt.want)
		}
	}
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	sel := NewMemorySelection()
	a := New(sel, Options{RestOpacity: rest})
	a.Reset(marks([3]string{"a", "x", ""}, [3]string{"b", "y", ""}), nil)
	if err := a.Click(ctx, 0); err != nil {
		t.Fatal(err)
	}
	snap := a.Snapshot()

	b := New(NewMemorySelection(sel.Selected()...), Options{RestOpacity: rest})
	b.Restore(snap)
	got := b.Snapshot()
	if !equal(opacities(got), opacities(snap)) || got.ClickActive != snap.ClickActive {
		t.Errorf("Restore() state = %+v, want %+v", got, snap)
	}

	// The restored selection toggles off on a second click.
	if err := b.Click(ctx, 0); err != nil {
		t.Fatal(err)
	}
	if want := []float64{rest, rest}; !equal(opacities(b.Snapshot()), want) {
		t.Errorf("opacities after toggle = %v, want %v", opacities(b.Snapshot()), want)
	}
}
