package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/dotplot/pkg/interact"
	"github.com/matzehuels/dotplot/pkg/model"
)

func exploreFixture() exploreModel {
	c := &model.Collection{Flags: model.Flags{CategoryGroup: true, Parent: true}}
	marks := make([]interact.Mark, 0, 3)
	for _, r := range []struct{ parent, group, id string }{
		{"North", "A", "a"},
		{"North", "B", "b"},
		{"South", "C", "c"},
	} {
		c.Points = append(c.Points, model.DataPoint{
			XCategoryParent: r.parent,
			CategoryGroup:   r.group,
			SelectionID:     model.SelectionID(r.id),
			Value:           1,
		})
		marks = append(marks, interact.Mark{ID: model.SelectionID(r.id), Group: r.group, Parent: r.parent, Opacity: 1})
	}
	ctl := interact.New(interact.NewMemorySelection(), interact.Options{RestOpacity: 1})
	ctl.Reset(marks, nil)
	return newExploreModel(context.Background(), "sales", c, ctl)
}

func press(m exploreModel, keys ...tea.KeyMsg) exploreModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(exploreModel)
	}
	return m
}

func opacities(m exploreModel) []float64 {
	var out []float64
	for _, mk := range m.ctl.Snapshot().Marks {
		out = append(out, mk.Opacity)
	}
	return out
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestExploreNavigation(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want int
	}{
		{"down", []tea.KeyMsg{keyDown}, 1},
		{"vim keys", []tea.KeyMsg{runes("j"), runes("j"), runes("k")}, 1},
		{"clamped at top", []tea.KeyMsg{keyUp}, 0},
		{"clamped at bottom", []tea.KeyMsg{keyDown, keyDown, keyDown, keyDown}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := press(exploreFixture(), tt.keys...).cursor; got != tt.want {
				t.Errorf("cursor = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExploreInteraction(t *testing.T) {
	const (
		dim  = interact.DimOpacity
		full = interact.FullOpacity
	)
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want []float64
	}{
		{"rest", nil, []float64{1, 1, 1}},
		{"click", []tea.KeyMsg{keyDown, keyEnter}, []float64{dim, full, dim}},
		{"clear", []tea.KeyMsg{keyDown, keyEnter, runes("c")}, []float64{1, 1, 1}},
		{"hover", []tea.KeyMsg{runes("h")}, []float64{full, dim, dim}},
		{"hover follows cursor", []tea.KeyMsg{runes("h"), keyDown}, []float64{dim, full, dim}},
		{"hover off", []tea.KeyMsg{runes("h"), runes("h")}, []float64{1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := opacities(press(exploreFixture(), tt.keys...))
			if len(got) != len(tt.want) {
				t.Fatalf("opacities = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("opacities = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestExploreStatus(t *testing.T) {
	m := press(exploreFixture(), keyDown, keyEnter)
	if m.status != "selected North / B" {
		t.Errorf("status = %q, want %q", m.status, "selected North / B")
	}
	if !strings.Contains(m.View(), "selected North / B") {
		t.Error("View() does not show the status line")
	}
}

func TestExploreQuit(t *testing.T) {
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		if _, cmd := exploreFixture().Update(k); cmd == nil {
			t.Errorf("Update(%s) returned no command, want tea.Quit", k)
		}
	}
}

func TestExploreWindowSize(t *testing.T) {
	next, _ := exploreFixture().Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	if got := next.(exploreModel).height; got != 5 {
		t.Errorf("height = %d, want 5", got)
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		p    model.DataPoint
		want string
	}{
		{model.DataPoint{CategoryGroup: "A"}, "A"},
		{model.DataPoint{XCategoryParent: "North", Category: "x"}, "North / x"},
		{model.DataPoint{}, ""},
	}
	for _, tt := range tests {
		if got := label(tt.p); got != tt.want {
			t.Errorf("label(%+v) = %q, want %q", tt.p, got, tt.want)
		}
	}
}

func TestOpacityBar(t *testing.T) {
	tests := []struct {
		o    float64
		want string
	}{
		{1, "██████████"},
		{0.9, "█████████·"},
		{0, "··········"},
	}
	for _, tt := range tests {
		if got := opacityBar(tt.o); got != tt.want {
			t.Errorf("opacityBar(%v) = %q, want %q", tt.o, got, tt.want)
		}
	}
}
