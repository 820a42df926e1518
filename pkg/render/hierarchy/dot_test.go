package hierarchy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/dotplot/pkg/model"
)

func grouped() *model.Collection {
	keys := []string{
		model.Composite("North", "A"),
		model.Composite("North", "A"),
		model.Composite("North", "B"),
		model.Composite("South", "C"),
	}
	c := &model.Collection{XTitle: "Region", Flags: model.Flags{CategoryGroup: true, Parent: true}}
	for _, k := range keys {
		c.Points = append(c.Points, model.DataPoint{CompositeParent: k})
	}
	return c
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(grouped(), Options{Counts: true})

	tests := []struct {
		name string
		want string
	}{
		{"root", `"root" [label="Region", fillcolor=lightgrey];`},
		{"parent", `"root" -> "p:North";`},
		{"category", `"p:North" -> "c:North$$$A";`},
		{"count", `[label="A\n(2)"]`},
		{"second parent", `"p:South" -> "c:South$$$C";`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(dot, tt.want) {
				t.Errorf("ToDOT() missing %s\n%s", tt.want, dot)
			}
		})
	}
	if n := strings.Count(dot, `"root" -> "p:North"`); n != 1 {
		t.Errorf("parent edge count = %d, want 1", n)
	}
}

func TestToDOTWithoutParents(t *testing.T) {
	c := &model.Collection{Flags: model.Flags{Category: true}}
	for _, k := range []string{"x", "y"} {
		c.Points = append(c.Points, model.DataPoint{CompositeParent: model.Composite("", k)})
	}
	dot := ToDOT(c, Options{Title: "All"})
	if !strings.Contains(dot, `"root" -> "c:$$$x";`) {
		t.Errorf("ToDOT() = %s, want categories under root", dot)
	}
	if strings.Contains(dot, "p:") {
		t.Errorf("ToDOT() = %s, want no parent nodes", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="120pt" height="80pt" viewBox="0.00 0.00 120.00 80.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.00 80.00" width="120" height="80"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
}

func ExampleToDOT() {
	c := &model.Collection{Flags: model.Flags{Category: true}}
	c.Points = []model.DataPoint{{CompositeParent: model.Composite("", "A")}}
	fmt.Print(ToDOT(c, Options{Title: "Chart"}))
	// Output:
	// digraph G {
	//   rankdir=TB;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
	//   ranksep=0.5;
	//   nodesep=0.3;
	//
	//   "root" [label="Chart", fillcolor=lightgrey];
	//   "c:$$$A" [label="A"];
	//   "root" -> "c:$$$A";
	// }
}
