package model

import (
	"reflect"
	"testing"
)

func TestFlagsPresentRoles(t *testing.T) {
	tests := []struct {
		name    string
		flags   Flags
		want    int
		grouped bool
	}{
		{"none", Flags{}, 0, false},
		{"category only", Flags{Category: true}, 1, false},
		{"group and parent", Flags{CategoryGroup: true, Parent: true}, 2, true},
		{"all", Flags{Category: true, CategoryGroup: true, Parent: true, Size: true}, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.PresentRoles(); got != tt.want {
				t.Errorf("PresentRoles() = %d, want %d", got, tt.want)
			}
			if got := tt.flags.Grouped(); got != tt.grouped {
				t.Errorf("Grouped() = %v, want %v", got, tt.grouped)
			}
		})
	}
}

func TestCollectionAccessors(t *testing.T) {
	c := &Collection{
		Points: []DataPoint{
			{CompositeParent: Composite("P1", "A"), Value: 3, CategorySize: 1, CategoryColor: "0.5"},
			{CompositeParent: Composite("P1", "A"), Value: 5, CategorySize: 4, CategoryColor: "red"},
			{CompositeParent: Composite("P2", "B"), Value: 7, CategorySize: 2, CategoryColor: "2"},
		},
		Legend: []LegendEntry{{Label: "Retail", Color: "#01b8aa"}},
	}

	if got := c.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got, want := c.CategoryKeys(), []string{"P1$$$A", "P2$$$B"}; !reflect.DeepEqual(got, want) {
		t.Errorf("CategoryKeys() = %v, want %v", got, want)
	}
	if got, want := c.Values(), []float64{3, 5, 7}; !reflect.DeepEqual(got, want) {
		t.Errorf("Values() = %v, want %v", got, want)
	}
	if got, want := c.SizeValues(), []float64{1, 4, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("SizeValues() = %v, want %v", got, want)
	}
	if got, want := c.ColorValues(), []float64{0.5, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("ColorValues() = %v, want %v", got, want)
	}
	if color, ok := c.LegendColor("Retail"); !ok || color != "#01b8aa" {
		t.Errorf("LegendColor(Retail) = %q, %v", color, ok)
	}
	if _, ok := c.LegendColor("Online"); ok {
		t.Error("LegendColor(Online) ok = true, want false")
	}

	var empty *Collection
	if got := empty.Len(); got != 0 {
		t.Errorf("nil Len() = %d, want 0", got)
	}
}

func TestSplitComposite(t *testing.T) {
	tests := []struct {
		key              string
		parent, category string
	}{
		{Composite("North", "A"), "North", "A"},
		{Composite("", "A"), "", "A"},
		{Composite("North", ""), "North", ""},
		{"bare", "", "bare"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			parent, category := SplitComposite(tt.key)
			if parent != tt.parent || category != tt.category {
				t.Errorf("SplitComposite(%q) = %q, %q, want %q, %q", tt.key, parent, category, tt.parent, tt.category)
			}
		})
	}
}
