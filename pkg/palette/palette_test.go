package palette

import "testing"

func TestFixedColor(t *testing.T) {
	p := New("#ff0000", "#00ff00")

	tests := []struct {
		key  string
		want string
	}{
		{"a", "#ff0000"},
		{"b", "#00ff00"},
		{"a", "#ff0000"},
	}
	for _, tt := range tests {
		if got := p.Color(tt.key); got != tt.want {
			t.Errorf("Color(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}

	c := p.Color("c")
	if c == "#ff0000" || c == "" {
		t.Errorf("Color(c) = %q, want a darkened variant", c)
	}
	if again := p.Color("c"); again != c {
		t.Errorf("Color(c) second call = %q, want %q", again, c)
	}
}

func TestNewFallback(t *testing.T) {
	p := New("not-a-color")
	if got := p.Color("x"); got != "#01b8aa" {
		t.Errorf("Color(x) = %q, want #01b8aa", got)
	}
	p.Reset()
	if got := p.Color("y"); got != "#01b8aa" {
		t.Errorf("Color(y) after Reset = %q, want #01b8aa", got)
	}
}
