package buildinfo

import (
	"strings"
	"testing"
)

func TestReadFromLinker(t *testing.T) {
	version, commit, date = "v1.2.3", "abc123", "2025-01-02T03:04:05Z"
	t.Cleanup(func() { version, commit, date = "", "", "" })

	got := Read()
	want := Info{Version: "v1.2.3", Commit: "abc123", Date: "2025-01-02T03:04:05Z"}
	if got != want {
		t.Errorf("Read() = %+v, want %+v", got, want)
	}
	if !strings.Contains(Template(), "version v1.2.3") {
		t.Errorf("Template() = %q, want the version", Template())
	}
	if s := String(); !strings.HasPrefix(s, "version: v1.2.3\ncommit: abc123") {
		t.Errorf("String() = %q", s)
	}
}

func TestReadDefaults(t *testing.T) {
	got := Read()
	if got.Version == "" || got.Commit == "" || got.Date == "" {
		t.Errorf("Read() = %+v, want every field set", got)
	}
}
