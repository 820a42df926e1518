package store

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"
	"time"

	"github.com/matzehuels/dotplot/pkg/cache"
	dperrors "github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/pipeline"
	"github.com/matzehuels/dotplot/pkg/settings"
)

func record() Record {
	return Record{
		ID:          "3f0c9b1e-0000-4000-8000-000000000001",
		InputHash:   "abc",
		Orientation: settings.OrientationHorizontal,
		Points:      3,
		Artifacts: map[string][]byte{
			pipeline.FormatSVG: []byte("<svg/>"),
			pipeline.FormatDOT: []byte("digraph G {}"),
		},
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
}

func TestCacheArchive(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a := NewCacheArchive(c, nil)

	if _, err := a.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}

	r := record()
	if err := a.Save(ctx, r); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := a.Get(ctx, r.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Points != 3 || string(got.Artifacts[pipeline.FormatSVG]) != "<svg/>" {
		t.Errorf("Get() = %+v, want the saved record", got)
	}
	if !got.CreatedAt.Equal(r.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, r.CreatedAt)
	}
}

func TestRecordFormats(t *testing.T) {
	r := record()
	want := []string{pipeline.FormatSVG, pipeline.FormatDOT}
	if got := r.Formats(); !slices.Equal(got, want) {
		t.Errorf("Formats() = %v, want %v", got, want)
	}
}

func TestFromResult(t *testing.T) {
	res := &pipeline.Result{
		ID:        "r1",
		InputHash: "h",
		Artifacts: map[string][]byte{pipeline.FormatSVG: nil},
		Degraded:  dperrors.New(dperrors.ErrCodeLogDomain, "bad scale"),
		Stats: pipeline.Stats{
			Points:     4,
			Unmatched:  1,
			LayoutTime: 2 * time.Millisecond,
			RenderTime: 3 * time.Millisecond,
		},
	}
	opts := pipeline.Options{Settings: settings.Default(), Width: 640, Height: 480}

	r := FromResult(res, opts)
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"id", r.ID, "r1"},
		{"points", r.Points, 4},
		{"unmatched", r.Unmatched, 1},
		{"width", r.Width, 640.0},
		{"duration", r.DurationMS, int64(5)},
		{"orientation", r.Orientation, settings.OrientationHorizontal},
		{"degraded", r.Degraded, "DOMAIN_LOG_SCALE: bad scale"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

// TestMongoArchive runs against a live server when DOTPLOT_TEST_MONGO is set.
func TestMongoArchive(t *testing.T) {
	uri := os.Getenv("DOTPLOT_TEST_MONGO")
	if uri == "" {
		t.Skip("DOTPLOT_TEST_MONGO not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := NewMongoArchive(ctx, MongoOptions{URI: uri, Database: "dotplot_test", TTL: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close(ctx)

	r := record()
	if err := a.Save(ctx, r); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := a.ByInput(ctx, "abc")
	if err != nil || got.ID != r.ID {
		t.Errorf("ByInput() = (%v, %v), want %s", got, err, r.ID)
	}
	recent, err := a.Recent(ctx, 5)
	if err != nil || len(recent) == 0 || recent[0].Artifacts != nil {
		t.Errorf("Recent() = (%v, %v), want records without artifacts", recent, err)
	}
}
