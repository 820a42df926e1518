package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/dotplot/pkg/cache"
	"github.com/matzehuels/dotplot/pkg/dataview"
	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/observability"
	"github.com/matzehuels/dotplot/pkg/settings"
	"github.com/matzehuels/dotplot/pkg/textmeasure"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"hierarchy", false},
		{"dot", false},
		{"gif", true},
		{"SVG", true},
		{"", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want %s", tt.format, errors.GetCode(err), errors.ErrCodeInvalidFormat)
		}
	}

	if err := ValidateFormats([]string{"svg", "gif"}); err == nil {
		t.Error("ValidateFormats() accepted gif")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("ValidateFormats(nil) error = %v", err)
	}
}

func TestValidateViewport(t *testing.T) {
	tests := []struct {
		w, h    float64
		wantErr bool
	}{
		{800, 600, false},
		{1, 1, false},
		{0, 600, true},
		{800, -1, true},
		{MaxViewport + 1, 600, true},
	}
	for _, tt := range tests {
		if err := ValidateViewport(tt.w, tt.h); (err != nil) != tt.wantErr {
			t.Errorf("ValidateViewport(%v, %v) error = %v, wantErr %v", tt.w, tt.h, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Settings: settings.Default()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("viewport = %vx%v, want %vx%v", opts.Width, opts.Height, DefaultWidth, DefaultHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.PNGScale != DefaultPNGScale {
		t.Errorf("PNGScale = %v, want %v", opts.PNGScale, DefaultPNGScale)
	}

	opts.Width = -5
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() = %v, want no-op", err)
	}

	bad := Options{Settings: settings.Default()}
	bad.Settings.Orientation = "diagonal"
	if err := bad.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidSettings) {
		t.Errorf("ValidateAndSetDefaults() error = %v, want %s", err, errors.ErrCodeInvalidSettings)
	}
}

// =============================================================================
// Update
// =============================================================================

type recorder struct {
	observability.NoopRenderHooks
	mu       sync.Mutex
	started  int
	finished int
	failed   []error
	stages   []string
}

func (r *recorder) OnRenderStarted(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started++
}

func (r *recorder) OnStageComplete(_ context.Context, _, stage string, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, stage)
}

func (r *recorder) OnRenderFinished(context.Context, string, int, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished++
}

func (r *recorder) OnRenderFailed(_ context.Context, _ string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, err)
}

func record(t *testing.T) *recorder {
	t.Helper()
	rec := &recorder{}
	observability.SetRenderHooks(rec)
	t.Cleanup(observability.Reset)
	return rec
}

func sales(t *testing.T, values ...float64) *dataview.DataView {
	t.Helper()
	fields := []dataview.Field{
		{Name: "Region", Role: dataview.RoleCategoryGroup},
		{Name: "Sales", Role: dataview.RoleMeasure},
	}
	regions := []string{"East", "West", "North", "South"}
	var rows [][]any
	for i, v := range values {
		rows = append(rows, []any{regions[i%len(regions)], v})
	}
	dv, err := dataview.FromRows(fields, rows)
	if err != nil {
		t.Fatalf("FromRows() error = %v", err)
	}
	return dv
}

func options(formats ...string) Options {
	return Options{
		Settings: settings.Default(),
		Width:    400,
		Height:   300,
		Formats:  formats,
		Measurer: textmeasure.Heuristic{},
	}
}

func TestUpdate(t *testing.T) {
	rec := record(t)
	r := NewRunner(nil, nil, nil)

	res, err := r.Update(context.Background(), sales(t, 10, 20, 5), options(FormatSVG, FormatJSON, FormatDOT))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if res.Degraded != nil {
		t.Errorf("Degraded = %v, want nil", res.Degraded)
	}
	if res.Stats.Points != 3 {
		t.Errorf("Stats.Points = %d, want 3", res.Stats.Points)
	}
	if got := strings.Count(string(res.Artifacts[FormatSVG]), `class="dotPlot_dot"`); got != 3 {
		t.Errorf("SVG dots = %d, want 3", got)
	}
	if !strings.Contains(string(res.Artifacts[FormatSVG]), `id="`+ElementID(res.InputHash)+`"`) {
		t.Error("SVG root id does not derive from the input hash")
	}
	if !strings.HasPrefix(string(res.Artifacts[FormatDOT]), "digraph G {") {
		t.Errorf("DOT artifact = %q", res.Artifacts[FormatDOT])
	}
	if len(res.Artifacts[FormatJSON]) == 0 {
		t.Error("JSON artifact is empty")
	}

	want := []string{StageTransform, StageSort, StageLayout, StageRender}
	if strings.Join(rec.stages, ",") != strings.Join(want, ",") {
		t.Errorf("stages = %v, want %v", rec.stages, want)
	}
	if rec.started != 1 || rec.finished != 1 || len(rec.failed) != 0 {
		t.Errorf("lifecycle = started %d finished %d failed %d, want 1/1/0", rec.started, rec.finished, len(rec.failed))
	}
}

func TestUpdateWithoutValues(t *testing.T) {
	rec := record(t)
	dv, err := dataview.Read(strings.NewReader(`{
		"metadata": {"columns": []},
		"categorical": {"categories": [{"source": {"displayName": "Region", "roles": {"category": true}}, "values": ["East"]}]}
	}`))
	if err != nil {
		t.Fatal(err)
	}

	res, err := NewRunner(nil, nil, nil).Update(context.Background(), dv, options(FormatSVG))
	if err != nil {
		t.Fatalf("Update() error = %v, want nil", err)
	}
	if !errors.Is(res.Degraded, errors.ErrCodeMalformedView) {
		t.Errorf("Degraded = %v, want %s", res.Degraded, errors.ErrCodeMalformedView)
	}
	svg := string(res.Artifacts[FormatSVG])
	for _, class := range []string{"dotPlot_dot", "measureLabel", "categoryLabel"} {
		if strings.Contains(svg, class) {
			t.Errorf("empty chart contains %s", class)
		}
	}
	if rec.finished != 1 || len(rec.failed) != 0 {
		t.Errorf("lifecycle = finished %d failed %d, want 1/0", rec.finished, len(rec.failed))
	}
}

func TestUpdateLogDomain(t *testing.T) {
	opts := options(FormatSVG)
	opts.Settings.XAxis.Scale = settings.ScaleLog

	res, err := NewRunner(nil, nil, nil).Update(context.Background(), sales(t, 0, 10), opts)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !errors.Is(res.Degraded, errors.ErrCodeLogDomain) {
		t.Errorf("Degraded = %v, want %s", res.Degraded, errors.ErrCodeLogDomain)
	}
	if strings.Contains(string(res.Artifacts[FormatSVG]), "dotPlot_dot") {
		t.Error("error panel contains marks")
	}
}

func TestUpdateInvalidOptions(t *testing.T) {
	rec := record(t)
	_, err := NewRunner(nil, nil, nil).Update(context.Background(), sales(t, 1), options("gif"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("Update() error = %v, want %s", err, errors.ErrCodeInvalidFormat)
	}
	if rec.started != 1 || rec.finished != 0 || len(rec.failed) != 1 {
		t.Errorf("lifecycle = started %d finished %d failed %d, want 1/0/1", rec.started, rec.finished, len(rec.failed))
	}
}

type panicMeasurer struct{}

func (panicMeasurer) Width(textmeasure.TextProperties) float64  { panic("measure") }
func (panicMeasurer) Height(textmeasure.TextProperties) float64 { panic("measure") }

func TestUpdateRecoversPanic(t *testing.T) {
	rec := record(t)
	opts := options(FormatSVG)
	opts.Measurer = panicMeasurer{}

	res, err := NewRunner(nil, nil, nil).Update(context.Background(), sales(t, 1, 2), opts)
	if res != nil {
		t.Error("Update() returned a result after a panic")
	}
	if !errors.Is(err, errors.ErrCodeRender) {
		t.Fatalf("Update() error = %v, want %s", err, errors.ErrCodeRender)
	}
	var pe *errors.PanicError
	if !stderrors.As(err, &pe) || pe.Value != "measure" {
		t.Errorf("Update() error = %v, want the recovered panic value", err)
	}
	if len(rec.failed) != 1 || rec.failed[0] != err {
		t.Errorf("failed signals = %v, want [%v]", rec.failed, err)
	}
}

func TestUpdateCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	ctx := context.Background()
	dv := sales(t, 3, 4)

	tests := []struct {
		name     string
		refresh  bool
		measurer textmeasure.Measurer
		wantHit  bool
	}{
		{"cold", false, textmeasure.Heuristic{}, false},
		{"warm", false, textmeasure.Heuristic{}, true},
		{"refresh", true, textmeasure.Heuristic{}, false},
		{"other measurer", false, wideMeasurer{}, false},
		{"other measurer warm", false, wideMeasurer{}, true},
	}
	rendered := map[string][]byte{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options(FormatSVG)
			opts.Refresh = tt.refresh
			opts.Measurer = tt.measurer
			res, err := r.Update(ctx, dv, opts)
			if err != nil {
				t.Fatalf("Update() error = %v", err)
			}
			if res.CacheInfo.RenderHit != tt.wantHit {
				t.Errorf("RenderHit = %v, want %v", res.CacheInfo.RenderHit, tt.wantHit)
			}
			key := fmt.Sprintf("%T", tt.measurer)
			if prev, ok := rendered[key]; !ok {
				rendered[key] = res.Artifacts[FormatSVG]
			} else if string(res.Artifacts[FormatSVG]) != string(prev) {
				t.Error("cached SVG differs from the rendered one")
			}
		})
	}
}

// wideMeasurer sizes text at twice the heuristic width.
type wideMeasurer struct{}

func (wideMeasurer) Width(p textmeasure.TextProperties) float64 {
	return 2 * textmeasure.Heuristic{}.Width(p)
}

func (wideMeasurer) Height(p textmeasure.TextProperties) float64 {
	return textmeasure.Heuristic{}.Height(p)
}

func TestArtifactKeyOpts(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		scale     float64
		wantScale float64
	}{
		{"png keeps scale", FormatPNG, 3, 3},
		{"png default scale", FormatPNG, 0, DefaultPNGScale},
		{"svg ignores scale", FormatSVG, 3, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options(tt.format)
			opts.PNGScale = tt.scale
			if err := opts.ValidateAndSetDefaults(); err != nil {
				t.Fatalf("ValidateAndSetDefaults() error = %v", err)
			}
			k := opts.ArtifactKeyOpts(tt.format)
			if k.Scale != tt.wantScale {
				t.Errorf("Scale = %v, want %v", k.Scale, tt.wantScale)
			}
			if k.Measurer != "textmeasure.Heuristic" {
				t.Errorf("Measurer = %q, want textmeasure.Heuristic", k.Measurer)
			}
		})
	}

	keyer := cache.NewDefaultKeyer()
	lo, hi := options(FormatPNG), options(FormatPNG)
	lo.PNGScale, hi.PNGScale = 1, 4
	if keyer.ArtifactKey("h", lo.ArtifactKeyOpts(FormatPNG)) == keyer.ArtifactKey("h", hi.ArtifactKeyOpts(FormatPNG)) {
		t.Error("ArtifactKey() is the same for PNG scales 1 and 4")
	}
}

func TestStatsTotal(t *testing.T) {
	s := Stats{TransformTime: 1, SortTime: 2, LayoutTime: 3, RenderTime: 4}
	if got := s.Total(); got != 10 {
		t.Errorf("Total() = %v, want 10", got)
	}
}
