package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/dotplot/pkg/cache"
	"github.com/matzehuels/dotplot/pkg/dataview"
	"github.com/matzehuels/dotplot/pkg/errors"
	"github.com/matzehuels/dotplot/pkg/layout"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/observability"
	"github.com/matzehuels/dotplot/pkg/render"
	"github.com/matzehuels/dotplot/pkg/sorting"
	"github.com/matzehuels/dotplot/pkg/transform"
)

// Runner executes updates with caching. It holds no per-update state, so
// one Runner may serve concurrent updates.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer] and a nil logger uses [log.Default].
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Update runs transform, sort, layout and render for dv.
//
// The returned error is non-nil only for invalid options, render failures
// and recovered panics; each of those is also reported through the failed
// lifecycle signal.
func (r *Runner) Update(ctx context.Context, dv *dataview.DataView, opts Options) (res *Result, err error) {
	id := uuid.NewString()
	hooks := observability.Render()
	start := time.Now()
	hooks.OnRenderStarted(ctx, id)

	defer func() {
		if v := recover(); v != nil {
			res = nil
			err = errors.Wrap(errors.ErrCodeRender, errors.Recovered(v), "update %s panicked", id)
		}
		if err != nil {
			r.Logger.Error("update failed", "id", id, "err", err)
			hooks.OnRenderFailed(ctx, id, err)
			return
		}
		hooks.OnRenderFinished(ctx, id, res.Stats.Points, time.Since(start))
	}()

	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger.With("id", id[:8])

	res = &Result{ID: id, Artifacts: make(map[string][]byte)}
	res.InputHash, err = cache.HashJSON(dv, opts.Settings)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "fingerprint input")
	}

	// Stage 1: Transform
	t0 := time.Now()
	res.Collection = transform.Transform(dv, transform.Options{Palette: opts.Palette})
	res.Stats.TransformTime = time.Since(t0)
	hooks.OnStageComplete(ctx, id, StageTransform, res.Stats.TransformTime, nil)
	if res.Collection == nil {
		res.Collection = &model.Collection{}
		res.Degraded = errors.New(errors.ErrCodeMalformedView, "data view has no categories or values")
	}
	res.Stats.Points = res.Collection.Len()
	logger.Debug("transformed data view",
		"points", res.Stats.Points,
		"duration", res.Stats.TransformTime)

	// Stage 2: Sort
	t0 = time.Now()
	res.Sort = sorting.Sort(res.Collection, sorting.FromSettings(opts.Settings))
	res.Stats.SortTime = time.Since(t0)
	res.Stats.Unmatched = res.Sort.Unmatched
	hooks.OnStageComplete(ctx, id, StageSort, res.Stats.SortTime, nil)
	if res.Sort.Unmatched > 0 {
		logger.Warn("points without a category order sort first",
			"unmatched", res.Sort.Unmatched)
	}

	// Stage 3: Layout
	if res.Degraded == nil {
		t0 = time.Now()
		g, lerr := layout.Compute(res.Collection, opts.Settings, opts.Viewport(), opts.Measurer)
		res.Stats.LayoutTime = time.Since(t0)
		hooks.OnStageComplete(ctx, id, StageLayout, res.Stats.LayoutTime, lerr)
		switch {
		case lerr == nil:
		case errors.Is(lerr, errors.ErrCodeLogDomain), errors.Is(lerr, errors.ErrCodeMalformedView):
			res.Degraded = lerr
		default:
			return nil, lerr
		}
		res.Geometry = g
		if g != nil {
			logger.Info("computed layout",
				"points", res.Stats.Points,
				"orientation", opts.Settings.Orientation,
				"duration", res.Stats.LayoutTime)
		}
	}
	if res.Degraded != nil {
		logger.Warn("rendering degraded chart", "reason", errors.UserMessage(res.Degraded))
	}

	// Stage 4: Render
	t0 = time.Now()
	frame := render.Frame{
		Collection: res.Collection,
		Geometry:   res.Geometry,
		Settings:   opts.Settings,
		Viewport:   opts.Viewport(),
	}
	hit, rerr := r.renderCached(ctx, frame, res, &opts)
	res.Stats.RenderTime = time.Since(t0)
	res.CacheInfo.RenderHit = hit
	hooks.OnStageComplete(ctx, id, StageRender, res.Stats.RenderTime, rerr)
	if rerr != nil {
		return nil, rerr
	}
	logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", res.Stats.RenderTime)

	return res, nil
}

// renderCached fills res.Artifacts, reusing cached artifacts unless
// opts.Refresh is set. It reports whether every format was a cache hit.
func (r *Runner) renderCached(ctx context.Context, f render.Frame, res *Result, opts *Options) (bool, error) {
	ch := observability.Cache()
	keys := make(map[string]string, len(opts.Formats))
	var missing []string

	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(res.InputHash, opts.ArtifactKeyOpts(format))
		keys[format] = key
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				ch.OnCacheHit(ctx, format)
				res.Artifacts[format] = data
				continue
			} else if err != nil {
				r.Logger.Debug("cache read failed", "format", format, "err", err)
			}
		}
		ch.OnCacheMiss(ctx, format)
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return true, nil
	}

	rendered, err := RenderFrame(f, RenderOptions{
		ElementID: ElementID(res.InputHash),
		Formats:   missing,
		Static:    opts.Static,
		PNGScale:  opts.PNGScale,
	})
	if err != nil {
		return false, err
	}
	for format, data := range rendered {
		res.Artifacts[format] = data
		if err := r.Cache.Set(ctx, keys[format], data, cache.TTLArtifact); err != nil {
			r.Logger.Debug("cache write failed", "format", format, "err", err)
			continue
		}
		ch.OnCacheSet(ctx, format, len(data))
	}
	return false, nil
}

// ElementID derives the root element id of a document from its input hash,
// so cached documents stay valid across updates.
func ElementID(inputHash string) string {
	if len(inputHash) > 12 {
		inputHash = inputHash[:12]
	}
	return "dotplot-" + inputHash
}

// applyLogger sets the runner's logger on opts if none is set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
