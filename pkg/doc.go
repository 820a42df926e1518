// Package pkg provides the libraries behind dotplot, a categorical dot plot
// renderer.
//
// # Overview
//
// A dot plot draws one dot per row of a table: the measure runs along the
// value axis and the rows are spread over a category axis, optionally nested
// under parent categories, sized by a second measure and colored by a legend
// category or a gradient.
//
// # Architecture
//
// The typical data flow:
//
//	.json data view / .csv / .xlsx
//	         ↓
//	    [io] + [dataview] (import, column roles)
//	         ↓
//	    [transform] (data view → [model.Collection])
//	         ↓
//	    [sorting] (category orders, sort keys)
//	         ↓
//	    [layout] (margins, [scale] domains, ticks, legend)
//	         ↓
//	    [render] (SVG, JSON geometry; PNG/PDF via [render.ToPNG])
//	         ↓
//	    [interact] (click, hover and legend state over the marks)
//
// [pipeline] runs the first five stages with caching and lifecycle hooks.
//
// # Quick Start
//
//	dv, _ := io.Import("sales.csv", io.Options{})
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, _ := runner.Update(ctx, dv, pipeline.Options{Settings: settings.Default()})
//	svg := res.Artifacts[pipeline.FormatSVG]
//
// # Main Packages
//
// ## Chart Engines
//
// [transform] - Turns a host data view into data points: role lookup, value
// formatting, composite parent keys, highlights and color assignment.
//
// [sorting] - Orders categories by name or value and assigns each point its
// sort key on the category axis.
//
// [layout] - Computes the plot area for either orientation, including label
// margins, the scrolled content size and the color legend.
//
// [scale] - Linear and log scales, nice ticks, the radius scale and color
// gradients.
//
// [render] - SVG drawing of axes, bands, dots and the legend, plus the
// embedded interaction script. [render/hierarchy] draws the category tree
// with Graphviz.
//
// [interact] - The selection and highlight state machine shared by the SVG
// script, the HTTP sessions and the terminal explorer.
//
// ## Infrastructure
//
// [pipeline] - One update end to end, used by CLI, server and explorer.
//
// [cache] - Artifact caches: file (CLI), Redis (server), null (tests).
//
// [store] - Render archives: over the artifact cache or in MongoDB.
//
// [session] - Interactive sessions: memory, file and Redis stores.
//
// [server] - HTTP API for renders and sessions.
//
// [settings] - TOML chart settings, defaults and normalization.
//
// [observability] - Render, cache and server hooks.
//
// [errors] - Error codes shared by every package.
//
// # Testing
//
//	go test ./...                          # All tests
//	go test ./pkg/layout/...               # Specific package
//	go test -run Example ./...             # Examples only
//	DOTPLOT_TEST_REDIS=localhost:6379 go test ./pkg/cache/... ./pkg/session/...
//	DOTPLOT_TEST_MONGO=mongodb://localhost go test ./pkg/store/...
package pkg
