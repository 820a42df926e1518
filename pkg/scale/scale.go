// Package scale maps data values to pixel positions, radii and colors.
//
// The layout engine builds one measure scale ([Linear] or [Log]) and one
// categorical [Band] scale per update. [Radius] encodes the size role,
// [Gradient] the continuous color role, and [Jitter] produces the
// deterministic offsets applied to categorical coordinates.
package scale

import (
	"math"

	mscale "github.com/aclements/go-moremath/scale"
)

// =============================================================================
// Linear
// =============================================================================

// Linear maps a continuous domain onto a pixel range.
type Linear struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLinear returns a linear scale from [d0,d1] to [r0,r1].
func NewLinear(d0, d1, r0, r1 float64) Linear {
	return Linear{Domain: [2]float64{d0, d1}, Range: [2]float64{r0, r1}}
}

// Map returns the range position of v. A degenerate domain maps every value
// to the middle of the range.
func (l Linear) Map(v float64) float64 {
	span := l.Domain[1] - l.Domain[0]
	if span == 0 {
		return (l.Range[0] + l.Range[1]) / 2
	}
	t := (v - l.Domain[0]) / span
	return l.Range[0] + t*(l.Range[1]-l.Range[0])
}

// WithRange returns a copy of l with a new range.
func (l Linear) WithRange(r0, r1 float64) Linear {
	l.Range = [2]float64{r0, r1}
	return l
}

// Ticks returns at most n nice tick values inside the domain.
func (l Linear) Ticks(n int) []float64 {
	return NiceTicks(l.Domain[0], l.Domain[1], n)
}

// =============================================================================
// Log
// =============================================================================

// Log maps a positive domain onto a pixel range in log10 space.
type Log struct {
	Domain [2]float64
	Range  [2]float64
}

// NewLog returns a log scale whose domain is widened to the enclosing powers
// of ten of [d0,d1]. Both bounds must be positive.
func NewLog(d0, d1, r0, r1 float64) Log {
	lo, hi := LogBounds(d0, d1)
	return Log{Domain: [2]float64{lo, hi}, Range: [2]float64{r0, r1}}
}

// LogBounds returns 10^floor(log10 lo) and 10^ceil(log10 hi).
func LogBounds(lo, hi float64) (float64, float64) {
	a := math.Pow(10, math.Floor(math.Log10(lo)))
	b := math.Pow(10, math.Ceil(math.Log10(hi)))
	if b <= a {
		b = a * 10
	}
	return a, b
}

// Map returns the range position of v.
func (l Log) Map(v float64) float64 {
	if v <= 0 {
		return l.Range[0]
	}
	a, b := math.Log10(l.Domain[0]), math.Log10(l.Domain[1])
	if a == b {
		return (l.Range[0] + l.Range[1]) / 2
	}
	t := (math.Log10(v) - a) / (b - a)
	return l.Range[0] + t*(l.Range[1]-l.Range[0])
}

// WithRange returns a copy of l with a new range.
func (l Log) WithRange(r0, r1 float64) Log {
	l.Range = [2]float64{r0, r1}
	return l
}

// Ticks returns the powers of ten spanning the domain.
func (l Log) Ticks() []float64 {
	lo := int(math.Round(math.Log10(l.Domain[0])))
	hi := int(math.Round(math.Log10(l.Domain[1])))
	out := make([]float64, 0, hi-lo+1)
	for e := lo; e <= hi; e++ {
		out = append(out, math.Pow(10, float64(e)))
	}
	return out
}

// =============================================================================
// Measure
// =============================================================================

// Measure is the common interface of the measure axis scales.
type Measure interface {
	Map(v float64) float64
}

// MeasureTicks returns the tick values of a measure scale.
func MeasureTicks(m Measure, n int) []float64 {
	switch s := m.(type) {
	case Linear:
		return s.Ticks(n)
	case Log:
		return s.Ticks()
	}
	return nil
}

// =============================================================================
// Band
// =============================================================================

// Band is an ordinal scale dividing a pixel range into equal bands, one per
// key, without padding. A range given high-to-low is laid out from the low
// end and then reversed, so the first key takes the band nearest r0.
type Band struct {
	keys  []string
	index map[string]int
	start float64
	step  float64
	rev   bool
}

// NewBand returns a band scale over keys spanning [r0,r1].
func NewBand(keys []string, r0, r1 float64) Band {
	b := Band{keys: keys, index: make(map[string]int, len(keys))}
	for i, k := range keys {
		if _, ok := b.index[k]; !ok {
			b.index[k] = i
		}
	}
	lo, hi := r0, r1
	if r1 < r0 {
		lo, hi = r1, r0
		b.rev = true
	}
	b.start = lo
	if n := len(keys); n > 0 {
		b.step = (hi - lo) / float64(n)
	}
	return b
}

// Keys returns the domain in order.
func (b Band) Keys() []string { return b.keys }

// Bandwidth returns the width of one band.
func (b Band) Bandwidth() float64 { return b.step }

// Position returns the start of key's band.
func (b Band) Position(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return 0, false
	}
	return b.At(i), true
}

// At returns the start of the i-th band.
func (b Band) At(i int) float64 {
	if b.rev {
		i = len(b.keys) - 1 - i
	}
	return b.start + float64(i)*b.step
}

// Center returns the midpoint of key's band.
func (b Band) Center(key string) (float64, bool) {
	p, ok := b.Position(key)
	return p + b.step/2, ok
}

// =============================================================================
// Radius
// =============================================================================

// Radius maps size values linearly onto a radius range.
type Radius struct {
	lin Linear
}

// NewRadius builds a radius scale from the observed size values to [lo,hi].
// Without values every size maps to lo.
func NewRadius(sizes []float64, lo, hi float64) Radius {
	dmin, dmax := Extent(sizes)
	if len(sizes) == 0 {
		dmin, dmax = 0, 0
	}
	return Radius{lin: NewLinear(dmin, dmax, lo, hi)}
}

// Map returns the radius for size v. When every size is equal, every dot
// gets the smallest radius.
func (r Radius) Map(v float64) float64 {
	if r.lin.Domain[0] == r.lin.Domain[1] {
		return r.lin.Range[0]
	}
	return r.lin.Map(v)
}

// Range returns the radius bounds.
func (r Radius) Range() (float64, float64) {
	return r.lin.Range[0], r.lin.Range[1]
}

// Extent returns the minimum and maximum of values, ignoring NaN.
// Empty input yields (+Inf, -Inf).
func Extent(values []float64) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// =============================================================================
// Jitter
// =============================================================================

// JitterSpread bounds jitter offsets to [-JitterSpread, JitterSpread).
const JitterSpread = 10

// Jitter is a deterministic pseudo-random sequence. Each call to Next
// consumes one draw, so replaying the same call order reproduces the same
// offsets. The zero value is not ready; use [NewJitter].
type Jitter struct {
	seed float64
}

// NewJitter returns a sequence starting at seed 1.
func NewJitter() *Jitter {
	return &Jitter{seed: 1}
}

// Next returns the next offset, an integer in [-10, 10).
func (j *Jitter) Next() float64 {
	x := math.Sin(j.seed) * 10000
	j.seed++
	r := x - math.Floor(x)
	return math.Floor(r*2*JitterSpread) - JitterSpread
}

// =============================================================================
// Ticks
// =============================================================================

// NiceTicks returns at most n evenly spaced round values within [lo,hi].
// Steps are 1, 2 or 5 times a power of ten.
func NiceTicks(lo, hi float64, n int) []float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if n < 1 || math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	if lo == hi {
		return []float64{lo}
	}

	count := func(level int) int {
		step := tickStep(level)
		return int(math.Floor(hi/step) - math.Ceil(lo/step) + 1)
	}
	ticks := func(level int) []float64 {
		step := tickStep(level)
		first := math.Ceil(lo / step)
		out := make([]float64, max(count(level), 0))
		for i := range out {
			out[i] = cleanFloat((first + float64(i)) * step)
		}
		return out
	}
	guess := 3 * int(math.Floor(math.Log10(hi-lo)))

	o := mscale.TickOptions{Max: n}
	level, ok := o.FindLevel(ticker{count: count, ticks: ticks}, guess)
	if !ok {
		return []float64{lo, hi}
	}
	return ticks(level)
}

// ticker adapts tick level functions to [mscale.Ticker].
type ticker struct {
	count func(level int) int
	ticks func(level int) []float64
}

func (t ticker) CountTicks(level int) int { return t.count(level) }

func (t ticker) TicksAtLevel(level int) interface{} { return t.ticks(level) }

// tickStep returns the step of a tick level: level 3k is 10^k, 3k+1 is
// 2*10^k and 3k+2 is 5*10^k.
func tickStep(level int) float64 {
	exp := level / 3
	rem := level % 3
	if rem < 0 {
		rem += 3
		exp--
	}
	return []float64{1, 2, 5}[rem] * math.Pow(10, float64(exp))
}

// cleanFloat rounds away binary noise from multiplied steps.
func cleanFloat(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
