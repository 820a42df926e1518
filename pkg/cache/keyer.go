package cache

import "strings"

// ArtifactKeyOpts holds everything besides the input that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Static bool    `json:"static,omitempty"`

	// Scale is the PNG rasterization factor; zero for other formats.
	Scale float64 `json:"scale,omitempty"`

	// Measurer names the text measurer that sized labels and margins.
	Measurer string `json:"measurer,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey keys one rendered format of an input.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string

	// RenderKey keys the stored result of a render id.
	RenderKey(id string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", inputHash, opts)
}

// RenderKey implements [Keyer].
func (DefaultKeyer) RenderKey(id string) string {
	return "render:" + strings.ToLower(id)
}

// ScopedKeyer prefixes every key of an inner [Keyer], so several tenants can
// share one Redis database.
//
//	k := cache.NewScopedKeyer(nil, "team-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a [DefaultKeyer] when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey implements [Keyer].
func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}

// RenderKey implements [Keyer].
func (k *ScopedKeyer) RenderKey(id string) string {
	return k.prefix + k.inner.RenderKey(id)
}
