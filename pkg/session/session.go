// Package session persists interactive chart sessions.
//
// A session pairs the input of a chart (data view, settings, viewport) with
// the interaction state of its marks, so clicks, hovers and legend filters
// sent over HTTP build on each other. Three stores are provided:
//   - memory: in-process map for tests and single-instance servers
//   - file: one JSON file per session for the CLI
//   - redis: shared storage for multi-instance deployments
//
// # Usage
//
//	sess := session.New(dv, settings.Default(), 800, 600, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if errors.Is(err, session.ErrNotFound) {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dotplot/pkg/dataview"
	"github.com/matzehuels/dotplot/pkg/interact"
	"github.com/matzehuels/dotplot/pkg/model"
	"github.com/matzehuels/dotplot/pkg/settings"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist or has expired.
	ErrNotFound = errors.New("session not found")
)

// DefaultTTL is the default session lifetime. Every Set extends it.
const DefaultTTL = 2 * time.Hour

// Session is one interactive chart.
type Session struct {
	ID string `json:"id"`

	DataView *dataview.DataView `json:"data_view"`
	Settings settings.Settings  `json:"settings"`
	Width    float64            `json:"width"`
	Height   float64            `json:"height"`

	// Selected mirrors the selection manager of the session.
	Selected []model.SelectionID `json:"selected,omitempty"`
	// State is the controller state after the last event. It is empty until
	// the first render.
	State interact.Snapshot `json:"state"`

	TTL       time.Duration `json:"ttl"`
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// New creates a session with a random id.
func New(dv *dataview.DataView, s settings.Settings, width, height float64, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		DataView:  dv,
		Settings:  s,
		Width:     width,
		Height:    height,
		TTL:       ttl,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the expiry by the session TTL.
func (s *Session) Touch() {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s.ExpiresAt = time.Now().Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns the session, or ErrNotFound if it is missing or expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores the session, extending its expiry.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions. It may be a no-op for stores with
	// native expiry.
	Cleanup(ctx context.Context) error

	Close() error
}
