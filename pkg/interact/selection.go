package interact

import (
	"context"
	"slices"
	"sync"

	"github.com/matzehuels/dotplot/pkg/model"
)

// SelectionManager is the host side of cross-filtering. Select toggles id
// (multi keeps the other selected ids) and returns the resulting selection.
// Clear deselects everything.
type SelectionManager interface {
	Select(ctx context.Context, id model.SelectionID, multi bool) ([]model.SelectionID, error)
	Clear(ctx context.Context) error
}

// MemorySelection is an in-process SelectionManager. It backs the CLI
// explorer and HTTP sessions.
type MemorySelection struct {
	mu  sync.Mutex
	ids []model.SelectionID
}

// NewMemorySelection returns a selection manager with the given ids
// preselected.
func NewMemorySelection(ids ...model.SelectionID) *MemorySelection {
	return &MemorySelection{ids: slices.Clone(ids)}
}

// Select toggles id. Without multi, the selection collapses to id alone,
// or to nothing when id was the only selected id.
func (m *MemorySelection) Select(ctx context.Context, id model.SelectionID, multi bool) ([]model.SelectionID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	i := slices.Index(m.ids, id)
	switch {
	case multi && i >= 0:
		m.ids = slices.Delete(m.ids, i, i+1)
	case multi:
		m.ids = append(m.ids, id)
	case i >= 0 && len(m.ids) == 1:
		m.ids = nil
	default:
		m.ids = []model.SelectionID{id}
	}
	return slices.Clone(m.ids), nil
}

// Clear empties the selection.
func (m *MemorySelection) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.ids = nil
	m.mu.Unlock()
	return nil
}

// Selected returns a copy of the selected ids.
func (m *MemorySelection) Selected() []model.SelectionID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.ids)
}
