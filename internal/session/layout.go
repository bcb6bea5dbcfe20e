package session

import (
	"encoding/json"

	"nerdpad/internal/kv"
	"nerdpad/internal/logging"
	"nerdpad/internal/types"
)

// Layout bounds, in percent of viewport. Dragging the explorer divider below
// the collapse threshold hides the panel entirely (width 0).
const (
	MinExplorerPct      = 12.0
	MaxExplorerPct      = 45.0
	ExplorerCollapsePct = 6.0

	MinEditorPct = 30.0
	MaxEditorPct = 90.0
)

// DefaultLayout returns the first-run panel proportions.
func DefaultLayout() types.Layout {
	return types.Layout{ExplorerWidthPct: 20, EditorHeightPct: 70}
}

// Layout returns the current panel metrics.
func (s *Session) Layout() types.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout
}

// SetExplorerWidth records an explorer divider drag. Values below the
// collapse threshold collapse the panel; everything else clamps to the
// configured range. Returns the applied value.
func (s *Session) SetExplorerWidth(pct float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.layout.ExplorerWidthPct = clampExplorer(pct)
	s.persistLayoutLocked()
	return s.layout.ExplorerWidthPct
}

// SetEditorHeight records an editor/terminal divider drag, clamped to the
// configured range. Returns the applied value.
func (s *Session) SetEditorHeight(pct float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.layout.EditorHeightPct = clampEditor(pct)
	s.persistLayoutLocked()
	return s.layout.EditorHeightPct
}

func clampExplorer(pct float64) float64 {
	switch {
	case pct < ExplorerCollapsePct:
		return 0
	case pct < MinExplorerPct:
		return MinExplorerPct
	case pct > MaxExplorerPct:
		return MaxExplorerPct
	}
	return pct
}

func clampEditor(pct float64) float64 {
	switch {
	case pct < MinEditorPct:
		return MinEditorPct
	case pct > MaxEditorPct:
		return MaxEditorPct
	}
	return pct
}

// clampLayout sanitizes persisted metrics; a collapsed explorer (0) is a
// valid stored state and stays collapsed.
func clampLayout(l types.Layout) types.Layout {
	if l.ExplorerWidthPct != 0 {
		l.ExplorerWidthPct = clampExplorer(l.ExplorerWidthPct)
	}
	l.EditorHeightPct = clampEditor(l.EditorHeightPct)
	return l
}

// persistLayoutLocked writes the layout key; failures are logged and
// ignored. Caller holds the lock.
func (s *Session) persistLayoutLocked() {
	data, err := json.Marshal(s.layout)
	if err != nil {
		return
	}
	if err := s.kv.Set(kv.KeyLayout, string(data)); err != nil {
		logging.Get(logging.CategorySession).Error("Failed to persist layout: %v", err)
	}
}
