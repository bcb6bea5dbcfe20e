// Package session tracks editing state that lives next to the workspace
// tree but is persisted independently: the ordered list of open tabs, the
// active tab, and panel layout metrics.
package session

import (
	"encoding/json"
	"sync"

	"nerdpad/internal/kv"
	"nerdpad/internal/logging"
	"nerdpad/internal/types"
	"nerdpad/internal/workspace"
)

// Session owns tab order, activation and layout. Tabs reference files by id,
// so they survive renames; stale tabs (file deleted since last run) are
// pruned on load.
type Session struct {
	mu       sync.Mutex
	kv       kv.Store
	ws       *workspace.Store
	tabs     []types.Tab
	activeID string
	layout   types.Layout
}

// New loads session state from the key-value store, dropping tabs whose file
// no longer resolves and refreshing paths for the ones that do.
func New(store kv.Store, ws *workspace.Store) *Session {
	s := &Session{kv: store, ws: ws, layout: DefaultLayout()}

	if raw, err := store.Get(kv.KeyOpenTabs); err == nil {
		var tabs []types.Tab
		if err := json.Unmarshal([]byte(raw), &tabs); err == nil {
			for _, t := range tabs {
				n, ok := ws.FindByID(t.FileID)
				if !ok || !n.IsFile() {
					logging.SessionDebug("Pruned stale tab %s (%s)", t.FileID, t.FilePath)
					continue
				}
				t.FilePath = n.Path
				s.tabs = append(s.tabs, t)
			}
		}
	}

	if raw, err := store.Get(kv.KeyActiveTab); err == nil {
		if s.tabIndex(raw) >= 0 {
			s.activeID = raw
		}
	}
	if s.activeID == "" && len(s.tabs) > 0 {
		s.activeID = s.tabs[0].FileID
	}

	if raw, err := store.Get(kv.KeyLayout); err == nil {
		var l types.Layout
		if err := json.Unmarshal([]byte(raw), &l); err == nil {
			s.layout = clampLayout(l)
		}
	}

	logging.Session("Session loaded: %d tabs, active=%s", len(s.tabs), s.activeID)
	return s
}

// Open opens the file at path in a tab and activates it. When a tab for the
// file already exists it is reused and its recorded path refreshed from the
// live node. Returns false when the path does not resolve to a file.
func (s *Session) Open(path string) bool {
	n, ok := s.ws.ReadFile(path)
	if !ok {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.tabIndex(n.ID); i >= 0 {
		s.tabs[i].FilePath = n.Path
	} else {
		s.tabs = append(s.tabs, types.Tab{FileID: n.ID, FilePath: n.Path})
	}
	s.activeID = n.ID
	s.persistLocked()

	logging.SessionDebug("Opened tab %s", n.Path)
	return true
}

// Close removes the tab for fileID. If it was active, activation falls
// forward to the tab now occupying the same index, else the previous index,
// else none. Closing an unknown tab is a no-op returning false.
func (s *Session) Close(fileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.tabIndex(fileID)
	if i < 0 {
		return false
	}
	s.tabs = append(s.tabs[:i], s.tabs[i+1:]...)

	if s.activeID == fileID {
		switch {
		case i < len(s.tabs):
			s.activeID = s.tabs[i].FileID
		case len(s.tabs) > 0:
			s.activeID = s.tabs[len(s.tabs)-1].FileID
		default:
			s.activeID = ""
		}
	}
	s.persistLocked()
	return true
}

// Activate makes an already-open tab active. False when no tab exists for
// fileID.
func (s *Session) Activate(fileID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tabIndex(fileID) < 0 {
		return false
	}
	s.activeID = fileID
	s.persistLocked()
	return true
}

// Tabs returns a copy of the ordered tab list.
func (s *Session) Tabs() []types.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Tab, len(s.tabs))
	copy(out, s.tabs)
	return out
}

// Active returns the active tab, or false when no tab is active.
func (s *Session) Active() (types.Tab, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.tabIndex(s.activeID)
	if i < 0 {
		return types.Tab{}, false
	}
	return s.tabs[i], true
}

// tabIndex finds the tab for fileID. Caller holds the lock.
func (s *Session) tabIndex(fileID string) int {
	if fileID == "" {
		return -1
	}
	for i, t := range s.tabs {
		if t.FileID == fileID {
			return i
		}
	}
	return -1
}

// persistLocked writes tabs and active id under their own keys; failures are
// logged and ignored. Caller holds the lock.
func (s *Session) persistLocked() {
	if data, err := json.Marshal(s.tabs); err == nil {
		if err := s.kv.Set(kv.KeyOpenTabs, string(data)); err != nil {
			logging.Get(logging.CategorySession).Error("Failed to persist tabs: %v", err)
		}
	}
	if err := s.kv.Set(kv.KeyActiveTab, s.activeID); err != nil {
		logging.Get(logging.CategorySession).Error("Failed to persist active tab: %v", err)
	}
}
