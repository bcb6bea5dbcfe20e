package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nerdpad/internal/kv"
	"nerdpad/internal/types"
	"nerdpad/internal/workspace"
)

func newTestSession(t *testing.T) (*Session, *workspace.Store, kv.Store) {
	t.Helper()
	mem := kv.NewMemoryStore()
	ws := workspace.New(mem)
	return New(mem, ws), ws, mem
}

func TestOpenAndReopen(t *testing.T) {
	s, _, _ := newTestSession(t)

	require.True(t, s.Open("/main.py"))
	require.True(t, s.Open("/main.js"))
	require.Len(t, s.Tabs(), 2)

	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "/main.js", active.FilePath)

	// Reopening an existing tab activates it without duplicating.
	require.True(t, s.Open("/main.py"))
	assert.Len(t, s.Tabs(), 2)
	active, _ = s.Active()
	assert.Equal(t, "/main.py", active.FilePath)

	assert.False(t, s.Open("/missing.py"))
	assert.False(t, s.Open("/"), "folders cannot open in tabs")
}

func TestOpenRefreshesPathAfterRename(t *testing.T) {
	s, ws, _ := newTestSession(t)

	require.True(t, s.Open("/main.py"))
	require.True(t, s.Open("/main.c"))
	require.NoError(t, ws.Rename("/main.py", "entry.py"))

	// The tab still references the file by id; reopening refreshes the path.
	require.True(t, s.Open("/entry.py"))
	tabs := s.Tabs()
	require.Len(t, tabs, 2)
	assert.Equal(t, "/entry.py", tabs[0].FilePath)
}

func TestCloseActivationFallsForward(t *testing.T) {
	s, ws, _ := newTestSession(t)

	var ids []string
	for _, p := range []string{"/main.c", "/main.py", "/main.js"} {
		require.True(t, s.Open(p))
		n, _ := ws.ReadFile(p)
		ids = append(ids, n.ID)
	}

	// Close the active middle tab: activation falls to the tab now occupying
	// the same index (the one after it).
	require.True(t, s.Activate(ids[1]))
	require.True(t, s.Close(ids[1]))
	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, ids[2], active.FileID)

	// Close the active last tab: activation falls back to the previous index.
	require.True(t, s.Close(ids[2]))
	active, ok = s.Active()
	require.True(t, ok)
	assert.Equal(t, ids[0], active.FileID)

	// Closing the only tab leaves nothing active.
	require.True(t, s.Close(ids[0]))
	_, ok = s.Active()
	assert.False(t, ok)
	assert.Empty(t, s.Tabs())

	assert.False(t, s.Close("no-such-tab"))
}

func TestCloseInactiveKeepsActive(t *testing.T) {
	s, ws, _ := newTestSession(t)

	require.True(t, s.Open("/main.c"))
	require.True(t, s.Open("/main.py"))
	first, _ := ws.ReadFile("/main.c")

	require.True(t, s.Close(first.ID))
	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "/main.py", active.FilePath)
}

func TestSessionPersistsAcrossLoads(t *testing.T) {
	s, ws, mem := newTestSession(t)

	require.True(t, s.Open("/main.py"))
	require.True(t, s.Open("/main.js"))
	n, _ := ws.ReadFile("/main.py")
	require.True(t, s.Activate(n.ID))

	reloaded := New(mem, ws)
	tabs := reloaded.Tabs()
	require.Len(t, tabs, 2)
	assert.Equal(t, "/main.py", tabs[0].FilePath)
	active, ok := reloaded.Active()
	require.True(t, ok)
	assert.Equal(t, n.ID, active.FileID)
}

func TestStaleTabsPrunedOnLoad(t *testing.T) {
	s, ws, mem := newTestSession(t)

	require.True(t, s.Open("/main.py"))
	require.True(t, s.Open("/main.js"))
	require.True(t, ws.Delete("/main.js"))

	reloaded := New(mem, ws)
	tabs := reloaded.Tabs()
	require.Len(t, tabs, 1, "deleted file's tab pruned on load")
	assert.Equal(t, "/main.py", tabs[0].FilePath)

	// The stale active id falls back to the first surviving tab.
	active, ok := reloaded.Active()
	require.True(t, ok)
	assert.Equal(t, tabs[0].FileID, active.FileID)
}

func TestLoadRefreshesRenamedTabPaths(t *testing.T) {
	s, ws, mem := newTestSession(t)

	require.True(t, s.Open("/main.py"))
	require.NoError(t, ws.Rename("/main.py", "entry.py"))

	reloaded := New(mem, ws)
	tabs := reloaded.Tabs()
	require.Len(t, tabs, 1)
	assert.Equal(t, "/entry.py", tabs[0].FilePath, "persisted path refreshed from live node")
}

func TestLayoutClamping(t *testing.T) {
	s, _, _ := newTestSession(t)

	assert.Equal(t, DefaultLayout(), s.Layout())

	tests := []struct {
		name string
		drag float64
		want float64
	}{
		{"in range", 30, 30},
		{"above max", 80, MaxExplorerPct},
		{"below min", 8, MinExplorerPct},
		{"collapse", 2, 0},
		{"at collapse threshold", ExplorerCollapsePct, MinExplorerPct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.SetExplorerWidth(tt.drag))
		})
	}

	assert.Equal(t, MinEditorPct, s.SetEditorHeight(5))
	assert.Equal(t, MaxEditorPct, s.SetEditorHeight(99))
	assert.Equal(t, 50.0, s.SetEditorHeight(50))
}

func TestLayoutPersistsAcrossLoads(t *testing.T) {
	s, ws, mem := newTestSession(t)

	s.SetExplorerWidth(33)
	s.SetEditorHeight(60)

	reloaded := New(mem, ws)
	assert.Equal(t, types.Layout{ExplorerWidthPct: 33, EditorHeightPct: 60}, reloaded.Layout())
}

func TestCollapsedExplorerStaysCollapsed(t *testing.T) {
	s, ws, mem := newTestSession(t)

	s.SetExplorerWidth(1) // collapse
	reloaded := New(mem, ws)
	assert.Equal(t, 0.0, reloaded.Layout().ExplorerWidthPct)
}
