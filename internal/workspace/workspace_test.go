package workspace

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nerdpad/internal/kv"
	"nerdpad/internal/types"
)

func newTestStore(t *testing.T) (*Store, kv.Store) {
	t.Helper()
	mem := kv.NewMemoryStore()
	return New(mem), mem
}

// checkPathInvariant walks the tree and asserts that every reachable node's
// path equals its parent's path joined with its name, with the root
// contributing no extra slash.
func checkPathInvariant(t *testing.T, s *Store, folderPath string) {
	t.Helper()
	for _, n := range s.List(folderPath) {
		want := folderPath + "/" + n.Name
		if folderPath == "/" {
			want = "/" + n.Name
		}
		assert.Equal(t, want, n.Path, "path invariant broken for %s", n.Name)
		if n.IsFolder() {
			checkPathInvariant(t, s, n.Path)
		}
	}
}

func TestDefaultSeed(t *testing.T) {
	s, _ := newTestStore(t)

	files := s.AllFiles()
	require.Len(t, files, 6, "five language files plus a readme")

	byName := map[string]types.Node{}
	for _, f := range files {
		byName[f.Name] = f
		assert.True(t, f.Saved, "seeded file %s should start saved", f.Name)
	}
	assert.Equal(t, types.LangPython, byName["main.py"].Language)
	assert.Equal(t, types.LangJava, byName["Main.java"].Language)
	assert.Contains(t, byName["main.py"].Content, "Hello, World!")

	assert.False(t, s.HasUnsavedChanges())
	checkPathInvariant(t, s, "/")
}

func TestCreateFile(t *testing.T) {
	s, _ := newTestStore(t)

	n, err := s.CreateFile("/", "solve.py", "")
	require.NoError(t, err)
	assert.Equal(t, "/solve.py", n.Path)
	assert.Equal(t, types.LangPython, n.Language)
	assert.False(t, n.Saved, "new files start unsaved")
	assert.Contains(t, n.Content, "print", "content seeded from template")

	assert.True(t, s.HasUnsavedChanges())
}

func TestCreateFileErrors(t *testing.T) {
	s, _ := newTestStore(t)

	tests := []struct {
		name       string
		parentPath string
		fileName   string
		language   types.Language
		wantErr    error
	}{
		{"duplicate name", "/", "main.py", "", types.ErrCollision},
		{"missing parent", "/nope", "a.py", "", types.ErrNotFound},
		{"parent is a file", "/main.py", "a.py", "", types.ErrNotAFolder},
		{"unknown extension", "/", "x.unknown", "", types.ErrUnsupportedExtension},
		{"unknown extension with explicit language", "/", "x.unknown", types.LangPython, types.ErrUnsupportedExtension},
		{"no extension", "/", "Makefile", "", types.ErrUnsupportedExtension},
		{"bogus explicit language", "/", "a.py", "cobol", types.ErrUnsupportedExtension},
		{"empty name", "/", "", "", types.ErrInvalidName},
		{"name with slash", "/", "a/b.py", "", types.ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.AllFiles()
			_, err := s.CreateFile(tt.parentPath, tt.fileName, tt.language)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, cmp.Diff(before, s.AllFiles()), "failed create must not mutate the tree")
		})
	}
}

func TestCreateFileExplicitLanguageOverride(t *testing.T) {
	s, _ := newTestStore(t)

	// Extension says javascript, explicit language wins.
	n, err := s.CreateFile("/", "script.js", types.LangPython)
	require.NoError(t, err)
	assert.Equal(t, types.LangPython, n.Language)
}

func TestCreateFolderAndNesting(t *testing.T) {
	s, _ := newTestStore(t)

	src, err := s.CreateFolder("/", "src")
	require.NoError(t, err)
	assert.Equal(t, "/src", src.Path)

	_, err = s.CreateFolder("/", "src")
	require.ErrorIs(t, err, types.ErrCollision)

	// A file and folder with the same name also collide.
	_, err = s.CreateFile("/", "src", types.LangPython)
	require.ErrorIs(t, err, types.ErrCollision)

	deep, err := s.CreateFolder("/src", "util")
	require.NoError(t, err)
	assert.Equal(t, "/src/util", deep.Path)

	f, err := s.CreateFile("/src/util", "a.py", "")
	require.NoError(t, err)
	assert.Equal(t, "/src/util/a.py", f.Path)

	checkPathInvariant(t, s, "/")
}

func TestRenameCascade(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateFolder("/", "src")
	require.NoError(t, err)
	_, err = s.CreateFile("/src", "a.py", "")
	require.NoError(t, err)
	_, err = s.CreateFolder("/src", "inner")
	require.NoError(t, err)
	_, err = s.CreateFile("/src/inner", "b.js", "")
	require.NoError(t, err)

	require.NoError(t, s.Rename("/src", "lib"))

	_, ok := s.Lookup("/src")
	assert.False(t, ok, "old path must not resolve")
	a, ok := s.ReadFile("/lib/a.py")
	require.True(t, ok)
	assert.Equal(t, "/lib/a.py", a.Path)
	b, ok := s.ReadFile("/lib/inner/b.js")
	require.True(t, ok)
	assert.Equal(t, "/lib/inner/b.js", b.Path)

	checkPathInvariant(t, s, "/")
}

func TestRenameRederivesLanguage(t *testing.T) {
	s, _ := newTestStore(t)

	n, err := s.CreateFile("/", "a.py", "")
	require.NoError(t, err)
	require.Equal(t, types.LangPython, n.Language)

	require.NoError(t, s.Rename("/a.py", "a.js"))
	got, ok := s.ReadFile("/a.js")
	require.True(t, ok)
	assert.Equal(t, types.LangJavaScript, got.Language)

	// Unrecognized extension outside the validated creation path falls back
	// to cpp by policy.
	require.NoError(t, s.Rename("/a.js", "a.weird"))
	got, ok = s.ReadFile("/a.weird")
	require.True(t, ok)
	assert.Equal(t, types.LangCPP, got.Language)
}

func TestRenameErrors(t *testing.T) {
	s, _ := newTestStore(t)

	require.ErrorIs(t, s.Rename("/", "root2"), types.ErrRootImmutable)
	require.ErrorIs(t, s.Rename("/missing.py", "x.py"), types.ErrNotFound)
	require.ErrorIs(t, s.Rename("/main.py", "main.c"), types.ErrCollision)
	require.ErrorIs(t, s.Rename("/main.py", "a/b.py"), types.ErrInvalidName)

	// Renaming to the current name is a no-op, not a self-collision.
	require.NoError(t, s.Rename("/main.py", "main.py"))

	before := s.AllFiles()
	_ = s.Rename("/main.py", "main.c")
	assert.Empty(t, cmp.Diff(before, s.AllFiles()), "failed rename must not mutate the tree")
}

func TestMove(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateFolder("/", "src")
	require.NoError(t, err)
	_, err = s.CreateFolder("/src", "inner")
	require.NoError(t, err)
	_, err = s.CreateFile("/src/inner", "a.py", "")
	require.NoError(t, err)
	_, err = s.CreateFolder("/", "lib")
	require.NoError(t, err)

	require.NoError(t, s.Move("/src/inner", "/lib"))
	n, ok := s.ReadFile("/lib/inner/a.py")
	require.True(t, ok)
	assert.Equal(t, "/lib/inner/a.py", n.Path)
	checkPathInvariant(t, s, "/")

	// Collision in the target folder.
	_, err = s.CreateFolder("/src", "inner")
	require.NoError(t, err)
	require.ErrorIs(t, s.Move("/src/inner", "/lib"), types.ErrCollision)

	// A folder cannot move into its own subtree.
	require.ErrorIs(t, s.Move("/lib", "/lib/inner"), types.ErrInvalidMove)

	// Moving to the current parent is a no-op.
	require.NoError(t, s.Move("/lib/inner", "/lib"))

	require.ErrorIs(t, s.Move("/", "/lib"), types.ErrRootImmutable)
	require.ErrorIs(t, s.Move("/lib/inner", "/lib/inner/a.py"), types.ErrNotAFolder)
}

func TestDeleteSubtree(t *testing.T) {
	s, _ := newTestStore(t)
	baseline := len(s.AllFiles())

	_, err := s.CreateFolder("/", "src")
	require.NoError(t, err)
	for _, name := range []string{"a.py", "b.py"} {
		_, err = s.CreateFile("/src", name, "")
		require.NoError(t, err)
	}
	_, err = s.CreateFolder("/src", "inner")
	require.NoError(t, err)
	_, err = s.CreateFile("/src/inner", "c.py", "")
	require.NoError(t, err)
	require.Len(t, s.AllFiles(), baseline+3)

	assert.True(t, s.Delete("/src"))
	assert.Len(t, s.AllFiles(), baseline, "all three descendants removed")
	_, ok := s.Lookup("/src")
	assert.False(t, ok)
	_, ok = s.ReadFile("/src/inner/c.py")
	assert.False(t, ok)

	assert.False(t, s.Delete("/src"), "double delete")
	assert.False(t, s.Delete("/"), "root is immortal")
}

func TestWriteFileIdempotentSave(t *testing.T) {
	s, _ := newTestStore(t)

	require.True(t, s.WriteFile("/main.py", "print(1)\n"))
	n, _ := s.ReadFile("/main.py")
	assert.True(t, n.Saved)
	assert.Equal(t, "print(1)\n", n.Content)

	// Writing the same content again keeps it saved and unchanged.
	require.True(t, s.WriteFile("/main.py", "print(1)\n"))
	n, _ = s.ReadFile("/main.py")
	assert.True(t, n.Saved)
	assert.Equal(t, "print(1)\n", n.Content)

	assert.False(t, s.WriteFile("/missing.py", "x"), "write to missing path")
	assert.False(t, s.WriteFile("/", "x"), "write to a folder")
}

func TestUnsavedAggregate(t *testing.T) {
	s, _ := newTestStore(t)
	require.False(t, s.HasUnsavedChanges())

	// Creating a file always starts it unsaved.
	_, err := s.CreateFile("/", "dirty.py", "")
	require.NoError(t, err)
	assert.True(t, s.HasUnsavedChanges())

	// Saving the only dirty file flips the aggregate back.
	require.True(t, s.WriteFile("/dirty.py", "pass\n"))
	assert.False(t, s.HasUnsavedChanges())

	require.True(t, s.MarkUnsaved("/dirty.py"))
	assert.True(t, s.HasUnsavedChanges())
	assert.False(t, s.MarkUnsaved("/missing.py"))
}

func TestResetFile(t *testing.T) {
	s, _ := newTestStore(t)

	require.True(t, s.WriteFile("/main.py", "print('custom')\n"))
	require.True(t, s.ResetFile("/main.py"))

	n, _ := s.ReadFile("/main.py")
	assert.Contains(t, n.Content, "Hello, World!")
	assert.False(t, n.Saved)
	assert.False(t, s.ResetFile("/nope.py"))
}

func TestQueryHelpers(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateFolder("/", "src")
	require.NoError(t, err)
	f, err := s.CreateFile("/src", "a.py", "")
	require.NoError(t, err)

	assert.True(t, s.IsFolder("/src"))
	assert.False(t, s.IsFolder("/src/a.py"))
	assert.False(t, s.IsFolder("/nope"))

	p, ok := s.Parent("/src/a.py")
	require.True(t, ok)
	assert.Equal(t, "/src", p.Path)
	_, ok = s.Parent("/")
	assert.False(t, ok)

	got, ok := s.FindByID(f.ID)
	require.True(t, ok)
	assert.Equal(t, "/src/a.py", got.Path)
	_, ok = s.FindByID("no-such-id")
	assert.False(t, ok)

	assert.Nil(t, s.List("/src/a.py"), "listing a file yields nothing")
	assert.Nil(t, s.List("/nope"))

	// Paths normalize: trailing slash and missing leading slash both resolve.
	_, ok = s.Lookup("src/a.py")
	assert.True(t, ok)
	assert.True(t, s.IsFolder("/src/"))
}

func TestFilesUnder(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.CreateFolder("/", "src")
	require.NoError(t, err)
	_, err = s.CreateFile("/src", "a.py", "")
	require.NoError(t, err)
	_, err = s.CreateFolder("/src", "inner")
	require.NoError(t, err)
	_, err = s.CreateFile("/src/inner", "b.py", "")
	require.NoError(t, err)

	// A denormalized address resolves and the results carry canonical node
	// paths, so callers can key caches off them directly.
	files := s.FilesUnder("src/")
	require.Len(t, files, 2)
	var paths []string
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	assert.ElementsMatch(t, []string{"/src/a.py", "/src/inner/b.py"}, paths)

	single := s.FilesUnder("/src/a.py")
	require.Len(t, single, 1)
	assert.Equal(t, "/src/a.py", single[0].Path)

	assert.Nil(t, s.FilesUnder("/nope"))
}

func TestPersistenceRoundTrip(t *testing.T) {
	s, mem := newTestStore(t)

	_, err := s.CreateFolder("/", "src")
	require.NoError(t, err)
	_, err = s.CreateFile("/src", "a.py", "")
	require.NoError(t, err)
	require.True(t, s.WriteFile("/src/a.py", "print('hi')\n"))
	require.True(t, s.MarkUnsaved("/main.js"))

	// A second store over the same kv must reconstruct a structurally equal
	// tree: same ids, names, paths, content and saved flags.
	reloaded := New(mem)
	if diff := cmp.Diff(s.AllFiles(), reloaded.AllFiles()); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, s.Root().ID, reloaded.Root().ID)
	checkPathInvariant(t, reloaded, "/")
}

func TestCorruptPersistedDataFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "{{{"},
		{"file root", `{"root":{"id":"r","type":"file","name":"/"}}`},
		{"missing ids", `{"root":{"id":"","type":"folder","name":"/"}}`},
		{"duplicate ids", `{"root":{"id":"r","type":"folder","name":"/","children":[` +
			`{"id":"x","type":"file","name":"a.py"},{"id":"x","type":"file","name":"b.py"}]}}`},
		{"duplicate names", `{"root":{"id":"r","type":"folder","name":"/","children":[` +
			`{"id":"x","type":"file","name":"a.py"},{"id":"y","type":"file","name":"a.py"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := kv.NewMemoryStore()
			require.NoError(t, mem.Set(kv.KeyWorkspace, tt.raw))

			s := New(mem)
			assert.Len(t, s.AllFiles(), 6, "corrupt data reseeds the default workspace")
			checkPathInvariant(t, s, "/")
		})
	}
}

func TestPersistedShapeUsesRootKey(t *testing.T) {
	_, mem := newTestStore(t)

	raw, err := mem.Get(kv.KeyWorkspace)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(raw, `{"root":`), "tree persists as { root: Folder }")
}
