// Package workspace implements the virtual file tree at the heart of
// nerdpad: an in-memory hierarchy of files and folders with path-based
// addressing, collision detection, and write-through persistence.
//
// The tree is held as an arena of nodes keyed by id; parents and children
// reference each other by id and paths are cached on each node, recomputed
// on every structural change. All public methods return value snapshots,
// never pointers into the arena, so callers can never hold a reference that
// goes stale across a rename or delete.
//
// Every successful mutation serializes the whole tree to the key-value
// store. Persist failures are logged and otherwise ignored; corrupt or
// missing persisted state is replaced by a freshly seeded default workspace.
package workspace

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"nerdpad/internal/kv"
	"nerdpad/internal/lang"
	"nerdpad/internal/logging"
	"nerdpad/internal/types"
)

// node is a live arena entry. Never escapes the package.
type node struct {
	id       string
	kind     types.Kind
	name     string
	path     string
	language types.Language
	content  string
	saved    bool
	parentID string
	children []string // child ids, creation order
}

// Store is the sole owner and arbiter of the workspace tree.
type Store struct {
	mu     sync.RWMutex
	kv     kv.Store
	nodes  map[string]*node
	byPath map[string]string
	rootID string
}

// New constructs a Store backed by the given key-value store. Persisted
// state is loaded if present and parseable; anything else synthesizes the
// default workspace (one source file per supported language plus a readme).
func New(store kv.Store) *Store {
	s := &Store{
		kv:     store,
		nodes:  make(map[string]*node),
		byPath: make(map[string]string),
	}

	raw, err := store.Get(kv.KeyWorkspace)
	if err == nil {
		if loadErr := s.loadTree(raw); loadErr == nil {
			logging.Workspace("Loaded workspace: %d nodes", len(s.nodes))
			return s
		} else {
			logging.Get(logging.CategoryWorkspace).Warn("Persisted workspace unreadable, reseeding: %v", loadErr)
		}
	}

	s.seedDefault()
	s.persistLocked()
	logging.Workspace("Seeded default workspace: %d nodes", len(s.nodes))
	return s
}

// newNode allocates an arena entry and indexes it. Caller holds the lock.
func (s *Store) newNode(kind types.Kind, name, parentID string) *node {
	n := &node{
		id:       uuid.NewString(),
		kind:     kind,
		name:     name,
		parentID: parentID,
	}
	s.nodes[n.id] = n
	return n
}

// attach appends child to parent and computes its path. Caller holds the
// lock and has already checked collisions.
func (s *Store) attach(parent, child *node) {
	child.parentID = parent.id
	parent.children = append(parent.children, child.id)
	child.path = childPath(parent.path, child.name)
	s.byPath[child.path] = child.id
}

// seedDefault builds the first-run workspace. Seeded files are marked saved;
// only user edits dirty a file.
func (s *Store) seedDefault() {
	s.nodes = make(map[string]*node)
	s.byPath = make(map[string]string)

	root := s.newNode(types.KindFolder, "/", "")
	root.path = "/"
	s.rootID = root.id
	s.byPath["/"] = root.id

	for _, l := range types.Languages {
		f := s.newNode(types.KindFile, lang.FileName(l), root.id)
		f.language = l
		f.content = lang.Template(l)
		f.saved = true
		s.attach(root, f)
	}

	readme := s.newNode(types.KindFile, "README.md", root.id)
	readme.language = lang.Infer(readme.name)
	readme.content = defaultReadme
	readme.saved = true
	s.attach(root, readme)
}

const defaultReadme = `# Welcome to nerdpad

Create files in c, cpp, java, javascript or python and run them from the
active tab. Your workspace is saved locally after every change.
`

// resolve returns the live node at path, normalizing the address first.
// Caller holds the lock.
func (s *Store) resolve(p string) (*node, bool) {
	id, ok := s.byPath[normalizePath(p)]
	if !ok {
		return nil, false
	}
	n, ok := s.nodes[id]
	return n, ok
}

// snapshot copies a live node into the public value shape.
func snapshot(n *node) types.Node {
	return types.Node{
		ID:       n.id,
		Kind:     n.kind,
		Name:     n.name,
		Path:     n.path,
		Language: n.language,
		Content:  n.content,
		Saved:    n.saved,
	}
}

// hasChildNamed reports a case-sensitive sibling name collision under
// parent, ignoring the node with skipID (for renames). Caller holds the lock.
func (s *Store) hasChildNamed(parent *node, name, skipID string) bool {
	for _, cid := range parent.children {
		c := s.nodes[cid]
		if c != nil && c.id != skipID && c.name == name {
			return true
		}
	}
	return false
}

// recomputePaths refreshes the cached path of n and every descendant after
// a rename or move, keeping the byPath index in step. Caller holds the lock.
func (s *Store) recomputePaths(n *node) {
	delete(s.byPath, n.path)
	parent := s.nodes[n.parentID]
	n.path = childPath(parent.path, n.name)
	s.byPath[n.path] = n.id

	for _, cid := range n.children {
		if c := s.nodes[cid]; c != nil {
			s.recomputePaths(c)
		}
	}
}

// detach removes n from its parent's child list. Caller holds the lock.
func (s *Store) detach(n *node) {
	parent := s.nodes[n.parentID]
	if parent == nil {
		return
	}
	for i, cid := range parent.children {
		if cid == n.id {
			parent.children = append(parent.children[:i], parent.children[i+1:]...)
			return
		}
	}
}

// removeSubtree deletes n and all descendants from the arena and indexes.
// Caller holds the lock; n must already be detached.
func (s *Store) removeSubtree(n *node) {
	for _, cid := range n.children {
		if c := s.nodes[cid]; c != nil {
			s.removeSubtree(c)
		}
	}
	delete(s.byPath, n.path)
	delete(s.nodes, n.id)
}

// validName rejects empty names and names containing a path separator.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !containsSlash(name)
}

func containsSlash(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' {
			return true
		}
	}
	return false
}

// childPath joins a parent path and a name with no double slashes; the root
// path "/" contributes no extra separator.
func childPath(parentPath, name string) string {
	if parentPath == "/" {
		return "/" + name
	}
	return parentPath + "/" + name
}

// normalizePath canonicalizes a caller-supplied address: leading slash
// enforced, trailing slash dropped (except root).
func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		p = "/" + p
	}
	for len(p) > 1 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}
	return p
}

// persistLocked serializes the tree under the workspace key. Write failures
// are non-fatal. Caller holds the lock.
func (s *Store) persistLocked() {
	raw, err := s.encodeTree()
	if err != nil {
		logging.Get(logging.CategoryWorkspace).Error("Failed to encode workspace: %v", err)
		return
	}
	if err := s.kv.Set(kv.KeyWorkspace, raw); err != nil {
		logging.Get(logging.CategoryWorkspace).Error("Failed to persist workspace: %v", err)
	}
}

// Flush forces a persistence write outside the mutation path, for shutdown
// hooks.
func (s *Store) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, err := s.encodeTree()
	if err != nil {
		return fmt.Errorf("failed to encode workspace: %w", err)
	}
	if err := s.kv.Set(kv.KeyWorkspace, raw); err != nil {
		return fmt.Errorf("failed to persist workspace: %w", err)
	}
	return nil
}
