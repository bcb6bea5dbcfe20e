package workspace

import "nerdpad/internal/types"

// ReadFile returns a snapshot of the file at path. The second return is
// false when the path does not resolve to a file; absence is a normal
// outcome, not an error.
func (s *Store) ReadFile(path string) (types.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.resolve(path)
	if !ok || n.kind != types.KindFile {
		return types.Node{}, false
	}
	return snapshot(n), true
}

// Lookup returns a snapshot of the node at path, file or folder.
func (s *Store) Lookup(path string) (types.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.resolve(path)
	if !ok {
		return types.Node{}, false
	}
	return snapshot(n), true
}

// FindByID mirrors path lookup for consumers that track nodes by id, which
// stays stable while a node's path can change out from under it.
func (s *Store) FindByID(id string) (types.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.nodes[id]
	if !ok {
		return types.Node{}, false
	}
	return snapshot(n), true
}

// List returns snapshots of a folder's children in creation order. An empty
// slice when path is not a folder or not found.
func (s *Store) List(path string) []types.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.resolve(path)
	if !ok || n.kind != types.KindFolder {
		return nil
	}
	out := make([]types.Node, 0, len(n.children))
	for _, cid := range n.children {
		if c := s.nodes[cid]; c != nil {
			out = append(out, snapshot(c))
		}
	}
	return out
}

// Parent returns the parent of the node at path. False for the root and for
// unresolvable paths.
func (s *Store) Parent(path string) (types.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.resolve(path)
	if !ok || n.id == s.rootID {
		return types.Node{}, false
	}
	p, ok := s.nodes[n.parentID]
	if !ok {
		return types.Node{}, false
	}
	return snapshot(p), true
}

// IsFolder reports whether path resolves to a folder.
func (s *Store) IsFolder(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.resolve(path)
	return ok && n.kind == types.KindFolder
}

// Root returns a snapshot of the root folder.
func (s *Store) Root() types.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.nodes[s.rootID])
}

// AllFiles returns every file in the tree, depth first in creation order.
func (s *Store) AllFiles() []types.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []types.Node
	s.walkFiles(s.nodes[s.rootID], &out)
	return out
}

// FilesUnder returns every file at or below path: the file itself when path
// is a file, all descendant files when it is a folder. Paths in the result
// are canonical node paths, whatever shape the caller-supplied address had.
func (s *Store) FilesUnder(path string) []types.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.resolve(path)
	if !ok {
		return nil
	}
	var out []types.Node
	s.walkFiles(n, &out)
	return out
}

func (s *Store) walkFiles(n *node, out *[]types.Node) {
	if n == nil {
		return
	}
	if n.kind == types.KindFile {
		*out = append(*out, snapshot(n))
		return
	}
	for _, cid := range n.children {
		s.walkFiles(s.nodes[cid], out)
	}
}

// HasUnsavedChanges reports whether any file in the tree is dirty; gates the
// unsaved-changes warning on exit.
func (s *Store) HasUnsavedChanges() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.anyUnsaved(s.nodes[s.rootID])
}

func (s *Store) anyUnsaved(n *node) bool {
	if n == nil {
		return false
	}
	if n.kind == types.KindFile {
		return !n.saved
	}
	for _, cid := range n.children {
		if s.anyUnsaved(s.nodes[cid]) {
			return true
		}
	}
	return false
}
