package workspace

import (
	"fmt"

	"nerdpad/internal/lang"
	"nerdpad/internal/logging"
	"nerdpad/internal/types"
)

// CreateFile creates a file under parentPath. The name's extension must
// belong to the supported set; when language is empty it is derived from the
// extension, and an explicit language overrides inference but must itself be
// supported. Content is seeded from the language's default template and the
// file starts unsaved. Returns a snapshot of the new node.
func (s *Store) CreateFile(parentPath, name string, language types.Language) (types.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validName(name) {
		return types.Node{}, types.ErrInvalidName
	}

	parent, ok := s.resolve(parentPath)
	if !ok {
		return types.Node{}, fmt.Errorf("create %q: %w", parentPath, types.ErrNotFound)
	}
	if parent.kind != types.KindFolder {
		return types.Node{}, fmt.Errorf("create %q: %w", parentPath, types.ErrNotAFolder)
	}
	if s.hasChildNamed(parent, name, "") {
		return types.Node{}, fmt.Errorf("create %q: %w", name, types.ErrCollision)
	}

	// An explicit language never licenses an extension outside the
	// supported set.
	if !lang.Recognized(name) {
		return types.Node{}, fmt.Errorf("create %q: %w", name, types.ErrUnsupportedExtension)
	}
	if language == "" {
		language = lang.Infer(name)
	} else if !language.Valid() {
		return types.Node{}, fmt.Errorf("create %q: %w", name, types.ErrUnsupportedExtension)
	}

	f := s.newNode(types.KindFile, name, parent.id)
	f.language = language
	f.content = lang.Template(language)
	f.saved = false
	s.attach(parent, f)
	s.persistLocked()

	logging.Workspace("Created file %s (%s)", f.path, language)
	return snapshot(f), nil
}

// CreateFolder creates an empty folder under parentPath with the same
// collision and not-found rules as CreateFile.
func (s *Store) CreateFolder(parentPath, name string) (types.Node, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !validName(name) {
		return types.Node{}, types.ErrInvalidName
	}

	parent, ok := s.resolve(parentPath)
	if !ok {
		return types.Node{}, fmt.Errorf("create %q: %w", parentPath, types.ErrNotFound)
	}
	if parent.kind != types.KindFolder {
		return types.Node{}, fmt.Errorf("create %q: %w", parentPath, types.ErrNotAFolder)
	}
	if s.hasChildNamed(parent, name, "") {
		return types.Node{}, fmt.Errorf("create %q: %w", name, types.ErrCollision)
	}

	d := s.newNode(types.KindFolder, name, parent.id)
	s.attach(parent, d)
	s.persistLocked()

	logging.Workspace("Created folder %s", d.path)
	return snapshot(d), nil
}

// WriteFile replaces a file's content and marks it saved. Returns false when
// the path does not resolve to a file.
func (s *Store) WriteFile(path, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.resolve(path)
	if !ok || n.kind != types.KindFile {
		return false
	}
	n.content = content
	n.saved = true
	s.persistLocked()

	logging.WorkspaceDebug("Wrote %s (%d bytes)", n.path, len(content))
	return true
}

// MarkUnsaved flags a file as dirty without touching content; used when the
// editing surface diverges from the last explicit save.
func (s *Store) MarkUnsaved(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.resolve(path)
	if !ok || n.kind != types.KindFile {
		return false
	}
	n.saved = false
	s.persistLocked()
	return true
}

// Rename changes a node's name, recomputes its path and every descendant's,
// and re-derives a file's language from the new extension. Renaming to the
// current name is a no-op. A failed rename leaves the tree unchanged.
func (s *Store) Rename(path, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.resolve(path)
	if !ok {
		return fmt.Errorf("rename %q: %w", path, types.ErrNotFound)
	}
	if n.id == s.rootID {
		return types.ErrRootImmutable
	}
	if !validName(newName) {
		return types.ErrInvalidName
	}
	if newName == n.name {
		return nil
	}

	parent := s.nodes[n.parentID]
	if s.hasChildNamed(parent, newName, n.id) {
		return fmt.Errorf("rename to %q: %w", newName, types.ErrCollision)
	}

	oldPath := n.path
	n.name = newName
	if n.kind == types.KindFile {
		n.language = lang.Infer(newName)
	}
	s.recomputePaths(n)
	s.persistLocked()

	logging.Workspace("Renamed %s -> %s", oldPath, n.path)
	return nil
}

// Move reparents a node under newParentPath, applying the same collision
// rules as creation and cascading path recomputation through descendants.
// Moving a folder into itself or one of its descendants is rejected.
func (s *Store) Move(path, newParentPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.resolve(path)
	if !ok {
		return fmt.Errorf("move %q: %w", path, types.ErrNotFound)
	}
	if n.id == s.rootID {
		return types.ErrRootImmutable
	}

	target, ok := s.resolve(newParentPath)
	if !ok {
		return fmt.Errorf("move to %q: %w", newParentPath, types.ErrNotFound)
	}
	if target.kind != types.KindFolder {
		return fmt.Errorf("move to %q: %w", newParentPath, types.ErrNotAFolder)
	}
	if target.id == n.parentID {
		return nil
	}
	// Walking up from the target must not pass through the moved node.
	for p := target; p != nil; p = s.nodes[p.parentID] {
		if p.id == n.id {
			return types.ErrInvalidMove
		}
	}
	if s.hasChildNamed(target, n.name, "") {
		return fmt.Errorf("move %q: %w", n.name, types.ErrCollision)
	}

	oldPath := n.path
	s.detach(n)
	n.parentID = target.id
	target.children = append(target.children, n.id)
	s.recomputePaths(n)
	s.persistLocked()

	logging.Workspace("Moved %s -> %s", oldPath, n.path)
	return nil
}

// Delete removes the node at path; for a folder the entire subtree goes with
// it. Returns false for the root or an unresolvable path.
func (s *Store) Delete(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.resolve(path)
	if !ok || n.id == s.rootID {
		return false
	}

	s.detach(n)
	s.removeSubtree(n)
	s.persistLocked()

	logging.Workspace("Deleted %s", n.path)
	return true
}

// ResetFile restores a file's content to its language's default template and
// marks it unsaved. Returns false when the path does not resolve to a file.
func (s *Store) ResetFile(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.resolve(path)
	if !ok || n.kind != types.KindFile {
		return false
	}
	n.content = lang.Template(n.language)
	n.saved = false
	s.persistLocked()

	logging.Workspace("Reset %s to default template", n.path)
	return true
}
