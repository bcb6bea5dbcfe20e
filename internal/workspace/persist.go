package workspace

import (
	"encoding/json"
	"fmt"

	"nerdpad/internal/types"
)

// persistedNode is the wire shape of one tree entry. The whole tree nests
// under a single root, matching the { root: Folder } key-value contract.
type persistedNode struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"` // "file" | "folder"
	Name     string          `json:"name"`
	Path     string          `json:"path"`
	Language types.Language  `json:"language,omitempty"`
	Content  string          `json:"content,omitempty"`
	IsSaved  bool            `json:"isSaved,omitempty"`
	Children []persistedNode `json:"children,omitempty"`
}

type persistedTree struct {
	Root persistedNode `json:"root"`
}

// encodeTree marshals the arena into the nested persisted form. Caller holds
// the lock.
func (s *Store) encodeTree() (string, error) {
	root := s.nodes[s.rootID]
	if root == nil {
		return "", fmt.Errorf("workspace has no root")
	}
	data, err := json.Marshal(persistedTree{Root: s.encodeNode(root)})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Store) encodeNode(n *node) persistedNode {
	pn := persistedNode{
		ID:       n.id,
		Type:     n.kind.String(),
		Name:     n.name,
		Path:     n.path,
		Language: n.language,
		Content:  n.content,
		IsSaved:  n.saved,
	}
	if n.kind == types.KindFolder {
		pn.Children = make([]persistedNode, 0, len(n.children))
		for _, cid := range n.children {
			if c := s.nodes[cid]; c != nil {
				pn.Children = append(pn.Children, s.encodeNode(c))
			}
		}
	}
	return pn
}

// loadTree rebuilds the arena from persisted JSON. Any structural defect
// (bad JSON, missing ids, duplicate paths, file root) is an error; the
// caller treats every error as "absent" and reseeds. Stored paths are not
// trusted: they are recomputed from structure so the path invariant holds
// even over data written by older builds.
func (s *Store) loadTree(raw string) error {
	var pt persistedTree
	if err := json.Unmarshal([]byte(raw), &pt); err != nil {
		return fmt.Errorf("failed to parse workspace: %w", err)
	}
	if pt.Root.Type != "folder" {
		return fmt.Errorf("workspace root is not a folder")
	}

	nodes := make(map[string]*node)
	byPath := make(map[string]string)

	root, err := decodeNode(pt.Root, "", "/", nodes, byPath)
	if err != nil {
		return err
	}
	root.name = "/"
	root.path = "/"

	s.nodes = nodes
	s.byPath = byPath
	s.rootID = root.id
	return nil
}

func decodeNode(pn persistedNode, parentID, path string, nodes map[string]*node, byPath map[string]string) (*node, error) {
	if pn.ID == "" {
		return nil, fmt.Errorf("node %q has no id", pn.Name)
	}
	if _, dup := nodes[pn.ID]; dup {
		return nil, fmt.Errorf("duplicate node id %s", pn.ID)
	}
	if parentID != "" && !validName(pn.Name) {
		return nil, fmt.Errorf("node %s has invalid name %q", pn.ID, pn.Name)
	}
	if _, dup := byPath[path]; dup {
		return nil, fmt.Errorf("duplicate path %s", path)
	}

	n := &node{
		id:       pn.ID,
		name:     pn.Name,
		path:     path,
		parentID: parentID,
	}
	switch pn.Type {
	case "folder":
		n.kind = types.KindFolder
	case "file":
		n.kind = types.KindFile
		n.language = pn.Language
		n.content = pn.Content
		n.saved = pn.IsSaved
		if len(pn.Children) > 0 {
			return nil, fmt.Errorf("file %s has children", path)
		}
	default:
		return nil, fmt.Errorf("node %s has unknown type %q", path, pn.Type)
	}

	nodes[n.id] = n
	byPath[path] = n.id

	for _, pc := range pn.Children {
		child, err := decodeNode(pc, n.id, childPath(path, pc.Name), nodes, byPath)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child.id)
	}
	return n, nil
}
