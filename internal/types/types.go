// Package types defines the shared data model for the nerdpad workspace:
// the File/Folder node union, the supported language set, tab and layout
// session state, and execution results. It has no dependencies so every
// other package can import it freely.
package types

// Kind discriminates the two node variants of the workspace tree.
// There is deliberately no third case; every consumer switches exhaustively.
type Kind int

const (
	KindFile Kind = iota
	KindFolder
)

func (k Kind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "file"
}

// Language is one of the closed set of languages nerdpad can execute.
type Language string

const (
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangJava       Language = "java"
	LangJavaScript Language = "javascript"
	LangPython     Language = "python"
)

// Languages lists the supported set in display order.
var Languages = []Language{LangC, LangCPP, LangJava, LangJavaScript, LangPython}

// Valid reports whether l is a member of the supported set.
func (l Language) Valid() bool {
	switch l {
	case LangC, LangCPP, LangJava, LangJavaScript, LangPython:
		return true
	}
	return false
}

// Node is a value snapshot of one workspace tree entry. The workspace store
// owns the live tree; everything it hands out is a copy, so holding a Node
// across a rename or delete never observes stale paths.
type Node struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
	Path string `json:"path"`

	// File fields. Zero-valued on folders.
	Language Language `json:"language,omitempty"`
	Content  string   `json:"content,omitempty"`
	Saved    bool     `json:"isSaved,omitempty"`
}

// IsFile reports whether the node is a file.
func (n Node) IsFile() bool { return n.Kind == KindFile }

// IsFolder reports whether the node is a folder.
func (n Node) IsFolder() bool { return n.Kind == KindFolder }

// Tab records that a file is open in the editing surface. Tabs reference
// files by id so they survive renames; the path is refreshed from the live
// node whenever the tab is activated.
type Tab struct {
	FileID   string `json:"fileId"`
	FilePath string `json:"filePath"`
}

// Layout holds panel metrics as percentages of the viewport so they scale
// across window-size changes.
type Layout struct {
	ExplorerWidthPct float64 `json:"explorerWidthPct"`
	EditorHeightPct  float64 `json:"editorHeightPct"`
}

// ExecutionResult is the gateway's normalized response shape. It is
// transient: cached per file path at best effort, never part of the tree.
type ExecutionResult struct {
	Output  string `json:"output"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
