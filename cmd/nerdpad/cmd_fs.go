package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"nerdpad/internal/lang"
	"nerdpad/internal/types"
)

var (
	newLanguage string
	newProblem  string
)

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the workspace tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		printTree(a, "/", 0)
		if a.ws.HasUnsavedChanges() {
			fmt.Println("\n* unsaved changes")
		}
		return nil
	},
}

func printTree(a *app, p string, depth int) {
	for _, n := range a.ws.List(p) {
		indent := strings.Repeat("  ", depth)
		switch n.Kind {
		case types.KindFolder:
			fmt.Printf("%s%s/\n", indent, n.Name)
			printTree(a, n.Path, depth+1)
		case types.KindFile:
			marker := ""
			if !n.Saved {
				marker = " *"
			}
			fmt.Printf("%s%s [%s]%s\n", indent, n.Name, n.Language, marker)
		}
	}
}

var newCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Create a file seeded with its language's template",
	Long: `Creates a file at the given workspace path. The language is inferred
from the extension unless --language is given. With --problem, starter code
for the named problem is fetched (remote template, then a generated skeleton,
then the generic boilerplate).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		parent, name := splitWorkspacePath(args[0])
		node, err := a.ws.CreateFile(parent, name, types.Language(newLanguage))
		if err != nil {
			return err
		}

		if newProblem != "" {
			provider := lang.NewStarterProvider(a.cfg.Templates.RemoteURL, a.cfg.TemplateTimeoutDuration())
			starter := provider.Starter(cmd.Context(), newProblem, node.Language)
			a.ws.WriteFile(node.Path, starter)
			a.ws.MarkUnsaved(node.Path)
		}

		fmt.Printf("created %s (%s)\n", node.Path, node.Language)
		return nil
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir [path]",
	Short: "Create a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		parent, name := splitWorkspacePath(args[0])
		node, err := a.ws.CreateFolder(parent, name)
		if err != nil {
			return err
		}
		fmt.Printf("created %s/\n", node.Path)
		return nil
	},
}

var catCmd = &cobra.Command{
	Use:   "cat [path]",
	Short: "Print a file's content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		n, ok := a.ws.ReadFile(args[0])
		if !ok {
			return fmt.Errorf("cat %s: %w", args[0], types.ErrNotFound)
		}
		fmt.Print(n.Content)
		if !strings.HasSuffix(n.Content, "\n") {
			fmt.Println()
		}
		return nil
	},
}

var writeCmd = &cobra.Command{
	Use:   "write [path] [source-file]",
	Short: "Replace a file's content and mark it saved",
	Long:  "Reads new content from source-file, or from stdin when omitted.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		var content []byte
		if len(args) == 2 {
			content, err = os.ReadFile(args[1])
		} else {
			content, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("failed to read content: %w", err)
		}

		if !a.ws.WriteFile(args[0], string(content)) {
			return fmt.Errorf("write %s: %w", args[0], types.ErrNotFound)
		}
		fmt.Printf("wrote %s (%d bytes)\n", args[0], len(content))
		return nil
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename [path] [new-name]",
	Short: "Rename a file or folder",
	Long: `Renames a node in place. Folder renames cascade to every descendant
path; file renames re-derive the language from the new extension.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.ws.Rename(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("renamed %s -> %s\n", args[0], args[1])
		return nil
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv [path] [new-parent]",
	Short: "Move a file or folder under another folder",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.ws.Move(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("moved %s -> %s\n", args[0], args[1])
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm [path]",
	Short: "Delete a file, or a folder and its whole subtree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		// Capture the subtree's file paths before they stop resolving so
		// every cached output can be dropped, not just the argument's.
		doomed := a.ws.FilesUnder(args[0])
		if !a.ws.Delete(args[0]) {
			return fmt.Errorf("rm %s: %w", args[0], types.ErrNotFound)
		}
		for _, f := range doomed {
			a.gw.ForgetOutput(f.Path)
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset [path]",
	Short: "Restore a file to its language's default template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if !a.ws.ResetFile(args[0]) {
			return fmt.Errorf("reset %s: %w", args[0], types.ErrNotFound)
		}
		fmt.Printf("reset %s\n", args[0])
		return nil
	},
}

// splitWorkspacePath splits an absolute workspace path into parent and base.
func splitWorkspacePath(p string) (parent, name string) {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	parent, name = path.Split(path.Clean(p))
	if parent != "/" {
		parent = strings.TrimSuffix(parent, "/")
	}
	return parent, name
}

func init() {
	newCmd.Flags().StringVar(&newLanguage, "language", "", "explicit language (c, cpp, java, javascript, python)")
	newCmd.Flags().StringVar(&newProblem, "problem", "", "seed content with starter code for a problem title")
}
