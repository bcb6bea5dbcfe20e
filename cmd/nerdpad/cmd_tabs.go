package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nerdpad/internal/types"
)

var tabsCmd = &cobra.Command{
	Use:   "tabs",
	Short: "Manage open tabs",
}

var tabsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open tabs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		active, _ := a.sess.Active()
		tabs := a.sess.Tabs()
		if len(tabs) == 0 {
			fmt.Println("no open tabs")
			return nil
		}
		for _, t := range tabs {
			marker := " "
			if t.FileID == active.FileID {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, t.FilePath)
		}
		return nil
	},
}

var tabsOpenCmd = &cobra.Command{
	Use:   "open [path]",
	Short: "Open a file in a tab and make it active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		if !a.sess.Open(args[0]) {
			return fmt.Errorf("open %s: %w", args[0], types.ErrNotFound)
		}
		fmt.Printf("opened %s\n", args[0])
		return nil
	},
}

var tabsCloseCmd = &cobra.Command{
	Use:   "close [path]",
	Short: "Close the tab for a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		n, ok := a.ws.ReadFile(args[0])
		if !ok {
			// The file may have been deleted; fall back to matching the
			// recorded tab path.
			for _, t := range a.sess.Tabs() {
				if t.FilePath == args[0] {
					a.sess.Close(t.FileID)
					fmt.Printf("closed %s\n", args[0])
					return nil
				}
			}
			return fmt.Errorf("close %s: %w", args[0], types.ErrNotFound)
		}
		if !a.sess.Close(n.ID) {
			return fmt.Errorf("no tab open for %s", args[0])
		}
		fmt.Printf("closed %s\n", args[0])
		return nil
	},
}

func init() {
	tabsCmd.AddCommand(tabsListCmd)
	tabsCmd.AddCommand(tabsOpenCmd)
	tabsCmd.AddCommand(tabsCloseCmd)
}
