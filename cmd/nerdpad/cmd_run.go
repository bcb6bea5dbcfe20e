package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nerdpad/internal/types"
)

var (
	runStdinFile string
	runCached    bool
	historyLimit int
)

var runCmd = &cobra.Command{
	Use:   "run [path]",
	Short: "Execute a file and print the result",
	Long: `Executes the file at the given workspace path. JavaScript runs in a
sandboxed in-process interpreter; c, cpp, java and python are sent to the
remote execution service. With no path, the active tab is run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		var file types.Node
		if len(args) == 1 {
			n, ok := a.ws.ReadFile(args[0])
			if !ok {
				return fmt.Errorf("run %s: %w", args[0], types.ErrNotFound)
			}
			file = n
		} else {
			tab, ok := a.sess.Active()
			if !ok {
				return fmt.Errorf("no active tab; pass a path")
			}
			n, ok := a.ws.FindByID(tab.FileID)
			if !ok {
				return fmt.Errorf("active tab is stale: %w", types.ErrNotFound)
			}
			file = n
		}

		if runCached {
			if out, ok := a.gw.CachedOutput(file.Path); ok {
				fmt.Print(out)
				return nil
			}
			return fmt.Errorf("no cached output for %s", file.Path)
		}

		var stdin string
		if runStdinFile != "" {
			data, err := os.ReadFile(runStdinFile)
			if err != nil {
				return fmt.Errorf("failed to read stdin file: %w", err)
			}
			stdin = string(data)
		}

		logger.Debug("executing file",
			zap.String("path", file.Path),
			zap.String("language", string(file.Language)))

		start := time.Now()
		res := a.gw.RunFile(cmd.Context(), file, stdin)
		elapsed := time.Since(start).Round(time.Millisecond)

		fmt.Print(res.Output)
		if res.Output != "" && res.Output[len(res.Output)-1] != '\n' {
			fmt.Println()
		}
		if res.Success {
			fmt.Printf("\n[done in %v]\n", elapsed)
			return nil
		}
		if res.Error != "" {
			fmt.Fprintf(os.Stderr, "\n%s\n", res.Error)
		}
		fmt.Printf("\n[failed in %v]\n", elapsed)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent execution runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		runs, err := a.hist.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}
		for _, r := range runs {
			status := "ok"
			if !r.Success {
				status = "FAIL"
			}
			fmt.Printf("%s  %-4s  %-10s  %6v  %s\n",
				r.CreatedAt.Format("2006-01-02 15:04:05"), status, r.Language, r.Duration, r.Path)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-language execution statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.close()

		stats, err := a.hist.LanguageStats()
		if err != nil {
			return err
		}
		if len(stats) == 0 {
			fmt.Println("no runs recorded")
			return nil
		}
		fmt.Printf("%-12s %6s %9s\n", "language", "runs", "failures")
		for _, st := range stats {
			fmt.Printf("%-12s %6d %9d\n", st.Language, st.Runs, st.Failures)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runStdinFile, "stdin-file", "", "file to feed the program as stdin")
	runCmd.Flags().BoolVar(&runCached, "cached", false, "print the last recorded output instead of running")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "number of runs to show")
}
