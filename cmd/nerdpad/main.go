package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"nerdpad/internal/config"
	"nerdpad/internal/exec"
	"nerdpad/internal/history"
	"nerdpad/internal/kv"
	"nerdpad/internal/logging"
	"nerdpad/internal/session"
	"nerdpad/internal/workspace"
)

var (
	// Global flags
	verbose    bool
	stateDir   string
	configPath string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nerdpad",
	Short: "nerdpad - in-memory code workspace with remote execution",
	Long: `nerdpad is a virtual code workspace: files and folders live in an
in-memory tree persisted to a local key-value store, and the active file can
be executed in c, cpp, java, javascript or python.

JavaScript runs in-process in a sandboxed interpreter; everything else is
delegated to a remote execution service.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
}

// app bundles the wired subsystems for one command invocation.
type app struct {
	cfg  *config.Config
	kv   kv.Store
	ws   *workspace.Store
	sess *session.Session
	hist *history.Store
	gw   *exec.Gateway
}

// openApp loads config, initializes logging and opens every store. The
// construction order matters: kv before workspace, workspace before session.
func openApp() (*app, error) {
	if stateDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		stateDir = filepath.Join(home, ".nerdpad")
	}

	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = filepath.Join(stateDir, "config.yaml")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	cfg.ResolveStorage(stateDir)

	if err := logging.Initialize(stateDir, logging.Options{
		Debug: cfg.Logging.Debug,
		Level: cfg.Logging.Level,
	}); err != nil {
		logger.Warn("debug logging unavailable", zap.Error(err))
	}

	store, err := kv.NewBoltStore(cfg.Storage.WorkspaceDB)
	if err != nil {
		return nil, err
	}

	hist, err := history.NewStore(cfg.Storage.HistoryDB)
	if err != nil {
		store.Close()
		return nil, err
	}

	ws := workspace.New(store)
	return &app{
		cfg:  cfg,
		kv:   store,
		ws:   ws,
		sess: session.New(store, ws),
		hist: hist,
		gw:   exec.New(cfg, store, hist),
	}, nil
}

func (a *app) close() {
	if err := a.hist.Close(); err != nil {
		logger.Warn("failed to close history store", zap.Error(err))
	}
	if err := a.kv.Close(); err != nil {
		logger.Warn("failed to close key-value store", zap.Error(err))
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state", "", "state directory (default ~/.nerdpad)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default <state>/config.yaml)")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tabsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
