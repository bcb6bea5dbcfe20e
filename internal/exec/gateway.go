// Package exec implements the execution gateway: given a language, source
// code and optional stdin it produces a uniform { output, success, error }
// result. JavaScript is evaluated in-process by a sandboxed interpreter;
// every other supported language is delegated to a remote execution service.
// The gateway never returns a raw error: all faults, including transport
// failures, arrive as a well-formed failed result.
package exec

import (
	"context"
	"time"

	"nerdpad/internal/config"
	"nerdpad/internal/kv"
	"nerdpad/internal/logging"
	"nerdpad/internal/types"
)

// Request is one execution order.
type Request struct {
	Language types.Language
	Code     string
	Stdin    string
}

// Recorder receives a record of every completed run. The history store
// implements it; a nil Recorder disables recording.
type Recorder interface {
	RecordRun(path string, language types.Language, success bool, duration time.Duration) error
}

// Gateway routes execution requests to the right backend.
type Gateway struct {
	js       *jsRunner
	remote   *RemoteClient
	cache    *OutputCache
	recorder Recorder
}

// New wires a gateway from config. store backs the per-file output cache;
// recorder may be nil.
func New(cfg *config.Config, store kv.Store, recorder Recorder) *Gateway {
	return &Gateway{
		js:       newJSRunner(cfg.JSTimeoutDuration()),
		remote:   NewRemoteClient(cfg.Execution, cfg.HTTPTimeoutDuration()),
		cache:    NewOutputCache(store),
		recorder: recorder,
	}
}

// Execute runs one request. Callers issue at most one execution at a time
// per user trigger; the gateway itself is stateless per call.
func (g *Gateway) Execute(ctx context.Context, req Request) types.ExecutionResult {
	timer := logging.StartTimer(logging.CategoryExec, "execute "+string(req.Language))
	defer timer.Stop()

	if !req.Language.Valid() {
		return types.ExecutionResult{
			Output:  "Unsupported language: " + string(req.Language),
			Success: false,
			Error:   "unsupported language",
		}
	}

	if req.Language == types.LangJavaScript {
		return g.js.Run(ctx, req.Code)
	}
	return g.remote.Execute(ctx, req.Language, req.Code, req.Stdin)
}

// RunFile executes a file node: its language and content form the request,
// the result is cached under the file's path, and the run is recorded in the
// history store when one is attached.
func (g *Gateway) RunFile(ctx context.Context, file types.Node, stdin string) types.ExecutionResult {
	start := time.Now()
	res := g.Execute(ctx, Request{Language: file.Language, Code: file.Content, Stdin: stdin})

	g.cache.Put(file.Path, res.Output)
	if g.recorder != nil {
		if err := g.recorder.RecordRun(file.Path, file.Language, res.Success, time.Since(start)); err != nil {
			logging.Get(logging.CategoryExec).Warn("Failed to record run: %v", err)
		}
	}

	logging.Exec("Ran %s (%s): success=%v", file.Path, file.Language, res.Success)
	return res
}

// CachedOutput returns the last output recorded for a file path.
func (g *Gateway) CachedOutput(path string) (string, bool) {
	return g.cache.Get(path)
}

// ForgetOutput drops the cached output for a deleted file.
func (g *Gateway) ForgetOutput(path string) {
	g.cache.Drop(path)
}
