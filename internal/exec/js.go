package exec

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"

	"nerdpad/internal/logging"
	"nerdpad/internal/types"
)

// jsRunner evaluates JavaScript in-process with a sandboxed goja interpreter.
// Each run gets a fresh VM: no host symbols are exposed beyond a console
// whose output is captured into a buffer, so submitted code cannot touch the
// filesystem, network or process. Faults are caught, rewritten into
// human-friendly messages, and returned as a failed result; the capture
// buffer is returned regardless of outcome.
type jsRunner struct {
	timeout time.Duration
}

func newJSRunner(timeout time.Duration) *jsRunner {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &jsRunner{timeout: timeout}
}

// Run evaluates code and returns the normalized result. Never panics and
// never returns an error: every fault becomes a well-formed failed result.
func (r *jsRunner) Run(ctx context.Context, code string) types.ExecutionResult {
	timer := logging.StartTimer(logging.CategoryExec, "js run")
	defer timer.Stop()

	var buf strings.Builder
	vm := goja.New()
	if err := installConsole(vm, &buf); err != nil {
		return types.ExecutionResult{Success: false, Error: fmt.Sprintf("failed to prepare interpreter: %v", err)}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				done <- fmt.Errorf("interpreter fault: %v", rec)
			}
		}()
		_, err := vm.RunString(code)
		done <- err
	}()

	var runErr error
	select {
	case runErr = <-done:
	case <-ctx.Done():
		vm.Interrupt("execution timed out")
		runErr = <-done
	}

	output := buf.String()
	if runErr == nil {
		return types.ExecutionResult{Output: output, Success: true}
	}

	friendly := explainJSError(runErr, r.timeout)
	logging.ExecDebug("js run failed: %v", runErr)
	return types.ExecutionResult{Output: output, Success: false, Error: friendly}
}

// installConsole exposes console.log/info/warn/error, all writing lines into
// buf the way a browser console panel would show them.
func installConsole(vm *goja.Runtime, buf *strings.Builder) error {
	console := vm.NewObject()
	write := func(call goja.FunctionCall) goja.Value {
		parts := make([]string, 0, len(call.Arguments))
		for _, a := range call.Arguments {
			parts = append(parts, a.String())
		}
		buf.WriteString(strings.Join(parts, " "))
		buf.WriteString("\n")
		return goja.Undefined()
	}
	for _, name := range []string{"log", "info", "warn", "error"} {
		if err := console.Set(name, write); err != nil {
			return err
		}
	}
	return vm.Set("console", console)
}

// explainJSError rewrites common interpreter faults into messages a beginner
// can act on. Unmatched faults pass through with their location noise
// stripped.
func explainJSError(err error, timeout time.Duration) string {
	if _, ok := err.(*goja.InterruptedError); ok {
		return fmt.Sprintf("Execution timed out after %v. Check for infinite loops.", timeout)
	}

	msg := err.Error()
	if exc, ok := err.(*goja.Exception); ok {
		msg = exc.Value().String()
	}
	msg = stripJSLocation(msg)

	switch {
	case strings.Contains(msg, "is not defined"):
		return msg + ". Check that the variable or function is declared before it is used."
	case strings.Contains(msg, "is not a function"):
		return msg + ". Check the spelling and that the value really is a function."
	case strings.Contains(msg, "Unexpected token"), strings.Contains(msg, "Unexpected end of input"):
		return "Syntax Error: " + msg
	case strings.Contains(msg, "Maximum call stack"), strings.Contains(msg, "stack overflow"):
		return msg + ". A function is probably calling itself without a base case."
	}
	return msg
}

// stripJSLocation removes goja's " at <eval>:1:5(3)" style location suffix.
func stripJSLocation(msg string) string {
	if i := strings.Index(msg, " at <"); i > 0 {
		return msg[:i]
	}
	if i := strings.Index(msg, "\n"); i > 0 {
		return msg[:i]
	}
	return msg
}
