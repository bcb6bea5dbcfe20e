package exec

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"nerdpad/internal/config"
	"nerdpad/internal/lang"
	"nerdpad/internal/logging"
	"nerdpad/internal/types"
)

// RemoteClient talks to a Piston-shaped execution service: one POST per run,
// compile and run phases reported separately. There is no retry; transport
// faults surface as a failed result upstream.
type RemoteClient struct {
	url    string
	cfg    config.ExecutionConfig
	client *http.Client
}

// NewRemoteClient builds a client from the execution config.
func NewRemoteClient(cfg config.ExecutionConfig, timeout time.Duration) *RemoteClient {
	return &RemoteClient{
		url:    cfg.RemoteURL,
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

// remoteFile is one named source file in the request payload.
type remoteFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// remoteRequest is the provider's execute payload.
type remoteRequest struct {
	Language           string       `json:"language"`
	Version            string       `json:"version"`
	Files              []remoteFile `json:"files"`
	Stdin              string       `json:"stdin"`
	CompileTimeout     int          `json:"compile_timeout"`
	RunTimeout         int          `json:"run_timeout"`
	CompileMemoryLimit int64        `json:"compile_memory_limit"`
	RunMemoryLimit     int64        `json:"run_memory_limit"`
}

// phase is the consumed subset of a compile or run phase report.
type phase struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Code   int    `json:"code"`
}

// remoteResponse is the consumed subset of the provider response.
type remoteResponse struct {
	Compile *phase `json:"compile"`
	Run     *phase `json:"run"`
	Message string `json:"message"`
}

// providerLanguage remaps our language tags to the provider's identifiers.
func providerLanguage(l types.Language) string {
	if l == types.LangCPP {
		return "c++"
	}
	return string(l)
}

// Execute submits code+stdin and normalizes the provider's two-phase report:
// a compile-phase stderr is a Compilation Error and the run phase is not
// consulted; otherwise run stdout is the output and a non-empty run stderr
// or non-zero exit marks failure.
func (c *RemoteClient) Execute(ctx context.Context, language types.Language, code, stdin string) types.ExecutionResult {
	payload := remoteRequest{
		Language:           providerLanguage(language),
		Version:            "*",
		Files:              []remoteFile{{Name: lang.FileName(language), Content: code}},
		Stdin:              stdin,
		CompileTimeout:     c.cfg.CompileTimeoutMS,
		RunTimeout:         c.cfg.RunTimeoutMS,
		CompileMemoryLimit: c.cfg.CompileMemoryLimit,
		RunMemoryLimit:     c.cfg.RunMemoryLimit,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return transportFailure(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return transportFailure(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		logging.Get(logging.CategoryExec).Error("Remote execution request failed: %v", err)
		return transportFailure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Get(logging.CategoryExec).Error("Remote execution status %d", resp.StatusCode)
		return transportFailure(fmt.Errorf("execution service returned status %d", resp.StatusCode))
	}

	var rr remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&rr); err != nil {
		return transportFailure(fmt.Errorf("failed to decode execution response: %w", err))
	}

	return normalize(rr)
}

// normalize turns the provider report into the uniform result shape.
func normalize(rr remoteResponse) types.ExecutionResult {
	if rr.Compile != nil && strings.TrimSpace(rr.Compile.Stderr) != "" {
		return types.ExecutionResult{
			Output:  "Compilation Error:\n" + Sanitize(rr.Compile.Stderr),
			Success: false,
			Error:   "compilation failed",
		}
	}

	if rr.Run == nil {
		msg := rr.Message
		if msg == "" {
			msg = "execution service returned no run phase"
		}
		return transportFailure(fmt.Errorf("%s", msg))
	}

	stdout := DecodeEntities(rr.Run.Stdout)
	if strings.TrimSpace(rr.Run.Stderr) != "" {
		output := stdout
		diagnostics := Sanitize(rr.Run.Stderr)
		if output != "" && !strings.HasSuffix(output, "\n") {
			output += "\n"
		}
		output += diagnostics
		return types.ExecutionResult{Output: output, Success: false, Error: "runtime error"}
	}
	if rr.Run.Code != 0 {
		return types.ExecutionResult{
			Output:  stdout,
			Success: false,
			Error:   fmt.Sprintf("process exited with code %d", rr.Run.Code),
		}
	}

	return types.ExecutionResult{Output: stdout, Success: true}
}

// transportFailure wraps network/service faults into the uniform failed
// shape; the caller never sees a raw error.
func transportFailure(err error) types.ExecutionResult {
	return types.ExecutionResult{
		Output:  "Execution failed: could not reach the execution service. Please try again.",
		Success: false,
		Error:   fmt.Sprintf("execution service error: %v", err),
	}
}
