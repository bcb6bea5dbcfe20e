package exec

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"nerdpad/internal/config"
	"nerdpad/internal/types"
)

func newTestRemote(t *testing.T, handler http.HandlerFunc) (*RemoteClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig().Execution
	cfg.RemoteURL = srv.URL
	return NewRemoteClient(cfg, 5*time.Second), srv
}

func pistonResponse(t *testing.T, w http.ResponseWriter, body string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write([]byte(body)); err != nil {
		t.Errorf("write response: %v", err)
	}
}

func TestRemoteExecuteSuccess(t *testing.T) {
	var gotReq remoteRequest
	client, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		pistonResponse(t, w, `{"run":{"stdout":"Hello, World!\n","stderr":"","code":0}}`)
	})

	res := client.Execute(context.Background(), types.LangPython, `print("Hello, World!")`, "")
	if !res.Success {
		t.Fatalf("Execute failed: %+v", res)
	}
	if res.Output != "Hello, World!\n" {
		t.Errorf("Output = %q", res.Output)
	}

	if gotReq.Language != "python" {
		t.Errorf("request language = %q", gotReq.Language)
	}
	if gotReq.Version != "*" {
		t.Errorf("request version = %q", gotReq.Version)
	}
	if len(gotReq.Files) != 1 || gotReq.Files[0].Name != "main.py" {
		t.Errorf("request files = %+v", gotReq.Files)
	}
}

func TestRemoteLanguageMapping(t *testing.T) {
	var gotReq remoteRequest
	client, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		pistonResponse(t, w, `{"run":{"stdout":"","stderr":"","code":0}}`)
	})

	client.Execute(context.Background(), types.LangCPP, "int main() {}", "")
	if gotReq.Language != "c++" {
		t.Errorf("cpp should map to %q, got %q", "c++", gotReq.Language)
	}
	if len(gotReq.Files) != 1 || gotReq.Files[0].Name != "main.cpp" {
		t.Errorf("request files = %+v", gotReq.Files)
	}
}

func TestRemoteStdinForwarded(t *testing.T) {
	var gotReq remoteRequest
	client, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotReq)
		pistonResponse(t, w, `{"run":{"stdout":"42\n","stderr":"","code":0}}`)
	})

	client.Execute(context.Background(), types.LangPython, "print(input())", "42\n")
	if gotReq.Stdin != "42\n" {
		t.Errorf("request stdin = %q", gotReq.Stdin)
	}
}

func TestRemoteCompileError(t *testing.T) {
	client, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		pistonResponse(t, w, `{
			"compile":{"stdout":"","stderr":"/piston/jobs/abc/main.cpp:2:5: error: expected &#39;;&#39;","code":1},
			"run":{"stdout":"","stderr":"","code":0}
		}`)
	})

	res := client.Execute(context.Background(), types.LangCPP, "int main() { return 0 }", "")
	if res.Success {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(res.Output, "Compilation Error:\n") {
		t.Errorf("Output = %q, want Compilation Error prefix", res.Output)
	}
	// Diagnostics come back sanitized: provider paths gone, entities decoded.
	if strings.Contains(res.Output, "/piston/") {
		t.Errorf("provider path leaked: %q", res.Output)
	}
	if !strings.Contains(res.Output, "expected ';'") {
		t.Errorf("entities not decoded: %q", res.Output)
	}
}

func TestRemoteRuntimeError(t *testing.T) {
	client, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		pistonResponse(t, w, `{"run":{"stdout":"partial\n","stderr":"Traceback: ZeroDivisionError","code":1}}`)
	})

	res := client.Execute(context.Background(), types.LangPython, "1/0", "")
	if res.Success {
		t.Fatal("expected failure")
	}
	// Pre-fault stdout is kept ahead of the diagnostics.
	if !strings.HasPrefix(res.Output, "partial\n") {
		t.Errorf("Output = %q, want stdout retained first", res.Output)
	}
	if !strings.Contains(res.Output, "ZeroDivisionError") {
		t.Errorf("Output = %q, want stderr diagnostics", res.Output)
	}
	if res.Error != "runtime error" {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestRemoteNonZeroExit(t *testing.T) {
	client, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		pistonResponse(t, w, `{"run":{"stdout":"done\n","stderr":"","code":3}}`)
	})

	res := client.Execute(context.Background(), types.LangC, "int main() { return 3; }", "")
	if res.Success {
		t.Fatal("expected failure")
	}
	if res.Output != "done\n" {
		t.Errorf("Output = %q", res.Output)
	}
	if !strings.Contains(res.Error, "exited with code 3") {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestRemoteTransportFailures(t *testing.T) {
	const friendly = "Execution failed: could not reach the execution service. Please try again."

	t.Run("server error status", func(t *testing.T) {
		client, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "overloaded", http.StatusTooManyRequests)
		})
		res := client.Execute(context.Background(), types.LangPython, "print(1)", "")
		if res.Success || res.Output != friendly {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		client, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>gateway timeout</html>"))
		})
		res := client.Execute(context.Background(), types.LangPython, "print(1)", "")
		if res.Success || res.Output != friendly {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("missing run phase", func(t *testing.T) {
		client, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
			pistonResponse(t, w, `{"message":"runtime unavailable"}`)
		})
		res := client.Execute(context.Background(), types.LangPython, "print(1)", "")
		if res.Success || res.Output != friendly {
			t.Errorf("result = %+v", res)
		}
		if !strings.Contains(res.Error, "runtime unavailable") {
			t.Errorf("Error = %q, want provider message", res.Error)
		}
	})

	t.Run("unreachable service", func(t *testing.T) {
		cfg := config.DefaultConfig().Execution
		cfg.RemoteURL = "http://127.0.0.1:1/execute"
		client := NewRemoteClient(cfg, time.Second)
		res := client.Execute(context.Background(), types.LangPython, "print(1)", "")
		if res.Success || res.Output != friendly {
			t.Errorf("result = %+v", res)
		}
	})
}

func TestRemoteStdoutEntitiesDecoded(t *testing.T) {
	client, _ := newTestRemote(t, func(w http.ResponseWriter, r *http.Request) {
		pistonResponse(t, w, `{"run":{"stdout":"a &lt; b\n","stderr":"","code":0}}`)
	})

	res := client.Execute(context.Background(), types.LangPython, `print("a < b")`, "")
	if !res.Success {
		t.Fatalf("Execute failed: %+v", res)
	}
	if res.Output != "a < b\n" {
		t.Errorf("Output = %q", res.Output)
	}
}
